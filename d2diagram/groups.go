package d2diagram

import (
	"context"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/lib/go2"
)

// AddToGroup moves the node or group childID into groupID.
func (d *Diagram) AddToGroup(groupID, childID string) (err error) {
	defer xdefer.Errorf(&err, "failed to add %q to group %q", childID, groupID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	g, ok := d.groups[groupID]
	if !ok {
		return &DanglingReferenceError{From: childID, To: groupID}
	}
	kind, ok := d.Kind(childID)
	if !ok || (kind != NodeEntity && kind != GroupEntity) {
		return &DanglingReferenceError{From: groupID, To: childID}
	}
	if childID == groupID || (kind == GroupEntity && d.isDescendant(groupID, childID)) {
		return &CyclicGroupError{Group: groupID, Child: childID}
	}
	old := d.parentOf(childID)
	if old == groupID {
		return nil
	}

	var updated []string
	if old != "" {
		d.groups[old].Children = go2.Remove(d.groups[old].Children, childID)
		updated = append(updated, d.refreshGroupChain(old)...)
	}
	g.Children = append(g.Children, childID)
	d.setParent(childID, groupID)
	updated = append(updated, d.refreshGroupChain(groupID)...)

	d.emit(Updated, kind, childID)
	d.emit(Updated, GroupEntity, dedupe(updated)...)
	d.flush()
	return nil
}

// RemoveFromGroup takes the node or group out of its group, if any.
func (d *Diagram) RemoveFromGroup(childID string) (err error) {
	defer xdefer.Errorf(&err, "failed to remove %q from its group", childID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	if _, ok := d.Kind(childID); !ok {
		return ErrNotFound
	}
	old := d.parentOf(childID)
	if old == "" {
		return nil
	}

	d.groups[old].Children = go2.Remove(d.groups[old].Children, childID)
	d.setParent(childID, "")
	d.emitReparented([]string{childID})
	d.emit(Updated, GroupEntity, d.refreshGroupChain(old)...)
	d.flush()
	return nil
}

// Group is the user facing way to create a group around children. It
// requires Groups.Enabled.
func (d *Diagram) Group(children ...string) (*Group, error) {
	if !d.opts.Groups.Enabled {
		return nil, ErrGroupsDisabled
	}
	return d.CreateGroup(children...)
}

// Ungroup is the user facing way to dissolve a group. The group's guard is
// asked first and the children are kept. It requires Groups.Enabled.
func (d *Diagram) Ungroup(ctx context.Context, groupID string) (bool, error) {
	if !d.opts.Groups.Enabled {
		return false, ErrGroupsDisabled
	}
	return d.RemoveGroup(ctx, groupID)
}
