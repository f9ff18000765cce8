package d2diagram

import (
	"context"
	"fmt"

	"cdr.dev/slog"
	"go.uber.org/multierr"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/lib/go2"
	"oss.terrastruct.com/d2flow/lib/log"
)

// RequestDelete removes the node, link or group id once its deletion guard
// approves. It reports whether the entity was removed.
//
// A guard rejecting the deletion is not an error: false is returned and the
// diagram is left untouched. A guard error counts as a rejection and is
// returned. While a guard is deciding, further requests for the same entity
// fail with ErrDeletePending without asking again. A decision that resolves
// after Close or after ctx is done is discarded.
func (d *Diagram) RequestDelete(ctx context.Context, id string) (bool, error) {
	kind, ok := d.Kind(id)
	if !ok {
		return false, fmt.Errorf("failed to delete %q: %w", id, ErrNotFound)
	}
	switch kind {
	case NodeEntity:
		return d.RemoveNode(ctx, id)
	case LinkEntity:
		return d.RemoveLink(ctx, id)
	case GroupEntity:
		return d.RemoveGroup(ctx, id)
	}
	return false, fmt.Errorf("failed to delete %q: %vs cannot be deleted on their own", id, kind)
}

// RemoveNode removes the node, every link attached to it without asking their
// guards again, and detaches it from its group.
func (d *Diagram) RemoveNode(ctx context.Context, id string) (_ bool, err error) {
	defer xdefer.Errorf(&err, "failed to remove node %q", id)

	n, ok := d.nodes[id]
	if !ok {
		return false, ErrNotFound
	}
	ok, err = d.decide(ctx, id, NodeEntity, func(ctx context.Context) (bool, error) {
		return d.opts.Constraints.ShouldDeleteNode(ctx, n)
	})
	if !ok || err != nil {
		return false, err
	}
	if d.nodes[id] != n {
		return false, nil
	}
	d.removeNode(ctx, n)
	d.flush()
	return true, nil
}

func (d *Diagram) RemoveLink(ctx context.Context, id string) (_ bool, err error) {
	defer xdefer.Errorf(&err, "failed to remove link %q", id)

	l, ok := d.links[id]
	if !ok {
		return false, ErrNotFound
	}
	ok, err = d.decide(ctx, id, LinkEntity, func(ctx context.Context) (bool, error) {
		return d.opts.Constraints.ShouldDeleteLink(ctx, l)
	})
	if !ok || err != nil {
		return false, err
	}
	if d.links[id] != l {
		return false, nil
	}
	d.removeLink(l)
	d.flush()
	return true, nil
}

// RemoveGroup removes the group and leaves its children ungrouped.
func (d *Diagram) RemoveGroup(ctx context.Context, id string) (_ bool, err error) {
	defer xdefer.Errorf(&err, "failed to remove group %q", id)

	return d.removeGroupGuarded(ctx, id, false)
}

// RemoveGroupWithChildren removes the group with everything inside it. Only
// the group's guard is asked.
func (d *Diagram) RemoveGroupWithChildren(ctx context.Context, id string) (_ bool, err error) {
	defer xdefer.Errorf(&err, "failed to remove group %q with its children", id)

	return d.removeGroupGuarded(ctx, id, true)
}

func (d *Diagram) removeGroupGuarded(ctx context.Context, id string, withChildren bool) (bool, error) {
	g, ok := d.groups[id]
	if !ok {
		return false, ErrNotFound
	}
	ok, err := d.decide(ctx, id, GroupEntity, func(ctx context.Context) (bool, error) {
		return d.opts.Constraints.ShouldDeleteGroup(ctx, g)
	})
	if !ok || err != nil {
		return false, err
	}
	if d.groups[id] != g {
		return false, nil
	}
	if withChildren {
		d.removeGroupTree(ctx, g)
	} else {
		d.ungroup(g)
	}
	d.flush()
	return true, nil
}

// DeleteSelection requests the deletion of every selected entity, links first,
// then nodes, then groups. Locked nodes are skipped. It returns the IDs that
// were removed, including links removed along with their nodes.
func (d *Diagram) DeleteSelection(ctx context.Context) (removed []string, err error) {
	defer xdefer.Errorf(&err, "failed to delete selection")

	var links, nodes, groups []string
	for _, id := range d.selection {
		switch kind, _ := d.Kind(id); kind {
		case LinkEntity:
			links = append(links, id)
		case NodeEntity:
			if !d.nodes[id].Locked {
				nodes = append(nodes, id)
			}
		case GroupEntity:
			groups = append(groups, id)
		}
	}

	for _, ids := range [][]string{links, nodes, groups} {
		for _, id := range ids {
			if _, ok := d.Kind(id); !ok {
				// Already removed along with an earlier entity.
				continue
			}
			before := d.allIDs()
			ok, rerr := d.RequestDelete(ctx, id)
			if rerr != nil {
				err = multierr.Append(err, rerr)
				continue
			}
			if ok {
				removed = append(removed, d.missing(before)...)
			}
		}
	}
	return removed, err
}

func (d *Diagram) allIDs() []string {
	ids := make([]string, 0, len(d.nodes)+len(d.links)+len(d.groups))
	for id := range d.links {
		ids = append(ids, id)
	}
	for id := range d.nodes {
		ids = append(ids, id)
	}
	for id := range d.groups {
		ids = append(ids, id)
	}
	return sortedIDs(ids)
}

func (d *Diagram) missing(ids []string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := d.Kind(id); !ok {
			out = append(out, id)
		}
	}
	return out
}

// decide runs a deletion guard under the pending marker for id.
func (d *Diagram) decide(ctx context.Context, id string, kind EntityKind, guard func(context.Context) (bool, error)) (bool, error) {
	if d.closed.Load() {
		return false, ErrDiagramClosed
	}
	if _, ok := d.pending[id]; ok {
		DeleteDecisionsTotal.WithLabelValues(kind.String(), "pending").Inc()
		return false, ErrDeletePending
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	d.pending[id] = struct{}{}
	defer delete(d.pending, id)

	ok, err := guard(ctx)
	switch {
	case d.closed.Load():
		DeleteDecisionsTotal.WithLabelValues(kind.String(), "discarded").Inc()
		log.Debug(ctx, "deletion decision discarded, diagram closed", slog.F("id", id), slog.F("kind", kind.String()))
		return false, ErrDiagramClosed
	case ctx.Err() != nil:
		DeleteDecisionsTotal.WithLabelValues(kind.String(), "discarded").Inc()
		log.Debug(ctx, "deletion decision discarded", slog.F("id", id), slog.F("kind", kind.String()), slog.Error(ctx.Err()))
		return false, ctx.Err()
	case err != nil:
		DeleteDecisionsTotal.WithLabelValues(kind.String(), "error").Inc()
		log.Warn(ctx, "deletion guard failed", slog.F("id", id), slog.F("kind", kind.String()), slog.Error(err))
		return false, err
	case !ok:
		DeleteDecisionsTotal.WithLabelValues(kind.String(), "rejected").Inc()
		log.Debug(ctx, "deletion rejected", slog.F("id", id), slog.F("kind", kind.String()))
		return false, nil
	}
	DeleteDecisionsTotal.WithLabelValues(kind.String(), "approved").Inc()
	log.Debug(ctx, "deletion approved", slog.F("id", id), slog.F("kind", kind.String()))
	return true, nil
}

func (d *Diagram) removeNode(ctx context.Context, n *Node) {
	links := d.nodeLinks(n)
	if len(links) > 0 {
		log.Debug(ctx, "removing links along with node", slog.F("node", n.ID), slog.F("links", links))
	}
	for _, id := range links {
		d.removeLink(d.links[id])
	}

	if n.Group != "" {
		if g, ok := d.groups[n.Group]; ok {
			g.Children = go2.Remove(g.Children, n.ID)
			d.emit(Updated, GroupEntity, d.refreshGroupChain(g.ID)...)
		}
	}

	portIDs := make([]string, 0, len(n.Ports))
	for _, p := range n.Ports {
		delete(d.portNode, p.ID)
		delete(d.portLinks, p.ID)
		portIDs = append(portIDs, p.ID)
	}
	d.dropFromSelection(n.ID)
	delete(d.nodes, n.ID)
	d.emit(Removed, PortEntity, portIDs...)
	d.emit(Removed, NodeEntity, n.ID)
}

func (d *Diagram) removeLink(l *Link) {
	d.unindexLink(l)
	d.dropFromSelection(l.ID)
	delete(d.links, l.ID)
	d.emit(Removed, LinkEntity, l.ID)
}

// ungroup removes g and leaves its children without a group.
func (d *Diagram) ungroup(g *Group) {
	for _, c := range g.Children {
		d.setParent(c, "")
	}
	d.emitReparented(g.Children)
	d.detachGroup(g)
}

func (d *Diagram) removeGroupTree(ctx context.Context, g *Group) {
	for _, c := range append([]string(nil), g.Children...) {
		if n, ok := d.nodes[c]; ok {
			d.removeNode(ctx, n)
		} else if cg, ok := d.groups[c]; ok {
			d.removeGroupTree(ctx, cg)
		}
	}
	d.detachGroup(g)
}

func (d *Diagram) detachGroup(g *Group) {
	if p, ok := d.groups[g.Parent]; ok {
		p.Children = go2.Remove(p.Children, g.ID)
		d.emit(Updated, GroupEntity, d.refreshGroupChain(p.ID)...)
	}
	d.dropFromSelection(g.ID)
	delete(d.groups, g.ID)
	d.emit(Removed, GroupEntity, g.ID)
}

func (d *Diagram) dropFromSelection(id string) {
	if d.deselect(id) {
		d.emit(SelectionChanged, SelectionEntity, d.Selected()...)
	}
}
