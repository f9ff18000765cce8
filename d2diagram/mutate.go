package d2diagram

import (
	"fmt"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

// UpdateLinkEndpoint points one side of the link somewhere else and
// recomputes that link only.
func (d *Diagram) UpdateLinkEndpoint(linkID string, side EndpointSide, e Endpoint) (err error) {
	defer xdefer.Errorf(&err, "failed to update %v of link %q", side, linkID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	l, ok := d.links[linkID]
	if !ok {
		return ErrNotFound
	}
	other := l.Target
	if side == TargetSide {
		other = l.Source
	}
	if e.IsEmpty() && other.IsEmpty() {
		return &InvalidLinkError{ID: l.ID, Reason: "source and target would both be missing"}
	}
	if e.IsPort() {
		if _, ok := d.portNode[e.PortID]; !ok {
			return &DanglingReferenceError{From: l.ID, To: e.PortID}
		}
	}

	d.unindexLink(l)
	l.setEndpoint(side, e.copy())
	d.indexLink(l)
	d.refreshLinks([]string{l.ID})
	d.emit(Updated, LinkEntity, l.ID)
	d.flush()
	return nil
}

// MoveNode moves the top left corner of a node or group to (x, y), snapped to
// the grid when one is configured. Moving a group moves everything inside it.
func (d *Diagram) MoveNode(id string, x, y float64) (err error) {
	defer xdefer.Errorf(&err, "failed to move %q", id)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	to := d.snapToGrid(geo.NewPoint(x, y))
	if g, ok := d.groups[id]; ok {
		d.moveGroup(g, to)
		d.flush()
		return nil
	}
	n, ok := d.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if n.TopLeft.Equals(to) {
		return nil
	}

	n.Box = geo.NewBox(to, n.Width, n.Height)
	d.emit(Updated, NodeEntity, n.ID)
	d.afterNodesChanged([]string{n.ID}, []string{n.Group})
	d.flush()
	return nil
}

func (d *Diagram) moveGroup(g *Group, to *geo.Point) {
	if g.Box == nil || g.Box.TopLeft.Equals(to) {
		return
	}
	dx := to.X - g.Box.Left()
	dy := to.Y - g.Box.Top()

	nodes, groups := d.descendants(g)
	for _, id := range nodes {
		n := d.nodes[id]
		n.Box = geo.NewBox(n.TopLeft.Add(dx, dy), n.Width, n.Height)
	}
	for _, id := range groups {
		cg := d.groups[id]
		cg.Box = d.computeGroupBox(cg)
	}
	d.emit(Updated, NodeEntity, nodes...)
	d.emit(Updated, GroupEntity, groups...)
	d.afterNodesChanged(nodes, []string{g.ID})
}

// afterNodesChanged recomputes the links attached to the given nodes and the
// boxes of the given groups and their ancestors.
func (d *Diagram) afterNodesChanged(nodeIDs, groupIDs []string) {
	var links []string
	for _, id := range nodeIDs {
		links = append(links, d.nodeLinks(d.nodes[id])...)
	}
	links = sortedIDs(dedupe(links))
	d.refreshLinks(links)
	d.emit(Updated, LinkEntity, links...)

	var groups []string
	for _, id := range groupIDs {
		groups = append(groups, d.refreshGroupChain(id)...)
	}
	d.emit(Updated, GroupEntity, dedupe(groups)...)
}

func (d *Diagram) ResizeNode(id string, width, height float64) (err error) {
	defer xdefer.Errorf(&err, "failed to resize node %q", id)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	n, ok := d.nodes[id]
	if !ok {
		return ErrNotFound
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("negative size %vx%v", width, height)
	}
	if n.Width == width && n.Height == height {
		return nil
	}

	n.Box = geo.NewBox(n.TopLeft.Copy(), width, height)
	d.emit(Updated, NodeEntity, n.ID)
	d.afterNodesChanged([]string{n.ID}, []string{n.Group})
	d.flush()
	return nil
}

func (d *Diagram) SetPortAlignment(portID string, alignment geo.Orientation) (err error) {
	defer xdefer.Errorf(&err, "failed to align port %q", portID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	nodeID, ok := d.portNode[portID]
	if !ok {
		return ErrNotFound
	}
	p := d.nodes[nodeID].Port(portID)
	if p.Alignment == alignment {
		return nil
	}

	p.Alignment = alignment
	links := go2.SortedKeys(d.portLinks[portID])
	d.refreshLinks(links)
	d.emit(Updated, PortEntity, p.ID)
	d.emit(Updated, LinkEntity, links...)
	d.flush()
	return nil
}

// SetLinkVertices replaces the points the link's route must pass through.
func (d *Diagram) SetLinkVertices(linkID string, vertices []*geo.Point) (err error) {
	defer xdefer.Errorf(&err, "failed to set vertices of link %q", linkID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	l, ok := d.links[linkID]
	if !ok {
		return ErrNotFound
	}
	for i, v := range vertices {
		if v == nil {
			return fmt.Errorf("vertex %d is nil", i)
		}
	}

	l.Vertices = geo.Points(vertices).Copy()
	d.refreshLinks([]string{l.ID})
	d.emit(Updated, LinkEntity, l.ID)
	d.flush()
	return nil
}

// Refresh recomputes every link, e.g. after a custom router changed behavior.
func (d *Diagram) Refresh() {
	ids := go2.SortedKeys(d.links)
	d.refreshLinks(ids)
	d.emit(Updated, LinkEntity, ids...)
	d.flush()
}
