// Package d2diagram is the model graph of a diagram editor: nodes with ports,
// links between them, and groups. It keeps every link's route and path in sync
// with the entities it is attached to, runs the deletion guards before
// removing anything, and tracks selection, zoom and pan.
//
// A Diagram is not safe for concurrent use, apart from Close. Deletion guards
// may block the calling operation while a decision is made.
package d2diagram

import (
	"errors"
	"fmt"
	"sync/atomic"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/lib/color"
	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

type Diagram struct {
	opts *Options

	nodes  map[string]*Node
	links  map[string]*Link
	groups map[string]*Group
	// portNode maps a port ID to its owning node ID.
	portNode map[string]string
	// portLinks maps a port ID to the IDs of links attached to it.
	portLinks map[string]map[string]struct{}

	selection []string
	pending   map[string]struct{}
	closed    atomic.Bool

	zoom float64
	pan  *geo.Point

	subscribers    []subscriber
	nextSubscriber int
	queue          []Change
	flushing       bool
}

// NewDiagram validates opts and keeps its own copy. Nil opts means DefaultOptions.
func NewDiagram(opts *Options) (_ *Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to create diagram")

	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Diagram{
		opts:      opts.copy(),
		nodes:     make(map[string]*Node),
		links:     make(map[string]*Link),
		groups:    make(map[string]*Group),
		portNode:  make(map[string]string),
		portLinks: make(map[string]map[string]struct{}),
		pending:   make(map[string]struct{}),
		zoom:      1,
		pan:       geo.NewPoint(0, 0),
	}, nil
}

// Options returns the options the diagram was created with. They must not be modified.
func (d *Diagram) Options() *Options {
	return d.opts
}

// Close tears the diagram down. Deletion decisions still pending are discarded
// when they resolve and every later operation fails with ErrDiagramClosed.
// It is safe to call from any goroutine.
func (d *Diagram) Close() {
	d.closed.Store(true)
}

func (d *Diagram) Closed() bool {
	return d.closed.Load()
}

// Kind reports what kind of entity id names.
func (d *Diagram) Kind(id string) (EntityKind, bool) {
	if _, ok := d.nodes[id]; ok {
		return NodeEntity, true
	}
	if _, ok := d.portNode[id]; ok {
		return PortEntity, true
	}
	if _, ok := d.links[id]; ok {
		return LinkEntity, true
	}
	if _, ok := d.groups[id]; ok {
		return GroupEntity, true
	}
	return 0, false
}

func (d *Diagram) checkNewID(id string) error {
	if id == "" {
		return errors.New("id must not be empty")
	}
	if _, ok := d.Kind(id); ok {
		return &DuplicateIDError{ID: id}
	}
	return nil
}

func (d *Diagram) snapToGrid(p *geo.Point) *geo.Point {
	if d.opts.GridSize == nil {
		return p.Copy()
	}
	size := float64(*d.opts.GridSize)
	return geo.NewPoint(geo.SnapToGrid(p.X, size), geo.SnapToGrid(p.Y, size))
}

// AddNode registers n along with its ports.
func (d *Diagram) AddNode(n *Node) (err error) {
	defer xdefer.Errorf(&err, "failed to add node %q", n.ID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	if err := d.checkNewID(n.ID); err != nil {
		return err
	}
	if n.Box == nil {
		n.Box = geo.NewBox(geo.NewPoint(0, 0), 0, 0)
	}
	if n.Width < 0 || n.Height < 0 {
		return fmt.Errorf("negative size %vx%v", n.Width, n.Height)
	}
	seen := make(map[string]struct{}, len(n.Ports))
	for _, p := range n.Ports {
		if err := d.checkNewID(p.ID); err != nil {
			return err
		}
		if _, ok := seen[p.ID]; ok || p.ID == n.ID {
			return &DuplicateIDError{ID: p.ID}
		}
		seen[p.ID] = struct{}{}
	}
	if n.Group != "" {
		if _, ok := d.groups[n.Group]; !ok {
			return &DanglingReferenceError{From: n.ID, To: n.Group}
		}
	}

	n.TopLeft = d.snapToGrid(n.TopLeft)
	d.nodes[n.ID] = n
	portIDs := make([]string, 0, len(n.Ports))
	for _, p := range n.Ports {
		p.Node = n.ID
		d.portNode[p.ID] = n.ID
		portIDs = append(portIDs, p.ID)
	}
	d.emit(Added, NodeEntity, n.ID)
	d.emit(Added, PortEntity, portIDs...)
	if n.Group != "" {
		g := d.groups[n.Group]
		g.Children = append(g.Children, n.ID)
		d.emit(Updated, GroupEntity, d.refreshGroupChain(g.ID)...)
	}
	d.flush()
	return nil
}

// AddPort attaches p to the registered node nodeID.
func (d *Diagram) AddPort(nodeID string, p *Port) (err error) {
	defer xdefer.Errorf(&err, "failed to add port %q to node %q", p.ID, nodeID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	n, ok := d.nodes[nodeID]
	if !ok {
		return &DanglingReferenceError{From: p.ID, To: nodeID}
	}
	if err := d.checkNewID(p.ID); err != nil {
		return err
	}

	p.Node = n.ID
	n.Ports = append(n.Ports, p)
	d.portNode[p.ID] = n.ID
	d.emit(Added, PortEntity, p.ID)
	d.flush()
	return nil
}

// AddLink registers l and computes its route and path.
// Empty colors fall back to the diagram defaults.
func (d *Diagram) AddLink(l *Link) (err error) {
	defer xdefer.Errorf(&err, "failed to add link %q", l.ID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	if err := d.checkNewID(l.ID); err != nil {
		return err
	}
	if l.Source.IsEmpty() && l.Target.IsEmpty() {
		return &InvalidLinkError{ID: l.ID, Reason: "source and target are both missing"}
	}
	for _, e := range []Endpoint{l.Source, l.Target} {
		if e.IsPort() {
			if _, ok := d.portNode[e.PortID]; !ok {
				return &DanglingReferenceError{From: l.ID, To: e.PortID}
			}
		}
	}
	if l.Color == "" {
		l.Color = d.opts.Links.DefaultColor
	}
	if l.SelectedColor == "" {
		l.SelectedColor = d.opts.Links.DefaultSelectedColor
	}
	for _, c := range []string{l.Color, l.SelectedColor} {
		if err := color.Valid(c); err != nil {
			return &InvalidLinkError{ID: l.ID, Reason: err.Error()}
		}
	}

	l.Source = l.Source.copy()
	l.Target = l.Target.copy()
	l.Vertices = geo.Points(l.Vertices).Copy()
	d.links[l.ID] = l
	d.indexLink(l)
	d.refreshLinks([]string{l.ID})
	d.emit(Added, LinkEntity, l.ID)
	d.flush()
	return nil
}

// AddGroup registers g. Children already in another group are moved into g.
func (d *Diagram) AddGroup(g *Group) (err error) {
	defer xdefer.Errorf(&err, "failed to add group %q", g.ID)

	if d.closed.Load() {
		return ErrDiagramClosed
	}
	if err := d.checkNewID(g.ID); err != nil {
		return err
	}
	if g.Parent != "" {
		if _, ok := d.groups[g.Parent]; !ok {
			return &DanglingReferenceError{From: g.ID, To: g.Parent}
		}
	}
	seen := make(map[string]struct{}, len(g.Children))
	for _, c := range g.Children {
		if c == g.ID {
			return &CyclicGroupError{Group: g.ID, Child: c}
		}
		if _, ok := seen[c]; ok {
			return &DuplicateIDError{ID: c}
		}
		seen[c] = struct{}{}
		kind, ok := d.Kind(c)
		if !ok || (kind != NodeEntity && kind != GroupEntity) {
			return &DanglingReferenceError{From: g.ID, To: c}
		}
		if kind == GroupEntity && g.Parent != "" && (g.Parent == c || d.isDescendant(g.Parent, c)) {
			return &CyclicGroupError{Group: g.ID, Child: c}
		}
	}

	d.groups[g.ID] = g
	var touched []string
	for _, c := range g.Children {
		if old := d.parentOf(c); old != "" {
			d.groups[old].Children = go2.Remove(d.groups[old].Children, c)
			touched = append(touched, old)
		}
		d.setParent(c, g.ID)
	}
	if g.Parent != "" {
		d.groups[g.Parent].Children = append(d.groups[g.Parent].Children, g.ID)
	}
	d.emit(Added, GroupEntity, g.ID)
	d.emitReparented(g.Children)
	var updated []string
	for _, id := range touched {
		updated = append(updated, d.refreshGroupChain(id)...)
	}
	for _, id := range d.refreshGroupChain(g.ID) {
		if id != g.ID {
			updated = append(updated, id)
		}
	}
	d.emit(Updated, GroupEntity, dedupe(updated)...)
	d.flush()
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
