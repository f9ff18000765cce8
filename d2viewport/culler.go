// Package d2viewport decides which entities of a diagram a renderer has to
// draw for a given viewport.
//
// The Culler keeps its own cache of node and group boxes and of link
// waypoints, fed by the diagram's change notifications. Computing the
// visible set never routes or generates paths.
package d2viewport

import (
	"sort"
	"time"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

const (
	DefaultCellSize = 256.
	// DefaultLinkMargin is in screen units.
	DefaultLinkMargin = 50.
)

type Opts struct {
	// CellSize is the side of a spatial index cell in diagram units.
	CellSize float64
	// LinkMargin expands the viewport when testing link waypoints so that
	// curves bulging into view are kept.
	LinkMargin float64
}

type linkEntry struct {
	waypoints geo.Points
	nodes     []string
}

type Culler struct {
	d    *d2diagram.Diagram
	opts Opts

	boxes map[string]*geo.Box
	// empty holds groups without children. They have no box but are still
	// registered.
	empty map[string]struct{}
	links map[string]*linkEntry
	// nodeLinks maps a node ID to the links ending on one of its ports.
	nodeLinks map[string]map[string]struct{}

	shapes    *grid
	waypoints *grid

	unsubscribe func()
}

// NewCuller indexes everything d holds and keeps the index current until Close.
// A nil opts uses the defaults.
func NewCuller(d *d2diagram.Diagram, opts *Opts) *Culler {
	o := Opts{CellSize: DefaultCellSize, LinkMargin: DefaultLinkMargin}
	if opts != nil {
		if opts.CellSize > 0 {
			o.CellSize = opts.CellSize
		}
		if opts.LinkMargin >= 0 {
			o.LinkMargin = opts.LinkMargin
		}
	}
	c := &Culler{
		d:         d,
		opts:      o,
		boxes:     make(map[string]*geo.Box),
		empty:     make(map[string]struct{}),
		links:     make(map[string]*linkEntry),
		nodeLinks: make(map[string]map[string]struct{}),
		shapes:    newGrid(o.CellSize),
		waypoints: newGrid(o.CellSize),
	}
	for _, n := range d.Nodes() {
		c.updateShape(n.ID, n.Box)
	}
	for _, g := range d.Groups() {
		c.updateShape(g.ID, g.Box)
	}
	for _, l := range d.Links() {
		c.updateLink(l)
	}
	c.unsubscribe = d.Subscribe(c.apply)
	return c
}

// Close stops following the diagram. The cache keeps its last state.
func (c *Culler) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Culler) apply(ch d2diagram.Change) {
	switch ch.Entity {
	case d2diagram.NodeEntity:
		for _, id := range ch.IDs {
			if ch.Kind == d2diagram.Removed {
				c.removeShape(id)
				delete(c.nodeLinks, id)
			} else if n := c.d.Node(id); n != nil {
				c.updateShape(id, n.Box)
			}
		}
	case d2diagram.GroupEntity:
		for _, id := range ch.IDs {
			if ch.Kind == d2diagram.Removed {
				c.removeShape(id)
			} else if g := c.d.GroupByID(id); g != nil {
				c.updateShape(id, g.Box)
			}
		}
	case d2diagram.LinkEntity:
		for _, id := range ch.IDs {
			if ch.Kind == d2diagram.Removed {
				c.removeLink(id)
			} else if l := c.d.Link(id); l != nil {
				c.updateLink(l)
			}
		}
	}
}

func (c *Culler) updateShape(id string, b *geo.Box) {
	if b == nil {
		c.removeShape(id)
		c.empty[id] = struct{}{}
		return
	}
	delete(c.empty, id)
	c.boxes[id] = b.Copy()
	c.shapes.insert(id, b)
}

func (c *Culler) removeShape(id string) {
	delete(c.boxes, id)
	delete(c.empty, id)
	c.shapes.remove(id)
}

func (c *Culler) updateLink(l *d2diagram.Link) {
	c.removeLink(l.ID)

	e := &linkEntry{waypoints: geo.Points(l.Route).Copy()}
	for _, ep := range []d2diagram.Endpoint{l.Source, l.Target} {
		if !ep.IsPort() {
			continue
		}
		p := c.d.Port(ep.PortID)
		if p == nil || go2.Contains(e.nodes, p.Node) {
			continue
		}
		e.nodes = append(e.nodes, p.Node)
		set, ok := c.nodeLinks[p.Node]
		if !ok {
			set = make(map[string]struct{})
			c.nodeLinks[p.Node] = set
		}
		set[l.ID] = struct{}{}
	}
	c.links[l.ID] = e

	boxes := make([]*geo.Box, 0, len(e.waypoints))
	for _, p := range e.waypoints {
		boxes = append(boxes, geo.NewBox(p.Copy(), 0, 0))
	}
	c.waypoints.insert(l.ID, boxes...)
}

func (c *Culler) removeLink(id string) {
	e, ok := c.links[id]
	if !ok {
		return
	}
	for _, n := range e.nodes {
		delete(c.nodeLinks[n], id)
		if len(c.nodeLinks[n]) == 0 {
			delete(c.nodeLinks, n)
		}
	}
	delete(c.links, id)
	c.waypoints.remove(id)
}

// Visible returns the nodes, groups and links to draw. viewport is in zoomed
// diagram units, see Diagram.Viewport. A zoom that is not positive counts as 1.
//
// A node or group is visible when its box, scaled by zoom, touches the
// viewport. A link is visible when one of its waypoints lies within the
// viewport grown by LinkMargin, or when a node it ends on is visible.
// With virtualization disabled every entity is visible, groups without
// children included.
func (c *Culler) Visible(viewport *geo.Box, zoom float64) map[string]struct{} {
	start := time.Now()
	defer func() {
		CullDuration.Observe(time.Since(start).Seconds())
	}()

	out := make(map[string]struct{})
	if !c.d.Options().EnableVirtualization {
		for id := range c.boxes {
			out[id] = struct{}{}
		}
		for id := range c.empty {
			out[id] = struct{}{}
		}
		for id := range c.links {
			out[id] = struct{}{}
		}
		c.observe(out)
		return out
	}
	if viewport == nil {
		c.observe(out)
		return out
	}
	if zoom <= 0 {
		zoom = 1
	}

	// The index is in diagram units. Query with one extra unit so rounding
	// never drops a candidate, the exact test below decides.
	candidates := make(map[string]struct{})
	c.shapes.query(viewport.Scale(1/zoom).Grow(1), candidates)
	for id := range candidates {
		if c.boxes[id].Scale(zoom).Overlaps(viewport) {
			out[id] = struct{}{}
		}
	}

	grown := viewport.Grow(c.opts.LinkMargin)
	candidates = make(map[string]struct{})
	c.waypoints.query(grown.Scale(1/zoom).Grow(1), candidates)
	for id := range candidates {
		for _, p := range c.links[id].waypoints {
			if grown.Contains(p.Scale(zoom)) {
				out[id] = struct{}{}
				break
			}
		}
	}
	for nodeID, links := range c.nodeLinks {
		if _, ok := out[nodeID]; !ok {
			continue
		}
		for id := range links {
			out[id] = struct{}{}
		}
	}

	c.observe(out)
	return out
}

// VisibleIDs is Visible sorted by ID.
func (c *Culler) VisibleIDs(viewport *geo.Box, zoom float64) []string {
	ids := make([]string, 0)
	for id := range c.Visible(viewport, zoom) {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Culler) observe(visible map[string]struct{}) {
	counts := map[d2diagram.EntityKind]int{
		d2diagram.NodeEntity:  0,
		d2diagram.LinkEntity:  0,
		d2diagram.GroupEntity: 0,
	}
	for id := range visible {
		if kind, ok := c.d.Kind(id); ok {
			counts[kind]++
		}
	}
	for kind, n := range counts {
		VisibleEntities.WithLabelValues(kind.String()).Set(float64(n))
	}
}
