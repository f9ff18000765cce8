package d2diagram

import (
	"sort"

	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

func (d *Diagram) indexLink(l *Link) {
	for _, id := range l.portIDs() {
		set, ok := d.portLinks[id]
		if !ok {
			set = make(map[string]struct{})
			d.portLinks[id] = set
		}
		set[l.ID] = struct{}{}
	}
}

func (d *Diagram) unindexLink(l *Link) {
	for _, id := range l.portIDs() {
		delete(d.portLinks[id], l.ID)
		if len(d.portLinks[id]) == 0 {
			delete(d.portLinks, id)
		}
	}
}

// nodeLinks returns the sorted IDs of links attached to any port of n.
func (d *Diagram) nodeLinks(n *Node) []string {
	set := make(map[string]struct{})
	for _, p := range n.Ports {
		for id := range d.portLinks[p.ID] {
			set[id] = struct{}{}
		}
	}
	return go2.SortedKeys(set)
}

func (d *Diagram) anchor(e Endpoint) d2routing.Anchor {
	if !e.IsPort() {
		return d2routing.Anchor{Point: e.Point.Copy(), Alignment: geo.NONE}
	}
	n := d.nodes[d.portNode[e.PortID]]
	p := n.Port(e.PortID)
	return d2routing.Anchor{
		Point:     p.Anchor(n.Box),
		Alignment: p.Alignment,
		Box:       n.Box.Copy(),
		NodeID:    n.ID,
		PortID:    p.ID,
	}
}

func (d *Diagram) obstacles() map[string]*geo.Box {
	boxes := make(map[string]*geo.Box, len(d.nodes))
	for id, n := range d.nodes {
		boxes[id] = n.Box.Copy()
	}
	return boxes
}

func (d *Diagram) router(l *Link) d2routing.Router {
	if l.Router != nil {
		return l.Router
	}
	return d.opts.Links.DefaultRouter
}

func (d *Diagram) pathGenerator(l *Link) d2paths.Generator {
	if l.PathGenerator != nil {
		return l.PathGenerator
	}
	return d.opts.Links.DefaultPathGenerator
}

// refreshLinks snaps, routes and generates the path of the given links only.
// It returns the IDs of links whose endpoints were rewritten by snapping.
func (d *Diagram) refreshLinks(ids []string) (snapped []string) {
	var obstacles map[string]*geo.Box
	for _, id := range ids {
		l, ok := d.links[id]
		if !ok {
			continue
		}
		if d.opts.Links.EnableSnapping && d.snap(l) {
			snapped = append(snapped, l.ID)
		}
		if obstacles == nil {
			obstacles = d.obstacles()
		}
		router := d.router(l)
		l.Route = router.Route(&d2routing.Request{
			LinkID:    l.ID,
			Source:    d.anchor(l.Source),
			Target:    d.anchor(l.Target),
			Vertices:  geo.Points(l.Vertices).Copy(),
			Obstacles: obstacles,
		})
		RoutesTotal.WithLabelValues(d2routing.Name(router)).Inc()

		gen := d.pathGenerator(l)
		l.Path = gen.Generate(l.Route.Copy())
		PathsTotal.WithLabelValues(d2paths.Name(gen)).Inc()
	}
	return snapped
}

// snap re-resolves free endpoints of l to the nearest port within the
// snapping radius. Ports on the node at the opposite end are not eligible.
// Ties go to the lowest node ID, then the lowest port ID.
func (d *Diagram) snap(l *Link) bool {
	changed := false
	for _, side := range []EndpointSide{SourceSide, TargetSide} {
		e := l.Endpoint(side)
		if e.IsPort() || e.Point == nil {
			continue
		}
		other := l.Target
		if side == TargetSide {
			other = l.Source
		}
		exclude := ""
		if other.IsPort() {
			exclude = d.portNode[other.PortID]
		}
		portID, ok := d.nearestPort(e.Point, exclude)
		if !ok {
			continue
		}
		d.unindexLink(l)
		l.setEndpoint(side, PortEndpoint(portID))
		d.indexLink(l)
		changed = true
	}
	return changed
}

func (d *Diagram) nearestPort(p *geo.Point, excludeNode string) (string, bool) {
	radius := d.opts.Links.SnappingRadius
	var bestNode, bestPort string
	bestDist := 0.
	for _, n := range d.nodes {
		if n.ID == excludeNode {
			continue
		}
		for _, port := range n.Ports {
			dist := p.DistanceTo(port.Anchor(n.Box))
			if dist > radius {
				continue
			}
			better := bestPort == "" ||
				dist < bestDist ||
				(dist == bestDist && (n.ID < bestNode || (n.ID == bestNode && port.ID < bestPort)))
			if better {
				bestNode, bestPort, bestDist = n.ID, port.ID, dist
			}
		}
	}
	return bestPort, bestPort != ""
}

func (d *Diagram) parentOf(id string) string {
	if n, ok := d.nodes[id]; ok {
		return n.Group
	}
	if g, ok := d.groups[id]; ok {
		return g.Parent
	}
	return ""
}

func (d *Diagram) setParent(id, parent string) {
	if n, ok := d.nodes[id]; ok {
		n.Group = parent
	} else if g, ok := d.groups[id]; ok {
		g.Parent = parent
	}
}

// emitReparented queues an Updated change for every node and group in ids.
func (d *Diagram) emitReparented(ids []string) {
	var nodes, groups []string
	for _, id := range ids {
		if _, ok := d.nodes[id]; ok {
			nodes = append(nodes, id)
		} else if _, ok := d.groups[id]; ok {
			groups = append(groups, id)
		}
	}
	d.emit(Updated, NodeEntity, nodes...)
	d.emit(Updated, GroupEntity, groups...)
}

// isDescendant reports whether ancestor is a strict ancestor of id.
func (d *Diagram) isDescendant(id, ancestor string) bool {
	for cur := d.parentOf(id); cur != ""; cur = d.parentOf(cur) {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// descendants returns the nodes and groups below g. Groups come in post order
// so that a group always follows its children.
func (d *Diagram) descendants(g *Group) (nodes, groups []string) {
	for _, c := range g.Children {
		if _, ok := d.nodes[c]; ok {
			nodes = append(nodes, c)
		} else if cg, ok := d.groups[c]; ok {
			n, gs := d.descendants(cg)
			nodes = append(nodes, n...)
			groups = append(groups, gs...)
			groups = append(groups, c)
		}
	}
	return nodes, groups
}

func (d *Diagram) computeGroupBox(g *Group) *geo.Box {
	var b *geo.Box
	for _, c := range g.Children {
		if n, ok := d.nodes[c]; ok {
			b = b.Union(n.Box)
		} else if cg, ok := d.groups[c]; ok && cg.Box != nil {
			b = b.Union(cg.Box)
		}
	}
	if b == nil {
		return nil
	}
	return b.Grow(g.Padding)
}

// refreshGroupChain recomputes the box of group id and of all its ancestors.
// It returns the IDs of the recomputed groups.
func (d *Diagram) refreshGroupChain(id string) []string {
	var ids []string
	for cur := id; cur != ""; {
		g, ok := d.groups[cur]
		if !ok {
			break
		}
		g.Box = d.computeGroupBox(g)
		ids = append(ids, g.ID)
		cur = g.Parent
	}
	return ids
}

func sortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}
