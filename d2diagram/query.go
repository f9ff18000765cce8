package d2diagram

import (
	"fmt"
	"sort"
	"strings"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

func (d *Diagram) Node(id string) *Node {
	return d.nodes[id]
}

func (d *Diagram) Port(id string) *Port {
	nodeID, ok := d.portNode[id]
	if !ok {
		return nil
	}
	return d.nodes[nodeID].Port(id)
}

func (d *Diagram) Link(id string) *Link {
	return d.links[id]
}

func (d *Diagram) GroupByID(id string) *Group {
	return d.groups[id]
}

// Nodes returns every node sorted by ID.
func (d *Diagram) Nodes() []*Node {
	out := make([]*Node, 0, len(d.nodes))
	for _, id := range go2.SortedKeys(d.nodes) {
		out = append(out, d.nodes[id])
	}
	return out
}

// Links returns every link sorted by ID.
func (d *Diagram) Links() []*Link {
	out := make([]*Link, 0, len(d.links))
	for _, id := range go2.SortedKeys(d.links) {
		out = append(out, d.links[id])
	}
	return out
}

// Groups returns every group sorted by ID.
func (d *Diagram) Groups() []*Group {
	out := make([]*Group, 0, len(d.groups))
	for _, id := range go2.SortedKeys(d.groups) {
		out = append(out, d.groups[id])
	}
	return out
}

// LinksOf returns the sorted IDs of the links attached to a port, or to any port of a node.
func (d *Diagram) LinksOf(id string) []string {
	if n, ok := d.nodes[id]; ok {
		return d.nodeLinks(n)
	}
	return go2.SortedKeys(d.portLinks[id])
}

type Counts struct {
	Nodes  int `json:"nodes"`
	Ports  int `json:"ports"`
	Links  int `json:"links"`
	Groups int `json:"groups"`
}

func (d *Diagram) Counts() Counts {
	return Counts{
		Nodes:  len(d.nodes),
		Ports:  len(d.portNode),
		Links:  len(d.links),
		Groups: len(d.groups),
	}
}

// Geometry is the computed geometry of one entity, as a renderer needs it.
type Geometry struct {
	ID     string     `json:"id"`
	Entity EntityKind `json:"entity"`
	// Box is set for nodes and non empty groups.
	Box *geo.Box `json:"box,omitempty"`
	// Anchor is set for ports.
	Anchor *geo.Point `json:"anchor,omitempty"`

	// The rest is set for links.
	Route       geo.Route     `json:"route,omitempty"`
	Path        *d2paths.Path `json:"path,omitempty"`
	PathData    string        `json:"pathData,omitempty"`
	SourceAngle float64       `json:"sourceAngle,omitempty"`
	TargetAngle float64       `json:"targetAngle,omitempty"`
	Color       string        `json:"color,omitempty"`
}

// Geometry returns a copy of the current geometry of id.
func (d *Diagram) Geometry(id string) (_ *Geometry, err error) {
	defer xdefer.Errorf(&err, "failed to get geometry of %q", id)

	kind, ok := d.Kind(id)
	if !ok {
		return nil, ErrNotFound
	}
	geom := &Geometry{ID: id, Entity: kind}
	switch kind {
	case NodeEntity:
		geom.Box = d.nodes[id].Box.Copy()
	case PortEntity:
		n := d.nodes[d.portNode[id]]
		geom.Anchor = n.Port(id).Anchor(n.Box)
	case LinkEntity:
		l := d.links[id]
		geom.Route = l.Route.Copy()
		geom.Path = copyPath(l.Path)
		geom.PathData = l.Path.PathData()
		geom.SourceAngle = l.Path.SourceAngle()
		geom.TargetAngle = l.Path.TargetAngle()
		geom.Color = l.DisplayColor()
	case GroupEntity:
		geom.Box = d.groups[id].Box.Copy()
	}
	return geom, nil
}

func copyPath(p *d2paths.Path) *d2paths.Path {
	if p == nil {
		return nil
	}
	out := &d2paths.Path{Segments: make([]d2paths.Segment, 0, len(p.Segments))}
	for _, s := range p.Segments {
		out.Segments = append(out.Segments, d2paths.Segment{
			Kind:  s.Kind,
			Start: s.Start.Copy(),
			C1:    s.C1.Copy(),
			C2:    s.C2.Copy(),
			End:   s.End.Copy(),
		})
	}
	return out
}

// Snapshot is a deterministic text dump of the whole model. Two snapshots are
// equal exactly when the diagrams hold the same entities with the same state.
func (d *Diagram) Snapshot() string {
	var sb strings.Builder
	for _, n := range d.Nodes() {
		fmt.Fprintf(&sb, "node %s %s group=%q locked=%v selected=%v\n", n.ID, boxString(n.Box), n.Group, n.Locked, n.Selected)
		ports := append([]*Port(nil), n.Ports...)
		sort.Slice(ports, func(i, j int) bool {
			return ports[i].ID < ports[j].ID
		})
		for _, p := range ports {
			fmt.Fprintf(&sb, "  port %s %s offset=%s links=%v\n", p.ID, p.Alignment.ToString(), p.Offset.ToString(), d.LinksOf(p.ID))
		}
	}
	for _, l := range d.Links() {
		fmt.Fprintf(&sb, "link %s %s -> %s vertices=[%s] color=%s/%s selected=%v\n",
			l.ID, endpointString(l.Source), endpointString(l.Target),
			geo.Points(l.Vertices).ToString(), l.Color, l.SelectedColor, l.Selected)
		fmt.Fprintf(&sb, "  route [%s]\n  path %s\n", l.Route.ToString(), l.Path.PathData())
	}
	for _, g := range d.Groups() {
		fmt.Fprintf(&sb, "group %s %s parent=%q children=%v padding=%v selected=%v\n", g.ID, boxString(g.Box), g.Parent, g.Children, g.Padding, g.Selected)
	}
	fmt.Fprintf(&sb, "selection %v\n", d.selection)
	fmt.Fprintf(&sb, "zoom %v pan %s\n", d.zoom, d.pan.ToString())
	return sb.String()
}

func endpointString(e Endpoint) string {
	switch {
	case e.IsPort():
		return "port:" + e.PortID
	case e.Point != nil:
		return "point:" + e.Point.ToString()
	}
	return "none"
}

func boxString(b *geo.Box) string {
	if b == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %vx%v", b.TopLeft.ToString(), b.Width, b.Height)
}
