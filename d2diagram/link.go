package d2diagram

import (
	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/lib/geo"
)

type EndpointSide int

const (
	SourceSide EndpointSide = iota
	TargetSide
)

func (s EndpointSide) String() string {
	if s == SourceSide {
		return "source"
	}
	return "target"
}

// Endpoint is one end of a link: a port, a free point, or nothing while the
// link is being drawn. PortID wins when both are set.
type Endpoint struct {
	PortID string     `json:"port,omitempty"`
	Point  *geo.Point `json:"point,omitempty"`
}

func PortEndpoint(portID string) Endpoint {
	return Endpoint{PortID: portID}
}

func PointEndpoint(x, y float64) Endpoint {
	return Endpoint{Point: geo.NewPoint(x, y)}
}

func (e Endpoint) IsPort() bool {
	return e.PortID != ""
}

func (e Endpoint) IsEmpty() bool {
	return e.PortID == "" && e.Point == nil
}

func (e Endpoint) copy() Endpoint {
	return Endpoint{PortID: e.PortID, Point: e.Point.Copy()}
}

type Link struct {
	ID     string   `json:"id"`
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
	// Vertices are user placed points the route must pass through.
	Vertices []*geo.Point `json:"vertices,omitempty"`

	// Router and PathGenerator override the diagram defaults when set.
	Router        d2routing.Router  `json:"-"`
	PathGenerator d2paths.Generator `json:"-"`

	Color         string `json:"color,omitempty"`
	SelectedColor string `json:"selectedColor,omitempty"`
	Selected      bool   `json:"selected,omitempty"`

	// Route and Path are computed by the diagram.
	Route geo.Route     `json:"route"`
	Path  *d2paths.Path `json:"path"`
}

func NewLink(id string, source, target Endpoint) *Link {
	return &Link{
		ID:     id,
		Source: source,
		Target: target,
	}
}

func (l *Link) Endpoint(side EndpointSide) Endpoint {
	if side == SourceSide {
		return l.Source
	}
	return l.Target
}

func (l *Link) setEndpoint(side EndpointSide, e Endpoint) {
	if side == SourceSide {
		l.Source = e
	} else {
		l.Target = e
	}
}

// DisplayColor is the color a renderer should paint the link with.
func (l *Link) DisplayColor() string {
	if l.Selected {
		return l.SelectedColor
	}
	return l.Color
}

func (l *Link) portIDs() []string {
	var ids []string
	if l.Source.IsPort() {
		ids = append(ids, l.Source.PortID)
	}
	if l.Target.IsPort() && l.Target.PortID != l.Source.PortID {
		ids = append(ids, l.Target.PortID)
	}
	return ids
}
