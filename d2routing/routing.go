// Package d2routing computes the waypoints a link passes through.
//
// A Router is a pure function of its Request: the same anchors, vertices and
// obstacles always give the same route. Routers never fail. Degenerate input
// such as coincident or missing anchors resolves to a zero length route.
package d2routing

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

type Router interface {
	Route(*Request) geo.Route
}

// Func adapts a plain function into a Router.
type Func func(*Request) geo.Route

func (f Func) Route(req *Request) geo.Route {
	return f(req)
}

// Anchor is one end of a link as seen by a router.
type Anchor struct {
	// Point is the absolute attachment point. Nil when the endpoint is unresolved.
	Point *geo.Point
	// Alignment is the side of the node the port sits on, NONE for free points.
	Alignment geo.Orientation
	// Box is the owning node's body, nil for free points.
	Box *geo.Box

	NodeID string
	PortID string
}

func (a Anchor) IsPort() bool {
	return a.PortID != ""
}

type Request struct {
	LinkID   string
	Source   Anchor
	Target   Anchor
	Vertices []*geo.Point
	// Obstacles are the bodies of every node in the diagram, keyed by node ID.
	Obstacles map[string]*geo.Box
}

// endpoints resolves missing anchors so that routers always have two points to work with.
func (req *Request) endpoints() (*geo.Point, *geo.Point) {
	src, dst := req.Source.Point, req.Target.Point
	switch {
	case src == nil && dst == nil:
		return geo.NewPoint(0, 0), geo.NewPoint(0, 0)
	case src == nil:
		return dst.Copy(), dst.Copy()
	case dst == nil:
		return src.Copy(), src.Copy()
	}
	return src.Copy(), dst.Copy()
}

func copyVertices(vertices []*geo.Point) []*geo.Point {
	out := make([]*geo.Point, 0, len(vertices))
	for _, v := range vertices {
		if v != nil {
			out = append(out, v.Copy())
		}
	}
	return out
}
