package d2paths

import (
	"math"

	"oss.terrastruct.com/d2flow/lib/geo"
)

// Smooth draws a curve passing through every waypoint.
//
// Two waypoints give a single S shaped cubic whose control points are pulled
// half the span along the dominant axis. Longer routes are interpolated with a
// uniform Catmull-Rom spline converted to cubic segments, which is C1 at every
// interior waypoint.
type Smooth struct{}

func (Smooth) Generate(route geo.Route) *Path {
	switch len(route) {
	case 0:
		return &Path{}
	case 1:
		return &Path{Segments: []Segment{NewLine(route[0], route[0])}}
	case 2:
		return &Path{Segments: []Segment{sCurve(route[0], route[1])}}
	}

	tangents := make([]geo.Vector, len(route))
	last := len(route) - 1
	tangents[0] = route[0].VectorTo(route[1]).Multiply(0.5)
	tangents[last] = route[last-1].VectorTo(route[last]).Multiply(0.5)
	for i := 1; i < last; i++ {
		tangents[i] = route[i-1].VectorTo(route[i+1]).Multiply(0.5)
	}

	p := &Path{Segments: make([]Segment, 0, last)}
	for i := 0; i < last; i++ {
		c1 := route[i].AddVector(tangents[i].Multiply(1. / 3))
		c2 := route[i+1].AddVector(tangents[i+1].Multiply(-1. / 3))
		p.Segments = append(p.Segments, NewCubic(route[i], c1, c2, route[i+1]))
	}
	return p
}

func sCurve(start, end *geo.Point) Segment {
	if start.Equals(end) {
		return NewLine(start, end)
	}
	dx := end.X - start.X
	dy := end.Y - start.Y
	if math.Abs(dx) >= math.Abs(dy) {
		return NewCubic(start, start.Add(dx/2, 0), end.Add(-dx/2, 0), end)
	}
	return NewCubic(start, start.Add(0, dy/2), end.Add(0, -dy/2), end)
}
