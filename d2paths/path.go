// Package d2paths turns routed waypoints into drawable path descriptions.
//
// Generators are pure: they never mutate the route they are given and they
// never fail. An empty route gives an empty path and a single point gives a
// zero length line.
package d2paths

import (
	"math"

	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/svg"
)

type Generator interface {
	Generate(geo.Route) *Path
}

// Func adapts a plain function into a Generator.
type Func func(geo.Route) *Path

func (f Func) Generate(route geo.Route) *Path {
	return f(route)
}

type Kind string

const (
	Line  Kind = "line"
	Cubic Kind = "cubic"
)

// curveSamples is how finely cubic segments are flattened for measurements.
const curveSamples = 32

type Segment struct {
	Kind  Kind       `json:"kind"`
	Start *geo.Point `json:"start"`
	// C1 and C2 are only set on cubic segments.
	C1  *geo.Point `json:"c1,omitempty"`
	C2  *geo.Point `json:"c2,omitempty"`
	End *geo.Point `json:"end"`
}

func NewLine(start, end *geo.Point) Segment {
	return Segment{Kind: Line, Start: start.Copy(), End: end.Copy()}
}

func NewCubic(start, c1, c2, end *geo.Point) Segment {
	return Segment{Kind: Cubic, Start: start.Copy(), C1: c1.Copy(), C2: c2.Copy(), End: end.Copy()}
}

func (s Segment) curve() *geo.BezierCurve {
	return geo.NewBezierCurve(s.Start, s.C1, s.C2, s.End)
}

// Flatten approximates the segment with a polyline.
func (s Segment) Flatten() geo.Route {
	if s.Kind == Cubic {
		return s.curve().Sample(curveSamples)
	}
	return geo.Route{s.Start.Copy(), s.End.Copy()}
}

func (s Segment) Length() float64 {
	return s.Flatten().Length()
}

// StartTangent is the direction of travel when leaving Start.
func (s Segment) StartTangent() geo.Vector {
	if s.Kind == Cubic {
		return s.curve().Tangent(0)
	}
	return s.Start.VectorTo(s.End)
}

// EndTangent is the direction of travel when arriving at End.
func (s Segment) EndTangent() geo.Vector {
	if s.Kind == Cubic {
		return s.curve().Tangent(1)
	}
	return s.Start.VectorTo(s.End)
}

type Path struct {
	Segments []Segment `json:"segments"`
}

func (p *Path) Empty() bool {
	return p == nil || len(p.Segments) == 0
}

// PathData serializes the path as the value of an SVG path's d attribute.
func (p *Path) PathData() string {
	if p.Empty() {
		return ""
	}
	pc := svg.NewSVGPathContext()
	pc.StartAt(p.Segments[0].Start)
	for _, s := range p.Segments {
		switch s.Kind {
		case Cubic:
			pc.C(s.C1, s.C2, s.End)
		default:
			pc.L(s.End)
		}
	}
	return pc.PathData()
}

func (p *Path) Length() float64 {
	if p.Empty() {
		return 0
	}
	l := 0.
	for _, s := range p.Segments {
		l += s.Length()
	}
	return l
}

// BoundingBox covers the drawn curve, not the control points. Nil for an empty path.
func (p *Path) BoundingBox() *geo.Box {
	if p.Empty() {
		return nil
	}
	var pts geo.Route
	for _, s := range p.Segments {
		pts = append(pts, s.Flatten()...)
	}
	return pts.Box()
}

// SourceAngle is the angle in degrees, clockwise from +X, a marker at the
// source should point to. It points away from the path.
func (p *Path) SourceAngle() float64 {
	if p.Empty() {
		return 0
	}
	for _, s := range p.Segments {
		if v := s.StartTangent(); v.Length() > 0 {
			return normalizeDegrees(v.Multiply(-1).Degrees())
		}
	}
	return 0
}

// TargetAngle is the angle in degrees a marker at the target should point to,
// which is the direction of travel on arrival.
func (p *Path) TargetAngle() float64 {
	if p.Empty() {
		return 0
	}
	for i := len(p.Segments) - 1; i >= 0; i-- {
		if v := p.Segments[i].EndTangent(); v.Length() > 0 {
			return normalizeDegrees(v.Degrees())
		}
	}
	return 0
}

// normalizeDegrees maps d into [0, 360).
func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return geo.Round3(d)
}
