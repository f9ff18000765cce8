package geo

import (
	"math"
)

// Route is the ordered list of waypoints a link passes through.
type Route []*Point

func (route Route) Copy() Route {
	return Route(Points(route).Copy())
}

func (route Route) Equals(other Route) bool {
	return Points(route).Equals(Points(other))
}

func (route Route) Length() float64 {
	l := 0.
	for i := 0; i < len(route)-1; i++ {
		l += EuclideanDistance(
			route[i].X, route[i].Y,
			route[i+1].X, route[i+1].Y,
		)
	}
	return l
}

func (route Route) GetBoundingBox() (tl, br *Point) {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)

	for _, p := range route {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return NewPoint(minX, minY), NewPoint(maxX, maxY)
}

// Box is the bounding box of the route, nil when empty.
func (route Route) Box() *Box {
	if len(route) == 0 {
		return nil
	}
	return BoxFromCorners(route.GetBoundingBox())
}

// Simplify drops repeated points and interior points lying on a straight run.
// The first and last points are always kept.
func (route Route) Simplify() Route {
	if len(route) <= 2 {
		return route.Copy()
	}
	out := Route{route[0].Copy()}
	for i := 1; i < len(route)-1; i++ {
		prev := out[len(out)-1]
		curr, next := route[i], route[i+1]
		if curr.Equals(prev) {
			continue
		}
		if Collinear(prev, curr, next) && between(prev, curr, next) {
			continue
		}
		out = append(out, curr.Copy())
	}
	last := route[len(route)-1]
	if len(out) > 1 && out[len(out)-1].Equals(last) {
		return out
	}
	return append(out, last.Copy())
}

// between assumes a, b, c are collinear and reports whether b lies on segment a-c.
func between(a, b, c *Point) bool {
	return b.X >= math.Min(a.X, c.X) && b.X <= math.Max(a.X, c.X) &&
		b.Y >= math.Min(a.Y, c.Y) && b.Y <= math.Max(a.Y, c.Y)
}

func (route Route) ToString() string {
	return Points(route).ToString()
}
