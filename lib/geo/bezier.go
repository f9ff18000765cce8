package geo

// BezierCurve is a cubic curve given by its start, two control points and end.
type BezierCurve struct {
	points [4]*Point
}

func NewBezierCurve(start, c1, c2, end *Point) *BezierCurve {
	return &BezierCurve{points: [4]*Point{start, c1, c2, end}}
}

// At evaluates the curve at t in [0, 1] with de Casteljau's algorithm.
func (bc BezierCurve) At(t float64) *Point {
	p := [4]*Point{}
	copy(p[:], bc.points[:])
	for n := 3; n > 0; n-- {
		for i := 0; i < n; i++ {
			p[i] = p[i].Interpolate(p[i+1], t)
		}
	}
	return p[0]
}

// Tangent is the derivative of the curve at t.
func (bc BezierCurve) Tangent(t float64) Vector {
	p0, p1, p2, p3 := bc.points[0], bc.points[1], bc.points[2], bc.points[3]
	u := 1 - t
	a := 3 * u * u
	b := 6 * u * t
	c := 3 * t * t
	return NewVector(
		a*(p1.X-p0.X)+b*(p2.X-p1.X)+c*(p3.X-p2.X),
		a*(p1.Y-p0.Y)+b*(p2.Y-p1.Y)+c*(p3.Y-p2.Y),
	)
}

// Sample returns n+1 evenly spaced (in t) points along the curve, ends included.
func (bc BezierCurve) Sample(n int) Route {
	if n < 1 {
		n = 1
	}
	out := make(Route, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, bc.At(float64(i)/float64(n)))
	}
	return out
}
