package d2routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func assertOrthogonal(t *testing.T, route geo.Route, obstacles map[string]*geo.Box) {
	t.Helper()

	for i := 0; i < len(route)-1; i++ {
		axisAligned := route[i].X == route[i+1].X || route[i].Y == route[i+1].Y
		assert.True(t, axisAligned, "segment %d %s is not axis aligned", i, route.ToString())
		for id, b := range obstacles {
			assert.False(t, b.SegmentCrossesInterior(route[i], route[i+1]), "segment %d crosses %s: %s", i, id, route.ToString())
		}
	}
}

func TestOrthogonal(t *testing.T) {
	t.Parallel()

	a := geo.NewBox(geo.NewPoint(0, 0), 100, 50)
	b := geo.NewBox(geo.NewPoint(400, 0), 100, 50)
	wall := geo.NewBox(geo.NewPoint(200, -50), 100, 150)
	below := geo.NewBox(geo.NewPoint(0, 200), 100, 50)

	testCases := []struct {
		name      string
		req       *d2routing.Request
		expPoints int
	}{
		{
			name: "straight",
			req: &d2routing.Request{
				Source:    portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target:    portAnchor("b", "b.l", b, geo.Left, geo.NewPoint(400, 25)),
				Obstacles: map[string]*geo.Box{"a": a, "b": b},
			},
			expPoints: 2,
		},
		{
			name: "around_wall",
			req: &d2routing.Request{
				Source:    portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target:    portAnchor("b", "b.l", b, geo.Left, geo.NewPoint(400, 25)),
				Obstacles: map[string]*geo.Box{"a": a, "b": b, "wall": wall},
			},
		},
		{
			name: "bottom_to_top",
			req: &d2routing.Request{
				Source:    portAnchor("a", "a.b", a, geo.Bottom, geo.NewPoint(50, 50)),
				Target:    portAnchor("below", "below.t", below, geo.Top, geo.NewPoint(50, 200)),
				Obstacles: map[string]*geo.Box{"a": a, "below": below},
			},
			expPoints: 2,
		},
		{
			name: "right_to_top",
			req: &d2routing.Request{
				Source:    portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target:    portAnchor("below", "below.t", below, geo.Top, geo.NewPoint(50, 200)),
				Obstacles: map[string]*geo.Box{"a": a, "below": below},
			},
		},
		{
			name: "through_vertex",
			req: &d2routing.Request{
				Source:    portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target:    portAnchor("b", "b.l", b, geo.Left, geo.NewPoint(400, 25)),
				Vertices:  []*geo.Point{geo.NewPoint(250, 300)},
				Obstacles: map[string]*geo.Box{"a": a, "b": b, "wall": wall},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := d2routing.NewOrthogonal()
			route := r.Route(tc.req)

			assert.True(t, route[0].Equals(tc.req.Source.Point))
			assert.True(t, route[len(route)-1].Equals(tc.req.Target.Point))
			assertOrthogonal(t, route, tc.req.Obstacles)
			if tc.expPoints > 0 {
				assert.Len(t, route, tc.expPoints)
			}
			for _, v := range tc.req.Vertices {
				found := false
				for _, p := range route {
					if p.Equals(v) {
						found = true
					}
				}
				for i := 0; i < len(route)-1 && !found; i++ {
					found = geo.Collinear(route[i], v, route[i+1]) && geo.BoxFromCorners(route[i], route[i+1]).Contains(v)
				}
				assert.True(t, found, "vertex %s not on %s", v.ToString(), route.ToString())
			}

			again := r.Route(tc.req)
			assert.True(t, route.Equals(again))
		})
	}
}

func TestOrthogonalLeavesPortPerpendicular(t *testing.T) {
	t.Parallel()

	a := geo.NewBox(geo.NewPoint(0, 0), 100, 50)
	below := geo.NewBox(geo.NewPoint(200, 200), 100, 50)
	req := &d2routing.Request{
		Source:    portAnchor("a", "a.t", a, geo.Top, geo.NewPoint(50, 0)),
		Target:    portAnchor("below", "below.b", below, geo.Bottom, geo.NewPoint(250, 250)),
		Obstacles: map[string]*geo.Box{"a": a, "below": below},
	}
	route := d2routing.NewOrthogonal().Route(req)

	assert.Equal(t, 50., route[1].X)
	assert.Less(t, route[1].Y, 0.)
	last := route[len(route)-2]
	assert.Equal(t, 250., last.X)
	assert.Greater(t, last.Y, 250.)
	assertOrthogonal(t, route, req.Obstacles)
}

func TestOrthogonalFallback(t *testing.T) {
	t.Parallel()

	a := geo.NewBox(geo.NewPoint(0, 0), 100, 50)
	// The target sits inside another body, no axis aligned path can reach it.
	trap := geo.NewBox(geo.NewPoint(300, 0), 200, 200)
	req := &d2routing.Request{
		Source:    portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
		Target:    d2routing.Anchor{Point: geo.NewPoint(400, 100)},
		Obstacles: map[string]*geo.Box{"a": a, "trap": trap},
	}
	route := d2routing.NewOrthogonal().Route(req)
	assert.Equal(t, d2routing.Normal{}.Route(req).ToString(), route.ToString())
}

func TestOrthogonalCoincident(t *testing.T) {
	t.Parallel()

	p := geo.NewPoint(3, 4)
	route := d2routing.NewOrthogonal().Route(&d2routing.Request{
		Source: d2routing.Anchor{Point: p},
		Target: d2routing.Anchor{Point: p},
	})
	assert.Len(t, route, 2)
	assert.Equal(t, 0., route.Length())
}
