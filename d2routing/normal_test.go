package d2routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func portAnchor(nodeID, portID string, box *geo.Box, alignment geo.Orientation, p *geo.Point) d2routing.Anchor {
	return d2routing.Anchor{
		Point:     p,
		Alignment: alignment,
		Box:       box,
		NodeID:    nodeID,
		PortID:    portID,
	}
}

func TestNormal(t *testing.T) {
	t.Parallel()

	a := geo.NewBox(geo.NewPoint(0, 0), 100, 50)
	b := geo.NewBox(geo.NewPoint(300, 0), 100, 50)
	lowB := geo.NewBox(geo.NewPoint(300, 100), 100, 50)

	testCases := []struct {
		name string
		req  *d2routing.Request
		exp  geo.Route
	}{
		{
			name: "aligned_ports",
			req: &d2routing.Request{
				Source: portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target: portAnchor("b", "b.l", b, geo.Left, geo.NewPoint(300, 25)),
			},
			exp: geo.Route{geo.NewPoint(100, 25), geo.NewPoint(300, 25)},
		},
		{
			name: "diagonal_without_crossing",
			req: &d2routing.Request{
				Source: portAnchor("a", "a.b", a, geo.Bottom, geo.NewPoint(50, 50)),
				Target: portAnchor("b", "b.t", lowB, geo.Top, geo.NewPoint(350, 100)),
			},
			exp: geo.Route{geo.NewPoint(50, 50), geo.NewPoint(350, 100)},
		},
		{
			name: "elbow_around_source",
			req: &d2routing.Request{
				Source: portAnchor("a", "a.l", a, geo.Left, geo.NewPoint(0, 25)),
				Target: portAnchor("b", "b.l", lowB, geo.Left, geo.NewPoint(300, 125)),
			},
			exp: geo.Route{geo.NewPoint(0, 25), geo.NewPoint(0, 125), geo.NewPoint(300, 125)},
		},
		{
			name: "free_point_never_bends",
			req: &d2routing.Request{
				Source: portAnchor("a", "a.l", a, geo.Left, geo.NewPoint(0, 25)),
				Target: d2routing.Anchor{Point: geo.NewPoint(300, 125)},
			},
			exp: geo.Route{geo.NewPoint(0, 25), geo.NewPoint(300, 125)},
		},
		{
			name: "vertices",
			req: &d2routing.Request{
				Source:   portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target:   portAnchor("b", "b.l", b, geo.Left, geo.NewPoint(300, 25)),
				Vertices: []*geo.Point{geo.NewPoint(200, 200), nil, geo.NewPoint(250, 200)},
			},
			exp: geo.Route{geo.NewPoint(100, 25), geo.NewPoint(200, 200), geo.NewPoint(250, 200), geo.NewPoint(300, 25)},
		},
		{
			name: "missing_target",
			req: &d2routing.Request{
				Source: d2routing.Anchor{Point: geo.NewPoint(5, 5)},
			},
			exp: geo.Route{geo.NewPoint(5, 5), geo.NewPoint(5, 5)},
		},
		{
			name: "missing_both",
			req:  &d2routing.Request{},
			exp:  geo.Route{geo.NewPoint(0, 0), geo.NewPoint(0, 0)},
		},
		{
			name: "coincident",
			req: &d2routing.Request{
				Source: portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
				Target: portAnchor("a", "a.r", a, geo.Right, geo.NewPoint(100, 25)),
			},
			exp: geo.Route{geo.NewPoint(100, 25), geo.NewPoint(100, 25)},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := d2routing.Normal{}.Route(tc.req)
			assert.Equal(t, tc.exp.ToString(), got.ToString())
			assert.True(t, got.Equals(d2routing.Normal{}.Route(tc.req)))
		})
	}
}

func TestNormalDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	v := geo.NewPoint(10, 10)
	src := geo.NewPoint(0, 0)
	req := &d2routing.Request{
		Source:   d2routing.Anchor{Point: src},
		Target:   d2routing.Anchor{Point: geo.NewPoint(20, 0)},
		Vertices: []*geo.Point{v},
	}
	route := d2routing.Normal{}.Route(req)
	route[0].X = 99
	route[1].Y = 99
	assert.Equal(t, 0., src.X)
	assert.Equal(t, 10., v.Y)
}
