package d2paths_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func TestStraight(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		route       geo.Route
		expSegments int
		expData     string
		expLength   float64
	}{
		{
			name:        "empty",
			expSegments: 0,
			expData:     "",
		},
		{
			name:        "single_point",
			route:       geo.Route{geo.NewPoint(4, 4)},
			expSegments: 1,
			expData:     "M 4 4 L 4 4",
		},
		{
			name:        "ports",
			route:       geo.Route{geo.NewPoint(100, 25), geo.NewPoint(300, 25)},
			expSegments: 1,
			expData:     "M 100 25 L 300 25",
			expLength:   200,
		},
		{
			name:        "elbow",
			route:       geo.Route{geo.NewPoint(0, 0), geo.NewPoint(0, 30), geo.NewPoint(40, 30)},
			expSegments: 2,
			expData:     "M 0 0 L 0 30 L 40 30",
			expLength:   70,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			before := tc.route.Copy()
			p := d2paths.Straight{}.Generate(tc.route)
			assert.Len(t, p.Segments, tc.expSegments)
			for _, s := range p.Segments {
				assert.Equal(t, d2paths.Line, s.Kind)
			}
			assert.Equal(t, tc.expData, p.PathData())
			assert.InDelta(t, tc.expLength, p.Length(), geo.PRECISION)
			assert.True(t, before.Equals(tc.route))
		})
	}
}

func TestSmoothTwoPoints(t *testing.T) {
	t.Parallel()

	p := d2paths.Smooth{}.Generate(geo.Route{geo.NewPoint(0, 0), geo.NewPoint(100, 50)})
	assert.Len(t, p.Segments, 1)
	assert.Equal(t, d2paths.Cubic, p.Segments[0].Kind)
	assert.Equal(t, "M 0 0 C 50 0 50 50 100 50", p.PathData())

	p = d2paths.Smooth{}.Generate(geo.Route{geo.NewPoint(0, 0), geo.NewPoint(20, 100)})
	assert.Equal(t, "M 0 0 C 0 50 20 50 20 100", p.PathData())

	p = d2paths.Smooth{}.Generate(geo.Route{geo.NewPoint(7, 7), geo.NewPoint(7, 7)})
	assert.Equal(t, d2paths.Line, p.Segments[0].Kind)
	assert.Equal(t, 0., p.Length())
}

func TestSmoothInterpolates(t *testing.T) {
	t.Parallel()

	route := geo.Route{
		geo.NewPoint(0, 0),
		geo.NewPoint(100, 40),
		geo.NewPoint(150, 200),
		geo.NewPoint(300, 210),
		geo.NewPoint(320, 400),
	}
	before := route.Copy()
	p := d2paths.Smooth{}.Generate(route)

	assert.True(t, before.Equals(route))
	assert.Len(t, p.Segments, len(route)-1)
	for i, s := range p.Segments {
		assert.Equal(t, d2paths.Cubic, s.Kind)
		assert.True(t, s.Start.Equals(route[i]))
		assert.True(t, s.End.Equals(route[i+1]))
	}
	for i := 1; i < len(p.Segments); i++ {
		in := p.Segments[i-1].EndTangent()
		out := p.Segments[i].StartTangent()
		assert.InDelta(t, in[0], out[0], geo.PRECISION)
		assert.InDelta(t, in[1], out[1], geo.PRECISION)
	}
}

func TestAngles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		gen       d2paths.Generator
		route     geo.Route
		expSource float64
		expTarget float64
	}{
		{
			name:      "straight_right",
			gen:       d2paths.Straight{},
			route:     geo.Route{geo.NewPoint(0, 0), geo.NewPoint(100, 0)},
			expSource: 180,
			expTarget: 0,
		},
		{
			name:      "straight_down",
			gen:       d2paths.Straight{},
			route:     geo.Route{geo.NewPoint(0, 0), geo.NewPoint(0, 100)},
			expSource: 270,
			expTarget: 90,
		},
		{
			name:      "smooth_s_curve",
			gen:       d2paths.Smooth{},
			route:     geo.Route{geo.NewPoint(0, 0), geo.NewPoint(100, 50)},
			expSource: 180,
			expTarget: 0,
		},
		{
			name:      "degenerate",
			gen:       d2paths.Straight{},
			route:     geo.Route{geo.NewPoint(3, 3)},
			expSource: 0,
			expTarget: 0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := tc.gen.Generate(tc.route)
			assert.InDelta(t, tc.expSource, p.SourceAngle(), geo.PRECISION)
			assert.InDelta(t, tc.expTarget, p.TargetAngle(), geo.PRECISION)
		})
	}
}

func TestBoundingBox(t *testing.T) {
	t.Parallel()

	var empty *d2paths.Path
	assert.Nil(t, empty.BoundingBox())
	assert.Equal(t, "", empty.PathData())

	p := d2paths.Straight{}.Generate(geo.Route{geo.NewPoint(10, 50), geo.NewPoint(40, 10), geo.NewPoint(70, 30)})
	assert.Equal(t, geo.NewBox(geo.NewPoint(10, 10), 60, 40).ToString(), p.BoundingBox().ToString())

	// The curve stays within the hull of its control points.
	p = d2paths.Smooth{}.Generate(geo.Route{geo.NewPoint(0, 0), geo.NewPoint(100, 50)})
	b := p.BoundingBox()
	assert.InDelta(t, 0., b.Left(), geo.PRECISION)
	assert.InDelta(t, 100., b.Right(), geo.PRECISION)
	assert.InDelta(t, 50., b.Bottom(), geo.PRECISION)
}
