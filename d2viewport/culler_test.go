package d2viewport_test

import (
	"context"
	"fmt"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/d2viewport"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func addNode(t *testing.T, d *d2diagram.Diagram, id string, x, y float64) {
	t.Helper()

	n := d2diagram.NewNode(id, x, y, 100, 50)
	for _, side := range []geo.Orientation{geo.Top, geo.Right, geo.Bottom, geo.Left} {
		assert.Success(t, n.AddPort(d2diagram.NewPort(d2diagram.SidePortID(id, side), side)))
	}
	assert.Success(t, d.AddNode(n))
}

func addLink(t *testing.T, d *d2diagram.Diagram, id, source, target string, vertices ...*geo.Point) {
	t.Helper()

	l := d2diagram.NewLink(id, d2diagram.PortEndpoint(source), d2diagram.PortEndpoint(target))
	l.Vertices = vertices
	assert.Success(t, d.AddLink(l))
}

// scene lays out
//
//	a ---- b                 far
//	  \___ via (2000, 2000) __/
func scene(t *testing.T, opts *d2diagram.Options) *d2diagram.Diagram {
	t.Helper()

	d, err := d2diagram.NewDiagram(opts)
	assert.Success(t, err)
	addNode(t, d, "a", 0, 0)
	addNode(t, d, "b", 300, 0)
	addNode(t, d, "far", 5000, 0)
	addLink(t, d, "ab", "a.Right", "b.Left")
	addLink(t, d, "bfar", "b.Right", "far.Left")
	addLink(t, d, "via", "a.Bottom", "far.Bottom", geo.NewPoint(2000, 2000))
	return d
}

func TestVisible(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		viewport *geo.Box
		zoom     float64
		exp      []string
	}{
		{
			name:     "left",
			viewport: geo.NewBox(geo.NewPoint(-10, -10), 500, 200),
			zoom:     1,
			exp:      []string{"a", "ab", "b", "bfar", "via"},
		},
		{
			name:     "far_only",
			viewport: geo.NewBox(geo.NewPoint(4900, -100), 400, 300),
			zoom:     1,
			exp:      []string{"bfar", "far", "via"},
		},
		{
			name:     "waypoint_only",
			viewport: geo.NewBox(geo.NewPoint(1900, 1900), 200, 200),
			zoom:     1,
			exp:      []string{"via"},
		},
		{
			name:     "waypoint_in_margin",
			viewport: geo.NewBox(geo.NewPoint(2040, 2040), 100, 100),
			zoom:     1,
			exp:      []string{"via"},
		},
		{
			name:     "waypoint_outside_margin",
			viewport: geo.NewBox(geo.NewPoint(2060, 2060), 100, 100),
			zoom:     1,
			exp:      []string{},
		},
		{
			name:     "empty_area",
			viewport: geo.NewBox(geo.NewPoint(1000, -1000), 100, 100),
			zoom:     1,
			exp:      []string{},
		},
		{
			name:     "zoomed_out",
			viewport: geo.NewBox(geo.NewPoint(2490, -10), 100, 100),
			zoom:     .5,
			exp:      []string{"bfar", "far", "via"},
		},
		{
			name:     "zoomed_in",
			viewport: geo.NewBox(geo.NewPoint(150, 0), 100, 100),
			zoom:     2,
			exp:      []string{"a", "ab", "via"},
		},
		{
			name:     "non_positive_zoom",
			viewport: geo.NewBox(geo.NewPoint(-10, -10), 50, 50),
			zoom:     0,
			exp:      []string{"a", "ab", "via"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := scene(t, nil)
			c := d2viewport.NewCuller(d, nil)
			defer c.Close()
			tassert.Equal(t, tc.exp, c.VisibleIDs(tc.viewport, tc.zoom))
		})
	}
}

func TestVirtualizationDisabled(t *testing.T) {
	t.Parallel()

	opts := d2diagram.DefaultOptions()
	opts.EnableVirtualization = false
	d := scene(t, opts)
	c := d2viewport.NewCuller(d, nil)
	defer c.Close()

	exp := []string{"a", "ab", "b", "bfar", "far", "via"}
	tassert.Equal(t, exp, c.VisibleIDs(geo.NewBox(geo.NewPoint(1000, -1000), 1, 1), 1))
	tassert.Equal(t, exp, c.VisibleIDs(nil, 0))

	assert.Success(t, d.AddGroup(d2diagram.NewGroup("empty")))
	exp = []string{"a", "ab", "b", "bfar", "empty", "far", "via"}
	tassert.Equal(t, exp, c.VisibleIDs(nil, 0))

	assert.Success(t, d.AddGroup(d2diagram.NewGroup("g", "far")))
	ok, err := d.RemoveNode(context.Background(), "far")
	assert.Success(t, err)
	tassert.True(t, ok)
	exp = []string{"a", "ab", "b", "empty", "g"}
	tassert.Equal(t, exp, c.VisibleIDs(nil, 0))

	ok, err = d.RemoveGroup(context.Background(), "empty")
	assert.Success(t, err)
	tassert.True(t, ok)
	exp = []string{"a", "ab", "b", "g"}
	tassert.Equal(t, exp, c.VisibleIDs(nil, 0))
}

func TestVisibleIsMonotonic(t *testing.T) {
	t.Parallel()

	d, err := d2diagram.NewDiagram(nil)
	assert.Success(t, err)
	for i := 0; i < 20; i++ {
		for j := 0; j < 20; j++ {
			addNode(t, d, fmt.Sprintf("n%d_%d", i, j), float64(i*180), float64(j*120))
		}
	}
	for i := 0; i < 19; i++ {
		for j := 0; j < 20; j++ {
			addLink(t, d, fmt.Sprintf("l%d_%d", i, j), fmt.Sprintf("n%d_%d.Right", i, j), fmt.Sprintf("n%d_%d.Left", i+1, j))
		}
	}
	c := d2viewport.NewCuller(d, &d2viewport.Opts{CellSize: 100})
	defer c.Close()

	for _, zoom := range []float64{.25, 1, 1.7} {
		prev := map[string]struct{}{}
		for size := 0.; size <= 4000; size += 250 {
			vis := c.Visible(geo.NewBox(geo.NewPoint(700-size/2, 500-size/2), size, size*.75), zoom)
			for id := range prev {
				_, ok := vis[id]
				tassert.True(t, ok, "%s disappeared at zoom %v size %v", id, zoom, size)
			}
			tassert.GreaterOrEqual(t, len(vis), len(prev))
			prev = vis
		}
	}
}

func TestCullerFollowsChanges(t *testing.T) {
	t.Parallel()

	d := scene(t, nil)
	c := d2viewport.NewCuller(d, nil)
	viewport := geo.NewBox(geo.NewPoint(4900, -100), 400, 300)

	assert.Success(t, d.MoveNode("a", 5100, 100))
	tassert.Equal(t, []string{"a", "ab", "bfar", "far", "via"}, c.VisibleIDs(viewport, 1))

	ok, err := d.RemoveNode(context.Background(), "far")
	assert.Success(t, err)
	tassert.True(t, ok)
	tassert.Equal(t, []string{"a", "ab"}, c.VisibleIDs(viewport, 1))

	opts := d.Options()
	tassert.False(t, opts.Groups.Enabled)
	assert.Success(t, d.AddGroup(d2diagram.NewGroup("g", "b")))
	tassert.Equal(t, []string{"a", "ab"}, c.VisibleIDs(viewport, 1))
	tassert.Equal(t, []string{"ab", "b", "g"}, c.VisibleIDs(geo.NewBox(geo.NewPoint(250, -40), 60, 60), 1))

	c.Close()
	assert.Success(t, d.MoveNode("b", 5000, 0))
	tassert.Equal(t, []string{"a", "ab"}, c.VisibleIDs(viewport, 1))
}

func TestLargeEntries(t *testing.T) {
	t.Parallel()

	d, err := d2diagram.NewDiagram(nil)
	assert.Success(t, err)
	assert.Success(t, d.AddNode(d2diagram.NewNode("huge", -50000, -50000, 100000, 100000)))
	assert.Success(t, d.AddNode(d2diagram.NewNode("small", 60000, 60000, 10, 10)))
	c := d2viewport.NewCuller(d, &d2viewport.Opts{CellSize: 10})
	defer c.Close()

	tassert.Equal(t, []string{"huge"}, c.VisibleIDs(geo.NewBox(geo.NewPoint(0, 0), 10, 10), 1))
	tassert.Equal(t, []string{"small"}, c.VisibleIDs(geo.NewBox(geo.NewPoint(60005, 60005), 1, 1), 1))
}
