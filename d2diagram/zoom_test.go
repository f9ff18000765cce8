package d2diagram_test

import (
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func TestZoom(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	tassert.Equal(t, 1., d.Zoom())

	tassert.True(t, d.ZoomBy(1))
	tassert.InDelta(t, 1/1.05, d.Zoom(), 1e-9)
	tassert.True(t, d.ZoomBy(-1))
	tassert.InDelta(t, 1., d.Zoom(), 1e-9)
	tassert.False(t, d.ZoomBy(0))

	tassert.True(t, d.SetZoom(10))
	tassert.Equal(t, d2diagram.DefaultZoomMaximum, d.Zoom())
	tassert.False(t, d.ZoomBy(-1))
	tassert.True(t, d.SetZoom(0.001))
	tassert.Equal(t, d2diagram.DefaultZoomMinimum, d.Zoom())
}

func TestZoomInverse(t *testing.T) {
	t.Parallel()

	opts := d2diagram.DefaultOptions()
	opts.Zoom.Inverse = true
	d := newDiagram(t, opts)
	tassert.True(t, d.ZoomBy(1))
	tassert.InDelta(t, 1.05, d.Zoom(), 1e-9)
}

func TestZoomDisabled(t *testing.T) {
	t.Parallel()

	opts := d2diagram.DefaultOptions()
	opts.Zoom.Enabled = false
	d := newDiagram(t, opts)
	tassert.False(t, d.SetZoom(1.5))
	tassert.False(t, d.ZoomBy(-1))
	tassert.Equal(t, 1., d.Zoom())
}

func TestPan(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	tassert.True(t, d.SetPan(10, 20))
	tassert.True(t, d.PanBy(5, 5))
	tassert.True(t, d.Pan().Equals(geo.NewPoint(15, 25)))
	tassert.True(t, d.Viewport(800, 600).Equals(geo.NewBox(geo.NewPoint(-15, -25), 800, 600)))

	opts := d2diagram.DefaultOptions()
	opts.AllowPanning = false
	d = newDiagram(t, opts)
	tassert.False(t, d.SetPan(10, 20))
	tassert.True(t, d.Pan().Equals(geo.NewPoint(0, 0)))
}

func TestZoomToFit(t *testing.T) {
	t.Parallel()

	d := newDiagram(t, nil)
	tassert.False(t, d.ZoomToFit(800, 600, 10))

	addNode(t, d, "a", 0, 0, 100, 50)
	addNode(t, d, "b", 300, 150, 100, 50)
	tassert.True(t, d.Bounds().Equals(geo.NewBox(geo.NewPoint(0, 0), 400, 200)))

	tassert.True(t, d.ZoomToFit(820, 420, 10))
	tassert.Equal(t, 2., d.Zoom())
	tassert.True(t, d.Pan().Equals(geo.NewPoint(10, 10)))

	tassert.True(t, d.ZoomToFit(210, 110, 5))
	tassert.Equal(t, .5, d.Zoom())
	tassert.True(t, d.Pan().Equals(geo.NewPoint(5, 5)))
	tassert.False(t, d.ZoomToFit(210, 110, 5))
}
