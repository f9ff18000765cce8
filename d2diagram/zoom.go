package d2diagram

import (
	"math"

	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

// Zoom is the current scale from diagram to screen units.
func (d *Diagram) Zoom() float64 {
	return d.zoom
}

// Pan is the screen offset of the diagram origin.
func (d *Diagram) Pan() *geo.Point {
	return d.pan.Copy()
}

// SetZoom clamps z to the configured range. It is ignored when zooming is
// disabled and reports whether the zoom changed.
func (d *Diagram) SetZoom(z float64) bool {
	if d.closed.Load() || !d.opts.Zoom.Enabled || math.IsNaN(z) {
		return false
	}
	z = go2.Clamp(z, d.opts.Zoom.Minimum(), d.opts.Zoom.Maximum)
	if z == d.zoom {
		return false
	}
	d.zoom = z
	d.emit(Updated, ViewEntity)
	d.flush()
	return true
}

// ZoomBy applies one wheel step. A positive delta zooms out, or in when the
// zoom is inverted.
func (d *Diagram) ZoomBy(delta float64) bool {
	if delta == 0 {
		return false
	}
	sf := d.opts.Zoom.ScaleFactor
	out := delta > 0
	if d.opts.Zoom.Inverse {
		out = !out
	}
	if out {
		return d.SetZoom(d.zoom / sf)
	}
	return d.SetZoom(d.zoom * sf)
}

// SetPan is ignored when panning is disabled.
func (d *Diagram) SetPan(x, y float64) bool {
	if d.closed.Load() || !d.opts.AllowPanning {
		return false
	}
	p := geo.NewPoint(x, y)
	if p.Equals(d.pan) {
		return false
	}
	d.pan = p
	d.emit(Updated, ViewEntity)
	d.flush()
	return true
}

func (d *Diagram) PanBy(dx, dy float64) bool {
	return d.SetPan(d.pan.X+dx, d.pan.Y+dy)
}

// Bounds is the box around every node and group, nil for an empty diagram.
func (d *Diagram) Bounds() *geo.Box {
	var b *geo.Box
	for _, n := range d.nodes {
		b = b.Union(n.Box)
	}
	for _, g := range d.groups {
		if g.Box != nil {
			b = b.Union(g.Box)
		}
	}
	return b
}

// ZoomToFit scales and pans so that the whole diagram fits a viewWidth by
// viewHeight screen area with margin screen units on every side.
func (d *Diagram) ZoomToFit(viewWidth, viewHeight, margin float64) bool {
	if d.closed.Load() || !d.opts.Zoom.Enabled {
		return false
	}
	b := d.Bounds()
	if b == nil {
		return false
	}
	availW := math.Max(viewWidth-2*margin, 1)
	availH := math.Max(viewHeight-2*margin, 1)
	z := d.zoom
	if b.Width > 0 && b.Height > 0 {
		z = math.Min(availW/b.Width, availH/b.Height)
	} else if b.Width > 0 {
		z = availW / b.Width
	} else if b.Height > 0 {
		z = availH / b.Height
	}
	z = go2.Clamp(z, d.opts.Zoom.Minimum(), d.opts.Zoom.Maximum)

	c := b.Center()
	pan := geo.NewPoint(viewWidth/2-c.X*z, viewHeight/2-c.Y*z)
	if z == d.zoom && pan.Equals(d.pan) {
		return false
	}
	d.zoom = z
	d.pan = pan
	d.emit(Updated, ViewEntity)
	d.flush()
	return true
}

// Viewport is the screen area of the given size expressed in zoomed diagram
// units, the space Culler.Visible expects.
func (d *Diagram) Viewport(viewWidth, viewHeight float64) *geo.Box {
	return geo.NewBox(geo.NewPoint(-d.pan.X, -d.pan.Y), viewWidth, viewHeight)
}
