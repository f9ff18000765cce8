package geo

import (
	"fmt"
	"math"
)

type Box struct {
	TopLeft *Point  `json:"topLeft"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func NewBox(tl *Point, width, height float64) *Box {
	return &Box{
		TopLeft: tl,
		Width:   width,
		Height:  height,
	}
}

// BoxFromCorners builds the box spanned by two opposite corners, in any order.
func BoxFromCorners(a, b *Point) *Box {
	tl := NewPoint(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
	return NewBox(tl, math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}

func (b *Box) Copy() *Box {
	if b == nil {
		return nil
	}
	return NewBox(b.TopLeft.Copy(), b.Width, b.Height)
}

func (b *Box) Equals(other *Box) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.TopLeft.Equals(other.TopLeft) && b.Width == other.Width && b.Height == other.Height
}

func (b *Box) Left() float64   { return b.TopLeft.X }
func (b *Box) Top() float64    { return b.TopLeft.Y }
func (b *Box) Right() float64  { return b.TopLeft.X + b.Width }
func (b *Box) Bottom() float64 { return b.TopLeft.Y + b.Height }

func (b *Box) Center() *Point {
	return NewPoint(b.TopLeft.X+b.Width/2, b.TopLeft.Y+b.Height/2)
}

// Contains includes the border.
func (b *Box) Contains(p *Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom()
}

// ContainsStrict excludes the border.
func (b *Box) ContainsStrict(p *Point) bool {
	return p.X > b.Left() && p.X < b.Right() && p.Y > b.Top() && p.Y < b.Bottom()
}

// Overlaps reports whether the boxes share any point, borders included.
func (b *Box) Overlaps(other *Box) bool {
	return b.Left() <= other.Right() && other.Left() <= b.Right() &&
		b.Top() <= other.Bottom() && other.Top() <= b.Bottom()
}

// Grow returns a copy expanded by d on every side. Negative d shrinks it, never below zero size.
func (b *Box) Grow(d float64) *Box {
	w := math.Max(0, b.Width+2*d)
	h := math.Max(0, b.Height+2*d)
	c := b.Center()
	return NewBox(NewPoint(c.X-w/2, c.Y-h/2), w, h)
}

// Scale multiplies position and size by f, e.g. to go from diagram to screen space.
func (b *Box) Scale(f float64) *Box {
	return NewBox(b.TopLeft.Scale(f), b.Width*f, b.Height*f)
}

func (b *Box) Union(other *Box) *Box {
	if b == nil {
		return other.Copy()
	}
	if other == nil {
		return b.Copy()
	}
	tl := NewPoint(math.Min(b.Left(), other.Left()), math.Min(b.Top(), other.Top()))
	br := NewPoint(math.Max(b.Right(), other.Right()), math.Max(b.Bottom(), other.Bottom()))
	return BoxFromCorners(tl, br)
}

// SegmentCrossesInterior reports whether the segment p1->p2 passes through the inside
// of the box. Touching or running along the border does not count.
// Liang-Barsky clipping against the open box.
func (b *Box) SegmentCrossesInterior(p1, p2 *Point) bool {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q > 0
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
		return true
	}
	if !clip(-dx, p1.X-b.Left()) || !clip(dx, b.Right()-p1.X) ||
		!clip(-dy, p1.Y-b.Top()) || !clip(dy, b.Bottom()-p1.Y) {
		return false
	}
	if t1-t0 <= PRECISION {
		return false
	}
	mid := p1.Interpolate(p2, (t0+t1)/2)
	return b.ContainsStrict(mid)
}

func (b *Box) ToString() string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("{TopLeft: %s, Width: %.0f, Height: %.0f}", b.TopLeft.ToString(), b.Width, b.Height)
}
