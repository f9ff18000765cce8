package d2diagram

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

// Port is an attachment point on the border of a node.
type Port struct {
	ID string `json:"id"`
	// Node is the owning node's ID.
	Node      string          `json:"node"`
	Alignment geo.Orientation `json:"alignment"`
	// Offset overrides the anchor derived from the alignment. It is relative to the node's top left.
	Offset *geo.Point `json:"offset,omitempty"`
}

func NewPort(id string, alignment geo.Orientation) *Port {
	return &Port{
		ID:        id,
		Alignment: alignment,
	}
}

// Anchor is the absolute point links attach to given the owning node's box.
func (p *Port) Anchor(box *geo.Box) *geo.Point {
	if p.Offset != nil {
		return box.TopLeft.Add(p.Offset.X, p.Offset.Y)
	}
	w, h := box.Width, box.Height
	switch p.Alignment {
	case geo.Top:
		return box.TopLeft.Add(w/2, 0)
	case geo.Right:
		return box.TopLeft.Add(w, h/2)
	case geo.Bottom:
		return box.TopLeft.Add(w/2, h)
	case geo.Left:
		return box.TopLeft.Add(0, h/2)
	case geo.TopLeft:
		return box.TopLeft.Copy()
	case geo.TopRight:
		return box.TopLeft.Add(w, 0)
	case geo.BottomLeft:
		return box.TopLeft.Add(0, h)
	case geo.BottomRight:
		return box.TopLeft.Add(w, h)
	}
	return box.Center()
}
