package d2diagram

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

const DefaultGroupPadding = 30.

// Group encloses nodes and other groups. Its box is computed from its children.
type Group struct {
	ID string `json:"id"`
	// Children are node or group IDs, in insertion order.
	Children []string `json:"children"`
	Parent   string   `json:"parent,omitempty"`
	Padding  float64  `json:"padding"`
	Selected bool     `json:"selected,omitempty"`

	// Box is nil while the group has no children.
	Box *geo.Box `json:"box"`
}

func NewGroup(id string, children ...string) *Group {
	return &Group{
		ID:       id,
		Children: append([]string(nil), children...),
		Padding:  DefaultGroupPadding,
	}
}
