package d2diagram

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

// Node is a box on the canvas that links attach to through its ports.
//
// Entities returned by a Diagram are owned by it. Change them only through
// Diagram methods so that links and groups follow.
type Node struct {
	ID       string `json:"id"`
	*geo.Box `json:"box"`
	Title    string `json:"title,omitempty"`

	// Group is the ID of the enclosing group, if any.
	Group    string `json:"group,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
	Selected bool   `json:"selected,omitempty"`

	Ports []*Port `json:"ports,omitempty"`
}

func NewNode(id string, x, y, width, height float64) *Node {
	return &Node{
		ID:  id,
		Box: geo.NewBox(geo.NewPoint(x, y), width, height),
	}
}

// AddPort attaches p to a node that is not registered yet.
// Use Diagram.AddPort once the node belongs to a diagram.
func (n *Node) AddPort(p *Port) error {
	if p.ID == n.ID || n.Port(p.ID) != nil {
		return &DuplicateIDError{ID: p.ID}
	}
	p.Node = n.ID
	n.Ports = append(n.Ports, p)
	return nil
}

func (n *Node) Port(id string) *Port {
	for _, p := range n.Ports {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PortAt returns the first port with the given alignment.
func (n *Node) PortAt(alignment geo.Orientation) *Port {
	for _, p := range n.Ports {
		if p.Alignment == alignment {
			return p
		}
	}
	return nil
}
