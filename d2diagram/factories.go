package d2diagram

import (
	"fmt"

	"github.com/google/uuid"

	"oss.terrastruct.com/d2flow/lib/geo"
)

const (
	DefaultNodeWidth  = 100.
	DefaultNodeHeight = 50.
)

// defaultNodeFactory creates a node with one port per side. Port IDs are
// derived from the node ID, e.g. <id>.Right.
func defaultNodeFactory(_ *Diagram, position *geo.Point) *Node {
	n := NewNode(uuid.NewString(), position.X, position.Y, DefaultNodeWidth, DefaultNodeHeight)
	for _, side := range []geo.Orientation{geo.Top, geo.Right, geo.Bottom, geo.Left} {
		_ = n.AddPort(NewPort(SidePortID(n.ID, side), side))
	}
	return n
}

func SidePortID(nodeID string, side geo.Orientation) string {
	return fmt.Sprintf("%s.%s", nodeID, side.ToString())
}

func defaultLinkFactory(_ *Diagram, source, target Endpoint) *Link {
	return NewLink(uuid.NewString(), source, target)
}

func defaultGroupFactory(_ *Diagram, children []string) *Group {
	return NewGroup(uuid.NewString(), children...)
}

// CreateNode builds a node at position with the configured factory and registers it.
func (d *Diagram) CreateNode(position *geo.Point) (*Node, error) {
	n := d.opts.Nodes.Factory(d, position.Copy())
	if n == nil {
		return nil, fmt.Errorf("failed to create node: factory returned nil")
	}
	if err := d.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateLink builds a link with the configured factory and registers it.
func (d *Diagram) CreateLink(source, target Endpoint) (*Link, error) {
	l := d.opts.Links.Factory(d, source, target)
	if l == nil {
		return nil, fmt.Errorf("failed to create link: factory returned nil")
	}
	if err := d.AddLink(l); err != nil {
		return nil, err
	}
	return l, nil
}

// CreateGroup builds a group around children with the configured factory and registers it.
func (d *Diagram) CreateGroup(children ...string) (*Group, error) {
	g := d.opts.Groups.Factory(d, append([]string(nil), children...))
	if g == nil {
		return nil, fmt.Errorf("failed to create group: factory returned nil")
	}
	if err := d.AddGroup(g); err != nil {
		return nil, err
	}
	return g, nil
}
