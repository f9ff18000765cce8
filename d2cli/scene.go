package d2cli

import (
	"context"
	"fmt"
	"math"

	"cdr.dev/slog"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/log"
)

const (
	columnGap = 200.
	rowGap    = 150.
)

var sides = []geo.Orientation{geo.Top, geo.Right, geo.Bottom, geo.Left}

func nodeID(i int) string {
	return fmt.Sprintf("n%d", i)
}

// generate builds a diagram of n nodes on a square grid. Each node links to
// its right and bottom neighbors. With groups enabled every row is grouped.
func generate(ctx context.Context, opts *d2diagram.Options, n int) (_ *d2diagram.Diagram, err error) {
	defer xdefer.Errorf(&err, "failed to generate diagram of %d nodes", n)

	d, err := d2diagram.NewDiagram(opts)
	if err != nil {
		return nil, err
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i := 0; i < n; i++ {
		x := float64(i%cols) * (d2diagram.DefaultNodeWidth + columnGap)
		y := float64(i/cols) * (d2diagram.DefaultNodeHeight + rowGap)
		node := d2diagram.NewNode(nodeID(i), x, y, d2diagram.DefaultNodeWidth, d2diagram.DefaultNodeHeight)
		node.Title = fmt.Sprintf("Node %d", i)
		for _, side := range sides {
			if err := node.AddPort(d2diagram.NewPort(d2diagram.SidePortID(node.ID, side), side)); err != nil {
				return nil, err
			}
		}
		if err := d.AddNode(node); err != nil {
			return nil, err
		}
	}

	link := func(from, to int, fromSide, toSide geo.Orientation) error {
		l := d2diagram.NewLink(
			fmt.Sprintf("%s->%s", nodeID(from), nodeID(to)),
			d2diagram.PortEndpoint(d2diagram.SidePortID(nodeID(from), fromSide)),
			d2diagram.PortEndpoint(d2diagram.SidePortID(nodeID(to), toSide)),
		)
		return d.AddLink(l)
	}
	for i := 0; i < n; i++ {
		if i%cols+1 < cols && i+1 < n {
			if err := link(i, i+1, geo.Right, geo.Left); err != nil {
				return nil, err
			}
		}
		if i+cols < n {
			if err := link(i, i+cols, geo.Bottom, geo.Top); err != nil {
				return nil, err
			}
		}
	}

	if opts.Groups.Enabled {
		for row := 0; row*cols < n; row++ {
			var children []string
			for i := row * cols; i < n && i < (row+1)*cols; i++ {
				children = append(children, nodeID(i))
			}
			if _, err := d.Group(children...); err != nil {
				return nil, err
			}
		}
	}

	log.Debug(ctx, "generated diagram", slog.F("counts", d.Counts()))
	return d, nil
}
