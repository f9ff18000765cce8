package d2viewport

import (
	"math"

	"oss.terrastruct.com/d2flow/lib/geo"
)

// maxCellsPerEntry bounds how many cells one entry is written to. Larger
// entries are kept aside and checked on every query.
const maxCellsPerEntry = 1024

type cell struct {
	x, y int
}

// grid is a uniform spatial hash over diagram coordinates. It only narrows
// candidates down, callers still test each one precisely.
type grid struct {
	size  float64
	cells map[cell]map[string]struct{}
	// entries maps an ID to the cells it occupies.
	entries map[string][]cell
	large   map[string]struct{}
}

func newGrid(size float64) *grid {
	return &grid{
		size:    size,
		cells:   make(map[cell]map[string]struct{}),
		entries: make(map[string][]cell),
		large:   make(map[string]struct{}),
	}
}

func (g *grid) span(b *geo.Box) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(b.Left() / g.size))
	y0 = int(math.Floor(b.Top() / g.size))
	x1 = int(math.Floor(b.Right() / g.size))
	y1 = int(math.Floor(b.Bottom() / g.size))
	return x0, y0, x1, y1
}

// insert replaces whatever id occupied before with the given boxes.
func (g *grid) insert(id string, boxes ...*geo.Box) {
	g.remove(id)

	seen := make(map[cell]struct{})
	var cells []cell
	for _, b := range boxes {
		x0, y0, x1, y1 := g.span(b)
		if (x1-x0+1)*(y1-y0+1) > maxCellsPerEntry {
			g.large[id] = struct{}{}
			return
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				c := cell{x, y}
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				cells = append(cells, c)
			}
		}
	}
	for _, c := range cells {
		set, ok := g.cells[c]
		if !ok {
			set = make(map[string]struct{})
			g.cells[c] = set
		}
		set[id] = struct{}{}
	}
	g.entries[id] = cells
}

func (g *grid) remove(id string) {
	delete(g.large, id)
	for _, c := range g.entries[id] {
		delete(g.cells[c], id)
		if len(g.cells[c]) == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.entries, id)
}

// query adds to out every ID possibly intersecting b.
func (g *grid) query(b *geo.Box, out map[string]struct{}) {
	for id := range g.large {
		out[id] = struct{}{}
	}
	x0, y0, x1, y1 := g.span(b)
	if (x1-x0+1)*(y1-y0+1) > len(g.cells) {
		// Walking the occupied cells is cheaper than walking the query.
		for c, set := range g.cells {
			if c.x < x0 || c.x > x1 || c.y < y0 || c.y > y1 {
				continue
			}
			for id := range set {
				out[id] = struct{}{}
			}
		}
		return
	}
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for id := range g.cells[cell{x, y}] {
				out[id] = struct{}{}
			}
		}
	}
}
