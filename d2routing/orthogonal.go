package d2routing

import (
	"container/heap"
	"math"
	"sort"

	"oss.terrastruct.com/d2flow/lib/geo"
	"oss.terrastruct.com/d2flow/lib/go2"
)

const (
	DefaultMargin      = 10.
	DefaultBendPenalty = 20.
)

// Orthogonal routes with axis aligned segments around node bodies.
//
// Bodies are inflated by Margin. The route leaves a port perpendicular to its
// alignment, then searches a sparse grid built from the obstacle edges, the
// anchors and the midpoints between them. Each bend costs BendPenalty on top
// of the travelled length. When no route exists it falls back to Normal.
type Orthogonal struct {
	Margin      float64
	BendPenalty float64
}

func NewOrthogonal() *Orthogonal {
	return &Orthogonal{
		Margin:      DefaultMargin,
		BendPenalty: DefaultBendPenalty,
	}
}

func (o *Orthogonal) Route(req *Request) geo.Route {
	src, dst := req.endpoints()
	if src.Equals(dst) && len(req.Vertices) == 0 {
		return geo.Route{src, dst}
	}

	margin := o.Margin
	if margin < 0 {
		margin = 0
	}

	obstacles := make([]*geo.Box, 0, len(req.Obstacles))
	for _, id := range go2.SortedKeys(req.Obstacles) {
		if b := req.Obstacles[id]; b != nil {
			obstacles = append(obstacles, b.Grow(margin))
		}
	}

	srcStub := stub(req.Source, src, margin)
	dstStub := stub(req.Target, dst, margin)

	stops := []*geo.Point{srcStub}
	stops = append(stops, copyVertices(req.Vertices)...)
	stops = append(stops, dstStub)

	route := geo.Route{src}
	dir := outwardDir(req.Source.Alignment)
	for i := 0; i < len(stops)-1; i++ {
		wantEnd := noDir
		if i == len(stops)-2 {
			wantEnd = inwardDir(req.Target.Alignment)
		}
		leg, endDir, ok := o.search(stops[i], stops[i+1], dir, wantEnd, obstacles, margin)
		if !ok {
			RouteFallbacksTotal.Inc()
			return Normal{}.Route(req)
		}
		route = append(route, leg...)
		dir = endDir
	}
	route = append(route, dst)
	return route.Simplify()
}

// stub is the first point of the route outside the inflated body of the anchor's node.
func stub(a Anchor, p *geo.Point, margin float64) *geo.Point {
	if a.Box == nil || !a.IsPort() {
		return p.Copy()
	}
	dx, dy := a.Alignment.Outward()
	return p.Add(dx*margin, dy*margin)
}

type direction int

const (
	dirRight direction = iota
	dirDown
	dirLeft
	dirUp
	noDir
)

func outwardDir(o geo.Orientation) direction {
	switch o {
	case geo.Right:
		return dirRight
	case geo.Bottom:
		return dirDown
	case geo.Left:
		return dirLeft
	case geo.Top:
		return dirUp
	}
	return noDir
}

// inwardDir is the direction a route travels when it enters a port on side o.
func inwardDir(o geo.Orientation) direction {
	return outwardDir(o.GetOpposite())
}

type gridNode struct {
	i, j int
}

type searchState struct {
	node gridNode
	dir  direction
}

type queueItem struct {
	state searchState
	cost  float64
	prio  float64
	seq   int
}

type queue []*queueItem

func (q queue) Len() int { return len(q) }
func (q queue) Less(a, b int) bool {
	if q[a].prio != q[b].prio {
		return q[a].prio < q[b].prio
	}
	return q[a].seq < q[b].seq
}
func (q queue) Swap(a, b int)       { q[a], q[b] = q[b], q[a] }
func (q *queue) Push(x interface{}) { *q = append(*q, x.(*queueItem)) }
func (q *queue) Pop() interface{} {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// search runs A* from start to goal over the sparse grid and returns the
// points after start up to and including goal.
func (o *Orthogonal) search(start, goal *geo.Point, startDir, endDir direction, allObstacles []*geo.Box, margin float64) ([]*geo.Point, direction, bool) {
	if start.Equals(goal) {
		return []*geo.Point{goal.Copy()}, startDir, true
	}

	region := geo.BoxFromCorners(start, goal).Grow(margin * 2)
	var obstacles []*geo.Box
	// Pull in every obstacle touching the search region, growing it so the
	// route can travel around them.
	for grew := true; grew; {
		grew = false
		obstacles = obstacles[:0]
		for _, b := range allObstacles {
			if b.Overlaps(region) {
				obstacles = append(obstacles, b)
				if u := region.Union(b.Grow(margin * 2)); !u.Equals(region) {
					region = u
					grew = true
				}
			}
		}
	}

	xs := []float64{start.X, goal.X, region.Left(), region.Right()}
	ys := []float64{start.Y, goal.Y, region.Top(), region.Bottom()}
	for _, b := range obstacles {
		xs = append(xs, b.Left(), b.Right())
		ys = append(ys, b.Top(), b.Bottom())
	}
	xs = withMidpoints(xs)
	ys = withMidpoints(ys)

	at := func(n gridNode) *geo.Point {
		return geo.NewPoint(xs[n.i], ys[n.j])
	}
	startNode := gridNode{sort.SearchFloat64s(xs, start.X), sort.SearchFloat64s(ys, start.Y)}
	goalNode := gridNode{sort.SearchFloat64s(xs, goal.X), sort.SearchFloat64s(ys, goal.Y)}

	blocked := func(n gridNode) bool {
		if n == startNode || n == goalNode {
			return false
		}
		p := at(n)
		for _, b := range obstacles {
			if b.ContainsStrict(p) {
				return true
			}
		}
		return false
	}
	passable := func(a, b gridNode) bool {
		pa, pb := at(a), at(b)
		for _, ob := range obstacles {
			if ob.SegmentCrossesInterior(pa, pb) {
				return false
			}
		}
		return true
	}
	heuristic := func(n gridNode) float64 {
		p := at(n)
		return math.Abs(p.X-goal.X) + math.Abs(p.Y-goal.Y)
	}

	best := map[searchState]float64{}
	prev := map[searchState]searchState{}
	seq := 0
	q := &queue{}
	first := searchState{startNode, startDir}
	best[first] = 0
	heap.Push(q, &queueItem{state: first, prio: heuristic(startNode)})

	steps := [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	for q.Len() > 0 {
		it := heap.Pop(q).(*queueItem)
		cur := it.state
		if it.cost > best[cur] {
			continue
		}
		if cur.node == goalNode {
			return unwind(prev, first, cur, at), cur.dir, true
		}
		for d, step := range steps {
			next := gridNode{cur.node.i + step[0], cur.node.j + step[1]}
			if next.i < 0 || next.i >= len(xs) || next.j < 0 || next.j >= len(ys) {
				continue
			}
			if blocked(next) || !passable(cur.node, next) {
				continue
			}
			dir := direction(d)
			cost := it.cost + at(cur.node).DistanceTo(at(next))
			if cur.dir != noDir && cur.dir != dir {
				cost += o.BendPenalty
			}
			if next == goalNode && endDir != noDir && dir != endDir {
				cost += o.BendPenalty
			}
			ns := searchState{next, dir}
			if c, ok := best[ns]; ok && c <= cost {
				continue
			}
			best[ns] = cost
			prev[ns] = cur
			seq++
			heap.Push(q, &queueItem{state: ns, cost: cost, prio: cost + heuristic(next), seq: seq})
		}
	}
	return nil, noDir, false
}

func unwind(prev map[searchState]searchState, first, last searchState, at func(gridNode) *geo.Point) []*geo.Point {
	var out []*geo.Point
	for s := last; s != first; s = prev[s] {
		out = append(out, at(s.node))
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// withMidpoints sorts and dedupes vs, then adds the midpoint between each neighbouring pair.
func withMidpoints(vs []float64) []float64 {
	sort.Float64s(vs)
	var uniq []float64
	for _, v := range vs {
		if len(uniq) == 0 || v != uniq[len(uniq)-1] {
			uniq = append(uniq, v)
		}
	}
	out := make([]float64, 0, len(uniq)*2)
	for i, v := range uniq {
		if i > 0 {
			out = append(out, (uniq[i-1]+v)/2)
		}
		out = append(out, v)
	}
	return out
}
