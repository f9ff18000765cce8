package d2routing

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

// Normal routes straight from source to target through the user's vertices.
//
// Without vertices, when both ends are ports that are neither horizontally nor
// vertically aligned and the straight line would cut through one of the two
// node bodies, a single elbow is inserted. The elbow follows the source
// alignment first and falls back to the other corner.
type Normal struct{}

func (Normal) Route(req *Request) geo.Route {
	src, dst := req.endpoints()
	route := geo.Route{src}
	route = append(route, copyVertices(req.Vertices)...)
	route = append(route, dst)

	if len(route) != 2 || !req.Source.IsPort() || !req.Target.IsPort() {
		return route
	}
	if src.X == dst.X || src.Y == dst.Y {
		return route
	}
	bodies := []*geo.Box{req.Source.Box, req.Target.Box}
	if !crossesAny(bodies, src, dst) {
		return route
	}

	horizontalFirst := geo.NewPoint(dst.X, src.Y)
	verticalFirst := geo.NewPoint(src.X, dst.Y)
	elbows := []*geo.Point{horizontalFirst, verticalFirst}
	if req.Source.Alignment.IsVertical() {
		elbows = []*geo.Point{verticalFirst, horizontalFirst}
	}
	for _, elbow := range elbows {
		if !crossesAny(bodies, src, elbow) && !crossesAny(bodies, elbow, dst) {
			return geo.Route{src, elbow, dst}
		}
	}
	return route
}

func crossesAny(boxes []*geo.Box, p1, p2 *geo.Point) bool {
	for _, b := range boxes {
		if b != nil && b.SegmentCrossesInterior(p1, p2) {
			return true
		}
	}
	return false
}
