package d2paths

import (
	"oss.terrastruct.com/d2flow/lib/geo"
)

// Straight draws one line per pair of consecutive waypoints.
type Straight struct{}

func (Straight) Generate(route geo.Route) *Path {
	switch len(route) {
	case 0:
		return &Path{}
	case 1:
		return &Path{Segments: []Segment{NewLine(route[0], route[0])}}
	}
	p := &Path{Segments: make([]Segment, 0, len(route)-1)}
	for i := 0; i < len(route)-1; i++ {
		p.Segments = append(p.Segments, NewLine(route[i], route[i+1]))
	}
	return p
}
