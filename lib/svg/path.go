package svg

import (
	"fmt"
	"math"
	"strings"

	"oss.terrastruct.com/d2flow/lib/geo"
)

// SvgPathContext accumulates path commands in absolute coordinates.
type SvgPathContext struct {
	Commands []string
	Start    *geo.Point
	Current  *geo.Point
}

// TODO probably use math.Big
func chopPrecision(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func NewSVGPathContext() *SvgPathContext {
	return &SvgPathContext{}
}

func chop(p *geo.Point) *geo.Point {
	return geo.NewPoint(chopPrecision(p.X), chopPrecision(p.Y))
}

func (c *SvgPathContext) StartAt(p *geo.Point) {
	p = chop(p)
	c.Start = p
	c.Commands = append(c.Commands, fmt.Sprintf("M %v %v", p.X, p.Y))
	c.Current = p.Copy()
}

func (c *SvgPathContext) L(p *geo.Point) {
	endPoint := chop(p)
	c.Commands = append(c.Commands, fmt.Sprintf("L %v %v", endPoint.X, endPoint.Y))
	c.Current = endPoint.Copy()
}

func (c *SvgPathContext) C(c1, c2, end *geo.Point) {
	c1, c2, end = chop(c1), chop(c2), chop(end)
	c.Commands = append(c.Commands, fmt.Sprintf(
		"C %v %v %v %v %v %v",
		c1.X, c1.Y,
		c2.X, c2.Y,
		end.X, end.Y,
	))
	c.Current = end.Copy()
}

func (c *SvgPathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}
