package d2paths_test

import (
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/lib/geo"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	g, err := d2paths.Lookup("SMOOTH")
	assert.Success(t, err)
	assert.String(t, "smooth", d2paths.Name(g))

	g, err = d2paths.Lookup("straight")
	assert.Success(t, err)
	assert.String(t, "straight", d2paths.Name(g))

	_, err = d2paths.Lookup("bezier")
	assert.ErrorString(t, err, `unknown path generator "bezier", expected one of smooth, straight`)
}

func TestFunc(t *testing.T) {
	t.Parallel()

	var g d2paths.Generator = d2paths.Func(func(route geo.Route) *d2paths.Path {
		return &d2paths.Path{Segments: []d2paths.Segment{d2paths.NewLine(route[0], route[len(route)-1])}}
	})
	p := g.Generate(geo.Route{geo.NewPoint(0, 0), geo.NewPoint(5, 5), geo.NewPoint(10, 0)})
	assert.String(t, "M 0 0 L 10 0", p.PathData())
	assert.String(t, "custom", d2paths.Name(g))
}
