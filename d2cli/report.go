package d2cli

import (
	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/d2viewport"
	"oss.terrastruct.com/d2flow/lib/color"
	"oss.terrastruct.com/d2flow/lib/geo"
)

// report is what the CLI prints: the view state and the geometry of every
// entity a renderer would draw.
type report struct {
	Counts   d2diagram.Counts      `json:"counts"`
	Zoom     float64               `json:"zoom"`
	Pan      *geo.Point            `json:"pan"`
	Viewport *geo.Box              `json:"viewport"`
	Colors   palette               `json:"colors"`
	Layers   layers                `json:"layers"`
	Selected []string              `json:"selected"`
	Visible  []string              `json:"visible"`
	Entities []*d2diagram.Geometry `json:"entities"`
}

// layers orders links relative to nodes. Higher is drawn on top.
type layers struct {
	Links int `json:"links"`
	Nodes int `json:"nodes"`
}

type palette struct {
	Link          string `json:"link"`
	Selected      string `json:"selected"`
	SelectedHover string `json:"selectedHover"`
}

func newReport(d *d2diagram.Diagram, c *d2viewport.Culler, viewWidth, viewHeight float64) (*report, error) {
	opts := d.Options()
	link, err := color.Normalize(opts.Links.DefaultColor)
	if err != nil {
		return nil, err
	}
	selected, err := color.Normalize(opts.Links.DefaultSelectedColor)
	if err != nil {
		return nil, err
	}
	hover, err := color.Darken(opts.Links.DefaultSelectedColor)
	if err != nil {
		return nil, err
	}

	viewport := d.Viewport(viewWidth, viewHeight)
	rep := &report{
		Counts:   d.Counts(),
		Zoom:     d.Zoom(),
		Pan:      d.Pan(),
		Viewport: viewport,
		Colors: palette{
			Link:          link,
			Selected:      selected,
			SelectedHover: hover,
		},
		Layers: layers{
			Links: opts.LinksLayerOrder,
			Nodes: opts.NodesLayerOrder,
		},
		Selected: d.Selected(),
		Visible:  c.VisibleIDs(viewport, d.Zoom()),
	}
	for _, id := range rep.Visible {
		geom, err := d.Geometry(id)
		if err != nil {
			return nil, err
		}
		rep.Entities = append(rep.Entities, geom)
	}
	return rep, nil
}
