package d2diagram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/d2routing"
	"oss.terrastruct.com/d2flow/lib/color"
	"oss.terrastruct.com/d2flow/lib/geo"
)

const (
	DefaultZoomMinimum     = 0.1
	DefaultZoomMaximum     = 2.
	DefaultZoomScaleFactor = 1.05
	DefaultSnappingRadius  = 50.

	MinZoomScaleFactor = 1.01
	MaxZoomScaleFactor = 2.
)

type (
	NodeFactory  func(d *Diagram, position *geo.Point) *Node
	LinkFactory  func(d *Diagram, source, target Endpoint) *Link
	GroupFactory func(d *Diagram, children []string) *Group

	ShouldDeleteNode  func(context.Context, *Node) (bool, error)
	ShouldDeleteLink  func(context.Context, *Link) (bool, error)
	ShouldDeleteGroup func(context.Context, *Group) (bool, error)
)

// Options configure a Diagram. They are copied by NewDiagram and must not be
// changed while a diagram uses them.
type Options struct {
	// GridSize enables snapping node positions to a grid when set.
	GridSize             *int
	AllowMultiSelection  bool
	AllowPanning         bool
	EnableVirtualization bool
	LinksLayerOrder      int
	NodesLayerOrder      int

	Zoom        ZoomOptions
	Links       LinkOptions
	Nodes       NodeOptions
	Groups      GroupOptions
	Constraints ConstraintsOptions
}

type ZoomOptions struct {
	Enabled bool
	Inverse bool
	minimum float64
	Maximum float64
	// ScaleFactor is applied per wheel step, between 1.01 and 2.
	ScaleFactor float64
}

func (z ZoomOptions) Minimum() float64 {
	return z.minimum
}

// SetMinimum rejects non positive values right away.
func (z *ZoomOptions) SetMinimum(v float64) error {
	if err := validateZoomMinimum(v); err != nil {
		return &InvalidConfigurationError{Errs: []error{err}}
	}
	z.minimum = v
	return nil
}

func validateZoomMinimum(v float64) error {
	if v <= 0 {
		return fmt.Errorf("zoom minimum must be greater than 0, got %v", v)
	}
	return nil
}

type LinkOptions struct {
	DefaultColor         string
	DefaultSelectedColor string
	DefaultRouter        d2routing.Router
	DefaultPathGenerator d2paths.Generator
	EnableSnapping       bool
	SnappingRadius       float64
	Factory              LinkFactory
}

type NodeOptions struct {
	Factory NodeFactory
}

type GroupOptions struct {
	// Enabled lets users group and ungroup through Group and Ungroup.
	Enabled bool
	Factory GroupFactory
}

// ConstraintsOptions hold the deletion guards. A guard may block, e.g. while
// a confirmation prompt is shown.
type ConstraintsOptions struct {
	ShouldDeleteNode  ShouldDeleteNode
	ShouldDeleteLink  ShouldDeleteLink
	ShouldDeleteGroup ShouldDeleteGroup
}

func DefaultOptions() *Options {
	return &Options{
		AllowMultiSelection:  true,
		AllowPanning:         true,
		EnableVirtualization: true,
		Zoom: ZoomOptions{
			Enabled:     true,
			minimum:     DefaultZoomMinimum,
			Maximum:     DefaultZoomMaximum,
			ScaleFactor: DefaultZoomScaleFactor,
		},
		Links: LinkOptions{
			DefaultColor:         color.Black,
			DefaultSelectedColor: color.SelectedRGB,
			DefaultRouter:        d2routing.Normal{},
			DefaultPathGenerator: d2paths.Smooth{},
			SnappingRadius:       DefaultSnappingRadius,
			Factory:              defaultLinkFactory,
		},
		Nodes: NodeOptions{
			Factory: defaultNodeFactory,
		},
		Groups: GroupOptions{
			Factory: defaultGroupFactory,
		},
		Constraints: ConstraintsOptions{
			ShouldDeleteNode:  func(context.Context, *Node) (bool, error) { return true, nil },
			ShouldDeleteLink:  func(context.Context, *Link) (bool, error) { return true, nil },
			ShouldDeleteGroup: func(context.Context, *Group) (bool, error) { return true, nil },
		},
	}
}

// Validate reports every invalid setting at once as an *InvalidConfigurationError.
func (o *Options) Validate() error {
	var err error
	if o.GridSize != nil && *o.GridSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("grid size must be greater than 0, got %d", *o.GridSize))
	}
	err = multierr.Append(err, validateZoomMinimum(o.Zoom.minimum))
	if o.Zoom.Maximum < o.Zoom.minimum {
		err = multierr.Append(err, fmt.Errorf("zoom maximum %v is lower than zoom minimum %v", o.Zoom.Maximum, o.Zoom.minimum))
	}
	if o.Zoom.ScaleFactor < MinZoomScaleFactor || o.Zoom.ScaleFactor > MaxZoomScaleFactor {
		err = multierr.Append(err, fmt.Errorf("zoom scale factor must be between %v and %v, got %v", MinZoomScaleFactor, MaxZoomScaleFactor, o.Zoom.ScaleFactor))
	}
	if o.Links.SnappingRadius < 0 {
		err = multierr.Append(err, fmt.Errorf("link snapping radius must not be negative, got %v", o.Links.SnappingRadius))
	}
	if cerr := color.Valid(o.Links.DefaultColor); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("link default color: %w", cerr))
	}
	if cerr := color.Valid(o.Links.DefaultSelectedColor); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("link default selected color: %w", cerr))
	}
	if o.Links.DefaultRouter == nil {
		err = multierr.Append(err, errors.New("link default router must be set"))
	}
	if o.Links.DefaultPathGenerator == nil {
		err = multierr.Append(err, errors.New("link default path generator must be set"))
	}
	return newInvalidConfigurationError(err)
}

// copy is shallow except for GridSize. Factories, guards and strategies are shared.
func (o *Options) copy() *Options {
	c := *o
	if o.GridSize != nil {
		size := *o.GridSize
		c.GridSize = &size
	}
	defaults := DefaultOptions()
	if c.Links.Factory == nil {
		c.Links.Factory = defaults.Links.Factory
	}
	if c.Nodes.Factory == nil {
		c.Nodes.Factory = defaults.Nodes.Factory
	}
	if c.Groups.Factory == nil {
		c.Groups.Factory = defaults.Groups.Factory
	}
	if c.Constraints.ShouldDeleteNode == nil {
		c.Constraints.ShouldDeleteNode = defaults.Constraints.ShouldDeleteNode
	}
	if c.Constraints.ShouldDeleteLink == nil {
		c.Constraints.ShouldDeleteLink = defaults.Constraints.ShouldDeleteLink
	}
	if c.Constraints.ShouldDeleteGroup == nil {
		c.Constraints.ShouldDeleteGroup = defaults.Constraints.ShouldDeleteGroup
	}
	return &c
}
