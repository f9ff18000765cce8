// Package d2config loads diagram Options from YAML or TOML files.
//
// Only the serializable part of Options can come from a file. Routers and
// path generators are chosen by registry name. Factories and deletion guards
// stay code only. Settings missing from the file keep their defaults.
package d2config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"oss.terrastruct.com/util-go/xdefer"

	"oss.terrastruct.com/d2flow/d2diagram"
	"oss.terrastruct.com/d2flow/d2paths"
	"oss.terrastruct.com/d2flow/d2routing"
)

type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported config extension %q, expected .yaml, .yml or .toml", filepath.Ext(path))
}

// File is the on disk shape of Options. nil means unset.
type File struct {
	GridSize             *int   `yaml:"gridSize,omitempty" toml:"gridSize,omitempty"`
	AllowMultiSelection  *bool  `yaml:"allowMultiSelection,omitempty" toml:"allowMultiSelection,omitempty"`
	AllowPanning         *bool  `yaml:"allowPanning,omitempty" toml:"allowPanning,omitempty"`
	EnableVirtualization *bool  `yaml:"enableVirtualization,omitempty" toml:"enableVirtualization,omitempty"`
	LinksLayerOrder      *int   `yaml:"linksLayerOrder,omitempty" toml:"linksLayerOrder,omitempty"`
	NodesLayerOrder      *int   `yaml:"nodesLayerOrder,omitempty" toml:"nodesLayerOrder,omitempty"`
	Zoom                 Zoom   `yaml:"zoom,omitempty" toml:"zoom,omitempty"`
	Links                Links  `yaml:"links,omitempty" toml:"links,omitempty"`
	Groups               Groups `yaml:"groups,omitempty" toml:"groups,omitempty"`
}

type Zoom struct {
	Enabled     *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Inverse     *bool    `yaml:"inverse,omitempty" toml:"inverse,omitempty"`
	Minimum     *float64 `yaml:"minimum,omitempty" toml:"minimum,omitempty"`
	Maximum     *float64 `yaml:"maximum,omitempty" toml:"maximum,omitempty"`
	ScaleFactor *float64 `yaml:"scaleFactor,omitempty" toml:"scaleFactor,omitempty"`
}

type Links struct {
	DefaultColor         *string  `yaml:"defaultColor,omitempty" toml:"defaultColor,omitempty"`
	DefaultSelectedColor *string  `yaml:"defaultSelectedColor,omitempty" toml:"defaultSelectedColor,omitempty"`
	Router               *string  `yaml:"router,omitempty" toml:"router,omitempty"`
	PathGenerator        *string  `yaml:"pathGenerator,omitempty" toml:"pathGenerator,omitempty"`
	EnableSnapping       *bool    `yaml:"enableSnapping,omitempty" toml:"enableSnapping,omitempty"`
	SnappingRadius       *float64 `yaml:"snappingRadius,omitempty" toml:"snappingRadius,omitempty"`
}

type Groups struct {
	Enabled *bool `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

// Load reads path and returns validated Options.
func Load(path string) (_ *d2diagram.Options, err error) {
	defer xdefer.Errorf(&err, "failed to load config %q", path)

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, format)
}

// Parse decodes b and applies it over the default Options.
// Unknown keys are rejected.
func Parse(b []byte, format Format) (*d2diagram.Options, error) {
	var f File
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	case TOML:
		md, err := toml.Decode(string(b), &f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}

	opts := d2diagram.DefaultOptions()
	if err := f.Apply(opts); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Apply writes every set field of f into opts.
func (f *File) Apply(opts *d2diagram.Options) error {
	if f.GridSize != nil {
		size := *f.GridSize
		opts.GridSize = &size
	}
	setBool(&opts.AllowMultiSelection, f.AllowMultiSelection)
	setBool(&opts.AllowPanning, f.AllowPanning)
	setBool(&opts.EnableVirtualization, f.EnableVirtualization)
	if f.LinksLayerOrder != nil {
		opts.LinksLayerOrder = *f.LinksLayerOrder
	}
	if f.NodesLayerOrder != nil {
		opts.NodesLayerOrder = *f.NodesLayerOrder
	}

	setBool(&opts.Zoom.Enabled, f.Zoom.Enabled)
	setBool(&opts.Zoom.Inverse, f.Zoom.Inverse)
	if f.Zoom.Minimum != nil {
		if err := opts.Zoom.SetMinimum(*f.Zoom.Minimum); err != nil {
			return err
		}
	}
	setFloat(&opts.Zoom.Maximum, f.Zoom.Maximum)
	setFloat(&opts.Zoom.ScaleFactor, f.Zoom.ScaleFactor)

	setString(&opts.Links.DefaultColor, f.Links.DefaultColor)
	setString(&opts.Links.DefaultSelectedColor, f.Links.DefaultSelectedColor)
	if f.Links.Router != nil {
		r, err := d2routing.Lookup(*f.Links.Router)
		if err != nil {
			return err
		}
		opts.Links.DefaultRouter = r
	}
	if f.Links.PathGenerator != nil {
		g, err := d2paths.Lookup(*f.Links.PathGenerator)
		if err != nil {
			return err
		}
		opts.Links.DefaultPathGenerator = g
	}
	setBool(&opts.Links.EnableSnapping, f.Links.EnableSnapping)
	setFloat(&opts.Links.SnappingRadius, f.Links.SnappingRadius)

	setBool(&opts.Groups.Enabled, f.Groups.Enabled)
	return nil
}

// FromOptions captures the serializable part of opts.
func FromOptions(opts *d2diagram.Options) *File {
	f := &File{
		AllowMultiSelection:  &opts.AllowMultiSelection,
		AllowPanning:         &opts.AllowPanning,
		EnableVirtualization: &opts.EnableVirtualization,
		LinksLayerOrder:      &opts.LinksLayerOrder,
		NodesLayerOrder:      &opts.NodesLayerOrder,
		Zoom: Zoom{
			Enabled:     &opts.Zoom.Enabled,
			Inverse:     &opts.Zoom.Inverse,
			Maximum:     &opts.Zoom.Maximum,
			ScaleFactor: &opts.Zoom.ScaleFactor,
		},
		Links: Links{
			DefaultColor:         &opts.Links.DefaultColor,
			DefaultSelectedColor: &opts.Links.DefaultSelectedColor,
			EnableSnapping:       &opts.Links.EnableSnapping,
			SnappingRadius:       &opts.Links.SnappingRadius,
		},
		Groups: Groups{
			Enabled: &opts.Groups.Enabled,
		},
	}
	if opts.GridSize != nil {
		size := *opts.GridSize
		f.GridSize = &size
	}
	minimum := opts.Zoom.Minimum()
	f.Zoom.Minimum = &minimum
	// Custom strategies have no name a file could refer to.
	if name := d2routing.Name(opts.Links.DefaultRouter); name != "custom" {
		f.Links.Router = &name
	}
	if name := d2paths.Name(opts.Links.DefaultPathGenerator); name != "custom" {
		f.Links.PathGenerator = &name
	}
	return f
}

// Marshal encodes f in the given format. Unset fields are left out.
func (f *File) Marshal(format Format) ([]byte, error) {
	switch format {
	case YAML:
		return yaml.Marshal(f)
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown config format %q", format)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
