// Package color validates and normalizes the CSS color strings used for links.
package color

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

const (
	// Defaults for links.
	Black       = "black"
	SelectedRGB = "rgb(110, 159, 212)"

	Empty = ""
	None  = "none"
)

// Valid reports whether s is a color a renderer can paint: any CSS color, or none.
func Valid(s string) error {
	if s == None {
		return nil
	}
	if s == Empty {
		return fmt.Errorf("color must not be empty")
	}
	if _, err := csscolorparser.Parse(s); err != nil {
		return fmt.Errorf("%q is not a valid CSS color: %w", s, err)
	}
	return nil
}

func parse(s string) (colorful.Color, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, nil
}

// Normalize turns any CSS color into its #rrggbb form. none is kept as is.
func Normalize(s string) (string, error) {
	if s == None {
		return s, nil
	}
	c, err := parse(s)
	if err != nil {
		return "", err
	}
	return c.Clamped().Hex(), nil
}

// Darken decreases luminance by 10%, e.g. for hovered links.
func Darken(s string) (string, error) {
	c, err := parse(s)
	if err != nil {
		return "", err
	}
	h, sat, l := c.Hsl()
	return colorful.Hsl(h, sat, l-.1).Clamped().Hex(), nil
}
