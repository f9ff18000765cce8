package geo

import (
	"math"
)

// A N-Dimensional Vector with components (x, y, z, ...) based on the origin
type Vector []float64

func NewVector(components ...float64) Vector {
	return components
}

func (a Vector) Add(b Vector) Vector {
	c := make(Vector, len(a))
	for i := range a {
		c[i] = a[i] + b[i]
	}
	return c
}

func (a Vector) Minus(b Vector) Vector {
	c := make(Vector, len(a))
	for i := range a {
		c[i] = a[i] - b[i]
	}
	return c
}

func (a Vector) Multiply(v float64) Vector {
	c := make(Vector, len(a))
	for i := range a {
		c[i] = a[i] * v
	}
	return c
}

func (a Vector) Length() float64 {
	sum := 0.0
	for _, comp := range a {
		sum += comp * comp
	}
	return math.Sqrt(sum)
}

// Degrees is the 2D angle of the vector, measured clockwise from the +X axis since Y grows downwards.
func (a Vector) Degrees() float64 {
	if a[0] == 0 && a[1] == 0 {
		return 0
	}
	return math.Atan2(a[1], a[0]) * 180 / math.Pi
}

func (a Vector) ToPoint() *Point {
	return &Point{a[0], a[1]}
}
