package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointDistanceTo(t *testing.T) {
	p1 := &Point{0, 0}

	assert.Equal(t, 5.0, p1.DistanceTo(&Point{3, 4}))
	assert.Equal(t, 7.0, p1.DistanceTo(&Point{0, -7}))
	assert.Equal(t, 0.0, p1.DistanceTo(p1))
}

func TestVectorTo(t *testing.T) {
	p1 := &Point{1.5, 5.3}
	p2 := &Point{-2, 3}
	assert.True(t, p1.VectorTo(p2).equals(NewVector(-3.5, -2.3)))
	assert.True(t, p2.VectorTo(p1).equals(NewVector(3.5, 2.3)))
}

func TestCollinear(t *testing.T) {
	assert.True(t, Collinear(NewPoint(0, 0), NewPoint(5, 5), NewPoint(10, 10)))
	assert.False(t, Collinear(NewPoint(0, 0), NewPoint(5, 6), NewPoint(10, 10)))
}

func TestPointsEquals(t *testing.T) {
	a := Points{NewPoint(0, 0), NewPoint(1, 1)}
	assert.True(t, a.Equals(a.Copy()))
	assert.False(t, a.Equals(Points{NewPoint(1, 1), NewPoint(0, 0)}))
	assert.False(t, a.Equals(a[:1]))
}
