package model

import (
	"fmt"
	"math"

	lsq "github.com/milosgajdos/go-lsq"
	"gonum.org/v1/gonum/mat"
)

// RangeBearing observes a static 2D cartesian position as its range
// (euclidean distance from the origin) and bearing (angle from the x axis).
// Both the observation and its Jacobian are undefined at the origin.
type RangeBearing struct{}

// NewRangeBearing creates new RangeBearing model and returns it
func NewRangeBearing() (*RangeBearing, error) {
	return &RangeBearing{}, nil
}

// Observe returns [range, bearing] of position x.
// It returns error if x is not 2 dimensional or if x is the origin.
func (m *RangeBearing) Observe(x mat.Vector) (mat.Vector, error) {
	if x.Len() != 2 {
		return nil, fmt.Errorf("%w: invalid state dimension: %d", lsq.ErrDimMismatch, x.Len())
	}

	x1, x2 := x.AtVec(0), x.AtVec(1)
	if x1 == 0 && x2 == 0 {
		return nil, fmt.Errorf("%w: range and bearing undefined at origin", lsq.ErrDomain)
	}

	return mat.NewVecDense(2, []float64{
		math.Hypot(x1, x2),
		math.Atan2(x2, x1),
	}), nil
}

// Jacobian returns the derivative of the range and bearing observation at x.
// It returns error if x is not 2 dimensional or if x is the origin.
func (m *RangeBearing) Jacobian(x mat.Vector) (mat.Matrix, error) {
	if x.Len() != 2 {
		return nil, fmt.Errorf("%w: invalid state dimension: %d", lsq.ErrDimMismatch, x.Len())
	}

	x1, x2 := x.AtVec(0), x.AtVec(1)
	d := x1*x1 + x2*x2
	if d == 0 {
		return nil, fmt.Errorf("%w: jacobian undefined at origin", lsq.ErrDomain)
	}
	r := math.Sqrt(d)

	return mat.NewDense(2, 2, []float64{
		x1 / r, x2 / r,
		-x2 / d, x1 / d,
	}), nil
}

// Dims returns state and measurement dimensions of the model
func (m *RangeBearing) Dims() (nx, ny int) {
	return 2, 2
}
