package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Zero is zero noise: zero mean and zero covariance.
// It is used to simulate noiseless observations.
type Zero struct {
	// mean stores zero mean values
	mean []float64
	// cov is zero covariance matrix
	cov *mat.SymDense
}

// NewZero creates new zero noise of the given dimension.
// It returns error if size is negative.
func NewZero(size int) (*Zero, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid noise dimension: %d", size)
	}

	return &Zero{
		mean: make([]float64, size),
		cov:  mat.NewSymDense(size, nil),
	}, nil
}

// Sample returns a zero vector.
func (z *Zero) Sample() mat.Vector {
	return mat.NewVecDense(len(z.mean), nil)
}

// Cov returns a zero covariance matrix.
func (z *Zero) Cov() mat.Symmetric {
	cov := mat.NewSymDense(z.cov.SymmetricDim(), nil)
	cov.CopySym(z.cov)

	return cov
}

// Mean returns Zero mean.
func (z *Zero) Mean() []float64 {
	mean := make([]float64, len(z.mean))
	copy(mean, z.mean)

	return mean
}

// Reset does nothing: zero noise has no internal state.
func (z *Zero) Reset() {}

// String implements the Stringer interface.
func (z *Zero) String() string {
	return fmt.Sprintf("Zero{\nMean=%v\nCov=%v\n}", z.Mean(), mat.Formatted(z.Cov(), mat.Prefix("    "), mat.Squeeze()))
}
