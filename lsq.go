package lsq

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidPrior is returned when the initial covariance supplied
	// by the caller is not symmetric positive definite.
	ErrInvalidPrior = errors.New("invalid prior covariance")
	// ErrDomain is returned when a measurement function or its Jacobian
	// is evaluated at a state where it is mathematically undefined.
	ErrDomain = errors.New("measurement model undefined at given state")
	// ErrDimMismatch is returned when matrix or vector dimensions
	// do not agree.
	ErrDimMismatch = errors.New("dimension mismatch")
)

// Estimator estimates a static state from a stream of measurements.
type Estimator interface {
	// Step folds one measurement into the running estimate
	Step(mat.Vector) (Estimate, error)
}

// MeasurementModel is a differentiable mapping from state space
// to measurement space.
type MeasurementModel interface {
	// Observe returns the model output for state x
	Observe(x mat.Vector) (mat.Vector, error)
	// Jacobian returns the model derivative evaluated at x
	Jacobian(x mat.Vector) (mat.Matrix, error)
	// Dims returns state and measurement dimensions of the model
	Dims() (nx int, ny int)
}

// InitCond is initial condition of the estimator
type InitCond interface {
	// State returns initial estimator state
	State() mat.Vector
	// Cov returns initial state covariance
	Cov() mat.Symmetric
}

// Estimate is state estimate
type Estimate interface {
	// Val returns estimate value
	Val() mat.Vector
	// Cov returns estimate covariance
	Cov() mat.Symmetric
}

// Noise is measurement noise
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
	// Reset resets the noise
	Reset()
}
