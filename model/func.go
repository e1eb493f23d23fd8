package model

import (
	"fmt"

	lsq "github.com/milosgajdos/go-lsq"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// ObserveFunc maps a state vector to a measurement vector.
type ObserveFunc func(x mat.Vector) (mat.Vector, error)

// JacobianFunc returns the derivative of an observation function at x.
type JacobianFunc func(x mat.Vector) (mat.Matrix, error)

// Func is a measurement model built from caller supplied functions.
// When no Jacobian function is supplied the Jacobian is approximated
// numerically with central differences.
type Func struct {
	// nx is state dimension
	nx int
	// ny is measurement dimension
	ny int
	// observe is the observation function
	observe ObserveFunc
	// jacobian is the observation derivative; may be nil
	jacobian JacobianFunc
}

// NewFunc creates new Func model with given dimensions, observation function
// and optional Jacobian function.
// It returns error if either dimension is not positive or observe is nil.
func NewFunc(nx, ny int, observe ObserveFunc, jacobian JacobianFunc) (*Func, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	if observe == nil {
		return nil, fmt.Errorf("invalid observation function: %v", observe)
	}

	return &Func{
		nx:       nx,
		ny:       ny,
		observe:  observe,
		jacobian: jacobian,
	}, nil
}

// Observe returns the model output for state x.
// It returns error if x dimension does not match the model.
func (m *Func) Observe(x mat.Vector) (mat.Vector, error) {
	if x.Len() != m.nx {
		return nil, fmt.Errorf("%w: invalid state dimension: %d", lsq.ErrDimMismatch, x.Len())
	}

	return m.observe(x)
}

// Jacobian returns the model derivative evaluated at x.
// It returns error if x dimension does not match the model or if the
// observation function fails at or around x.
func (m *Func) Jacobian(x mat.Vector) (mat.Matrix, error) {
	if x.Len() != m.nx {
		return nil, fmt.Errorf("%w: invalid state dimension: %d", lsq.ErrDimMismatch, x.Len())
	}

	if m.jacobian != nil {
		return m.jacobian(x)
	}

	var obsErr error
	jac := mat.NewDense(m.ny, m.nx, nil)
	fd.Jacobian(jac, func(y, xs []float64) {
		out, err := m.observe(mat.NewVecDense(len(xs), xs))
		if err != nil {
			if obsErr == nil {
				obsErr = err
			}
			return
		}
		for i := range y {
			y[i] = out.AtVec(i)
		}
	}, mat.Col(nil, 0, x), &fd.JacobianSettings{
		Formula: fd.Central,
	})
	if obsErr != nil {
		return nil, obsErr
	}

	return jac, nil
}

// Dims returns state and measurement dimensions of the model
func (m *Func) Dims() (nx, ny int) {
	return m.nx, m.ny
}
