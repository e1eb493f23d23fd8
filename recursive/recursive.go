package recursive

import (
	"fmt"

	lsq "github.com/milosgajdos/go-lsq"
	"github.com/milosgajdos/go-lsq/estimate"
	"github.com/milosgajdos/go-lsq/matrix"
	"gonum.org/v1/gonum/mat"
)

// ObservationSource returns the next measurement for the given step.
type ObservationSource func(step int) (mat.Vector, error)

// LS is a recursive nonlinear least-squares estimator of a static state.
// It maintains a running state estimate together with its covariance and
// folds in one measurement at a time, re-linearizing the measurement
// model at the current estimate before every update. The covariance
// update is done in information form and every mathematically implied
// inverse is a pseudo-inverse, so near-singular covariances degrade to
// minimum-norm updates instead of failing.
type LS struct {
	// m is the measurement model
	m lsq.MeasurementModel
	// r is measurement noise
	r lsq.Noise
	// x is the current state estimate
	x *mat.VecDense
	// q is the current state covariance
	q *mat.SymDense
	// inn is the last innovation vector
	inn *mat.VecDense
}

// New creates new recursive least-squares estimator with the given
// measurement model, initial condition and measurement noise.
// It returns error if either of the following conditions is met:
// - invalid model is given: model dimensions must be positive integers
// - noise is missing or its covariance does not match the model output
// - initial condition dimensions do not match the model
// - initial covariance is not symmetric positive definite
func New(m lsq.MeasurementModel, init lsq.InitCond, r lsq.Noise) (*LS, error) {
	nx, ny := m.Dims()
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("invalid model dimensions: [%d x %d]", nx, ny)
	}

	if r == nil {
		return nil, fmt.Errorf("invalid measurement noise: %v", r)
	}

	if r.Cov().SymmetricDim() != ny {
		return nil, fmt.Errorf("%w: noise covariance: %d, model output: %d", lsq.ErrDimMismatch, r.Cov().SymmetricDim(), ny)
	}

	if init.State().Len() != nx {
		return nil, fmt.Errorf("%w: initial state: %d, model state: %d", lsq.ErrDimMismatch, init.State().Len(), nx)
	}

	cov := init.Cov()
	if cov.SymmetricDim() != nx {
		return nil, fmt.Errorf("%w: initial covariance: %d, model state: %d", lsq.ErrDimMismatch, cov.SymmetricDim(), nx)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("%w: initial covariance is not positive definite", lsq.ErrInvalidPrior)
	}

	x := &mat.VecDense{}
	x.CloneFromVec(init.State())

	q := mat.NewSymDense(nx, nil)
	q.CopySym(cov)

	return &LS{
		m:   m,
		r:   r,
		x:   x,
		q:   q,
		inn: mat.NewVecDense(ny, nil),
	}, nil
}

// Step folds one measurement z into the running estimate and returns the
// updated estimate. The measurement model is linearized at the current
// estimate, prior and measurement information are fused in information
// form and the state is corrected along the innovation:
//
//	q = pinv(pinv(q) + jac' * pinv(r) * jac)
//	x = x + q * jac' * pinv(r) * (z - observe(x))
//
// It returns error if z dimension does not match the model or if the
// model observation or Jacobian fails at the current estimate.
func (e *LS) Step(z mat.Vector) (lsq.Estimate, error) {
	nx, ny := e.m.Dims()

	if z.Len() != ny {
		return nil, fmt.Errorf("%w: measurement: %d, model output: %d", lsq.ErrDimMismatch, z.Len(), ny)
	}

	// linearize the model at the current estimate
	jac, err := e.m.Jacobian(e.x)
	if err != nil {
		return nil, fmt.Errorf("failed to linearize measurement model: %w", err)
	}

	y, err := e.m.Observe(e.x)
	if err != nil {
		return nil, fmt.Errorf("failed to observe model output: %w", err)
	}

	// innovation vector
	inn := &mat.VecDense{}
	inn.SubVec(z, y)

	qInv := new(mat.Dense)
	if err := matrix.Pinv(qInv, e.q); err != nil {
		return nil, fmt.Errorf("failed to invert state covariance: %v", err)
	}
	rInv := new(mat.Dense)
	if err := matrix.Pinv(rInv, e.r.Cov()); err != nil {
		return nil, fmt.Errorf("failed to invert noise covariance: %v", err)
	}

	// jac' * pinv(r)
	jtr := new(mat.Dense)
	jtr.Mul(jac.T(), rInv)

	// information fusion: pinv(q) + jac' * pinv(r) * jac
	info := new(mat.Dense)
	info.Mul(jtr, jac)
	info.Add(info, qInv)

	qNext := mat.NewDense(nx, nx, nil)
	if err := matrix.Pinv(qNext, info); err != nil {
		return nil, fmt.Errorf("failed to invert information matrix: %v", err)
	}

	// correct the estimate: x += qNext * jac' * pinv(r) * inn
	gain := new(mat.Dense)
	gain.Mul(qNext, jtr)
	corr := new(mat.VecDense)
	corr.MulVec(gain, inn)
	e.x.AddVec(e.x, corr)

	// pseudo-inverse round-off can leave qNext slightly asymmetric
	q, err := matrix.AsSymDense(qNext)
	if err != nil {
		return nil, err
	}
	e.q.CopySym(q)
	e.inn.CopyVec(inn)

	return estimate.NewBaseWithCov(e.x, e.q)
}

// Run calls Step for each of the given number of steps, drawing each
// measurement from src. It returns the estimate after the last step;
// with zero steps it returns the current estimate unchanged.
// It returns error if src is nil, steps is negative or any step fails.
func (e *LS) Run(steps int, src ObservationSource) (lsq.Estimate, error) {
	if steps < 0 {
		return nil, fmt.Errorf("invalid number of steps: %d", steps)
	}

	if src == nil {
		return nil, fmt.Errorf("invalid observation source: %v", src)
	}

	var est lsq.Estimate
	var err error
	est, err = estimate.NewBaseWithCov(e.x, e.q)
	if err != nil {
		return nil, err
	}

	for i := 0; i < steps; i++ {
		z, err := src(i)
		if err != nil {
			return nil, fmt.Errorf("failed to draw observation %d: %w", i, err)
		}

		est, err = e.Step(z)
		if err != nil {
			return nil, err
		}
	}

	return est, nil
}

// NoisySource returns an ObservationSource which observes the fixed true
// state x through model m and perturbs every observation with a fresh
// sample of noise r. Pass seeded noise for reproducible observations.
func NoisySource(m lsq.MeasurementModel, x mat.Vector, r lsq.Noise) ObservationSource {
	return func(int) (mat.Vector, error) {
		y, err := m.Observe(x)
		if err != nil {
			return nil, err
		}

		z := &mat.VecDense{}
		z.AddVec(y, r.Sample())

		return z, nil
	}
}

// State returns the current state estimate
func (e *LS) State() mat.Vector {
	x := &mat.VecDense{}
	x.CloneFromVec(e.x)

	return x
}

// Cov returns the current state covariance
func (e *LS) Cov() mat.Symmetric {
	q := mat.NewSymDense(e.q.SymmetricDim(), nil)
	q.CopySym(e.q)

	return q
}

// Innov returns the last innovation vector
func (e *LS) Innov() mat.Vector {
	inn := &mat.VecDense{}
	inn.CloneFromVec(e.inn)

	return inn
}
