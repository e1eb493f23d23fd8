package batch

import (
	"fmt"

	lsq "github.com/milosgajdos/go-lsq"
	"github.com/milosgajdos/go-lsq/matrix"
	"gonum.org/v1/gonum/mat"
)

// Vandermonde builds a polynomial design matrix from the given sample points.
// Row i contains the powers of points[i] in descending order:
// [t^(degree-1), ..., t, 1], so the matrix maps polynomial coefficients
// to polynomial values at the sample points.
// It returns error if degree is smaller than 1 or if no points are given.
// Fewer points than degree is allowed: the system is under-determined and
// Solve falls back to the minimum-norm solution.
func Vandermonde(points []float64, degree int) (*mat.Dense, error) {
	if degree < 1 {
		return nil, fmt.Errorf("invalid polynomial degree: %d", degree)
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("no sample points given")
	}

	h := mat.NewDense(len(points), degree, nil)
	for i, t := range points {
		p := 1.0
		for j := degree - 1; j >= 0; j-- {
			h.Set(i, j, p)
			p *= t
		}
	}

	return h, nil
}

// Simulate returns noisy observations of state x through design matrix h:
// y = h*x + noise sample. It is a simulation helper for tests and examples;
// pass seeded noise for reproducible observations.
// It returns error if the dimensions of h, x and n do not agree.
func Simulate(h *mat.Dense, x mat.Vector, n lsq.Noise) (mat.Vector, error) {
	rows, cols := h.Dims()
	if x.Len() != cols {
		return nil, fmt.Errorf("%w: state: %d, design matrix: [%d x %d]", lsq.ErrDimMismatch, x.Len(), rows, cols)
	}

	y := mat.NewVecDense(rows, nil)
	y.MulVec(h, x)

	if n != nil {
		sample := n.Sample()
		if sample.Len() != rows {
			return nil, fmt.Errorf("%w: noise: %d, measurements: %d", lsq.ErrDimMismatch, sample.Len(), rows)
		}
		y.AddVec(y, sample)
	}

	return y, nil
}

// Solve recovers the state from a batch of linear measurements y taken
// through design matrix h by solving the normal equations:
// x = pinv(h'h) * h' * y.
// The pseudo-inverse makes rank deficient and under-determined systems
// return the minimum-norm least-squares solution instead of failing;
// rank deficiency never surfaces as an error.
// It returns error if the dimensions of h and y do not agree.
func Solve(h *mat.Dense, y mat.Vector) (mat.Vector, error) {
	rows, cols := h.Dims()
	if y.Len() != rows {
		return nil, fmt.Errorf("%w: measurements: %d, design matrix: [%d x %d]", lsq.ErrDimMismatch, y.Len(), rows, cols)
	}

	hth := new(mat.Dense)
	hth.Mul(h.T(), h)

	inv := new(mat.Dense)
	if err := matrix.Pinv(inv, hth); err != nil {
		return nil, fmt.Errorf("failed to invert normal equations: %v", err)
	}

	hty := new(mat.VecDense)
	hty.MulVec(h.T(), y)

	x := mat.NewVecDense(cols, nil)
	x.MulVec(inv, hty)

	return x, nil
}
