package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pinv calculates the Moore-Penrose pseudo-inverse of matrix a and stores it in dst.
// Singular values smaller than a relative tolerance are treated as zero, so rank
// deficient and singular matrices yield the minimum-norm inverse instead of failing.
// It returns error if the SVD factorization of a fails.
func Pinv(dst *mat.Dense, a mat.Matrix) error {
	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDThin)
	if !ok {
		return fmt.Errorf("SVD factorization failed")
	}

	u := new(mat.Dense)
	svd.UTo(u)
	v := new(mat.Dense)
	svd.VTo(v)

	rows, cols := a.Dims()

	// singular values are sorted in descending order
	vals := svd.Values(nil)
	eps := math.Nextafter(1.0, 2.0) - 1.0
	tol := eps * float64(max(rows, cols)) * vals[0]
	for i := range vals {
		if vals[i] > tol {
			vals[i] = 1.0 / vals[i]
		} else {
			vals[i] = 0.0
		}
	}
	diag := mat.NewDiagDense(len(vals), vals)

	vd := new(mat.Dense)
	vd.Mul(v, diag)
	dst.Mul(vd, u.T())

	return nil
}

// AsSymDense returns the symmetric part (a + a')/2 of the square matrix a.
// It returns error if a is not square.
func AsSymDense(a *mat.Dense) (*mat.SymDense, error) {
	rows, cols := a.Dims()
	if rows != cols {
		return nil, fmt.Errorf("invalid matrix dimensions: [%d x %d]", rows, cols)
	}

	s := mat.NewSymDense(rows, nil)
	for i := 0; i < rows; i++ {
		for j := i; j < cols; j++ {
			s.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}

	return s, nil
}
