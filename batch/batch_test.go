package batch

import (
	"errors"
	"math"
	"testing"

	lsq "github.com/milosgajdos/go-lsq"
	"github.com/milosgajdos/go-lsq/noise"
	"github.com/milosgajdos/go-lsq/sim"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestVandermonde(t *testing.T) {
	assert := assert.New(t)

	points := []float64{2.0, -1.0}
	h, err := Vandermonde(points, 3)
	assert.NotNil(h)
	assert.NoError(err)

	want := mat.NewDense(2, 3, []float64{
		4.0, 2.0, 1.0,
		1.0, -1.0, 1.0,
	})
	assert.True(mat.EqualApprox(want, h, 1e-12))

	// invalid degree
	h, err = Vandermonde(points, 0)
	assert.Nil(h)
	assert.Error(err)

	// no sample points
	h, err = Vandermonde(nil, 2)
	assert.Nil(h)
	assert.Error(err)
}

func TestSimulate(t *testing.T) {
	assert := assert.New(t)

	h, err := Vandermonde([]float64{1.0, 2.0, 3.0}, 2)
	assert.NoError(err)

	x := mat.NewVecDense(2, []float64{2.0, -1.0})

	// noiseless simulation equals h*x
	z, err := noise.NewZero(3)
	assert.NoError(err)
	y, err := Simulate(h, x, z)
	assert.NotNil(y)
	assert.NoError(err)

	want := mat.NewVecDense(3, nil)
	want.MulVec(h, x)
	assert.True(mat.EqualApprox(want, y, 1e-12))

	// nil noise is the same as zero noise
	y, err = Simulate(h, x, nil)
	assert.NoError(err)
	assert.True(mat.EqualApprox(want, y, 1e-12))

	// invalid state dimension
	y, err = Simulate(h, mat.NewVecDense(3, nil), z)
	assert.Nil(y)
	assert.True(errors.Is(err, lsq.ErrDimMismatch))

	// invalid noise dimension
	badNoise, err := noise.NewZero(5)
	assert.NoError(err)
	y, err = Simulate(h, x, badNoise)
	assert.Nil(y)
	assert.True(errors.Is(err, lsq.ErrDimMismatch))
}

func TestSolveNoiseless(t *testing.T) {
	assert := assert.New(t)

	points := []float64{-2.0, -1.0, 0.0, 1.0, 2.0}
	h, err := Vandermonde(points, 3)
	assert.NoError(err)

	x := mat.NewVecDense(3, []float64{1.0, -2.0, 0.5})

	y, err := Simulate(h, x, nil)
	assert.NoError(err)

	// full column rank and no noise: exact recovery
	xHat, err := Solve(h, y)
	assert.NotNil(xHat)
	assert.NoError(err)
	assert.True(mat.EqualApprox(x, xHat, 1e-9))

	// invalid measurement dimension
	xHat, err = Solve(h, mat.NewVecDense(2, nil))
	assert.Nil(xHat)
	assert.True(errors.Is(err, lsq.ErrDimMismatch))
}

func TestSolveRankDeficient(t *testing.T) {
	assert := assert.New(t)

	// duplicated column: h has rank 2
	h := mat.NewDense(4, 3, []float64{
		1.0, 1.0, 2.0,
		2.0, 2.0, 1.0,
		3.0, 3.0, -1.0,
		4.0, 4.0, 0.5,
	})
	y := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})

	xHat, err := Solve(h, y)
	assert.NotNil(xHat)
	assert.NoError(err)

	// minimum-norm solution is finite
	for i := 0; i < xHat.Len(); i++ {
		assert.False(math.IsNaN(xHat.AtVec(i)))
		assert.False(math.IsInf(xHat.AtVec(i), 0))
	}

	// duplicated columns share the minimum-norm weight
	assert.InDelta(xHat.AtVec(0), xHat.AtVec(1), 1e-9)
}

func TestSolveUnderDetermined(t *testing.T) {
	assert := assert.New(t)

	// fewer samples than coefficients
	h, err := Vandermonde([]float64{1.0, 2.0}, 4)
	assert.NoError(err)

	x := mat.NewVecDense(4, []float64{1.0, 0.0, -1.0, 2.0})
	y, err := Simulate(h, x, nil)
	assert.NoError(err)

	// under-determined system still returns a finite solution
	// reproducing the observations
	xHat, err := Solve(h, y)
	assert.NotNil(xHat)
	assert.NoError(err)

	yHat := mat.NewVecDense(2, nil)
	yHat.MulVec(h, xHat)
	assert.True(mat.EqualApprox(y, yHat, 1e-9))
}

func TestSolveCubicRecovery(t *testing.T) {
	assert := assert.New(t)

	xTrue := mat.NewVecDense(4, []float64{2.5, 2.1, -0.7, -0.15})

	const (
		samples = 100
		trials  = 20
	)

	mean := make([]float64, samples)
	cov := mat.NewSymDense(samples, nil)
	for i := 0; i < samples; i++ {
		cov.SetSym(i, i, 1.0)
	}

	hits := 0
	for trial := 0; trial < trials; trial++ {
		points, err := sim.UniformPoints(samples, -5.0, 5.0, uint64(trial))
		assert.NoError(err)

		h, err := Vandermonde(points, 4)
		assert.NoError(err)

		n, err := noise.NewGaussianWithSeed(mean, cov, uint64(1000+trial))
		assert.NoError(err)

		y, err := Simulate(h, xTrue, n)
		assert.NoError(err)

		xHat, err := Solve(h, y)
		assert.NoError(err)

		diff := mat.NewVecDense(4, nil)
		diff.SubVec(xTrue, xHat)
		if mat.Norm(diff, 2) < 0.5 {
			hits++
		}
	}

	// unit variance noise over 100 samples recovers the cubic
	// coefficients within 0.5 in the vast majority of trials
	assert.GreaterOrEqual(hits, trials*9/10)
}
