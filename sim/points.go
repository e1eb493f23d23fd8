package sim

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// UniformPoints draws n sample points uniformly from the interval [lo, hi).
// The points are drawn from a source seeded with seed so repeated calls
// with the same arguments return the same points.
// It returns error if n is not positive or if lo is not smaller than hi.
func UniformPoints(n int, lo, hi float64, seed uint64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid number of points requested: %d", n)
	}

	if lo >= hi {
		return nil, fmt.Errorf("invalid interval: [%f, %f)", lo, hi)
	}

	u := distuv.Uniform{
		Min: lo,
		Max: hi,
		Src: rand.NewSource(seed),
	}

	points := make([]float64, n)
	for i := range points {
		points[i] = u.Rand()
	}

	return points, nil
}
