package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testDirections() *mat.Dense {
	return mat.NewDense(6, 3, []float64{
		0, 0, 1,
		0, 0, -2,
		1, 0, 0,
		0, 3, 0,
		1, 1, 1,
		-0.3, 0.8, -1.7,
	})
}

func TestHarmonicsY00(t *testing.T) {
	sh := NewSphericalHarmonics(0)
	res, err := sh.Compute(testDirections())
	require.NoError(t, err)
	rows, cols := res.Dims()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 1, cols)
	for p := 0; p < rows; p++ {
		assert.InDelta(t, 1/math.Sqrt(4*math.Pi), res.At(p, 0), 1e-14)
	}
}

// TestHarmonicsDegreeOne checks the closed forms
// Y_{1,-1} = sqrt(3/4pi) y/r, Y_{1,0} = sqrt(3/4pi) z/r,
// Y_{1,1} = sqrt(3/4pi) x/r in the m = -1, 0, 1 column order.
func TestHarmonicsDegreeOne(t *testing.T) {
	sh := NewSphericalHarmonics(1)
	dirs := testDirections()
	res, err := sh.Compute(dirs)
	require.NoError(t, err)

	k := math.Sqrt(3 / (4 * math.Pi))
	rows, _ := dirs.Dims()
	for p := 0; p < rows; p++ {
		v := dirs.RawRowView(p)
		r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		assert.InDelta(t, k*v[1]/r, res.At(p, 1), 1e-13, "Y_1,-1 at pair %d", p)
		assert.InDelta(t, k*v[2]/r, res.At(p, 2), 1e-13, "Y_1,0 at pair %d", p)
		assert.InDelta(t, k*v[0]/r, res.At(p, 3), 1e-13, "Y_1,1 at pair %d", p)
	}
}

func TestHarmonicsDegreeTwoM0(t *testing.T) {
	sh := NewSphericalHarmonics(2)
	dirs := testDirections()
	res, err := sh.Compute(dirs)
	require.NoError(t, err)

	k := math.Sqrt(5 / (16 * math.Pi))
	rows, _ := dirs.Dims()
	for p := 0; p < rows; p++ {
		v := dirs.RawRowView(p)
		r2 := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
		want := k * (3*v[2]*v[2]/r2 - 1)
		// degree-2 chunk is columns 4..8, m = 0 sits at column 6
		assert.InDelta(t, want, res.At(p, 6), 1e-13, "Y_2,0 at pair %d", p)
	}
}

// TestHarmonicsAdditionTheorem: for every direction and degree,
// sum_m Y_lm^2 = (2l+1)/(4 pi).
func TestHarmonicsAdditionTheorem(t *testing.T) {
	const lMax = 6
	sh := NewSphericalHarmonics(lMax)
	dirs := testDirections()
	res, err := sh.Compute(dirs)
	require.NoError(t, err)

	rows, _ := dirs.Dims()
	for p := 0; p < rows; p++ {
		for l := 0; l <= lMax; l++ {
			sum := 0.0
			for c := l * l; c < (l+1)*(l+1); c++ {
				sum += res.At(p, c) * res.At(p, c)
			}
			assert.InDelta(t, float64(2*l+1)/(4*math.Pi), sum, 1e-12,
				"addition theorem at pair %d, l=%d", p, l)
		}
	}
}

func TestHarmonicsScaleInvariance(t *testing.T) {
	sh := NewSphericalHarmonics(3)
	a, err := sh.Compute(mat.NewDense(1, 3, []float64{0.1, -0.2, 0.5}))
	require.NoError(t, err)
	b, err := sh.Compute(mat.NewDense(1, 3, []float64{0.4, -0.8, 2.0}))
	require.NoError(t, err)
	_, cols := a.Dims()
	for c := 0; c < cols; c++ {
		assert.InDelta(t, a.At(0, c), b.At(0, c), 1e-13)
	}
}

func TestHarmonicsZeroVector(t *testing.T) {
	sh := NewSphericalHarmonics(2)
	_, err := sh.Compute(mat.NewDense(2, 3, []float64{0, 0, 1, 0, 0, 0}))
	assert.ErrorIs(t, err, ErrBatchShape)
}

func TestHarmonicsSplitSizes(t *testing.T) {
	sh := NewSphericalHarmonics(3)
	assert.Equal(t, []int{1, 3, 5, 7}, sh.SplitSizes())
}
