package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestRadialBasisChannelCounts(t *testing.T) {
	rb, err := NewRadialBasis(Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{EMax: 20}}, []int{1, 8})
	require.NoError(t, err)

	assert.Equal(t, rb.LMax+1, len(rb.NMax))
	zMax := math.Sqrt(20) * 3.0
	for l, n := range rb.NMax {
		assert.Greater(t, n, 0, "every kept degree has a channel")
		assert.LessOrEqual(t, besselZeroApprox(l, n-1), zMax, "last kept channel below cutoff")
		assert.Greater(t, besselZeroApprox(l, n), zMax, "first dropped channel above cutoff")
		if l > 0 {
			assert.LessOrEqual(t, n, rb.NMax[l-1], "channel counts do not grow with l")
		}
	}
}

func TestRadialBasisExplicitNMax(t *testing.T) {
	rb, err := NewRadialBasis(Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{4, 4, 4}}}, []int{1, 8})
	require.NoError(t, err)
	assert.Equal(t, 2, rb.LMax)
	assert.Equal(t, []int{4, 4, 4}, rb.NMax)
}

func TestRadialBasisBadHypers(t *testing.T) {
	cases := []struct {
		name    string
		hypers  Hypers
		species []int
	}{
		{"ZeroCutoff", Hypers{RadialBasis: RadialBasisHypers{EMax: 20}}, []int{1}},
		{"TinyEMax", Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{EMax: 0.1}}, []int{1}},
		{"EmptyVocabulary", Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{EMax: 20}}, nil},
		{"ZeroChannelDegree", Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{4, 0}}}, []int{1}},
		{"DuplicateSpecies", Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{EMax: 20}}, []int{1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRadialBasis(tc.hypers, tc.species)
			assert.ErrorIs(t, err, ErrBadHypers)
		})
	}
}

func TestRadialBasisCompute(t *testing.T) {
	rb, err := NewRadialBasis(Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{3, 2}}}, []int{1, 8})
	require.NoError(t, err)

	r := []float64{0.5, 1.5, 2.9}
	res, err := rb.Compute(r, nil)
	require.NoError(t, err)
	require.Len(t, res, 2)

	for l, out := range res {
		rows, cols := out.Dims()
		assert.Equal(t, 3, rows)
		assert.Equal(t, rb.NMax[l], cols)
		for p := range r {
			for n := 0; n < cols; n++ {
				assert.Equal(t, rb.eval(l, n, r[p]), out.At(p, n))
			}
		}
	}

	// smooth decay: channels vanish at the cutoff radius
	at := rb.eval(0, 0, 3.0)
	assert.Zero(t, at)
	assert.Greater(t, rb.eval(0, 0, 0.1), rb.eval(0, 0, 2.0))
}

func TestRadialBasisAlchemical(t *testing.T) {
	hypers := Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{3, 2}}, Alchemical: 2}
	rb, err := NewRadialBasis(hypers, []int{1, 6, 8})
	require.NoError(t, err)

	samples := NewLabels([]string{"species_neighbor"}, [][]int{{1}, {8}})
	res, err := rb.Compute([]float64{1.0, 2.0}, samples)
	require.NoError(t, err)

	for l, out := range res {
		_, cols := out.Dims()
		assert.Equal(t, 2*rb.NMax[l], cols, "pseudo-major columns at l=%d", l)
	}

	// column alpha*n_max+n is embedding(alpha, channel) * R_ln(r)
	for alpha := 0; alpha < 2; alpha++ {
		for n := 0; n < rb.NMax[0]; n++ {
			want := rb.embedding.At(alpha, 0) * rb.eval(0, n, 1.0)
			assert.InDelta(t, want, res[0].At(0, alpha*rb.NMax[0]+n), 1e-15)
		}
	}

	t.Run("UnknownNeighbor", func(t *testing.T) {
		bad := NewLabels([]string{"species_neighbor"}, [][]int{{3}})
		_, err := rb.Compute([]float64{1.0}, bad)
		assert.ErrorIs(t, err, ErrUnknownSpecies)
	})
}

func TestRadialBasisSetEmbedding(t *testing.T) {
	hypers := Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{2}}, Alchemical: 2}
	rb, err := NewRadialBasis(hypers, []int{1, 8})
	require.NoError(t, err)

	require.NoError(t, rb.SetEmbedding(mat.NewDense(2, 2, []float64{1, 0, 0, 1})))
	assert.ErrorIs(t, rb.SetEmbedding(mat.NewDense(3, 2, nil)), ErrPseudoCount)

	plain, err := NewRadialBasis(Hypers{CutoffRadius: 3, RadialBasis: RadialBasisHypers{NMax: []int{2}}}, []int{1, 8})
	require.NoError(t, err)
	assert.ErrorIs(t, plain.SetEmbedding(mat.NewDense(1, 2, nil)), ErrPseudoCount)
}

func TestPseudoSpeciesLabels(t *testing.T) {
	assert.Equal(t, []int{0, -1, -2}, PseudoSpeciesLabels(3))
}
