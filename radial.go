// radial.go --  This file is part of goSPEX project.
// Mirzaeva Irina, 2024
//
//	goSPEX is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrBadHypers      = errors.New("gospex: bad hyperparameters")
	ErrUnknownSpecies = errors.New("gospex: species not in the configured vocabulary")
	ErrPseudoCount    = errors.New("gospex: inconsistent pseudo-species count")
)

// RadialBasisHypers fixes the radial channel counts. Either EMax sets
// them through the eigenvalue cutoff, or NMax gives the per-degree
// counts explicitly (then EMax is ignored and l_max = len(NMax)-1).
type RadialBasisHypers struct {
	EMax float64
	NMax []int
}

// Hypers is the full construction-time configuration of a calculator.
// Alchemical > 0 switches to pseudo-species mode with that many
// embedding channels.
type Hypers struct {
	CutoffRadius float64
	RadialBasis  RadialBasisHypers
	Alchemical   int
}

// RadialBasis evaluates Gaussian-type radial functions
//
//	R_ln(r) = (r/rc)^l exp(-z_ln^2 (r/rc)^2 / 2) fcut(r)
//
// with widths set by the spherical Bessel zero approximation
// z_ln ~ pi (n + l/2 + 1); the channel counts per degree follow from
// the eigenvalue cutoff E_ln = (z_ln/rc)^2 <= EMax. In alchemical mode
// the neighbor-species axis is contracted through a fixed
// [n_pseudo x n_species] embedding matrix.
type RadialBasis struct {
	RCut       float64
	LMax       int
	NMax       []int
	AllSpecies []int

	zeros          [][]float64
	nPseudo        int
	embedding      *mat.Dense
	speciesChannel map[int]int
}

func besselZeroApprox(l, n int) float64 {
	return math.Pi * (float64(n) + float64(l)/2 + 1)
}

func NewRadialBasis(hypers Hypers, allSpecies []int) (*RadialBasis, error) {
	if hypers.CutoffRadius <= 0 {
		return nil, fmt.Errorf("%w: cutoff radius %g", ErrBadHypers, hypers.CutoffRadius)
	}
	if len(allSpecies) == 0 {
		return nil, fmt.Errorf("%w: empty species vocabulary", ErrBadHypers)
	}

	rb := &RadialBasis{
		RCut:       hypers.CutoffRadius,
		AllSpecies: allSpecies,
		nPseudo:    hypers.Alchemical,
	}

	if len(hypers.RadialBasis.NMax) > 0 {
		rb.NMax = hypers.RadialBasis.NMax
		rb.LMax = len(rb.NMax) - 1
		for l, n := range rb.NMax {
			if n < 1 {
				return nil, fmt.Errorf("%w: n_max(%d) = %d", ErrBadHypers, l, n)
			}
		}
	} else {
		zMax := math.Sqrt(hypers.RadialBasis.EMax) * rb.RCut
		for l := 0; besselZeroApprox(l, 0) <= zMax; l++ {
			n := 0
			for besselZeroApprox(l, n) <= zMax {
				n++
			}
			rb.NMax = append(rb.NMax, n)
		}
		if len(rb.NMax) == 0 {
			return nil, fmt.Errorf("%w: EMax %g leaves no radial channels", ErrBadHypers, hypers.RadialBasis.EMax)
		}
		rb.LMax = len(rb.NMax) - 1
	}

	rb.zeros = make([][]float64, rb.LMax+1)
	for l := 0; l <= rb.LMax; l++ {
		rb.zeros[l] = make([]float64, rb.NMax[l])
		for n := 0; n < rb.NMax[l]; n++ {
			rb.zeros[l][n] = besselZeroApprox(l, n)
		}
	}

	rb.speciesChannel = make(map[int]int, len(allSpecies))
	for i, s := range allSpecies {
		if _, dup := rb.speciesChannel[s]; dup {
			return nil, fmt.Errorf("%w: species %d listed twice", ErrBadHypers, s)
		}
		rb.speciesChannel[s] = i
	}

	if rb.nPseudo > 0 {
		// Stand-in for a learned embedding: deterministic so that runs
		// are reproducible until SetEmbedding installs trained weights.
		rng := rand.New(rand.NewSource(2024))
		data := make([]float64, rb.nPseudo*len(allSpecies))
		scale := 1 / math.Sqrt(float64(len(allSpecies)))
		for i := range data {
			data[i] = rng.NormFloat64() * scale
		}
		rb.embedding = mat.NewDense(rb.nPseudo, len(allSpecies), data)
	}
	return rb, nil
}

// SetEmbedding replaces the pseudo-species contraction weights.
func (rb *RadialBasis) SetEmbedding(w *mat.Dense) error {
	if rb.nPseudo == 0 {
		return fmt.Errorf("%w: basis is not alchemical", ErrPseudoCount)
	}
	r, c := w.Dims()
	if r != rb.nPseudo || c != len(rb.AllSpecies) {
		return fmt.Errorf("%w: embedding is %dx%d, want %dx%d",
			ErrPseudoCount, r, c, rb.nPseudo, len(rb.AllSpecies))
	}
	rb.embedding = w
	return nil
}

func (rb *RadialBasis) cutoffFn(r float64) float64 {
	if r >= rb.RCut {
		return 0
	}
	return 0.5 * (math.Cos(math.Pi*r/rb.RCut) + 1)
}

func (rb *RadialBasis) eval(l, n int, r float64) float64 {
	x := r / rb.RCut
	z := rb.zeros[l][n]
	return math.Pow(x, float64(l)) * math.Exp(-0.5*z*z*x*x) * rb.cutoffFn(r)
}

// Compute returns one array per degree l. In standard mode the array is
// [n_pairs, n_max(l)]. In alchemical mode it is the per-pair embedding
// contraction, [n_pairs, n_pseudo, n_max(l)] flattened row-major into
// n_pseudo*n_max(l) columns (pseudo channel major, radial minor); the
// samples metadata supplies the neighbor species of each pair.
func (rb *RadialBasis) Compute(r []float64, samples *Labels) ([]*mat.Dense, error) {
	n_pairs := len(r)
	if n_pairs == 0 {
		return nil, fmt.Errorf("%w: no pairs", ErrBatchShape)
	}
	if rb.nPseudo == 0 {
		res := make([]*mat.Dense, rb.LMax+1)
		for l := 0; l <= rb.LMax; l++ {
			out := mat.NewDense(n_pairs, rb.NMax[l], nil)
			for p := 0; p < n_pairs; p++ {
				for n := 0; n < rb.NMax[l]; n++ {
					out.Set(p, n, rb.eval(l, n, r[p]))
				}
			}
			res[l] = out
		}
		return res, nil
	}

	neighbors, err := samples.Column("species_neighbor")
	if err != nil {
		return nil, err
	}
	if len(neighbors) != n_pairs {
		return nil, fmt.Errorf("%w: %d pair samples for %d distances", ErrBatchShape, len(neighbors), n_pairs)
	}
	channels := make([]int, n_pairs)
	for p, aj := range neighbors {
		ch, ok := rb.speciesChannel[aj]
		if !ok {
			return nil, fmt.Errorf("%w: neighbor species %d", ErrUnknownSpecies, aj)
		}
		channels[p] = ch
	}

	res := make([]*mat.Dense, rb.LMax+1)
	for l := 0; l <= rb.LMax; l++ {
		n_max := rb.NMax[l]
		out := mat.NewDense(n_pairs, rb.nPseudo*n_max, nil)
		for p := 0; p < n_pairs; p++ {
			row := out.RawRowView(p)
			for n := 0; n < n_max; n++ {
				v := rb.eval(l, n, r[p])
				for alpha := 0; alpha < rb.nPseudo; alpha++ {
					row[alpha*n_max+n] = rb.embedding.At(alpha, channels[p]) * v
				}
			}
		}
		res[l] = out
	}
	return res, nil
}

// PseudoSpeciesLabels is the conventional non-positive numbering
// 0, -1, -2, ... of the pseudo-species channels. The values are opaque
// tags for the property labels, nothing is ever computed with them.
func PseudoSpeciesLabels(nPseudo int) []int {
	labels := make([]int, nPseudo)
	for i := range labels {
		labels[i] = -i
	}
	return labels
}
