// vector_expansion.go --  This file is part of goSPEX project.
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

	"gonum.org/v1/gonum/floats"
)

var (
	ErrPairCount   = errors.New("gospex: provider pair count disagrees with the batch")
	ErrDegreeCount = errors.New("gospex: provider degree count disagrees with l_max")
)

// VectorExpansion computes the per-pair expansion coefficients
//
//	c^l_{Aij a_i a_j, m, n}
//
// one block per degree l, row p of every block belonging to input pair
// p. The values are the outer product of the radial response with the
// spherical harmonics of the pair direction.
type VectorExpansion struct {
	Hypers      Hypers
	AllSpecies  []int
	RadialBasis *RadialBasis
	Harmonics   *SphericalHarmonics
	LMax        int
}

func NewVectorExpansion(hypers Hypers, allSpecies []int) (*VectorExpansion, error) {
	rb, err := NewRadialBasis(hypers, allSpecies)
	if err != nil {
		return nil, err
	}
	// The radial basis fixes l_max; the harmonics follow it.
	return &VectorExpansion{
		Hypers:      hypers,
		AllSpecies:  allSpecies,
		RadialBasis: rb,
		Harmonics:   NewSphericalHarmonics(rb.LMax),
		LMax:        rb.LMax,
	}, nil
}

func (ve *VectorExpansion) isAlchemical() bool { return ve.Hypers.Alchemical > 0 }

// properties builds the column labels of a degree-l block: plain radial
// index n in standard mode, (alpha_j, n) pseudo-major in alchemical
// mode.
func (ve *VectorExpansion) properties(l int) *Labels {
	n_max := ve.RadialBasis.NMax[l]
	if !ve.isAlchemical() {
		return LabelsRange("n", n_max)
	}
	pseudo := PseudoSpeciesLabels(ve.Hypers.Alchemical)
	values := make([][]int, 0, len(pseudo)*n_max)
	for _, alpha := range pseudo {
		for n := 0; n < n_max; n++ {
			values = append(values, []int{alpha, n})
		}
	}
	return NewLabels([]string{"alpha_j", "n"}, values)
}

func componentLabels(l int) *Labels {
	values := make([][]int, 2*l+1)
	for m := -l; m <= l; m++ {
		values[m+l] = []int{m}
	}
	return NewLabels([]string{"m"}, values)
}

// Forward expands every pair of the batch. Rows keep the input pair
// order; no reordering happens here.
func (ve *VectorExpansion) Forward(batch *Batch) (*TensorMap, error) {
	cart, err := getCartesianVectors(batch)
	if err != nil {
		return nil, err
	}
	n_pairs := batch.NPairs()

	blocks := make([]*TensorBlock, ve.LMax+1)
	if n_pairs == 0 {
		for l := 0; l <= ve.LMax; l++ {
			blocks[l], err = NewTensorBlock(nil, cart.Samples, componentLabels(l), ve.properties(l))
			if err != nil {
				return nil, err
			}
		}
		return NewTensorMap(LabelsRange("l", ve.LMax+1), blocks)
	}

	r := make([]float64, n_pairs)
	for p := 0; p < n_pairs; p++ {
		r[p] = floats.Norm(batch.DirectionVectors.RawRowView(p), 2)
	}

	radial, err := ve.RadialBasis.Compute(r, cart.Samples)
	if err != nil {
		return nil, err
	}
	if len(radial) != ve.LMax+1 {
		return nil, fmt.Errorf("%w: radial basis returned %d degrees, want %d",
			ErrDegreeCount, len(radial), ve.LMax+1)
	}

	harmonics, err := ve.Harmonics.Compute(batch.DirectionVectors)
	if err != nil {
		return nil, err
	}
	if rows, _ := harmonics.Dims(); rows != n_pairs {
		return nil, fmt.Errorf("%w: %d harmonics rows for %d pairs", ErrPairCount, rows, n_pairs)
	}

	for l := 0; l <= ve.LMax; l++ {
		rows, cols := radial[l].Dims()
		if rows != n_pairs {
			return nil, fmt.Errorf("%w: %d radial rows for %d pairs at l=%d", ErrPairCount, rows, n_pairs, l)
		}
		wantCols := ve.RadialBasis.NMax[l]
		if ve.isAlchemical() {
			wantCols *= ve.Hypers.Alchemical
		}
		if cols != wantCols {
			return nil, fmt.Errorf("%w: %d radial columns at l=%d, want %d", ErrPseudoCount, cols, l, wantCols)
		}

		n_m := 2*l + 1
		values := make([]float64, n_pairs*n_m*cols)
		for p := 0; p < n_pairs; p++ {
			shRow := harmonics.RawRowView(p)[l*l : (l+1)*(l+1)]
			radRow := radial[l].RawRowView(p)
			for im := 0; im < n_m; im++ {
				dst := values[(p*n_m+im)*cols : (p*n_m+im+1)*cols]
				floats.AddScaled(dst, shRow[im], radRow)
			}
		}
		blocks[l], err = NewTensorBlock(values, cart.Samples, componentLabels(l), ve.properties(l))
		if err != nil {
			return nil, err
		}
	}
	return NewTensorMap(LabelsRange("l", ve.LMax+1), blocks)
}
