// spherical_expansion.go --  This file is part of goSPEX project.
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
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// SphericalExpansion sums the per-pair expansion over all neighbors of
// each center,
//
//	sum_j c^l_{Aij a_i a_j, m, n} = c^l_{Ai a_i a_j, m, n}
//	--reorder--> c^{a_i l}_{Ai, m, a_j n}
//
// and emits one block per (a_i, lam, sigma=1) key. Rows of a block are
// the (structure, center) atoms of species a_i, the component axis is
// the 2l+1 orders m, and the property axis enumerates (a_j, n, l) with
// the neighbor species (or pseudo-species) channel major and the radial
// channel minor.
//
// A calculator is immutable after construction and safe for concurrent
// Forward calls.
type SphericalExpansion struct {
	Hypers          Hypers
	AllSpecies      []int
	VectorExpansion *VectorExpansion
	LMax            int
}

func NewSphericalExpansion(hypers Hypers, allSpecies []int) (*SphericalExpansion, error) {
	ve, err := NewVectorExpansion(hypers, allSpecies)
	if err != nil {
		return nil, err
	}
	return &SphericalExpansion{
		Hypers:          hypers,
		AllSpecies:      allSpecies,
		VectorExpansion: ve,
		LMax:            ve.LMax,
	}, nil
}

// channelStrategy is the one knob that distinguishes discrete-species
// aggregation from alchemical aggregation. Discrete mode sorts every
// pair into one accumulator slot per neighbor species; alchemical mode
// has a single slot because the pseudo-species channels already live on
// the column axis of the radial response.
type channelStrategy struct {
	slots  int
	labels []int
	slotOf []int // per-pair slot, nil when slots == 1
}

func (se *SphericalExpansion) strategy(expanded *TensorMap, n_pairs int) (channelStrategy, error) {
	if se.Hypers.Alchemical > 0 {
		return channelStrategy{slots: 1, labels: PseudoSpeciesLabels(se.Hypers.Alchemical)}, nil
	}
	neighbors, err := expanded.Blocks[0].Samples.Column("species_neighbor")
	if err != nil {
		return channelStrategy{}, err
	}
	channels := se.VectorExpansion.RadialBasis.speciesChannel
	slotOf := make([]int, n_pairs)
	for p, aj := range neighbors {
		ch, ok := channels[aj]
		if !ok {
			return channelStrategy{}, fmt.Errorf("%w: neighbor species %d", ErrUnknownSpecies, aj)
		}
		slotOf[p] = ch
	}
	return channelStrategy{slots: len(se.AllSpecies), labels: se.AllSpecies, slotOf: slotOf}, nil
}

// Forward computes the spherical expansion of one batch. Centers with
// no neighbors keep their zero-initialized accumulator rows, so
// isolated atoms yield all-zero coefficients rather than an error.
func (se *SphericalExpansion) Forward(batch *Batch) (*TensorMap, error) {
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	// The vocabulary is fixed at construction; a species outside it is a
	// configuration error, caught here at the boundary rather than deep
	// inside the reduction.
	channels := se.VectorExpansion.RadialBasis.speciesChannel
	for i, s := range batch.Species {
		if _, ok := channels[s]; !ok {
			return nil, fmt.Errorf("%w: atom %d has species %d", ErrUnknownSpecies, i, s)
		}
	}

	expanded, err := se.VectorExpansion.Forward(batch)
	if err != nil {
		return nil, err
	}

	n_pairs := batch.NPairs()
	n_centers := batch.NAtoms()

	strat, err := se.strategy(expanded, n_pairs)
	if err != nil {
		return nil, err
	}

	// Local center index -> flat batch index, through the per-structure
	// prefix-sum offsets.
	offsets := structureOffsets(batch.StructureCenters)
	flatCenter := make([]int, n_pairs)
	for p := 0; p < n_pairs; p++ {
		flatCenter[p] = offsets[batch.StructurePairs[p]] + batch.Pairs[p][0]
	}

	densities := make([][]float64, se.LMax+1)
	for l := 0; l <= se.LMax; l++ {
		block := expanded.Blocks[l]
		_, n_m, cols := block.Dims()
		stride := n_m * cols

		// Order-independent scatter-add of every pair row into the slot
		// of its center (and, in discrete mode, its neighbor species).
		acc := make([]float64, n_centers*strat.slots*stride)
		for p := 0; p < n_pairs; p++ {
			slot := flatCenter[p] * strat.slots
			if strat.slotOf != nil {
				slot += strat.slotOf[p]
			}
			floats.Add(acc[slot*stride:(slot+1)*stride], block.Row(p))
		}

		if strat.slots == 1 {
			densities[l] = acc
			continue
		}
		// Canonicalize [centers, species, m, n] -> [centers, m, species*n]
		// so the property axis is channel-major, radial-minor in both
		// modes.
		out := make([]float64, n_centers*n_m*strat.slots*cols)
		for i := 0; i < n_centers; i++ {
			for a := 0; a < strat.slots; a++ {
				for im := 0; im < n_m; im++ {
					src := acc[((i*strat.slots+a)*n_m+im)*cols:]
					dst := out[((i*n_m+im)*strat.slots+a)*cols:]
					copy(dst[:cols], src[:cols])
				}
			}
		}
		densities[l] = out
	}

	return se.assemble(batch, densities, strat)
}

// assemble splits the per-center densities into per-species blocks with
// full sample/property labeling. Key order is l-major, species-minor.
func (se *SphericalExpansion) assemble(batch *Batch, densities [][]float64, strat channelStrategy) (*TensorMap, error) {
	n_centers := batch.NAtoms()
	var keys [][]int
	var blocks []*TensorBlock

	for l := 0; l <= se.LMax; l++ {
		n_m := 2*l + 1
		n_max := se.VectorExpansion.RadialBasis.NMax[l]
		stride := n_m * len(strat.labels) * n_max

		properties := make([][]int, 0, len(strat.labels)*n_max)
		for _, aj := range strat.labels {
			for n := 0; n < n_max; n++ {
				properties = append(properties, []int{aj, n, l})
			}
		}
		propLabels := NewLabels([]string{"a1", "n1", "l1"}, properties)

		for _, ai := range se.AllSpecies {
			var samples [][]int
			var values []float64
			for i := 0; i < n_centers; i++ {
				if batch.Species[i] != ai {
					continue
				}
				samples = append(samples, []int{batch.StructureCenters[i], batch.Centers[i]})
				values = append(values, densities[l][i*stride:(i+1)*stride]...)
			}
			block, err := NewTensorBlock(values,
				NewLabels([]string{"structure", "center"}, samples),
				componentLabels(l), propLabels)
			if err != nil {
				return nil, err
			}
			keys = append(keys, []int{ai, l, 1})
			blocks = append(blocks, block)
		}
	}
	return NewTensorMap(NewLabels([]string{"a_i", "lam", "sigma"}, keys), blocks)
}
