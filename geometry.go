// geometry.go --  This file is part of goSPEX project.
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

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

var ErrBatchShape = errors.New("gospex: inconsistent batch arrays")

// Batch is a flat concatenation of independent structures. Atoms of one
// structure are contiguous and numbered 0..n-1 locally; the Structure*
// arrays record ownership. DirectionVectors may be nil when there are
// no pairs.
type Batch struct {
	Species          []int
	CellShifts       [][3]int
	Centers          []int
	Pairs            [][2]int
	StructureCenters []int
	StructurePairs   []int
	DirectionVectors *mat.Dense
}

func (b *Batch) NAtoms() int { return len(b.Species) }
func (b *Batch) NPairs() int { return len(b.Pairs) }

func (b *Batch) Validate() error {
	n_atoms := len(b.Species)
	if len(b.Centers) != n_atoms || len(b.StructureCenters) != n_atoms {
		return fmt.Errorf("%w: %d species, %d centers, %d structure_centers",
			ErrBatchShape, n_atoms, len(b.Centers), len(b.StructureCenters))
	}
	n_pairs := len(b.Pairs)
	if len(b.CellShifts) != n_pairs || len(b.StructurePairs) != n_pairs {
		return fmt.Errorf("%w: %d pairs, %d cell_shifts, %d structure_pairs",
			ErrBatchShape, n_pairs, len(b.CellShifts), len(b.StructurePairs))
	}
	if n_pairs > 0 {
		if b.DirectionVectors == nil {
			return fmt.Errorf("%w: %d pairs but nil direction_vectors", ErrBatchShape, n_pairs)
		}
		r, c := b.DirectionVectors.Dims()
		if r != n_pairs || c != 3 {
			return fmt.Errorf("%w: direction_vectors is %dx%d for %d pairs", ErrBatchShape, r, c, n_pairs)
		}
	}
	return nil
}

// structureOffsets builds the per-structure prefix-sum table: for every
// structure id present in structureCenters, the flat index of its first
// atom. Local center indices become batch-flat by adding this offset.
func structureOffsets(structureCenters []int) map[int]int {
	counts := make(map[int]int)
	var ids []int
	for _, s := range structureCenters {
		if _, seen := counts[s]; !seen {
			ids = append(ids, s)
		}
		counts[s]++
	}
	slices.Sort(ids)
	offsets := make(map[int]int, len(ids))
	acc := 0
	for _, s := range ids {
		offsets[s] = acc
		acc += counts[s]
	}
	return offsets
}

// getCartesianVectors wraps the per-pair direction vectors into a block
// whose samples carry the full pair metadata: owning structure, local
// center and neighbor indices, both endpoint species and the cell shift.
func getCartesianVectors(b *Batch) (*TensorBlock, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	offsets := structureOffsets(b.StructureCenters)
	n_atoms := b.NAtoms()
	n_pairs := b.NPairs()

	labels := make([][]int, n_pairs)
	values := make([]float64, 3*n_pairs)
	for p := 0; p < n_pairs; p++ {
		off, ok := offsets[b.StructurePairs[p]]
		if !ok {
			return nil, fmt.Errorf("%w: pair %d belongs to structure %d with no atoms",
				ErrBatchShape, p, b.StructurePairs[p])
		}
		i, j := b.Pairs[p][0], b.Pairs[p][1]
		flat_i, flat_j := off+i, off+j
		if flat_i < 0 || flat_i >= n_atoms || flat_j < 0 || flat_j >= n_atoms {
			return nil, fmt.Errorf("%w: pair %d indexes atoms (%d,%d) outside the batch",
				ErrBatchShape, p, flat_i, flat_j)
		}
		labels[p] = []int{
			b.StructurePairs[p], i, j,
			b.Species[flat_i], b.Species[flat_j],
			b.CellShifts[p][0], b.CellShifts[p][1], b.CellShifts[p][2],
		}
		row := b.DirectionVectors.RawRowView(p)
		copy(values[3*p:3*p+3], row)
	}

	samples := NewLabels(
		[]string{"structure", "center", "neighbor", "species_center", "species_neighbor", "cell_x", "cell_y", "cell_z"},
		labels)
	components := NewLabels([]string{"cartesian_dimension"}, [][]int{{-1}, {0}, {1}})
	return NewTensorBlock(values, samples, components, LabelsSingle())
}
