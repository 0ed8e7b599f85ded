// molecule.go --  This file is part of goSPEX project.
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
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

type Atom struct {
	Z      int
	Name   string
	Coords [3]float64
}

type Molecule struct {
	Atoms []Atom
}

func (m *Molecule) addAtoms(data []string, start, end int) error {
	for i := start; i < end+1; i++ {
		var atm Atom
		words := strings.Fields(data[i])
		atm.Z = ElemData.AtomicNumber(words[0])
		if atm.Z < 1 {
			return fmt.Errorf("%w: unknown element %q", ErrBadHypers, words[0])
		}
		atm.Name = words[0] + strconv.Itoa(1+i-start)
		if len(words) > 3 {
			x, _ := strconv.ParseFloat(words[1], 64)
			y, _ := strconv.ParseFloat(words[2], 64)
			z, _ := strconv.ParseFloat(words[3], 64)
			atm.Coords = [3]float64{x, y, z}
		} else {
			return fmt.Errorf("%w: incorrect coordinates for atom %s", ErrBadHypers, atm.Name)
		}
		m.Atoms = append(m.Atoms, atm)
	}
	return nil
}

// Species collects the sorted distinct atomic numbers across molecules,
// the natural vocabulary for a calculator run on them.
func Species(mols []*Molecule) []int {
	var all []int
	for _, m := range mols {
		for _, a := range m.Atoms {
			if !slices.Contains(all, a.Z) {
				all = append(all, a.Z)
			}
		}
	}
	slices.Sort(all)
	return all
}

// NewBatch concatenates molecules into the flat batch layout and builds
// a full cutoff neighbor list: every ordered pair (i, j), i != j, with
// |r_j - r_i| <= cutoff appears once, so every atom owns all its
// neighbors as a center. Molecules are finite, all cell shifts are
// zero; periodic neighbor search stays with the surrounding tooling.
func NewBatch(mols []*Molecule, cutoff float64) (*Batch, error) {
	if cutoff <= 0 {
		return nil, fmt.Errorf("%w: cutoff %g", ErrBadHypers, cutoff)
	}
	b := &Batch{}
	var directions []float64
	for s, m := range mols {
		for i, a := range m.Atoms {
			b.Species = append(b.Species, a.Z)
			b.Centers = append(b.Centers, i)
			b.StructureCenters = append(b.StructureCenters, s)
			for j, c := range m.Atoms {
				if i == j {
					continue
				}
				var d [3]float64
				dist2 := 0.0
				for k := 0; k < 3; k++ {
					d[k] = c.Coords[k] - a.Coords[k]
					dist2 += d[k] * d[k]
				}
				if dist2 > cutoff*cutoff {
					continue
				}
				b.Pairs = append(b.Pairs, [2]int{i, j})
				b.CellShifts = append(b.CellShifts, [3]int{0, 0, 0})
				b.StructurePairs = append(b.StructurePairs, s)
				directions = append(directions, d[0], d[1], d[2])
			}
		}
	}
	if len(directions) > 0 {
		b.DirectionVectors = mat.NewDense(len(directions)/3, 3, directions)
	}
	return b, b.Validate()
}
