// elements.go --  This file is part of goSPEX project.
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

import "golang.org/x/exp/slices"

type Mendeleev struct {
	Symb []string
}

// Symb is indexed by atomic number, entry 0 is a dummy placeholder.
func (m *Mendeleev) build() {
	m.Symb = []string{"X",
		"H", "He",
		"Li", "Be", "B", "C", "N", "O", "F", "Ne",
		"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
		"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
		"Ga", "Ge", "As", "Se", "Br", "Kr",
		"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
		"In", "Sn", "Sb", "Te", "I", "Xe",
	}
}

func (m *Mendeleev) AtomicNumber(symb string) int {
	return slices.Index(m.Symb, symb)
}
