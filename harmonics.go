// harmonics.go --  This file is part of goSPEX project.
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
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SphericalHarmonics evaluates the real spherical harmonics of unit
// direction vectors for all degrees l = 0..LMax. One call returns the
// concatenated array [n_pairs, (LMax+1)^2]; within a degree the orders
// run m = -l..l, so degree l occupies columns l*l .. (l+1)*(l+1)-1.
type SphericalHarmonics struct {
	LMax int
	norm [][]float64 // norm[l][m] for m = 0..l
}

func NewSphericalHarmonics(lMax int) *SphericalHarmonics {
	sh := &SphericalHarmonics{LMax: lMax}
	sh.norm = make([][]float64, lMax+1)
	for l := 0; l <= lMax; l++ {
		sh.norm[l] = make([]float64, l+1)
		for m := 0; m <= l; m++ {
			// sqrt((2l+1)/(4 pi) * (l-m)!/(l+m)!)
			ratio := 1.0
			for k := l - m + 1; k <= l+m; k++ {
				ratio /= float64(k)
			}
			sh.norm[l][m] = math.Sqrt(float64(2*l+1) / (4 * math.Pi) * ratio)
		}
	}
	return sh
}

// SplitSizes gives the per-degree chunk widths 2l+1.
func (sh *SphericalHarmonics) SplitSizes() []int {
	sizes := make([]int, sh.LMax+1)
	for l := range sizes {
		sizes[l] = 2*l + 1
	}
	return sizes
}

// Compute evaluates all harmonics for every row of vectors (n x 3).
// Vectors need not be normalized; only the direction enters. A
// zero-length vector has no direction and is rejected.
func (sh *SphericalHarmonics) Compute(vectors *mat.Dense) (*mat.Dense, error) {
	n, c := vectors.Dims()
	if c != 3 {
		return nil, fmt.Errorf("%w: direction vectors are %dx%d, want nx3", ErrBatchShape, n, c)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no direction vectors", ErrBatchShape)
	}
	res := mat.NewDense(n, (sh.LMax+1)*(sh.LMax+1), nil)

	workers := runtime.GOMAXPROCS(-1)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for p := lo; p < hi; p++ {
				if err := sh.computeRow(vectors.RawRowView(p), res.RawRowView(p)); err != nil {
					errs[w] = fmt.Errorf("pair %d: %w", p, err)
					return
				}
			}
		}(w, lo, hi)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (sh *SphericalHarmonics) computeRow(v, out []float64) error {
	r := floats.Norm(v, 2)
	if r == 0 {
		return fmt.Errorf("%w: zero-length direction vector", ErrBatchShape)
	}
	ct := v[2] / r // cos(theta)
	phi := math.Atan2(v[1], v[0])

	plm := assocLegendre(sh.LMax, ct)
	for l := 0; l <= sh.LMax; l++ {
		base := l * l
		out[base+l] = sh.norm[l][0] * plm[l][0]
		for m := 1; m <= l; m++ {
			f := math.Sqrt2 * sh.norm[l][m] * plm[l][m]
			s, c := math.Sincos(float64(m) * phi)
			out[base+l+m] = f * c
			out[base+l-m] = f * s
		}
	}
	return nil
}

// assocLegendre evaluates the associated Legendre functions P_l^m(x)
// for 0 <= m <= l <= lmax, without the Condon-Shortley phase.
func assocLegendre(lmax int, x float64) [][]float64 {
	p := make([][]float64, lmax+1)
	for l := range p {
		p[l] = make([]float64, l+1)
	}
	p[0][0] = 1
	somx2 := math.Sqrt((1 - x) * (1 + x))
	fact := 1.0
	for m := 1; m <= lmax; m++ {
		p[m][m] = p[m-1][m-1] * fact * somx2
		fact += 2
	}
	for m := 0; m < lmax; m++ {
		p[m+1][m] = x * float64(2*m+1) * p[m][m]
	}
	for m := 0; m <= lmax; m++ {
		for l := m + 2; l <= lmax; l++ {
			p[l][m] = (x*float64(2*l-1)*p[l-1][m] - float64(l+m-1)*p[l-2][m]) / float64(l-m)
		}
	}
	return p
}
