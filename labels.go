// labels.go --  This file is part of goSPEX project.
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
)

var (
	ErrLabelName   = errors.New("gospex: no label column with that name")
	ErrKeyNotFound = errors.New("gospex: no block with that key")
	ErrBlockShape  = errors.New("gospex: block values do not match label sizes")
)

// Labels names the entries along one axis of a block. Every row of
// Values is one entry, every column one named index.
type Labels struct {
	Names  []string
	Values [][]int
}

func NewLabels(names []string, values [][]int) *Labels {
	return &Labels{Names: names, Values: values}
}

// LabelsRange builds single-column labels name = 0..n-1.
func LabelsRange(name string, n int) *Labels {
	values := make([][]int, n)
	for i := 0; i < n; i++ {
		values[i] = []int{i}
	}
	return &Labels{Names: []string{name}, Values: values}
}

// LabelsSingle is the trivial one-entry label set used for dummy axes.
func LabelsSingle() *Labels {
	return &Labels{Names: []string{"_"}, Values: [][]int{{0}}}
}

func (l *Labels) Count() int {
	return len(l.Values)
}

// Column returns the values of the named column across all entries.
func (l *Labels) Column(name string) ([]int, error) {
	col := slices.Index(l.Names, name)
	if col < 0 {
		return nil, fmt.Errorf("%w: %q", ErrLabelName, name)
	}
	res := make([]int, len(l.Values))
	for i := range l.Values {
		res[i] = l.Values[i][col]
	}
	return res, nil
}

// TensorBlock is one rectangular coefficient array of shape
// [rows, components, properties], stored row-major in a flat slice,
// with label metadata on all three axes.
type TensorBlock struct {
	Values     []float64
	Samples    *Labels
	Components *Labels
	Properties *Labels
}

func NewTensorBlock(values []float64, samples, components, properties *Labels) (*TensorBlock, error) {
	want := samples.Count() * components.Count() * properties.Count()
	if len(values) != want {
		return nil, fmt.Errorf("%w: have %d values, labels say %d", ErrBlockShape, len(values), want)
	}
	return &TensorBlock{Values: values, Samples: samples, Components: components, Properties: properties}, nil
}

func (b *TensorBlock) Dims() (rows, comps, props int) {
	return b.Samples.Count(), b.Components.Count(), b.Properties.Count()
}

func (b *TensorBlock) At(i, c, p int) float64 {
	_, comps, props := b.Dims()
	return b.Values[(i*comps+c)*props+p]
}

// Row returns the contiguous [components*properties] slice of sample i.
func (b *TensorBlock) Row(i int) []float64 {
	_, comps, props := b.Dims()
	stride := comps * props
	return b.Values[i*stride : (i+1)*stride]
}

// TensorMap is a keyed collection of blocks. Keys.Values[i] is the key
// of Blocks[i].
type TensorMap struct {
	Keys   *Labels
	Blocks []*TensorBlock
}

func NewTensorMap(keys *Labels, blocks []*TensorBlock) (*TensorMap, error) {
	if keys.Count() != len(blocks) {
		return nil, fmt.Errorf("%w: %d keys for %d blocks", ErrBlockShape, keys.Count(), len(blocks))
	}
	return &TensorMap{Keys: keys, Blocks: blocks}, nil
}

// Block returns the block whose full key equals key.
func (t *TensorMap) Block(key ...int) (*TensorBlock, error) {
	for i, k := range t.Keys.Values {
		if slices.Equal(k, key) {
			return t.Blocks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
}
