package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelsColumn(t *testing.T) {
	l := NewLabels([]string{"structure", "center"}, [][]int{{0, 0}, {0, 1}, {1, 0}})
	require.Equal(t, 3, l.Count())

	centers, err := l.Column("center")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, centers)

	_, err = l.Column("neighbor")
	assert.ErrorIs(t, err, ErrLabelName)
}

func TestLabelsRange(t *testing.T) {
	l := LabelsRange("n", 4)
	assert.Equal(t, []string{"n"}, l.Names)
	assert.Equal(t, [][]int{{0}, {1}, {2}, {3}}, l.Values)
}

func TestTensorBlockShape(t *testing.T) {
	samples := LabelsRange("sample", 2)
	comps := LabelsRange("m", 3)
	props := LabelsRange("n", 2)

	_, err := NewTensorBlock(make([]float64, 5), samples, comps, props)
	assert.ErrorIs(t, err, ErrBlockShape)

	values := make([]float64, 2*3*2)
	for i := range values {
		values[i] = float64(i)
	}
	b, err := NewTensorBlock(values, samples, comps, props)
	require.NoError(t, err)

	rows, nc, np := b.Dims()
	assert.Equal(t, [3]int{2, 3, 2}, [3]int{rows, nc, np})
	assert.Equal(t, 7.0, b.At(1, 0, 1))
	assert.Equal(t, []float64{6, 7, 8, 9, 10, 11}, b.Row(1))
}

func TestTensorMapBlock(t *testing.T) {
	mkBlock := func(v float64) *TensorBlock {
		b, err := NewTensorBlock([]float64{v}, LabelsRange("sample", 1), LabelsRange("m", 1), LabelsRange("n", 1))
		require.NoError(t, err)
		return b
	}
	keys := NewLabels([]string{"a_i", "lam"}, [][]int{{1, 0}, {8, 0}})
	tm, err := NewTensorMap(keys, []*TensorBlock{mkBlock(1), mkBlock(2)})
	require.NoError(t, err)

	b, err := tm.Block(8, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, b.Values[0])

	_, err = tm.Block(6, 0)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = NewTensorMap(keys, []*TensorBlock{mkBlock(1)})
	assert.ErrorIs(t, err, ErrBlockShape)
}
