package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lstm/internal/tensor"
)

func TestOneHot(t *testing.T) {
	ids := [][]int32{
		{3, 1, 0},
		{2, 0, 0},
	}

	steps, err := OneHot(ids, 4)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, tensor.Shape{2, 4}, steps[0].Shape())
	assert.Equal(t, []float64{0, 0, 0, 1, 0, 0, 1, 0}, steps[0].Data())
	assert.Equal(t, []float64{0, 1, 0, 0, 1, 0, 0, 0}, steps[1].Data())
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 0, 0}, steps[2].Data())
}

func TestOneHot_Errors(t *testing.T) {
	_, err := OneHot([][]int32{{4}}, 4)
	assert.ErrorIs(t, err, ErrOutOfVocabulary)

	_, err = OneHot([][]int32{{-1}}, 4)
	assert.ErrorIs(t, err, ErrOutOfVocabulary)

	_, err = OneHot([][]int32{{1, 2}, {1}}, 4)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = OneHot(nil, 4)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = OneHot([][]int32{{1}}, 0)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestEmbedding_Lookup(t *testing.T) {
	table := mustDense(t, [][]float64{
		{0, 0},
		{1, 10},
		{2, 20},
	})
	emb := NewEmbeddingFrom(table)
	assert.Equal(t, 3, emb.VocabSize())
	assert.Equal(t, 2, emb.Dim())
	assert.Same(t, table, emb.Table())

	steps, err := emb.Lookup([][]int32{{2, 1}, {1, 0}})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, []float64{2, 20, 1, 10}, steps[0].Data())
	assert.Equal(t, []float64{1, 10, 0, 0}, steps[1].Data())

	// Rows are copies, not views of the table.
	steps[0].Set(99, 0, 0)
	assert.InDelta(t, 2.0, table.At(2, 0), 0)

	_, err = emb.Lookup([][]int32{{3}})
	assert.ErrorIs(t, err, ErrOutOfVocabulary)
}

func TestNewEmbedding(t *testing.T) {
	emb, err := NewEmbedding(129, 8, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{129, 8}, emb.Table().Shape())

	bound := Scale(tensor.Shape{129, 8})
	for _, v := range emb.Table().Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}

	_, err = NewEmbedding(0, 8, nil)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestEmbedding_FeedsCell(t *testing.T) {
	emb, err := NewEmbedding(129, 6, nil)
	require.NoError(t, err)

	steps, err := emb.Lookup([][]int32{{73, 102, 0}, {67, 0, 0}})
	require.NoError(t, err)

	cell := newTestCell(t, nil, 5, 3)
	state, err := cell.ZeroState(2)
	require.NoError(t, err)

	outputs, _, err := Unroll(cell, steps, state)
	require.NoError(t, err)
	require.Len(t, outputs, 3)
	assert.Equal(t, tensor.Shape{2, 3}, outputs[2].Shape())
	assert.Equal(t, 6, cell.NumFeatures())
}
