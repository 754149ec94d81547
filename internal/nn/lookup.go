package nn

import (
	"fmt"

	"github.com/born-ml/lstm/internal/tensor"
)

// OneHot encodes a batch of token-id sequences as one [batch, depth] matrix
// per time step.
//
// ids is [batch][max_len] as produced by the sentence encoder; all rows must
// have the same length. Row b of step t has a single 1 at column ids[b][t].
//
// Example:
//
//	steps, err := nn.OneHot(batch.IDs, 129) // len(steps) == batch.MaxLen
func OneHot(ids [][]int32, depth int) ([]*tensor.Dense, error) {
	maxLen, err := sequenceLength(ids)
	if err != nil {
		return nil, err
	}
	if depth <= 0 {
		return nil, fmt.Errorf("one-hot: %w: depth %d", tensor.ErrInvalidShape, depth)
	}

	steps := make([]*tensor.Dense, maxLen)
	for t := range steps {
		x, err := tensor.Zeros(tensor.Shape{len(ids), depth})
		if err != nil {
			return nil, err
		}
		for b, row := range ids {
			id := int(row[t])
			if id < 0 || id >= depth {
				return nil, fmt.Errorf("one-hot: %w: id %d at [%d, %d] (depth %d)", ErrOutOfVocabulary, id, b, t, depth)
			}
			x.Set(1, b, id)
		}
		steps[t] = x
	}
	return steps, nil
}

// Embedding is a dense lookup table mapping token ids to vectors.
type Embedding struct {
	table *tensor.Dense // [vocab, dim]
}

// NewEmbedding creates a [vocab, dim] table drawn from init.
func NewEmbedding(vocab, dim int, init Initializer) (*Embedding, error) {
	if init == nil {
		init = NewVarianceScaling(WithDistribution(Uniform))
	}
	table, err := init.Init(tensor.Shape{vocab, dim})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	return &Embedding{table: table}, nil
}

// NewEmbeddingFrom wraps an existing [vocab, dim] table.
func NewEmbeddingFrom(table *tensor.Dense) *Embedding {
	return &Embedding{table: table}
}

// VocabSize returns the number of rows of the table.
func (e *Embedding) VocabSize() int {
	return e.table.Rows()
}

// Dim returns the embedding width.
func (e *Embedding) Dim() int {
	return e.table.Cols()
}

// Table returns the lookup table.
func (e *Embedding) Table() *tensor.Dense {
	return e.table
}

// Lookup returns one [batch, dim] matrix per time step of ids.
func (e *Embedding) Lookup(ids [][]int32) ([]*tensor.Dense, error) {
	maxLen, err := sequenceLength(ids)
	if err != nil {
		return nil, err
	}

	steps := make([]*tensor.Dense, maxLen)
	for t := range steps {
		x, err := tensor.Zeros(tensor.Shape{len(ids), e.Dim()})
		if err != nil {
			return nil, err
		}
		for b, row := range ids {
			id := int(row[t])
			if id < 0 || id >= e.VocabSize() {
				return nil, fmt.Errorf("embedding: %w: id %d at [%d, %d] (vocab %d)", ErrOutOfVocabulary, id, b, t, e.VocabSize())
			}
			copy(x.Row(b), e.table.Row(id))
		}
		steps[t] = x
	}
	return steps, nil
}

// sequenceLength returns the common row length of ids.
func sequenceLength(ids [][]int32) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: empty batch", tensor.ErrInvalidShape)
	}
	n := len(ids[0])
	for b, row := range ids {
		if len(row) != n {
			return 0, fmt.Errorf("%w: row %d has length %d, want %d", tensor.ErrInvalidShape, b, len(row), n)
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: empty sequences", tensor.ErrInvalidShape)
	}
	return n, nil
}
