// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/lstm/internal/nn"
	"github.com/born-ml/lstm/tensor"
)

// Cell is a single-layer LSTM cell with a peephole on the output gate.
type Cell[T any] = nn.Cell[T]

// CellState is the (c, m) state threaded between steps.
type CellState[T any] = nn.CellState[T]

// Weights holds the cell parameters.
type Weights[T any] = nn.Weights[T]

// Gates holds the intermediate activations of one step.
type Gates[T any] = nn.Gates[T]

// CellStatus is the lifecycle state of a Cell.
type CellStatus = nn.CellStatus

// Cell lifecycle states.
const (
	Uninitialized = nn.Uninitialized
	Ready         = nn.Ready
)

// Initializer produces initial weight values.
type Initializer = nn.Initializer

// VarianceScaling is the shape-seeded weight initializer.
type VarianceScaling = nn.VarianceScaling

// Distribution selects the base distribution of VarianceScaling.
type Distribution = nn.Distribution

// Base distributions.
const (
	Normal  = nn.Normal
	Uniform = nn.Uniform
)

// Option configures a VarianceScaling initializer.
type Option = nn.Option

// Embedding is a token-id lookup table.
type Embedding = nn.Embedding

// Errors.
var (
	ErrFixedFeatureWidth = nn.ErrFixedFeatureWidth
	ErrInvalidConfig     = nn.ErrInvalidConfig
	ErrOutOfVocabulary   = nn.ErrOutOfVocabulary
)

// NewCell creates an uninitialized cell on backend.
func NewCell[T any](backend tensor.Backend[T], init Initializer, numHidden, numOutput int) (*Cell[T], error) {
	return nn.NewCell(backend, init, numHidden, numOutput)
}

// NewVarianceScaling creates the default initializer: normal draws seeded by
// the sum of the shape, scaled by 6/sqrt(rows+cols).
func NewVarianceScaling(opts ...Option) *VarianceScaling {
	return nn.NewVarianceScaling(opts...)
}

// WithDistribution selects the base distribution.
func WithDistribution(d Distribution) Option {
	return nn.WithDistribution(d)
}

// Unroll runs cell over xs, threading the state between steps.
func Unroll[T any](cell *Cell[T], xs []T, state CellState[T]) ([]T, CellState[T], error) {
	return nn.Unroll(cell, xs, state)
}

// OneHot encodes token ids as one [batch, depth] matrix per time step.
func OneHot(ids [][]int32, depth int) ([]*tensor.Dense, error) {
	return nn.OneHot(ids, depth)
}

// NewEmbedding creates a [vocab, dim] lookup table drawn from init.
func NewEmbedding(vocab, dim int, init Initializer) (*Embedding, error) {
	return nn.NewEmbedding(vocab, dim, init)
}
