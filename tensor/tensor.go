// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/lstm/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a matrix with 2 rows and 3 columns.
type Shape = tensor.Shape

// Dense is a 2-D row-major float64 tensor.
type Dense = tensor.Dense

// ShapeError describes an operation that received incompatible shapes.
type ShapeError = tensor.ShapeError

// Backend is the capability set the LSTM recurrence is expressed against.
type Backend[T any] = tensor.Backend[T]

// ErrInvalidShape is returned for malformed tensor dimensions.
var ErrInvalidShape = tensor.ErrInvalidShape

// New creates a Dense tensor that takes ownership of data.
func New(shape Shape, data []float64) (*Dense, error) {
	return tensor.New(shape, data)
}

// FromSlice creates a Dense tensor from a copy of data.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// FromRows creates a Dense tensor from equally sized rows.
func FromRows(rows [][]float64) (*Dense, error) {
	return tensor.FromRows(rows)
}

// Zeros creates a zero-filled Dense tensor.
func Zeros(shape Shape) (*Dense, error) {
	return tensor.Zeros(shape)
}

// Full creates a Dense tensor filled with value.
func Full(shape Shape, value float64) (*Dense, error) {
	return tensor.Full(shape, value)
}
