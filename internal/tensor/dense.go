// Package tensor provides the shape, dense value and backend types shared by
// the LSTM cell and its compute backends.
package tensor

import (
	"fmt"
	"strings"
)

// Dense is a 2-D row-major float64 tensor.
//
// Dense is the concrete value type of the module: weights are produced as
// Dense, the eager backend computes on Dense directly, and the graph backend
// materializes its results back into Dense after a session run.
//
// Example:
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	v := x.At(1, 2) // 6
type Dense struct {
	shape Shape
	data  []float64
}

// New creates a Dense tensor that takes ownership of data.
//
// The caller must not modify data afterwards. Use FromSlice to copy instead.
func New(shape Shape, data []float64) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrInvalidShape, shape, shape.NumElements(), len(data))
	}
	return &Dense{shape: shape.Clone(), data: data}, nil
}

// FromSlice creates a Dense tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Dense, error) {
	return New(shape, append([]float64(nil), data...))
}

// FromRows creates a Dense tensor from a slice of equally sized rows.
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidShape)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidShape, i, len(row), cols)
		}
		data = append(data, row...)
	}
	return New(Shape{len(rows), cols}, data)
}

// Zeros creates a Dense tensor filled with zeros.
func Zeros(shape Shape) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Dense{shape: shape.Clone(), data: make([]float64, shape.NumElements())}, nil
}

// Full creates a Dense tensor filled with value.
func Full(shape Shape, value float64) (*Dense, error) {
	t, err := Zeros(shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = value
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Dense) Shape() Shape {
	return t.shape
}

// Rows returns the number of rows.
func (t *Dense) Rows() int {
	return t.shape[0]
}

// Cols returns the number of columns.
func (t *Dense) Cols() int {
	return t.shape[1]
}

// NumElements returns the total number of elements.
func (t *Dense) NumElements() int {
	return len(t.data)
}

// Data returns the row-major backing slice.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Dense) Data() []float64 {
	return t.data
}

// Row returns a view of row i.
func (t *Dense) Row(i int) []float64 {
	cols := t.shape[1]
	return t.data[i*cols : (i+1)*cols]
}

// At returns the element at row i, column j.
// Panics if indices are out of bounds.
func (t *Dense) At(i, j int) float64 {
	return t.data[t.offset(i, j)]
}

// Set sets the element at row i, column j.
// Panics if indices are out of bounds.
func (t *Dense) Set(value float64, i, j int) {
	t.data[t.offset(i, j)] = value
}

func (t *Dense) offset(i, j int) int {
	if i < 0 || i >= t.shape[0] || j < 0 || j >= t.shape[1] {
		panic(fmt.Sprintf("index (%d, %d) out of bounds for shape %v", i, j, t.shape))
	}
	return i*t.shape[1] + j
}

// Clone creates a deep copy of the tensor.
func (t *Dense) Clone() *Dense {
	return &Dense{shape: t.shape.Clone(), data: append([]float64(nil), t.data...)}
}

// String returns a human-readable representation of the tensor.
func (t *Dense) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dense%v[", []int(t.shape))
	for i := 0; i < t.shape[0]; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%v", t.Row(i))
	}
	sb.WriteString("]")
	return sb.String()
}
