// Package cpu implements the eager CPU backend: every operation computes its
// result immediately on *tensor.Dense values.
package cpu

import (
	"fmt"

	"github.com/born-ml/lstm/internal/parallel"
	"github.com/born-ml/lstm/internal/tensor"
)

// CPUBackend implements tensor.Backend on dense float64 matrices.
//
// Operations never modify their operands; each call allocates a new result.
type CPUBackend struct {
	device   string
	parallel parallel.Config
}

// Compile-time check that CPUBackend implements tensor.Backend.
var _ tensor.Backend[*tensor.Dense] = (*CPUBackend)(nil)

// New creates a new CPU backend. Element-wise work on large matrices is
// split across goroutines.
func New() *CPUBackend {
	return &CPUBackend{
		device:   "CPU",
		parallel: parallel.DefaultConfig(),
	}
}

// SetParallel replaces the element-wise parallelism settings.
func (cpu *CPUBackend) SetParallel(cfg parallel.Config) {
	cpu.parallel = cfg
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return cpu.device
}

// Shape returns the shape of x.
func (cpu *CPUBackend) Shape(x *tensor.Dense) tensor.Shape {
	return x.Shape()
}

// Constant returns a copy of value, so later changes to the caller's
// tensor do not leak into computations.
func (cpu *CPUBackend) Constant(_ string, value *tensor.Dense) (*tensor.Dense, error) {
	if value == nil {
		return nil, fmt.Errorf("constant: %w: nil value", tensor.ErrInvalidShape)
	}
	return value.Clone(), nil
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.Dense) (*tensor.Dense, error) {
	return cpu.binaryOp("add", a, b, func(x, y float64) float64 { return x + y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.Dense) (*tensor.Dense, error) {
	return cpu.binaryOp("mul", a, b, func(x, y float64) float64 { return x * y })
}

// binaryOp applies fn over the broadcasted shape of a and b.
func (cpu *CPUBackend) binaryOp(op string, a, b *tensor.Dense, fn func(x, y float64) float64) (*tensor.Dense, error) {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := tensor.Zeros(outShape)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create result tensor: %w", op, err)
	}

	dst, src, other := result.Data(), a.Data(), b.Data()

	// Fast path: same shape
	if !needsBroadcast {
		parallel.For(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = fn(src[i], other[i])
			}
		}, cpu.parallel)
		return result, nil
	}

	// Slow path: broadcasting required
	aRowStride, aColStride := broadcastStrides(a.Shape())
	bRowStride, bColStride := broadcastStrides(b.Shape())
	cols := outShape.Cols()
	parallel.ForRows(outShape.Rows(), cols, func(i int) {
		for j := 0; j < cols; j++ {
			dst[i*cols+j] = fn(src[i*aRowStride+j*aColStride], other[i*bRowStride+j*bColStride])
		}
	}, cpu.parallel)
	return result, nil
}

// broadcastStrides returns row and column strides for a 2-D shape where
// dimensions of size 1 get stride 0.
func broadcastStrides(s tensor.Shape) (rowStride, colStride int) {
	if s.Rows() > 1 {
		rowStride = s.Cols()
	}
	if s.Cols() > 1 {
		colStride = 1
	}
	return rowStride, colStride
}
