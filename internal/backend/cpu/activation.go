package cpu

import (
	"math"

	"github.com/born-ml/lstm/internal/parallel"
	"github.com/born-ml/lstm/internal/tensor"
)

// Sigmoid computes 1/(1+exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.Dense) (*tensor.Dense, error) {
	return cpu.unaryOp(x, sigmoid)
}

// Tanh computes the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.Dense) (*tensor.Dense, error) {
	return cpu.unaryOp(x, math.Tanh)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func (cpu *CPUBackend) unaryOp(x *tensor.Dense, fn func(float64) float64) (*tensor.Dense, error) {
	result, err := tensor.Zeros(x.Shape())
	if err != nil {
		return nil, err
	}
	dst, src := result.Data(), x.Data()
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = fn(src[i])
		}
	}, cpu.parallel)
	return result, nil
}
