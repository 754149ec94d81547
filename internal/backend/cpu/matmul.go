package cpu

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/lstm/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// The product is computed by gonum's BLAS-backed Dense.Mul.
func (cpu *CPUBackend) MatMul(a, b *tensor.Dense) (*tensor.Dense, error) {
	aShape := a.Shape()
	bShape := b.Shape()

	if aShape.Cols() != bShape.Rows() {
		return nil, &tensor.ShapeError{
			Op:     "matmul",
			Shapes: []tensor.Shape{aShape, bShape},
			Detail: "inner dimensions differ",
		}
	}

	// mat.NewDense wraps the backing slices without copying; neither is written.
	am := mat.NewDense(aShape.Rows(), aShape.Cols(), a.Data())
	bm := mat.NewDense(bShape.Rows(), bShape.Cols(), b.Data())

	var out mat.Dense
	out.Mul(am, bm)

	return tensor.New(tensor.Shape{aShape.Rows(), bShape.Cols()}, denseData(&out))
}

// denseData returns the row-major contents of m as a fresh slice.
func denseData(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return append([]float64(nil), raw.Data[:raw.Rows*raw.Cols]...)
	}
	data := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		data = append(data, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return data
}
