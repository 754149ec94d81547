package tensor

// Backend defines the numeric capabilities the LSTM recurrence is written
// against. T is the backend's tensor handle.
//
// Implementations:
//   - cpu: eager evaluation on *Dense, every call computes immediately
//   - graph: deferred evaluation on gorgonia nodes, calls only record the
//     computation; values exist after a Session run
//
// All operands are rank 2. Add and Mul broadcast a single row (or column)
// against a full matrix, the way a (1, n) bias is added to a (batch, n)
// pre-activation.
type Backend[T any] interface {
	// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b T) (T, error)

	// Add performs element-wise addition with broadcasting.
	Add(a, b T) (T, error)

	// Mul performs element-wise (Hadamard) multiplication with broadcasting.
	Mul(a, b T) (T, error)

	// Sigmoid applies 1/(1+exp(-x)) element-wise.
	Sigmoid(x T) (T, error)

	// Tanh applies the hyperbolic tangent element-wise.
	Tanh(x T) (T, error)

	// Constant lifts a concrete value into the backend.
	// The name is advisory and only used for diagnostics.
	Constant(name string, value *Dense) (T, error)

	// Shape returns the (static) shape of a handle.
	Shape(x T) Shape

	// Name returns the backend name.
	Name() string
}
