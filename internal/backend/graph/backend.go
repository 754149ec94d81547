// Package graph implements the deferred-graph backend.
//
// Operations do not compute anything: they record nodes into a gorgonia
// expression graph. A Session compiles the recorded graph once and executes
// it any number of times with placeholders bound to concrete values.
//
// Example:
//
//	b := graph.New()
//	x, _ := b.Placeholder("x", tensor.Shape{1, 4})
//	w, _ := b.Constant("w", weights)
//	y, _ := b.MatMul(x, w)        // nothing computed yet
//
//	sess, _ := graph.NewSession(b, y)
//	defer sess.Close()
//	out, _ := sess.Run(graph.Feeds{x: input})
package graph

import (
	"fmt"

	"gorgonia.org/gorgonia"
	gtensor "gorgonia.org/tensor"

	"github.com/born-ml/lstm/internal/tensor"
)

// Backend records tensor.Backend operations as gorgonia nodes.
type Backend struct {
	g            *gorgonia.ExprGraph
	placeholders []*gorgonia.Node
	seq          int
}

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend[*gorgonia.Node] = (*Backend)(nil)

// New creates a backend recording into a fresh expression graph.
func New() *Backend {
	return &Backend{
		g: gorgonia.NewGraph(),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "Graph"
}

// Graph returns the underlying expression graph.
func (b *Backend) Graph() *gorgonia.ExprGraph {
	return b.g
}

// Placeholders returns the input nodes that must be fed on every run.
func (b *Backend) Placeholders() []*gorgonia.Node {
	return b.placeholders
}

// Shape returns the static shape of a node.
func (b *Backend) Shape(x *gorgonia.Node) tensor.Shape {
	return tensor.Shape(append([]int(nil), x.Shape()...))
}

// Placeholder declares a float64 input matrix of the given shape. Its value
// is bound at run time through Session.Run feeds.
func (b *Backend) Placeholder(name string, shape tensor.Shape) (*gorgonia.Node, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("placeholder %q: %w", name, err)
	}
	n := gorgonia.NewMatrix(b.g, gtensor.Float64,
		gorgonia.WithShape(shape.Rows(), shape.Cols()),
		gorgonia.WithName(b.uniqueName(name)),
	)
	b.placeholders = append(b.placeholders, n)
	return n, nil
}

// Constant records value as a matrix node with a fixed value.
//
// Input nodes are identified by name inside a gorgonia graph, so every call
// gets a unique suffix; two constants never alias even when names collide.
func (b *Backend) Constant(name string, value *tensor.Dense) (*gorgonia.Node, error) {
	if value == nil {
		return nil, fmt.Errorf("constant %q: %w: nil value", name, tensor.ErrInvalidShape)
	}
	n := gorgonia.NewMatrix(b.g, gtensor.Float64,
		gorgonia.WithShape(value.Rows(), value.Cols()),
		gorgonia.WithName(b.uniqueName(name)),
		gorgonia.WithValue(toGorgonia(value)),
	)
	return n, nil
}

// MatMul records (M, K) @ (K, N) -> (M, N).
func (b *Backend) MatMul(x, y *gorgonia.Node) (*gorgonia.Node, error) {
	xs, ys := b.Shape(x), b.Shape(y)
	if xs.Cols() != ys.Rows() {
		return nil, &tensor.ShapeError{Op: "matmul", Shapes: []tensor.Shape{xs, ys}, Detail: "inner dimensions differ"}
	}
	n, err := gorgonia.Mul(x, y)
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}
	return n, nil
}

// Add records element-wise addition, broadcasting a single row or column.
func (b *Backend) Add(x, y *gorgonia.Node) (*gorgonia.Node, error) {
	left, right, err := b.broadcastPatterns("add", x, y)
	if err != nil {
		return nil, err
	}
	var n *gorgonia.Node
	if left == nil && right == nil {
		n, err = gorgonia.Add(x, y)
	} else {
		n, err = gorgonia.BroadcastAdd(x, y, left, right)
	}
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return n, nil
}

// Mul records element-wise (Hadamard) multiplication with broadcasting.
func (b *Backend) Mul(x, y *gorgonia.Node) (*gorgonia.Node, error) {
	left, right, err := b.broadcastPatterns("mul", x, y)
	if err != nil {
		return nil, err
	}
	var n *gorgonia.Node
	if left == nil && right == nil {
		n, err = gorgonia.HadamardProd(x, y)
	} else {
		n, err = gorgonia.BroadcastHadamardProd(x, y, left, right)
	}
	if err != nil {
		return nil, fmt.Errorf("mul: %w", err)
	}
	return n, nil
}

// Sigmoid records the logistic function.
func (b *Backend) Sigmoid(x *gorgonia.Node) (*gorgonia.Node, error) {
	n, err := gorgonia.Sigmoid(x)
	if err != nil {
		return nil, fmt.Errorf("sigmoid: %w", err)
	}
	return n, nil
}

// Tanh records the hyperbolic tangent.
func (b *Backend) Tanh(x *gorgonia.Node) (*gorgonia.Node, error) {
	n, err := gorgonia.Tanh(x)
	if err != nil {
		return nil, fmt.Errorf("tanh: %w", err)
	}
	return n, nil
}

// broadcastPatterns translates NumPy-style broadcasting of two matrices into
// gorgonia's per-operand axis patterns. Both patterns are nil when the
// shapes already match.
func (b *Backend) broadcastPatterns(op string, x, y *gorgonia.Node) (left, right []byte, err error) {
	xs, ys := b.Shape(x), b.Shape(y)
	out, needsBroadcast, err := tensor.BroadcastShapes(xs, ys)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !needsBroadcast {
		return nil, nil, nil
	}
	for axis := range out {
		if xs[axis] != out[axis] {
			left = append(left, byte(axis)) //nolint:gosec // G115: axis is 0 or 1
		}
		if ys[axis] != out[axis] {
			right = append(right, byte(axis)) //nolint:gosec // G115: axis is 0 or 1
		}
	}
	return left, right, nil
}

func (b *Backend) uniqueName(name string) string {
	b.seq++
	return fmt.Sprintf("%s_%d", name, b.seq)
}

// toGorgonia copies a Dense value into a gorgonia dense tensor.
func toGorgonia(value *tensor.Dense) *gtensor.Dense {
	return gtensor.New(
		gtensor.WithShape(value.Rows(), value.Cols()),
		gtensor.WithBacking(append([]float64(nil), value.Data()...)),
	)
}
