package graph

import (
	"errors"
	"fmt"

	"gorgonia.org/gorgonia"

	"github.com/born-ml/lstm/internal/tensor"
)

// ErrUnboundPlaceholder is returned when a run is missing a value for a placeholder.
var ErrUnboundPlaceholder = errors.New("placeholder not fed")

// ErrSessionClosed is returned by Run after Close.
var ErrSessionClosed = errors.New("session closed")

// Feeds binds placeholder nodes to concrete values for one run.
type Feeds map[*gorgonia.Node]*tensor.Dense

// Session is the explicit execution scope of a recorded graph.
//
// The graph is compiled into a tape machine once, in NewSession. Each Run
// binds the placeholders, executes the tape and copies the requested outputs
// back into Dense values, so the same session serves any number of inputs.
type Session struct {
	backend *Backend
	outputs []*gorgonia.Node
	values  []gorgonia.Value // filled by read ops on every run
	vm      gorgonia.VM
	closed  bool
}

// NewSession compiles the graph recorded by b and fixes the nodes whose
// values Run returns.
func NewSession(b *Backend, outputs ...*gorgonia.Node) (*Session, error) {
	if len(outputs) == 0 {
		return nil, errors.New("graph: session needs at least one output")
	}
	for i, out := range outputs {
		if out == nil {
			return nil, fmt.Errorf("graph: output %d is nil", i)
		}
	}

	s := &Session{
		backend: b,
		outputs: outputs,
		values:  make([]gorgonia.Value, len(outputs)),
	}
	// Read ops must be recorded before the graph is compiled.
	for i, out := range outputs {
		gorgonia.Read(out, &s.values[i])
	}
	s.vm = gorgonia.NewTapeMachine(b.g)
	return s, nil
}

// Run binds feeds to the placeholders, executes the graph and returns the
// output values in the order given to NewSession.
func (s *Session) Run(feeds Feeds) ([]*tensor.Dense, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	for _, p := range s.backend.placeholders {
		value, ok := feeds[p]
		if !ok {
			return nil, fmt.Errorf("graph: %w: %s", ErrUnboundPlaceholder, p.Name())
		}
		want := s.backend.Shape(p)
		if !value.Shape().Equal(want) {
			return nil, &tensor.ShapeError{
				Op:     "feed " + p.Name(),
				Shapes: []tensor.Shape{want, value.Shape()},
			}
		}
		if err := gorgonia.Let(p, toGorgonia(value)); err != nil {
			return nil, fmt.Errorf("graph: bind %s: %w", p.Name(), err)
		}
	}

	defer s.vm.Reset()
	if err := s.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("graph: run: %w", err)
	}

	results := make([]*tensor.Dense, len(s.outputs))
	for i, out := range s.outputs {
		d, err := fromGorgonia(out, s.values[i])
		if err != nil {
			return nil, err
		}
		results[i] = d
	}
	return results, nil
}

// Close releases the compiled machine. The session cannot be run afterwards.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.vm.Close()
}

// fromGorgonia copies the value read for n into a Dense tensor.
func fromGorgonia(n *gorgonia.Node, v gorgonia.Value) (*tensor.Dense, error) {
	if v == nil {
		v = n.Value()
	}
	if v == nil {
		return nil, fmt.Errorf("graph: node %s has no value", n.Name())
	}
	shape := tensor.Shape(append([]int(nil), n.Shape()...))
	switch data := v.Data().(type) {
	case []float64:
		return tensor.FromSlice(data, shape)
	case float64:
		return tensor.FromSlice([]float64{data}, tensor.Shape{1, 1})
	default:
		return nil, fmt.Errorf("graph: node %s holds %T, want float64 data", n.Name(), data)
	}
}
