// Package nn implements the peephole LSTM cell and the helpers that feed it.
//
// The cell is written once against tensor.Backend and runs unchanged on the
// eager CPU backend and on the deferred graph backend:
//
//	cell, _ := nn.NewCell[*tensor.Dense](cpu.New(), nn.NewVarianceScaling(), 5, 3)
//	h, state, err := cell.Step(x, state)
package nn

import (
	"fmt"

	"github.com/born-ml/lstm/internal/tensor"
)

// CellStatus is the lifecycle state of a Cell.
type CellStatus int

// Cell lifecycle states.
const (
	// Uninitialized means no weights exist and the feature width is unknown.
	Uninitialized CellStatus = iota
	// Ready means weights are fixed; the cell accepts steps indefinitely.
	Ready
)

// String returns the status name.
func (s CellStatus) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// CellState is the recurrent state threaded between steps.
// Both members have shape [batch, n_hidden].
type CellState[T any] struct {
	C T // cell memory
	M T // gated memory feeding the recurrence and the output projection
}

// Weights holds the cell parameters.
//
// Shapes, with F = n_features, H = n_hidden, O = n_output:
//   - W*: [F, H] input weights
//   - U*, VO: [H, H] recurrent and peephole weights
//   - B*: [1, H] gate biases
//   - WH: [H, O], BH: [1, O] output projection
//
// UI is part of the parameter set but the input gate has no recurrent term,
// so it never enters the recurrence.
type Weights[T any] struct {
	WI, UI, BI     T // input gate
	WC, UC, BC     T // candidate memory
	WF, UF, BF     T // forget gate
	WO, UO, VO, BO T // output gate with peephole VO
	WH, BH         T // output projection
}

// Gates holds every intermediate activation of one step.
type Gates[T any] struct {
	Input     T // i, in (0, 1)
	Forget    T // f, in (0, 1)
	Candidate T // tanh(x·WC + m·UC + BC), in (-1, 1)
	Output    T // o, in (0, 1)
	Hidden    T // h, in (-1, 1)
	State     CellState[T]
}

// Cell is a single-layer LSTM cell with a peephole on the output gate.
//
// Weights are created lazily on the first Step, when the input feature width
// becomes known. From then on the cell only accepts that width.
//
// One step computes:
//
//	i  = sigmoid(x·WI + BI)
//	f  = sigmoid(x·WF + m·UF + BF)
//	c' = f*c + i*tanh(x·WC + m·UC + BC)
//	o  = sigmoid(x·WO + m·UO + c'·VO + BO)
//	m' = o*tanh(m)
//	h  = tanh(m'·WH + BH)
//
// Note that m' gates the previous m, not c'.
type Cell[T any] struct {
	backend     tensor.Backend[T]
	init        Initializer
	numHidden   int
	numOutput   int
	numFeatures int
	status      CellStatus
	weights     *Weights[T]
}

// NewCell creates an uninitialized cell.
//
// Parameters:
//   - backend: Backend the recurrence is expressed on
//   - init: Initializer used once per weight tensor on the first step
//   - numHidden: Width of the c and m states
//   - numOutput: Width of the output h
func NewCell[T any](backend tensor.Backend[T], init Initializer, numHidden, numOutput int) (*Cell[T], error) {
	if numHidden <= 0 || numOutput <= 0 {
		return nil, fmt.Errorf("%w: n_hidden=%d n_output=%d", ErrInvalidConfig, numHidden, numOutput)
	}
	if init == nil {
		init = NewVarianceScaling()
	}
	return &Cell[T]{
		backend:   backend,
		init:      init,
		numHidden: numHidden,
		numOutput: numOutput,
		status:    Uninitialized,
	}, nil
}

// Status returns the lifecycle state.
func (c *Cell[T]) Status() CellStatus {
	return c.status
}

// NumHidden returns the state width.
func (c *Cell[T]) NumHidden() int {
	return c.numHidden
}

// NumOutput returns the output width.
func (c *Cell[T]) NumOutput() int {
	return c.numOutput
}

// NumFeatures returns the committed input width, or 0 while uninitialized.
func (c *Cell[T]) NumFeatures() int {
	return c.numFeatures
}

// Weights returns the cell parameters, or nil while uninitialized.
func (c *Cell[T]) Weights() *Weights[T] {
	return c.weights
}

// Build commits the cell to numFeatures and creates its weights.
//
// It is a no-op when the cell is already Ready with the same width and fails
// with ErrFixedFeatureWidth for a different width. Step calls it implicitly.
func (c *Cell[T]) Build(numFeatures int) error {
	if c.status == Ready {
		if c.numFeatures != numFeatures {
			return fmt.Errorf("%w: committed to %d, got %d", ErrFixedFeatureWidth, c.numFeatures, numFeatures)
		}
		return nil
	}
	if numFeatures <= 0 {
		return fmt.Errorf("%w: n_features=%d", tensor.ErrInvalidShape, numFeatures)
	}

	f, h, o := numFeatures, c.numHidden, c.numOutput
	p := paramBuilder[T]{backend: c.backend, init: c.init}
	w := &Weights[T]{
		WI: p.param("w_i", f, h),
		UI: p.param("u_i", h, h),
		BI: p.param("b_i", 1, h),

		WC: p.param("w_c", f, h),
		UC: p.param("u_c", h, h),
		BC: p.param("b_c", 1, h),

		WF: p.param("w_f", f, h),
		UF: p.param("u_f", h, h),
		BF: p.param("b_f", 1, h),

		WO: p.param("w_o", f, h),
		UO: p.param("u_o", h, h),
		VO: p.param("v_o", h, h),
		BO: p.param("b_o", 1, h),

		WH: p.param("w_h", h, o),
		BH: p.param("b_h", 1, o),
	}
	if p.err != nil {
		return p.err
	}

	c.weights = w
	c.numFeatures = numFeatures
	c.status = Ready
	return nil
}

// Step advances the cell by one time step.
//
// x has shape [batch, n_features]; state.C and state.M have shape
// [batch, n_hidden]. Returns h with shape [batch, n_output] and the new
// state. Step has no side effects besides the one-time weight creation.
func (c *Cell[T]) Step(x T, state CellState[T]) (T, CellState[T], error) {
	g, err := c.Trace(x, state)
	if err != nil {
		var zero T
		return zero, CellState[T]{}, err
	}
	return g.Hidden, g.State, nil
}

// Trace is Step, additionally returning every gate activation.
func (c *Cell[T]) Trace(x T, state CellState[T]) (*Gates[T], error) {
	xShape := c.backend.Shape(x)
	if err := xShape.Validate(); err != nil {
		return nil, fmt.Errorf("lstm step: x: %w", err)
	}
	if err := c.checkState(xShape.Rows(), state); err != nil {
		return nil, fmt.Errorf("lstm step: %w", err)
	}
	if err := c.Build(xShape.Cols()); err != nil {
		return nil, fmt.Errorf("lstm step: %w", err)
	}

	w := c.weights
	e := &expr[T]{b: c.backend}

	i := e.sigmoid(e.add(e.matmul(x, w.WI), w.BI))
	f := e.sigmoid(e.add(e.add(e.matmul(x, w.WF), e.matmul(state.M, w.UF)), w.BF))
	cand := e.tanh(e.add(e.add(e.matmul(x, w.WC), e.matmul(state.M, w.UC)), w.BC))
	cNext := e.add(e.mul(f, state.C), e.mul(i, cand))
	o := e.sigmoid(e.add(e.add(e.add(e.matmul(x, w.WO), e.matmul(state.M, w.UO)), e.matmul(cNext, w.VO)), w.BO))
	mNext := e.mul(o, e.tanh(state.M))
	h := e.tanh(e.add(e.matmul(mNext, w.WH), w.BH))

	if e.err != nil {
		return nil, fmt.Errorf("lstm step: %w", e.err)
	}

	return &Gates[T]{
		Input:     i,
		Forget:    f,
		Candidate: cand,
		Output:    o,
		Hidden:    h,
		State:     CellState[T]{C: cNext, M: mNext},
	}, nil
}

// InitState draws c and m for the given batch size from the cell's
// initializer and lifts them into the backend. Both have shape
// [batch, n_hidden] and therefore the same seed, so they start out equal.
func (c *Cell[T]) InitState(batch int) (CellState[T], error) {
	shape := tensor.Shape{batch, c.numHidden}
	cVal, err := c.init.Init(shape)
	if err != nil {
		return CellState[T]{}, fmt.Errorf("init state: %w", err)
	}
	mVal, err := c.init.Init(shape)
	if err != nil {
		return CellState[T]{}, fmt.Errorf("init state: %w", err)
	}
	return c.StateFrom(cVal, mVal)
}

// ZeroState returns a zero-filled state for the given batch size, lifted
// into the cell's backend.
//
// Since m' = o*tanh(m), a zero m stays zero on every step and h is
// tanh(BH) whatever the input. Use InitState to drive the cell from input.
func (c *Cell[T]) ZeroState(batch int) (CellState[T], error) {
	z, err := tensor.Zeros(tensor.Shape{batch, c.numHidden})
	if err != nil {
		return CellState[T]{}, err
	}
	return c.StateFrom(z, z)
}

// StateFrom lifts concrete c and m values into the cell's backend.
func (c *Cell[T]) StateFrom(cVal, mVal *tensor.Dense) (CellState[T], error) {
	cs, err := c.backend.Constant("c", cVal)
	if err != nil {
		return CellState[T]{}, err
	}
	ms, err := c.backend.Constant("m", mVal)
	if err != nil {
		return CellState[T]{}, err
	}
	return CellState[T]{C: cs, M: ms}, nil
}

func (c *Cell[T]) checkState(batch int, state CellState[T]) error {
	want := tensor.Shape{batch, c.numHidden}
	for _, s := range []struct {
		name  string
		value T
	}{{"c", state.C}, {"m", state.M}} {
		got := c.backend.Shape(s.value)
		if !got.Equal(want) {
			return &tensor.ShapeError{
				Op:     "state " + s.name,
				Shapes: []tensor.Shape{want, got},
				Detail: "state must be [batch, n_hidden]",
			}
		}
	}
	return nil
}

// paramBuilder creates weights, keeping the first error.
type paramBuilder[T any] struct {
	backend tensor.Backend[T]
	init    Initializer
	err     error
}

func (p *paramBuilder[T]) param(name string, rows, cols int) T {
	var zero T
	if p.err != nil {
		return zero
	}
	value, err := p.init.Init(tensor.Shape{rows, cols})
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return zero
	}
	t, err := p.backend.Constant(name, value)
	if err != nil {
		p.err = fmt.Errorf("%s: %w", name, err)
		return zero
	}
	return t
}

// expr chains backend operations, keeping the first error so the recurrence
// reads like its formulas. Once an error is recorded every later call is a no-op.
type expr[T any] struct {
	b   tensor.Backend[T]
	err error
}

func (e *expr[T]) apply(fn func() (T, error)) T {
	var zero T
	if e.err != nil {
		return zero
	}
	r, err := fn()
	if err != nil {
		e.err = err
		return zero
	}
	return r
}

func (e *expr[T]) matmul(a, b T) T {
	return e.apply(func() (T, error) { return e.b.MatMul(a, b) })
}

func (e *expr[T]) add(a, b T) T {
	return e.apply(func() (T, error) { return e.b.Add(a, b) })
}

func (e *expr[T]) mul(a, b T) T {
	return e.apply(func() (T, error) { return e.b.Mul(a, b) })
}

func (e *expr[T]) sigmoid(x T) T {
	return e.apply(func() (T, error) { return e.b.Sigmoid(x) })
}

func (e *expr[T]) tanh(x T) T {
	return e.apply(func() (T, error) { return e.b.Tanh(x) })
}
