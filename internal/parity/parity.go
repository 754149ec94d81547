// Package parity checks that the eager and graph backends compute the same
// LSTM recurrence.
//
// Compare builds two cells from the same initializer, feeds them the same
// initial state and inputs, and reports how far apart the outputs are. The
// eager side computes step by step; the graph side records the unrolled
// recurrence once and executes it in a session.
package parity

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/gorgonia"

	"github.com/born-ml/lstm/internal/backend/cpu"
	"github.com/born-ml/lstm/internal/backend/graph"
	"github.com/born-ml/lstm/internal/nn"
	"github.com/born-ml/lstm/internal/tensor"
)

// DefaultDecimal is the number of decimal places outputs must agree to.
const DefaultDecimal = 6

// ErrMismatch is returned by Report.Err when the backends disagree.
var ErrMismatch = errors.New("backends disagree")

// Config describes one comparison run.
type Config struct {
	NumHidden   int
	NumOutput   int
	NumFeatures int
	BatchSize   int
	Steps       int    // number of time steps unrolled
	Decimal     int    // required agreement in decimal places
	Seed        uint64 // seed of the input draw
}

// DefaultConfig returns the smallest useful comparison:
// n_hidden=5, n_output=3, n_features=4, one sample, one step.
func DefaultConfig() Config {
	return Config{
		NumHidden:   5,
		NumOutput:   3,
		NumFeatures: 4,
		BatchSize:   1,
		Steps:       1,
		Decimal:     DefaultDecimal,
	}
}

func (c Config) validate() error {
	if c.NumHidden <= 0 || c.NumOutput <= 0 || c.NumFeatures <= 0 || c.BatchSize <= 0 || c.Steps <= 0 {
		return fmt.Errorf("parity: %w: %+v", nn.ErrInvalidConfig, c)
	}
	if c.Decimal < 0 {
		return fmt.Errorf("parity: %w: decimal %d", nn.ErrInvalidConfig, c.Decimal)
	}
	return nil
}

// Result is what one backend produced.
type Result struct {
	Outputs []*tensor.Dense // h per time step
	Final   nn.CellState[*tensor.Dense]
}

// Report compares the two backends.
type Report struct {
	Config     Config
	Eager      Result
	Graph      Result
	MaxAbsDiff float64 // largest element-wise difference over all outputs and the final state
}

// Equal reports whether every compared value agrees to Config.Decimal places.
func (r *Report) Equal() bool {
	return r.MaxAbsDiff < Tolerance(r.Config.Decimal)
}

// Err returns nil when the backends agree, otherwise an error wrapping ErrMismatch.
func (r *Report) Err() error {
	if r.Equal() {
		return nil
	}
	return fmt.Errorf("%w: max |eager-graph| = %g, tolerance %g",
		ErrMismatch, r.MaxAbsDiff, Tolerance(r.Config.Decimal))
}

// Tolerance returns the bound used for decimal-place agreement, matching
// numpy.testing.assert_almost_equal: |a-b| < 1.5 * 10^-decimal.
func Tolerance(decimal int) float64 {
	return 1.5 * math.Pow10(-decimal)
}

// MaxAbsDiff returns the largest element-wise difference of two tensors of
// the same shape.
func MaxAbsDiff(a, b *tensor.Dense) (float64, error) {
	if !a.Shape().Equal(b.Shape()) {
		return 0, &tensor.ShapeError{Op: "compare", Shapes: []tensor.Shape{a.Shape(), b.Shape()}}
	}
	diff := 0.0
	bd := b.Data()
	for i, v := range a.Data() {
		d := math.Abs(v - bd[i])
		if math.IsNaN(d) {
			return math.Inf(1), nil
		}
		diff = max(diff, d)
	}
	return diff, nil
}

// AlmostEqual reports whether a and b agree to decimal places.
func AlmostEqual(a, b *tensor.Dense, decimal int) (bool, error) {
	d, err := MaxAbsDiff(a, b)
	if err != nil {
		return false, err
	}
	return d < Tolerance(decimal), nil
}

// Inputs holds the shared starting point of both backends.
type Inputs struct {
	Xs    []*tensor.Dense // one [batch, n_features] matrix per step
	State nn.CellState[*tensor.Dense]
}

// NewInputs draws x uniformly in [0, 1) from cfg.Seed and takes c and m from
// init. Because c and m share a shape they start out equal.
func NewInputs(cfg Config, init nn.Initializer) (*Inputs, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	u := distuv.Uniform{Min: 0, Max: 1, Src: rand.NewPCG(cfg.Seed, cfg.Seed)}

	xs := make([]*tensor.Dense, cfg.Steps)
	for t := range xs {
		data := make([]float64, cfg.BatchSize*cfg.NumFeatures)
		for i := range data {
			data[i] = u.Rand()
		}
		x, err := tensor.New(tensor.Shape{cfg.BatchSize, cfg.NumFeatures}, data)
		if err != nil {
			return nil, err
		}
		xs[t] = x
	}

	stateShape := tensor.Shape{cfg.BatchSize, cfg.NumHidden}
	c, err := init.Init(stateShape)
	if err != nil {
		return nil, fmt.Errorf("parity: c: %w", err)
	}
	m, err := init.Init(stateShape)
	if err != nil {
		return nil, fmt.Errorf("parity: m: %w", err)
	}
	return &Inputs{Xs: xs, State: nn.CellState[*tensor.Dense]{C: c, M: m}}, nil
}

// Compare runs the same cell on both backends and reports their agreement.
// A disagreement is not an error; inspect Report.Equal or Report.Err.
func Compare(cfg Config) (*Report, error) {
	init := nn.NewVarianceScaling()
	in, err := NewInputs(cfg, init)
	if err != nil {
		return nil, err
	}

	eager, err := RunEager(cfg, init, in)
	if err != nil {
		return nil, fmt.Errorf("parity: eager: %w", err)
	}
	deferred, err := RunGraph(cfg, init, in)
	if err != nil {
		return nil, fmt.Errorf("parity: graph: %w", err)
	}

	report := &Report{Config: cfg, Eager: *eager, Graph: *deferred}
	pairs := [][2]*tensor.Dense{
		{eager.Final.C, deferred.Final.C},
		{eager.Final.M, deferred.Final.M},
	}
	for t := range eager.Outputs {
		pairs = append(pairs, [2]*tensor.Dense{eager.Outputs[t], deferred.Outputs[t]})
	}
	for _, p := range pairs {
		d, err := MaxAbsDiff(p[0], p[1])
		if err != nil {
			return nil, fmt.Errorf("parity: %w", err)
		}
		report.MaxAbsDiff = max(report.MaxAbsDiff, d)
	}
	return report, nil
}

// RunEager evaluates the recurrence on the CPU backend.
func RunEager(cfg Config, init nn.Initializer, in *Inputs) (*Result, error) {
	cell, err := nn.NewCell[*tensor.Dense](cpu.New(), init, cfg.NumHidden, cfg.NumOutput)
	if err != nil {
		return nil, err
	}
	state, err := cell.StateFrom(in.State.C, in.State.M)
	if err != nil {
		return nil, err
	}
	outputs, final, err := nn.Unroll(cell, in.Xs, state)
	if err != nil {
		return nil, err
	}
	return &Result{Outputs: outputs, Final: final}, nil
}

// RunGraph records the unrolled recurrence with one placeholder per step,
// compiles it into a session and runs it once with the inputs bound.
func RunGraph(cfg Config, init nn.Initializer, in *Inputs) (*Result, error) {
	b := graph.New()
	cell, err := nn.NewCell[*gorgonia.Node](b, init, cfg.NumHidden, cfg.NumOutput)
	if err != nil {
		return nil, err
	}

	xs := make([]*gorgonia.Node, len(in.Xs))
	feeds := make(graph.Feeds, len(in.Xs))
	for t, x := range in.Xs {
		p, err := b.Placeholder(fmt.Sprintf("x%d", t), x.Shape())
		if err != nil {
			return nil, err
		}
		xs[t] = p
		feeds[p] = x
	}

	state, err := cell.StateFrom(in.State.C, in.State.M)
	if err != nil {
		return nil, err
	}
	outputs, final, err := nn.Unroll(cell, xs, state)
	if err != nil {
		return nil, err
	}

	fetch := append(append([]*gorgonia.Node(nil), outputs...), final.C, final.M)
	sess, err := graph.NewSession(b, fetch...)
	if err != nil {
		return nil, err
	}
	defer sess.Close() //nolint:errcheck // read-only session

	values, err := sess.Run(feeds)
	if err != nil {
		return nil, err
	}

	n := len(outputs)
	return &Result{
		Outputs: values[:n],
		Final:   nn.CellState[*tensor.Dense]{C: values[n], M: values[n+1]},
	}, nil
}
