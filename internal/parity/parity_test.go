package parity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lstm/internal/nn"
	"github.com/born-ml/lstm/internal/tensor"
)

func TestCompare_Default(t *testing.T) {
	report, err := Compare(DefaultConfig())
	require.NoError(t, err)

	require.Len(t, report.Eager.Outputs, 1)
	require.Len(t, report.Graph.Outputs, 1)
	assert.Equal(t, tensor.Shape{1, 3}, report.Eager.Outputs[0].Shape())
	assert.Equal(t, tensor.Shape{1, 3}, report.Graph.Outputs[0].Shape())
	assert.Equal(t, tensor.Shape{1, 5}, report.Graph.Final.C.Shape())
	assert.Equal(t, tensor.Shape{1, 5}, report.Graph.Final.M.Shape())

	assert.True(t, report.Equal(), "max diff %g", report.MaxAbsDiff)
	assert.NoError(t, report.Err())

	ok, err := AlmostEqual(report.Eager.Outputs[0], report.Graph.Outputs[0], DefaultDecimal)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompare_Configurations(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"batch", Config{NumHidden: 5, NumOutput: 3, NumFeatures: 4, BatchSize: 3, Steps: 1, Decimal: 6, Seed: 1}},
		{"steps", Config{NumHidden: 5, NumOutput: 3, NumFeatures: 4, BatchSize: 1, Steps: 4, Decimal: 6, Seed: 2}},
		{"batch and steps", Config{NumHidden: 8, NumOutput: 2, NumFeatures: 6, BatchSize: 4, Steps: 3, Decimal: 6, Seed: 3}},
		{"wide output", Config{NumHidden: 3, NumOutput: 7, NumFeatures: 2, BatchSize: 2, Steps: 2, Decimal: 8, Seed: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Compare(tt.cfg)
			require.NoError(t, err)

			require.Len(t, report.Eager.Outputs, tt.cfg.Steps)
			require.Len(t, report.Graph.Outputs, tt.cfg.Steps)
			for _, h := range report.Graph.Outputs {
				assert.Equal(t, tensor.Shape{tt.cfg.BatchSize, tt.cfg.NumOutput}, h.Shape())
			}
			assert.NoError(t, report.Err())
		})
	}
}

func TestCompare_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 0
	_, err := Compare(cfg)
	assert.ErrorIs(t, err, nn.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Decimal = -1
	_, err = Compare(cfg)
	assert.ErrorIs(t, err, nn.ErrInvalidConfig)
}

func TestNewInputs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Steps = 2
	cfg.Seed = 42

	init := nn.NewVarianceScaling()
	a, err := NewInputs(cfg, init)
	require.NoError(t, err)
	b, err := NewInputs(cfg, init)
	require.NoError(t, err)

	require.Len(t, a.Xs, 2)
	for i := range a.Xs {
		assert.Equal(t, a.Xs[i].Data(), b.Xs[i].Data(), "seeded inputs are reproducible")
		for _, v := range a.Xs[i].Data() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 1.0)
		}
	}
	assert.NotEqual(t, a.Xs[0].Data(), a.Xs[1].Data())

	// c and m share a shape and therefore a seed.
	assert.Equal(t, a.State.C.Data(), a.State.M.Data())
}

func TestTolerance(t *testing.T) {
	assert.InDelta(t, 1.5e-6, Tolerance(6), 1e-18)
	assert.InDelta(t, 1.5, Tolerance(0), 0)
}

func TestAlmostEqual(t *testing.T) {
	a, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{1, 3})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{1, 2, 3.000001}, tensor.Shape{1, 3})
	require.NoError(t, err)
	c, err := tensor.FromSlice([]float64{1, 2, 3.00001}, tensor.Shape{1, 3})
	require.NoError(t, err)

	ok, err := AlmostEqual(a, b, 6)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlmostEqual(a, c, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = AlmostEqual(a, c, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	d, err := tensor.FromSlice([]float64{1, 2}, tensor.Shape{1, 2})
	require.NoError(t, err)
	_, err = AlmostEqual(a, d, 6)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestMaxAbsDiff_NaN(t *testing.T) {
	a, err := tensor.FromSlice([]float64{math.NaN()}, tensor.Shape{1, 1})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float64{0}, tensor.Shape{1, 1})
	require.NoError(t, err)

	d, err := MaxAbsDiff(a, b)
	require.NoError(t, err)
	assert.True(t, math.IsInf(d, 1))
}

func TestReport_Err(t *testing.T) {
	r := &Report{Config: DefaultConfig(), MaxAbsDiff: 1e-3}
	assert.False(t, r.Equal())
	assert.ErrorIs(t, r.Err(), ErrMismatch)
}

func TestRunGraph_UsesSameWeightsAsEager(t *testing.T) {
	cfg := DefaultConfig()
	init := nn.NewVarianceScaling()
	in, err := NewInputs(cfg, init)
	require.NoError(t, err)

	eager, err := RunEager(cfg, init, in)
	require.NoError(t, err)
	deferred, err := RunGraph(cfg, init, in)
	require.NoError(t, err)

	for j := 0; j < cfg.NumOutput; j++ {
		assert.InDelta(t, eager.Outputs[0].At(0, j), deferred.Outputs[0].At(0, j), Tolerance(DefaultDecimal))
	}
}
