package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lstm/internal/tensor"
)

func mustRows(t *testing.T, rows [][]float64) *tensor.Dense {
	t.Helper()
	x, err := tensor.FromRows(rows)
	require.NoError(t, err)
	return x
}

func TestBackend_RecordsWithoutComputing(t *testing.T) {
	b := New()
	assert.Equal(t, "Graph", b.Name())

	x, err := b.Placeholder("x", tensor.Shape{1, 2})
	require.NoError(t, err)
	w, err := b.Constant("w", mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, err)

	y, err := b.MatMul(x, w)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 3}, b.Shape(y))
	assert.Nil(t, y.Value(), "recording must not evaluate")
	assert.Len(t, b.Placeholders(), 1)
}

func TestSession_Run(t *testing.T) {
	b := New()

	x, err := b.Placeholder("x", tensor.Shape{1, 2})
	require.NoError(t, err)
	w, err := b.Constant("w", mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}}))
	require.NoError(t, err)
	bias, err := b.Constant("b", mustRows(t, [][]float64{{0.5, 0.5, 0.5}}))
	require.NoError(t, err)

	xw, err := b.MatMul(x, w)
	require.NoError(t, err)
	y, err := b.Add(xw, bias)
	require.NoError(t, err)

	sess, err := NewSession(b, y)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck // test cleanup

	out, err := sess.Run(Feeds{x: mustRows(t, [][]float64{{1, 1}})})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, tensor.Shape{1, 3}, out[0].Shape())
	assert.InDeltaSlice(t, []float64{5.5, 7.5, 9.5}, out[0].Data(), 1e-12)

	// Same compiled graph, new input.
	out, err = sess.Run(Feeds{x: mustRows(t, [][]float64{{2, 0}})})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 4.5, 6.5}, out[0].Data(), 1e-12)
}

func TestSession_BroadcastAndActivations(t *testing.T) {
	b := New()

	x, err := b.Placeholder("x", tensor.Shape{2, 2})
	require.NoError(t, err)
	row, err := b.Constant("row", mustRows(t, [][]float64{{1, -1}}))
	require.NoError(t, err)

	sum, err := b.Add(x, row)
	require.NoError(t, err)
	prod, err := b.Mul(row, x)
	require.NoError(t, err)
	sig, err := b.Sigmoid(x)
	require.NoError(t, err)
	th, err := b.Tanh(x)
	require.NoError(t, err)

	sess, err := NewSession(b, sum, prod, sig, th)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck // test cleanup

	out, err := sess.Run(Feeds{x: mustRows(t, [][]float64{{0, 1}, {2, 3}})})
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.InDeltaSlice(t, []float64{1, 0, 3, 2}, out[0].Data(), 1e-12)
	assert.InDeltaSlice(t, []float64{0, -1, 2, -3}, out[1].Data(), 1e-12)
	assert.InDelta(t, 0.5, out[2].At(0, 0), 1e-12)
	assert.InDelta(t, 0.0, out[3].At(0, 0), 1e-12)
}

func TestSession_UnboundPlaceholder(t *testing.T) {
	b := New()

	x, err := b.Placeholder("x", tensor.Shape{1, 2})
	require.NoError(t, err)
	y, err := b.Tanh(x)
	require.NoError(t, err)

	sess, err := NewSession(b, y)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck // test cleanup

	_, err = sess.Run(Feeds{})
	assert.ErrorIs(t, err, ErrUnboundPlaceholder)
}

func TestSession_FeedShapeMismatch(t *testing.T) {
	b := New()

	x, err := b.Placeholder("x", tensor.Shape{1, 2})
	require.NoError(t, err)
	y, err := b.Tanh(x)
	require.NoError(t, err)

	sess, err := NewSession(b, y)
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck // test cleanup

	_, err = sess.Run(Feeds{x: mustRows(t, [][]float64{{1, 2, 3}})})
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestSession_Closed(t *testing.T) {
	b := New()

	c, err := b.Constant("c", mustRows(t, [][]float64{{1}}))
	require.NoError(t, err)
	y, err := b.Tanh(c)
	require.NoError(t, err)

	sess, err := NewSession(b, y)
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close(), "close is idempotent")

	_, err = sess.Run(nil)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestNewSession_NoOutputs(t *testing.T) {
	_, err := NewSession(New())
	assert.Error(t, err)
}

func TestBackend_ShapeErrors(t *testing.T) {
	b := New()

	x, err := b.Placeholder("x", tensor.Shape{1, 4})
	require.NoError(t, err)
	w, err := b.Constant("w", mustRows(t, [][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)

	_, err = b.MatMul(x, w)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = b.Add(x, w)
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)

	_, err = b.Placeholder("bad", tensor.Shape{0, 2})
	assert.ErrorIs(t, err, tensor.ErrInvalidShape)
}

func TestBackend_ConstantNamesAreUnique(t *testing.T) {
	b := New()

	c1, err := b.Constant("w", mustRows(t, [][]float64{{1}}))
	require.NoError(t, err)
	c2, err := b.Constant("w", mustRows(t, [][]float64{{2}}))
	require.NoError(t, err)

	assert.NotEqual(t, c1.Name(), c2.Name())
}
