package operator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matfree/operator"
)

func TestIdentityAndDiagonal(t *testing.T) {
	id, err := operator.Identity(3)
	require.NoError(t, err)
	y, err := id.Apply([]float64{1, -2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2, 3}, y)

	d, err := operator.Diagonal([]float64{1, 2, 3})
	require.NoError(t, err)
	y, err = d.Apply([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, y)
	assert.True(t, d.Symmetric())

	_, err = operator.Identity(0)
	require.ErrorIs(t, err, operator.ErrBadShape)
	_, err = operator.Diagonal(nil)
	require.ErrorIs(t, err, operator.ErrBadShape)
}

func TestScaledAndShifted(t *testing.T) {
	d, err := operator.Diagonal([]float64{1, 2})
	require.NoError(t, err)

	s, err := operator.Scaled(d, 3)
	require.NoError(t, err)
	y, err := s.Apply([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 6}, y)
	assert.True(t, s.Symmetric())

	sh, err := operator.Shifted(d, 1)
	require.NoError(t, err)
	y, err = sh.Apply([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, y)
}

func TestScaled_KeepsTranspose(t *testing.T) {
	m, err := operator.NewDense(2, 2, []float64{0, 1, 0, 0})
	require.NoError(t, err)
	a, err := m.Operator(false)
	require.NoError(t, err)

	s, err := operator.Scaled(a, 2)
	require.NoError(t, err)
	require.True(t, s.HasTranspose())
	y, err := s.ApplyTranspose([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, y)
}

func TestShifted_RequiresSquare(t *testing.T) {
	m, err := operator.NewDense(2, 3, nil)
	require.NoError(t, err)
	a, err := m.Operator(false)
	require.NoError(t, err)

	_, err = operator.Shifted(a, 1)
	require.ErrorIs(t, err, operator.ErrBadShape)
}

func TestCounting(t *testing.T) {
	d, err := operator.Diagonal([]float64{1, 2, 3})
	require.NoError(t, err)
	op, c := operator.Counting(d)

	for i := 0; i < 5; i++ {
		_, err = op.Apply([]float64{1, 1, 1})
		require.NoError(t, err)
	}
	_, err = op.Apply([]float64{1})
	require.Error(t, err)

	assert.EqualValues(t, 5, c.Forward.Load())
	assert.EqualValues(t, 5, c.Total())
	c.Reset()
	assert.Zero(t, c.Total())
}

func TestCounting_BatchCallback(t *testing.T) {
	var batches int
	twice := func(x []float64) []float64 {
		y := make([]float64, len(x))
		for i := range x {
			y[i] = 2 * x[i]
		}
		return y
	}
	a, err := operator.New(twice, operator.WithDim(2), operator.WithBatch(func(xs [][]float64) [][]float64 {
		batches++
		ys := make([][]float64, len(xs))
		for i := range xs {
			ys[i] = twice(xs[i])
		}
		return ys
	}))
	require.NoError(t, err)

	op, c := operator.Counting(a)
	ys, err := op.ApplyBatch([][]float64{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 0}, {0, 2}, {2, 2}}, ys)
	assert.Equal(t, 1, batches)
	assert.EqualValues(t, 3, c.Forward.Load())

	// The declared-symmetric view keeps the batch callback.
	sym, err := operator.AsSymmetric(a)
	require.NoError(t, err)
	_, err = sym.ApplyBatch([][]float64{{1, 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, batches)
}

func TestAsSymmetric(t *testing.T) {
	m, err := operator.NewDense(2, 2, []float64{2, 1, 1, 3})
	require.NoError(t, err)
	plain, err := m.Operator(false)
	require.NoError(t, err)
	require.False(t, plain.Symmetric())

	sym, err := operator.AsSymmetric(plain)
	require.NoError(t, err)
	assert.True(t, sym.Symmetric())
	y, err := sym.ApplyTranspose([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1}, y)

	same, err := operator.AsSymmetric(sym)
	require.NoError(t, err)
	assert.Same(t, sym, same)

	lazy, err := operator.New(func(x []float64) []float64 { return x })
	require.NoError(t, err)
	_, err = operator.AsSymmetric(lazy)
	require.ErrorIs(t, err, operator.ErrBadShape)
}
