package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matfree/estimate"
	"github.com/katalvlaran/matfree/operator"
	"github.com/katalvlaran/matfree/probe"
)

func TestDiagonal_IdentityIsExact(t *testing.T) {
	id, err := operator.Identity(12)
	require.NoError(t, err)

	res, err := estimate.Diagonal(id, sample(t, probe.Rademacher, 5, 12, 42))
	require.NoError(t, err)
	for i, v := range res.Vector {
		assert.Equal(t, 1.0, v, "entry %d", i)
		assert.Equal(t, 0.0, res.VectorVariance[i], "entry %d", i)
	}
	assert.Equal(t, 12.0, res.Value)
}

func TestDiagonal_DiagonallyDominant(t *testing.T) {
	const n = 10
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data[i*n+j] = 0.01
		}
		data[i*n+i] = float64(i + 1)
	}
	m, err := operator.NewDense(n, n, data)
	require.NoError(t, err)
	op := denseOperator(t, m, true)

	for _, kind := range []probe.Kind{probe.Rademacher, probe.Gaussian} {
		t.Run(kind.String(), func(t *testing.T) {
			res, err := estimate.Diagonal(op, sample(t, kind, 400, n, 8), estimate.WithWorkers(4))
			require.NoError(t, err)
			require.Len(t, res.Vector, n)
			for i := 0; i < n; i++ {
				assert.InDelta(t, float64(i+1), res.Vector[i], 0.02, "entry %d", i)
			}
			assert.Equal(t, 400, res.NumProbes)
		})
	}
}

func TestDiagonal_Errors(t *testing.T) {
	_, err := estimate.Diagonal(diagonal(t, []float64{1, 2}), &probe.Batch{})
	require.ErrorIs(t, err, estimate.ErrEmptyBatch)

	failing, err := operator.New(func(x []float64) []float64 { return x[:1] })
	require.NoError(t, err)
	_, err = estimate.Diagonal(failing, sample(t, probe.Rademacher, 3, 2, 1))
	require.Error(t, err)
}
