package probe_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/matfree/probe"
)

func TestSample_Determinism(t *testing.T) {
	for _, kind := range []probe.Kind{probe.Rademacher, probe.Gaussian} {
		t.Run(kind.String(), func(t *testing.T) {
			a, err := probe.Sample(kind, 8, 17, 42)
			require.NoError(t, err)
			b, err := probe.Sample(kind, 8, 17, 42)
			require.NoError(t, err)
			assert.Equal(t, a.Vectors, b.Vectors)

			c, err := probe.Sample(kind, 8, 17, 43)
			require.NoError(t, err)
			assert.NotEqual(t, a.Vectors, c.Vectors)
		})
	}
}

func TestSample_ZeroSeedIsDefault(t *testing.T) {
	a, err := probe.Sample(probe.Gaussian, 2, 5, 0)
	require.NoError(t, err)
	b, err := probe.Sample(probe.Gaussian, 2, 5, probe.DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, a.Vectors, b.Vectors)
}

func TestSampleFrom_ExtendsBatch(t *testing.T) {
	full, err := probe.Sample(probe.Rademacher, 10, 6, 7)
	require.NoError(t, err)
	head, err := probe.SampleFrom(probe.Rademacher, 0, 4, 6, 7)
	require.NoError(t, err)
	tail, err := probe.SampleFrom(probe.Rademacher, 4, 6, 6, 7)
	require.NoError(t, err)

	assert.Equal(t, full.Vectors[:4], head.Vectors)
	assert.Equal(t, full.Vectors[4:], tail.Vectors)
	assert.Equal(t, 4, tail.Offset)

	split := full.Split(4, 10)
	assert.Equal(t, tail.Vectors, split.Vectors)
	assert.Equal(t, 4, split.Offset)
}

func TestSample_Rademacher_Entries(t *testing.T) {
	b, err := probe.Sample(probe.Rademacher, 50, 40, 3)
	require.NoError(t, err)

	var all []float64
	for _, v := range b.Vectors {
		for _, x := range v {
			require.True(t, x == 1 || x == -1, "entry %v", x)
		}
		all = append(all, v...)
	}
	mean, variance := stat.MeanVariance(all, nil)
	assert.InDelta(t, 0, mean, 0.1)
	assert.InDelta(t, 1, variance, 0.05)
}

func TestSample_Gaussian_Moments(t *testing.T) {
	b, err := probe.Sample(probe.Gaussian, 100, 100, 11)
	require.NoError(t, err)

	var all []float64
	for _, v := range b.Vectors {
		all = append(all, v...)
	}
	mean, variance := stat.MeanVariance(all, nil)
	assert.InDelta(t, 0, mean, 0.05)
	assert.InDelta(t, 1, variance, 0.1)
	for _, x := range all {
		require.False(t, math.IsNaN(x))
	}
}

func TestSample_Validation(t *testing.T) {
	_, err := probe.Sample(probe.Kind(9), 1, 1, 1)
	require.ErrorIs(t, err, probe.ErrUnknownKind)
	_, err = probe.Sample(probe.Rademacher, 0, 1, 1)
	require.ErrorIs(t, err, probe.ErrBadCount)
	_, err = probe.SampleFrom(probe.Rademacher, -1, 1, 1, 1)
	require.ErrorIs(t, err, probe.ErrBadCount)
	_, err = probe.Sample(probe.Gaussian, 1, 0, 1)
	require.ErrorIs(t, err, probe.ErrBadDim)
}

func TestParseKind(t *testing.T) {
	k, err := probe.ParseKind(" Gaussian ")
	require.NoError(t, err)
	assert.Equal(t, probe.Gaussian, k)
	k, err = probe.ParseKind("normal")
	require.NoError(t, err)
	assert.Equal(t, probe.Gaussian, k)
	k, err = probe.ParseKind("rademacher")
	require.NoError(t, err)
	assert.Equal(t, probe.Rademacher, k)
	_, err = probe.ParseKind("uniform")
	require.ErrorIs(t, err, probe.ErrUnknownKind)

	var kk probe.Kind
	require.NoError(t, kk.UnmarshalText([]byte("gaussian")))
	assert.Equal(t, probe.Gaussian, kk)
	txt, err := probe.Rademacher.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "rademacher", string(txt))
}
