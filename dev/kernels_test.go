package dev

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestVector_SubAliases(t *testing.T) {
	t.Parallel()

	v, err := NewVector[float64](8)
	require.NoError(t, err)

	view, err := v.Sub(2, 5)
	require.NoError(t, err)
	view[0] = 42

	require.Equal(t, 42.0, v.Data()[2], "sub-view must alias the parent storage")

	_, err = v.Sub(5, 2)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = v.Sub(0, 9)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestVector_HostTransfer(t *testing.T) {
	t.Parallel()

	src := []float64{1, -2, 3.5}
	v := FromHost64[float32](src)
	require.Equal(t, 3, v.Len())
	require.Equal(t, PrecisionFloat32, v.Precision())

	back := v.ToHost64()
	require.InDeltaSlice(t, src, back, 1e-6)

	err := v.CopyFromHost64([]float64{1, 2})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestKernels_Axpy(t *testing.T) {
	t.Parallel()

	y := []float64{1, 2, 3}
	x := []float64{10, 20, 30}
	require.NoError(t, Axpy(y, x, 0.5))
	require.Equal(t, []float64{6, 12, 18}, y)

	require.ErrorIs(t, Axpy(y, x[:2], 1), ErrLengthMismatch)
}

func TestKernels_Reductions(t *testing.T) {
	t.Parallel()

	x := []float64{3, -4, 0, 1}

	require.InDelta(t, math.Sqrt(26), float64(Norm2(x)), 1e-12)
	require.InDelta(t, 4, float64(NormInf(x)), 1e-12)
	require.InDelta(t, 8, float64(Asum(x)), 1e-12)
	require.InDelta(t, floats.Sum(x), float64(Sum(x)), 1e-12)

	d, err := Dot(x, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	require.InDelta(t, 0, float64(d), 1e-12)

	partial, err := AsumRange(x, 1, 3)
	require.NoError(t, err)
	require.InDelta(t, 4, float64(partial), 1e-12)

	_, err = AsumRange(x, 3, 1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestKernels_Elementwise(t *testing.T) {
	t.Parallel()

	out := make([]float64, 3)
	require.NoError(t, AddScaled(out, []float64{1, 2, 3}, []float64{4, 5, 6}, 2, -1))
	require.Equal(t, []float64{-2, -1, 0}, out)

	require.NoError(t, Mul(out, []float64{1, 2, 3}, []float64{2, 2, 2}))
	require.Equal(t, []float64{2, 4, 6}, out)

	require.NoError(t, Max(out, []float64{1, 5, 3}, []float64{2, 2, 2}))
	require.Equal(t, []float64{2, 5, 3}, out)
}

func TestKernels_AllFinite(t *testing.T) {
	t.Parallel()

	require.True(t, AllFinite([]float64{1, 2, 3}))
	require.False(t, AllFinite([]float64{1, math.NaN()}))
	require.False(t, AllFinite([]float64{math.Inf(1)}))
}
