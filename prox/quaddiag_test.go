package prox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuadDiag_ClosedForm(t *testing.T) {
	t.Parallel()

	w := []float64{1, 2, 4}
	a := []float64{0.5, -1, 2}
	p, err := NewQuadDiag[float64](0, 3, w, a)
	require.NoError(t, err)
	require.True(t, p.Diagsteps())

	arg := []float64{1, 1, 1}
	result := make([]float64, 3)
	tau := 0.5
	require.NoError(t, p.Eval(result, arg, onesT[float64](3), tau, false))
	for k := range result {
		want := (arg[k] + tau*w[k]*a[k]) / (1 + tau*w[k])
		require.InDelta(t, want, result[k], 1e-14)
	}
}

func TestQuadDiag_ScalarParams(t *testing.T) {
	t.Parallel()

	p, err := NewQuadDiag[float64](0, 4, []float64{2}, []float64{0})
	require.NoError(t, err)

	arg := []float64{2, -2, 4, 0}
	result := make([]float64, 4)
	require.NoError(t, p.Eval(result, arg, onesT[float64](4), 1, false))
	require.InDeltaSlice(t, []float64{2.0 / 3, -2.0 / 3, 4.0 / 3, 0}, result, 1e-14)
}

func TestQuadDiag_RejectsNegativeWeight(t *testing.T) {
	t.Parallel()

	_, err := NewQuadDiag[float64](0, 2, []float64{-1}, []float64{0})
	require.ErrorIs(t, err, ErrBadParams)
}
