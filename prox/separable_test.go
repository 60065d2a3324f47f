package prox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func onesT[T Float](n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func TestSeparable1D_SquareProx(t *testing.T) {
	t.Parallel()

	// prox of (1/2)|x - 0|^2 at tau = 1 divides by (1 + tau)
	p, err := NewSeparable1D[float64](0, 3, Func1DSquare, DefaultCoefficients())
	require.NoError(t, err)
	require.NoError(t, p.Init())

	arg := []float64{1, 2, 3}
	result := make([]float64, 3)
	require.NoError(t, p.Eval(result, arg, onesT[float64](3), 1, false))
	require.InDeltaSlice(t, []float64{0.5, 1.0, 1.5}, result, 1e-14)
}

func TestSeparable1D_BoxIndicator(t *testing.T) {
	t.Parallel()

	p, err := NewSeparable1D[float64](0, 3, Func1DIndBox01, DefaultCoefficients())
	require.NoError(t, err)

	arg := []float64{-0.3, 0.5, 1.7}
	result := make([]float64, 3)
	require.NoError(t, p.Eval(result, arg, onesT[float64](3), 1, false))
	require.Equal(t, []float64{0, 0.5, 1.0}, result)

	// indicator proxes are idempotent
	again := make([]float64, 3)
	require.NoError(t, p.Eval(again, result, onesT[float64](3), 1, false))
	require.Equal(t, result, again)
}

func TestSeparable1D_ShiftedSquare(t *testing.T) {
	t.Parallel()

	// c*phi(x + b) with phi = square and per-coordinate shifts b = -f
	// is the quadratic dataterm (c/2)|x - f|^2
	f := []float64{1, -2, 0.5}
	c := DefaultCoefficients()
	c.B = []float64{-f[0], -f[1], -f[2]}
	c.C = []float64{2}
	p, err := NewSeparable1D[float64](0, 3, Func1DSquare, c)
	require.NoError(t, err)

	arg := []float64{0, 0, 0}
	result := make([]float64, 3)
	tau := 0.5
	require.NoError(t, p.Eval(result, arg, onesT[float64](3), tau, false))
	for k := range result {
		want := (arg[k] + tau*2*f[k]) / (1 + tau*2)
		require.InDelta(t, want, result[k], 1e-14, "coordinate %d", k)
	}
}

func TestSeparable1D_LinearAndQuadraticTerms(t *testing.T) {
	t.Parallel()

	// h(x) = d*x + (e/2)*x^2 with phi = zero has the closed form
	// (x0 - s*d) / (1 + s*e)
	c := DefaultCoefficients()
	c.D = []float64{0.3}
	c.E = []float64{2}
	p, err := NewSeparable1D[float64](0, 2, Func1DZero, c)
	require.NoError(t, err)

	arg := []float64{1, -1}
	result := make([]float64, 2)
	s := 0.25
	require.NoError(t, p.Eval(result, arg, onesT[float64](2), s, false))
	for k := range result {
		want := (arg[k] - s*0.3) / (1 + s*2)
		require.InDelta(t, want, result[k], 1e-14)
	}
}

func TestSeparable1D_DiagSteps(t *testing.T) {
	t.Parallel()

	p, err := NewSeparable1D[float64](0, 2, Func1DAbs, DefaultCoefficients())
	require.NoError(t, err)
	require.True(t, p.Diagsteps())

	arg := []float64{1, 1}
	tauDiag := []float64{0.2, 0.8}
	result := make([]float64, 2)
	require.NoError(t, p.Eval(result, arg, tauDiag, 1, false))
	require.InDeltaSlice(t, []float64{0.8, 0.2}, result, 1e-14)

	// inverted steps soft-threshold at 1/s
	require.NoError(t, p.Eval(result, []float64{6, 6}, tauDiag, 1, true))
	require.InDeltaSlice(t, []float64{1, 4.75}, result, 1e-14)
}

func TestSeparable1D_OnlyTouchesItsRange(t *testing.T) {
	t.Parallel()

	p, err := NewSeparable1D[float64](2, 2, Func1DIndEq0, DefaultCoefficients())
	require.NoError(t, err)

	result := []float64{9, 9, 9, 9, 9, 9}
	arg := []float64{1, 2, 3, 4, 5, 6}
	require.NoError(t, p.Eval(result, arg, onesT[float64](6), 1, false))
	require.Equal(t, []float64{9, 9, 0, 0, 9, 9}, result)
}

func TestSeparable1D_BadParams(t *testing.T) {
	t.Parallel()

	c := DefaultCoefficients()
	c.A = []float64{1, 2, 3}
	_, err := NewSeparable1D[float64](0, 2, Func1DAbs, c)
	require.ErrorIs(t, err, ErrBadParams)

	_, err = NewSeparable1D[float64](-1, 2, Func1DAbs, DefaultCoefficients())
	require.ErrorIs(t, err, ErrBadParams)
}
