package prox

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoreau_OfWeightedAbsIsClipping(t *testing.T) {
	t.Parallel()

	// f = 0.5*|.|, so prox of f* clips to [-0.5, 0.5]
	c := DefaultCoefficients()
	c.C = []float64{0.5}
	inner, err := NewSeparable1D[float64](0, 3, Func1DAbs, c)
	require.NoError(t, err)
	m, err := NewMoreau[float64](inner)
	require.NoError(t, err)
	require.NoError(t, m.Init())

	arg := []float64{-1, 0.2, 0.7}
	result := make([]float64, 3)
	require.NoError(t, m.Eval(result, arg, onesT[float64](3), 1, false))
	require.InDeltaSlice(t, []float64{-0.5, 0.2, 0.5}, result, 1e-12)
}

func TestMoreau_Identity(t *testing.T) {
	t.Parallel()

	// prox_{tau f}(x) + tau * prox_{f*/tau}(x/tau) == x
	inner, err := NewSeparable1D[float64](0, 4, Func1DAbs, DefaultCoefficients())
	require.NoError(t, err)
	conj, err := NewMoreau[float64](inner)
	require.NoError(t, err)
	require.NoError(t, conj.Init())

	rng := rand.New(rand.NewSource(3))
	arg := make([]float64, 4)
	for i := range arg {
		arg[i] = rng.NormFloat64() * 2
	}
	tau := 0.7

	direct := make([]float64, 4)
	require.NoError(t, inner.Eval(direct, arg, onesT[float64](4), tau, false))

	// prox_{f*/tau}(x/tau) computed as the conjugate prox with inverted step
	scaled := make([]float64, 4)
	for i := range scaled {
		scaled[i] = arg[i] / tau
	}
	conjRes := make([]float64, 4)
	require.NoError(t, conj.Eval(conjRes, scaled, onesT[float64](4), tau, true))

	eps := math.Sqrt(2.2e-16)
	for i := range arg {
		require.InDelta(t, arg[i], direct[i]+tau*conjRes[i], eps, "coordinate %d", i)
	}
}

func TestMoreau_DoubleIsIdentity(t *testing.T) {
	t.Parallel()

	inner, err := NewSeparable1D[float64](0, 5, Func1DAbs, DefaultCoefficients())
	require.NoError(t, err)
	once, err := NewMoreau[float64](inner)
	require.NoError(t, err)
	twice, err := NewMoreau[float64](once)
	require.NoError(t, err)
	require.NoError(t, twice.Init())

	rng := rand.New(rand.NewSource(11))
	arg := make([]float64, 5)
	for i := range arg {
		arg[i] = rng.NormFloat64() * 3
	}
	tauDiag := []float64{0.3, 1, 2, 0.5, 4}

	want := make([]float64, 5)
	require.NoError(t, inner.Eval(want, arg, tauDiag, 0.9, false))

	got := make([]float64, 5)
	require.NoError(t, twice.Eval(got, arg, tauDiag, 0.9, false))

	eps := math.Sqrt(2.2e-16)
	require.InDeltaSlice(t, want, got, eps)
}

func TestMoreau_StableAtExtremeSteps(t *testing.T) {
	t.Parallel()

	inner, err := NewSeparable1D[float64](0, 2, Func1DSquare, DefaultCoefficients())
	require.NoError(t, err)
	m, err := NewMoreau[float64](inner)
	require.NoError(t, err)
	require.NoError(t, m.Init())

	for _, tau := range []float64{1e-12, 1e12} {
		result := make([]float64, 2)
		require.NoError(t, m.Eval(result, []float64{1, -1}, onesT[float64](2), tau, false))
		for _, v := range result {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "tau %g", tau)
		}
	}
}
