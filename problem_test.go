package algopdhg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pdhg/linop"
	"github.com/cwbudde/algo-pdhg/prox"
)

func gradient1D(t *testing.T, n int) *linop.LinearOperator[float64] {
	t.Helper()
	k := linop.New[float64]()
	g, err := linop.NewGradient2D[float64](0, 0, n, 1)
	require.NoError(t, err)
	require.NoError(t, k.AddBlock(g))
	return k
}

func separableRange(t *testing.T, index, size int, fn prox.Function1D) prox.Prox[float64] {
	t.Helper()
	p, err := prox.NewSeparable1D[float64](index, size, fn, prox.DefaultCoefficients())
	require.NoError(t, err)
	return p
}

func TestProblem_PreconditionerDiagonals(t *testing.T) {
	t.Parallel()

	// 1D forward gradient on n = 10 with alpha = 1
	n := 10
	k := gradient1D(t, n)
	p := NewProblem[float64](k,
		[]prox.Prox[float64]{separableRange(t, 0, n, prox.Func1DZero)},
		[]prox.Prox[float64]{separableRange(t, 0, 2*n, prox.Func1DZero)})
	require.NoError(t, p.SetPrecond(PrecondAlpha, 1))
	require.NoError(t, p.Init())

	tau := p.TauDiag()
	require.Equal(t, 1.0, tau[0], "left boundary column")
	for c := 1; c < n-1; c++ {
		require.Equal(t, 0.5, tau[c], "interior column %d", c)
	}
	require.Equal(t, 1.0, tau[n-1], "right boundary column")

	sigma := p.SigmaDiag()
	for r := 0; r < n-1; r++ {
		require.Equal(t, 0.5, sigma[r], "interior row %d", r)
	}
	require.Equal(t, 1.0, sigma[n-1], "boundary row")
}

func TestProblem_PrecondOff(t *testing.T) {
	t.Parallel()

	n := 4
	k := gradient1D(t, n)
	p := NewProblem[float64](k,
		[]prox.Prox[float64]{separableRange(t, 0, n, prox.Func1DZero)},
		[]prox.Prox[float64]{separableRange(t, 0, 2*n, prox.Func1DZero)})
	require.NoError(t, p.SetPrecond(PrecondOff, 0))
	require.NoError(t, p.Init())

	for _, v := range p.TauDiag() {
		require.Equal(t, 1.0, v)
	}
	for _, v := range p.SigmaDiag() {
		require.Equal(t, 1.0, v)
	}
}

func TestProblem_PartitionValidation(t *testing.T) {
	t.Parallel()

	n := 6
	tests := []struct {
		name string
		g    []prox.Prox[float64]
	}{
		{"gap", []prox.Prox[float64]{
			separableRange(t, 0, 2, prox.Func1DZero),
			separableRange(t, 4, 2, prox.Func1DZero),
		}},
		{"overlap", []prox.Prox[float64]{
			separableRange(t, 0, 4, prox.Func1DZero),
			separableRange(t, 2, 4, prox.Func1DZero),
		}},
		{"excess", []prox.Prox[float64]{
			separableRange(t, 0, 8, prox.Func1DZero),
		}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			k := gradient1D(t, n)
			p := NewProblem[float64](k, tc.g,
				[]prox.Prox[float64]{separableRange(t, 0, 2*n, prox.Func1DZero)})
			require.ErrorIs(t, p.Init(), ErrInvalidStructure)
		})
	}
}

func TestProblem_DualizeRoundTrip(t *testing.T) {
	t.Parallel()

	n := 5
	k := gradient1D(t, n)
	g := []prox.Prox[float64]{separableRange(t, 0, n, prox.Func1DZero)}
	f := []prox.Prox[float64]{separableRange(t, 0, 2*n, prox.Func1DZero)}
	p := NewProblem[float64](k, g, f)
	require.NoError(t, p.Init())

	require.Equal(t, 2*n, p.NRows())
	require.Equal(t, n, p.NCols())

	p.Dualize()
	require.True(t, p.Dualized())
	require.Equal(t, n, p.NRows())
	require.Equal(t, 2*n, p.NCols())
	require.Equal(t, f, p.ProxG())

	// dualized forward operator is -K'
	in := make([]float64, 2*n)
	in[0] = 1
	out := make([]float64, n)
	require.NoError(t, p.EvalK(out, in))
	require.Equal(t, 1.0, out[0])
	require.Equal(t, -1.0, out[1])

	p.Dualize()
	require.False(t, p.Dualized())
	require.Equal(t, g, p.ProxG())
}

func TestProblem_BadAlpha(t *testing.T) {
	t.Parallel()

	p := NewProblem[float64](gradient1D(t, 3), nil, nil)
	require.ErrorIs(t, p.SetPrecond(PrecondAlpha, 2.5), ErrConfig)
}
