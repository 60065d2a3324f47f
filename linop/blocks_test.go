package linop

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pdhg/dev"
)

// materialize builds the dense matrix of an initialized operator by
// applying it to unit vectors.
func materialize(t *testing.T, k *LinearOperator[float64]) *mat.Dense {
	t.Helper()
	m := mat.NewDense(k.NRows(), k.NCols(), nil)
	in := make([]float64, k.NCols())
	out := make([]float64, k.NRows())
	for j := 0; j < k.NCols(); j++ {
		in[j] = 1
		require.NoError(t, k.Eval(out, in))
		for i := 0; i < k.NRows(); i++ {
			m.Set(i, j, out[i])
		}
		in[j] = 0
	}
	return m
}

func wrapSingle(t *testing.T, b Block[float64]) *LinearOperator[float64] {
	t.Helper()
	k := New[float64]()
	require.NoError(t, k.AddBlock(b))
	require.NoError(t, k.Init())
	return k
}

// checkSums verifies the block sum queries against the dense
// materialization for a set of exponents.
func checkSums(t *testing.T, k *LinearOperator[float64]) {
	t.Helper()
	m := materialize(t, k)
	for _, p := range []float64{0.5, 1, 1.5, 2} {
		for i := 0; i < k.NRows(); i++ {
			var want float64
			for j := 0; j < k.NCols(); j++ {
				want += math.Pow(math.Abs(m.At(i, j)), p)
			}
			require.InDelta(t, want, k.RowSum(i, p), 1e-10, "row %d p=%g", i, p)
		}
		for j := 0; j < k.NCols(); j++ {
			var want float64
			for i := 0; i < k.NRows(); i++ {
				want += math.Pow(math.Abs(m.At(i, j)), p)
			}
			require.InDelta(t, want, k.ColSum(j, p), 1e-10, "col %d p=%g", j, p)
		}
	}
}

// checkAdjoint verifies <Ku, v> == <u, K'v> for random vectors.
func checkAdjoint(t *testing.T, k *LinearOperator[float64]) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	u := make([]float64, k.NCols())
	v := make([]float64, k.NRows())
	for i := range u {
		u[i] = rng.NormFloat64()
	}
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	ku := make([]float64, k.NRows())
	ktv := make([]float64, k.NCols())
	require.NoError(t, k.Eval(ku, u))
	require.NoError(t, k.EvalAdjoint(ktv, v))

	lhs, err := dev.Dot(ku, v)
	require.NoError(t, err)
	rhs, err := dev.Dot(u, ktv)
	require.NoError(t, err)
	scale := float64(dev.Norm2(u)) * float64(dev.Norm2(v))
	require.InDelta(t, lhs, rhs, 1e-12*math.Max(scale, 1))
}

func TestSparse_EvalMatchesDense(t *testing.T) {
	t.Parallel()

	// 3x4: [1 0 2 0; 0 -3 0 0; 4 0 0 5]
	b, err := NewSparseCSR[float64](0, 0, 3, 4,
		[]int{0, 2, 3, 5}, []int{0, 2, 1, 0, 3}, []float64{1, 2, -3, 4, 5})
	require.NoError(t, err)
	k := wrapSingle(t, b)

	out := make([]float64, 3)
	require.NoError(t, k.Eval(out, []float64{1, 1, 1, 1}))
	require.Equal(t, []float64{3, -3, 9}, out)

	checkSums(t, k)
	checkAdjoint(t, k)
}

func TestSparse_Triplets(t *testing.T) {
	t.Parallel()

	b, err := NewSparseTriplets[float64](0, 0, 2, 2,
		[]int{1, 0}, []int{0, 1}, []float64{3, 2})
	require.NoError(t, err)
	k := wrapSingle(t, b)

	m := materialize(t, k)
	require.Equal(t, 2.0, m.At(0, 1))
	require.Equal(t, 3.0, m.At(1, 0))
}

func TestSparseKronID(t *testing.T) {
	t.Parallel()

	seed, err := NewSparseCSR[float64](0, 0, 2, 2,
		[]int{0, 1, 3}, []int{1, 0, 1}, []float64{2, 1, -1})
	require.NoError(t, err)
	b, err := NewSparseKronID[float64](0, 0, seed, 3)
	require.NoError(t, err)
	require.Equal(t, 6, b.NRows())
	require.Equal(t, 6, b.NCols())

	k := wrapSingle(t, b)
	checkSums(t, k)
	checkAdjoint(t, k)
}

func TestIdentity_Rectangular(t *testing.T) {
	t.Parallel()

	b, err := NewIdentity[float64](0, 0, 4, 2, -2.5)
	require.NoError(t, err)
	k := wrapSingle(t, b)

	out := make([]float64, 4)
	require.NoError(t, k.Eval(out, []float64{1, 2}))
	require.Equal(t, []float64{-2.5, -5, 0, 0}, out)

	checkSums(t, k)
	checkAdjoint(t, k)
}

func TestDiags_Bidiagonal(t *testing.T) {
	dev.ResetConstMem()
	defer dev.ResetConstMem()

	// forward difference as a banded block: -1 on the main diagonal, +1 above
	b, err := NewDiags[float64](0, 0, 4, 4, []float64{-1, 1}, []int{0, 1})
	require.NoError(t, err)
	k := wrapSingle(t, b)

	out := make([]float64, 4)
	require.NoError(t, k.Eval(out, []float64{1, 2, 4, 8}))
	require.Equal(t, []float64{1, 2, 4, -8}, out)

	checkSums(t, k)
	checkAdjoint(t, k)
}

func TestDiags_RequiresInit(t *testing.T) {
	dev.ResetConstMem()
	defer dev.ResetConstMem()

	b, err := NewDiags[float64](0, 0, 2, 2, []float64{1}, []int{0})
	require.NoError(t, err)
	err = b.EvalAdd(make([]float64, 2), make([]float64, 2))
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestDense_Block(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b, err := NewDense[float64](0, 0, a)
	require.NoError(t, err)
	k := wrapSingle(t, b)

	out := make([]float64, 2)
	require.NoError(t, k.Eval(out, []float64{1, 0, -1}))
	require.Equal(t, []float64{-2, -2}, out)

	checkSums(t, k)
	checkAdjoint(t, k)
}

func TestDense_ColMajor(t *testing.T) {
	t.Parallel()

	// column-major [1 3; 2 4]
	b, err := NewDenseColMajor[float64](0, 0, 2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	k := wrapSingle(t, b)

	m := materialize(t, k)
	require.Equal(t, 3.0, m.At(0, 1))
	require.Equal(t, 2.0, m.At(1, 0))
}

func TestTransform_Orthonormal(t *testing.T) {
	t.Parallel()

	for _, kind := range []TransformKind{TransformDCT, TransformDST} {
		b, err := NewTransform[float64](0, 0, 8, kind)
		require.NoError(t, err)
		k := wrapSingle(t, b)

		m := materialize(t, k)
		var prod mat.Dense
		prod.Mul(m.T(), m)
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				require.InDelta(t, want, prod.At(i, j), 1e-12, "kind %d entry (%d,%d)", kind, i, j)
			}
		}
		checkSums(t, k)
		checkAdjoint(t, k)
	}
}
