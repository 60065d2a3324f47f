package prox

import (
	"gonum.org/v1/gonum/mat"
)

// SingularValues applies a 1D function prox to the singular values of each
// group, viewed as an m-by-n matrix in column-major order, and rebuilds the
// group from the thresholded factorization. This yields spectral proxes
// such as nuclear-norm shrinkage (fn = abs).
//
// The per-group SVD couples all coordinates of a group, so diagonal step
// sizes are not supported.
type SingularValues[T Float] struct {
	base
	fn     Function1D
	coeffs Coefficients
	count  int
	m, n   int
}

// NewSingularValues creates the singular-value prox over count groups of
// m*n coordinates starting at index.
func NewSingularValues[T Float](index, count, m, n int, fn Function1D, coeffs Coefficients) (*SingularValues[T], error) {
	if index < 0 || count <= 0 || m <= 0 || n <= 0 || !coeffs.valid(count) {
		return nil, ErrBadParams
	}
	return &SingularValues[T]{
		base:   base{index: index, size: count * m * n, diagsteps: false},
		fn:     fn,
		coeffs: coeffs,
		count:  count,
		m:      m,
		n:      n,
	}, nil
}

func (sv *SingularValues[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](sv, result, arg, tauDiag, tau, invertTau)
}

func (sv *SingularValues[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	gsize := sv.m * sv.n
	a := mat.NewDense(sv.m, sv.n, nil)
	for g := 0; g < sv.count; g++ {
		s := step(tauDiag, g*gsize, float64(tau), sv.diagsteps, invertTau)
		off := g * gsize
		for j := 0; j < sv.n; j++ {
			for i := 0; i < sv.m; i++ {
				a.Set(i, j, float64(arg[off+j*sv.m+i]))
			}
		}

		var svd mat.SVD
		if !svd.Factorize(a, mat.SVDThin) {
			return ErrBadParams
		}
		vals := svd.Values(nil)
		for k := range vals {
			vals[k] = sv.coeffs.applyScalar(sv.fn, vals[k], s, g)
		}

		var u, v mat.Dense
		svd.UTo(&u)
		svd.VTo(&v)

		// rebuild U * diag(vals) * V'
		r := len(vals)
		scaled := mat.NewDense(sv.m, r, nil)
		for i := 0; i < sv.m; i++ {
			for k := 0; k < r; k++ {
				scaled.Set(i, k, u.At(i, k)*vals[k])
			}
		}
		var out mat.Dense
		out.Mul(scaled, v.T())

		for j := 0; j < sv.n; j++ {
			for i := 0; i < sv.m; i++ {
				result[off+j*sv.m+i] = T(out.At(i, j))
			}
		}
	}
	return nil
}
