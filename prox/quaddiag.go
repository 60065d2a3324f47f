package prox

// QuadDiag is the prox of the diagonal quadratic
// f(x) = sum_k (w_k/2)*(x_k - a_k)^2, which has the closed form
// result_k = (x0_k + s*w_k*a_k) / (1 + s*w_k). Weights and centers hold
// one value per range or per coordinate.
type QuadDiag[T Float] struct {
	base
	w, a []float64
}

// NewQuadDiag creates the diagonal-Hessian quadratic prox over
// [index, index+size).
func NewQuadDiag[T Float](index, size int, w, a []float64) (*QuadDiag[T], error) {
	if index < 0 || size <= 0 || !validCoeff(w, size) || !validCoeff(a, size) {
		return nil, ErrBadParams
	}
	for _, wi := range w {
		if wi < 0 {
			return nil, ErrBadParams
		}
	}
	return &QuadDiag[T]{
		base: base{index: index, size: size, diagsteps: true},
		w:    w,
		a:    a,
	}, nil
}

func (q *QuadDiag[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](q, result, arg, tauDiag, tau, invertTau)
}

func (q *QuadDiag[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	for k := range arg {
		s := step(tauDiag, k, float64(tau), q.diagsteps, invertTau)
		w := coeff(q.w, k)
		a := coeff(q.a, k)
		result[k] = T((float64(arg[k]) + s*w*a) / (1 + s*w))
	}
	return nil
}
