package prox

// AffineTransform evaluates the prox of h(x) = c*f(a*x + b) + d*x +
// (e/2)*x^2 given an inner prox for f, using the same reduction as the
// separable coefficient algebra:
//
//	x~0 = (x0 - s*d) / (1 + s*e)
//	s~  = c*a^2*s / (1 + s*e)
//	result = (prox_f(a*x~0 + b; s~) - b) / a
//
// The coefficients are scalars shared by the whole range. The transformed
// step s~ varies per coordinate whenever the outer step does. The wrapper
// inherits the inner prox's diagsteps flag: when the inner prox cannot
// honor diagonal steps, the wrapper ignores tauDiag as well, so s~ is the
// same on every coordinate and is passed to the inner prox as its scalar
// step. No inner prox is rejected at construction on this account.
type AffineTransform[T Float] struct {
	base
	inner         Prox[T]
	a, b, c, d, e float64

	scratchArg []T
	scratchTau []T
}

// NewAffineTransform wraps an inner prox with scalar affine coefficients.
func NewAffineTransform[T Float](inner Prox[T], a, b, c, d, e float64) (*AffineTransform[T], error) {
	if inner == nil || a == 0 || c <= 0 || e < 0 {
		return nil, ErrBadParams
	}
	return &AffineTransform[T]{
		base:  base{index: inner.Index(), size: inner.Size(), diagsteps: inner.Diagsteps()},
		inner: inner,
		a:     a, b: b, c: c, d: d, e: e,
	}, nil
}

func (t *AffineTransform[T]) Init() error {
	if err := t.inner.Init(); err != nil {
		return err
	}
	t.scratchArg = make([]T, t.size)
	t.scratchTau = make([]T, t.size)
	return nil
}

func (t *AffineTransform[T]) Release() {
	t.inner.Release()
	t.scratchArg = nil
	t.scratchTau = nil
}

func (t *AffineTransform[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](t, result, arg, tauDiag, tau, invertTau)
}

func (t *AffineTransform[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	if t.scratchArg == nil {
		t.scratchArg = make([]T, t.size)
		t.scratchTau = make([]T, t.size)
	}
	for k := range arg {
		s := step(tauDiag, k, float64(tau), t.diagsteps, invertTau)
		den := 1 + s*t.e
		t.scratchArg[k] = T(t.a*(float64(arg[k])-s*t.d)/den + t.b)
		t.scratchTau[k] = T(t.c * t.a * t.a * s / den)
	}
	// the transformed steps ride entirely on tauDiag; inner proxes that
	// ignore tauDiag (diagsteps false) still see the correct scalar step
	// because then s~ is constant and equals c*a^2*s/(1+s*e).
	var innerTau T = 1
	if !t.inner.Diagsteps() {
		innerTau = t.scratchTau[0]
	}
	if err := t.inner.evalLocal(result, t.scratchArg, t.scratchTau, innerTau, false); err != nil {
		return err
	}
	for k := range arg {
		result[k] = T((float64(result[k]) - t.b) / t.a)
	}
	return nil
}
