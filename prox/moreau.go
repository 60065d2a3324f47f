package prox

// Moreau evaluates the prox of the convex conjugate of its inner prox's
// function through the Moreau identity
//
//	prox_{s f*}(v) = v - s * prox_{f/s}(v/s),
//
// realized by calling the inner prox with inverted step sizes. The wrapper
// covers the same index range as the inner prox; applying Moreau twice
// recovers the inner operator up to roundoff.
type Moreau[T Float] struct {
	base
	inner Prox[T]

	scratch []T
}

// NewMoreau wraps an inner prox with Moreau conjugation.
func NewMoreau[T Float](inner Prox[T]) (*Moreau[T], error) {
	if inner == nil {
		return nil, ErrBadParams
	}
	return &Moreau[T]{
		base:  base{index: inner.Index(), size: inner.Size(), diagsteps: inner.Diagsteps()},
		inner: inner,
	}, nil
}

func (m *Moreau[T]) Init() error {
	if err := m.inner.Init(); err != nil {
		return err
	}
	m.scratch = make([]T, m.size)
	return nil
}

func (m *Moreau[T]) Release() {
	m.inner.Release()
	m.scratch = nil
}

func (m *Moreau[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](m, result, arg, tauDiag, tau, invertTau)
}

func (m *Moreau[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	if m.scratch == nil {
		m.scratch = make([]T, m.size)
	}
	for k := range arg {
		s := step(tauDiag, k, float64(tau), m.diagsteps, invertTau)
		m.scratch[k] = T(float64(arg[k]) / s)
	}
	if err := m.inner.evalLocal(result, m.scratch, tauDiag, tau, !invertTau); err != nil {
		return err
	}
	for k := range arg {
		s := step(tauDiag, k, float64(tau), m.diagsteps, invertTau)
		result[k] = T(float64(arg[k]) - s*float64(result[k]))
	}
	return nil
}
