package prox

// Coefficients parameterize the generalized pointwise function
// h(x) = c*phi(a*x + b) + d*x + (e/2)*x^2. Each slice holds one value per
// range or one value per coordinate.
type Coefficients struct {
	A, B, C, D, E []float64

	// Alpha and Beta are passed through to the 1D function.
	Alpha, Beta float64
}

// DefaultCoefficients parameterize h = phi.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		A: []float64{1}, B: []float64{0}, C: []float64{1},
		D: []float64{0}, E: []float64{0},
	}
}

func (c Coefficients) valid(size int) bool {
	return validCoeff(c.A, size) && validCoeff(c.B, size) && validCoeff(c.C, size) &&
		validCoeff(c.D, size) && validCoeff(c.E, size)
}

// applyScalar reduces the generalized prox of h at x0 with step s to a call
// of the plain phi prox:
//
//	x~0 = (x0 - s*d) / (1 + s*e)
//	s~  = c*a^2*s / (1 + s*e)
//	result = (phiprox(a*x~0 + b, s~) - b) / a
func (c Coefficients) applyScalar(fn Function1D, x0, s float64, k int) float64 {
	a := coeff(c.A, k)
	b := coeff(c.B, k)
	cc := coeff(c.C, k)
	d := coeff(c.D, k)
	e := coeff(c.E, k)

	den := 1 + s*e
	arg := a*(x0-s*d)/den + b
	st := cc * a * a * s / den
	return (fn.Apply(arg, st, c.Alpha, c.Beta) - b) / a
}

// Separable1D applies a 1D function prox independently to every coordinate
// of its range. It honors diagonal step sizes.
type Separable1D[T Float] struct {
	base
	fn     Function1D
	coeffs Coefficients
}

// NewSeparable1D creates the pointwise prox of
// c*phi(a*x + b) + d*x + (e/2)*x^2 over [index, index+size).
func NewSeparable1D[T Float](index, size int, fn Function1D, coeffs Coefficients) (*Separable1D[T], error) {
	if index < 0 || size <= 0 || !coeffs.valid(size) {
		return nil, ErrBadParams
	}
	return &Separable1D[T]{
		base:   base{index: index, size: size, diagsteps: true},
		fn:     fn,
		coeffs: coeffs,
	}, nil
}

func (s *Separable1D[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](s, result, arg, tauDiag, tau, invertTau)
}

func (s *Separable1D[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	for k := range arg {
		sk := step(tauDiag, k, float64(tau), s.diagsteps, invertTau)
		result[k] = T(s.coeffs.applyScalar(s.fn, float64(arg[k]), sk, k))
	}
	return nil
}
