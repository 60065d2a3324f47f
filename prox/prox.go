package prox

import "github.com/cwbudde/algo-pdhg/dev"

// Float is the shared scalar constraint.
type Float = dev.Float

// Prox is a proximal operator over the index range [Index, Index+Size) of
// the full variable vector.
//
// Eval computes result <- (I + s df)^-1(arg) on the range and leaves every
// other coordinate of result untouched. The effective step size for
// coordinate k is s_k = tau * tauDiag[k] if Diagsteps is true, tau
// otherwise; invertTau replaces s_k by 1/s_k. result, arg and tauDiag all
// have the full variable length.
type Prox[T Float] interface {
	Index() int
	Size() int

	// Diagsteps reports whether the prox honors per-coordinate step sizes.
	Diagsteps() bool

	Init() error
	Release()

	Eval(result, arg, tauDiag []T, tau T, invertTau bool) error

	// evalLocal works on slices that start at the prox range. Keeping it
	// unexported closes the catalog to this package.
	evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error
}

// base carries the range identity shared by every prox kind.
type base struct {
	index     int
	size      int
	diagsteps bool
}

func (b *base) Index() int      { return b.index }
func (b *base) Size() int       { return b.size }
func (b *base) Diagsteps() bool { return b.diagsteps }
func (b *base) Init() error     { return nil }
func (b *base) Release()        {}

// eval validates the full-length arguments and hands the local slices to
// the concrete operator.
func eval[T Float](p Prox[T], result, arg, tauDiag []T, tau T, invertTau bool) error {
	lo := p.Index()
	hi := lo + p.Size()
	if lo < 0 || hi > len(result) || len(arg) != len(result) || len(tauDiag) != len(result) {
		return ErrShapeMismatch
	}
	return p.evalLocal(result[lo:hi], arg[lo:hi], tauDiag[lo:hi], tau, invertTau)
}

// step returns the effective step size for local coordinate k.
func step[T Float](tauDiag []T, k int, tau float64, diagsteps, invertTau bool) float64 {
	s := tau
	if diagsteps {
		s *= float64(tauDiag[k])
	}
	if invertTau {
		s = 1 / s
	}
	return s
}

// coeff reads a coefficient that is stored either once per range or once
// per coordinate.
func coeff(c []float64, k int) float64 {
	if len(c) == 1 {
		return c[0]
	}
	return c[k]
}

// validCoeff reports whether c has length 1 or size.
func validCoeff(c []float64, size int) bool {
	return len(c) == 1 || len(c) == size
}
