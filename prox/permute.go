package prox

// Permute evaluates an inner prox on a permuted view of its range:
// coordinate k of the inner prox reads and writes local coordinate perm[k].
type Permute[T Float] struct {
	base
	inner Prox[T]
	perm  []int

	scratchArg []T
	scratchTau []T
	scratchRes []T
}

// NewPermute wraps an inner prox with the given permutation of [0, size).
func NewPermute[T Float](inner Prox[T], perm []int) (*Permute[T], error) {
	if inner == nil || len(perm) != inner.Size() {
		return nil, ErrBadParams
	}
	seen := make([]bool, len(perm))
	for _, p := range perm {
		if p < 0 || p >= len(perm) || seen[p] {
			return nil, ErrBadParams
		}
		seen[p] = true
	}
	return &Permute[T]{
		base:  base{index: inner.Index(), size: inner.Size(), diagsteps: inner.Diagsteps()},
		inner: inner,
		perm:  perm,
	}, nil
}

func (pp *Permute[T]) Init() error {
	if err := pp.inner.Init(); err != nil {
		return err
	}
	pp.scratchArg = make([]T, pp.size)
	pp.scratchTau = make([]T, pp.size)
	pp.scratchRes = make([]T, pp.size)
	return nil
}

func (pp *Permute[T]) Release() {
	pp.inner.Release()
	pp.scratchArg = nil
	pp.scratchTau = nil
	pp.scratchRes = nil
}

func (pp *Permute[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](pp, result, arg, tauDiag, tau, invertTau)
}

func (pp *Permute[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	if pp.scratchArg == nil {
		pp.scratchArg = make([]T, pp.size)
		pp.scratchTau = make([]T, pp.size)
		pp.scratchRes = make([]T, pp.size)
	}
	for k, p := range pp.perm {
		pp.scratchArg[k] = arg[p]
		pp.scratchTau[k] = tauDiag[p]
	}
	if err := pp.inner.evalLocal(pp.scratchRes, pp.scratchArg, pp.scratchTau, tau, invertTau); err != nil {
		return err
	}
	for k, p := range pp.perm {
		result[p] = pp.scratchRes[k]
	}
	return nil
}
