package algopdhg

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-pdhg/dev"
	"github.com/cwbudde/algo-pdhg/linop"
	"github.com/cwbudde/algo-pdhg/prox"
)

// PrecondKind selects the diagonal preconditioner construction.
type PrecondKind uint8

const (
	// PrecondOff uses identity step scalings.
	PrecondOff PrecondKind = iota
	// PrecondAlpha derives tau and sigma from |K| row/column power sums
	// with exponent alpha (alpha = 1 is the Pock-Chambolle choice).
	PrecondAlpha
)

// Problem owns the saddle-point data: the linear operator K and the prox
// lists for G (primal, over ncols coordinates) and F* (dual, over nrows
// coordinates), plus the diagonal preconditioners derived at Init.
type Problem[T Float] struct {
	k     *linop.LinearOperator[T]
	g     []prox.Prox[T]
	fstar []prox.Prox[T]

	precond PrecondKind
	alpha   float64

	tau   *dev.Vector[T]
	sigma *dev.Vector[T]

	dualized    bool
	initialized bool
}

// NewProblem creates a problem from an assembled operator and prox lists.
// The operator does not need to be initialized yet.
func NewProblem[T Float](k *linop.LinearOperator[T], g, fstar []prox.Prox[T]) *Problem[T] {
	return &Problem[T]{k: k, g: g, fstar: fstar, precond: PrecondAlpha, alpha: 1}
}

// SetPrecond configures the preconditioner construction. Must be called
// before Init.
func (p *Problem[T]) SetPrecond(kind PrecondKind, alpha float64) error {
	if p.initialized {
		return ErrInvalidState
	}
	if kind == PrecondAlpha && (alpha < 0 || alpha > 2) {
		return fmt.Errorf("%w: precond_alpha %g outside [0, 2]", ErrConfig, alpha)
	}
	p.precond = kind
	p.alpha = alpha
	return nil
}

// NRows returns the dual dimension in the problem's current orientation.
func (p *Problem[T]) NRows() int {
	if p.dualized {
		return p.k.NCols()
	}
	return p.k.NRows()
}

// NCols returns the primal dimension in the problem's current orientation.
func (p *Problem[T]) NCols() int {
	if p.dualized {
		return p.k.NRows()
	}
	return p.k.NCols()
}

// Dualized reports whether the problem is in its dual orientation.
func (p *Problem[T]) Dualized() bool { return p.dualized }

// ProxG returns the prox list acting on the primal variable in the current
// orientation.
func (p *Problem[T]) ProxG() []prox.Prox[T] { return p.g }

// ProxFstar returns the prox list acting on the dual variable in the
// current orientation.
func (p *Problem[T]) ProxFstar() []prox.Prox[T] { return p.fstar }

// TauDiag returns the primal preconditioner diagonal.
func (p *Problem[T]) TauDiag() []T { return p.tau.Data() }

// SigmaDiag returns the dual preconditioner diagonal.
func (p *Problem[T]) SigmaDiag() []T { return p.sigma.Data() }

// Operator returns the underlying linear operator.
func (p *Problem[T]) Operator() *linop.LinearOperator[T] { return p.k }

// validatePartition checks that the prox ranges cover [0, dim) exactly.
func validatePartition[T Float](proxes []prox.Prox[T], dim int, side string) error {
	sorted := make([]prox.Prox[T], len(proxes))
	copy(sorted, proxes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index() < sorted[j].Index() })
	next := 0
	for _, px := range sorted {
		if px.Index() != next {
			return fmt.Errorf("%w: %s prox ranges leave a gap or overlap at index %d",
				ErrInvalidStructure, side, next)
		}
		next += px.Size()
	}
	if next != dim {
		return fmt.Errorf("%w: %s prox ranges cover %d of %d coordinates",
			ErrInvalidStructure, side, next, dim)
	}
	return nil
}

// Init initializes the operator, validates the prox partitions, and builds
// the diagonal preconditioners from per-block sum queries.
func (p *Problem[T]) Init() error {
	if p.initialized {
		return nil
	}
	if err := p.k.Init(); err != nil {
		return err
	}
	nrows, ncols := p.k.NRows(), p.k.NCols()

	if err := validatePartition(p.g, ncols, "primal"); err != nil {
		return err
	}
	if err := validatePartition(p.fstar, nrows, "dual"); err != nil {
		return err
	}
	for _, px := range p.g {
		if err := px.Init(); err != nil {
			return err
		}
	}
	for _, px := range p.fstar {
		if err := px.Init(); err != nil {
			return err
		}
	}

	var err error
	p.tau, err = dev.NewVector[T](ncols)
	if err != nil {
		return err
	}
	p.sigma, err = dev.NewVector[T](nrows)
	if err != nil {
		return err
	}

	switch p.precond {
	case PrecondOff:
		p.tau.Fill(1)
		p.sigma.Fill(1)
	case PrecondAlpha:
		tau := p.tau.Data()
		for c := 0; c < ncols; c++ {
			s := p.k.ColSum(c, 2-p.alpha)
			if s > 0 {
				tau[c] = T(1 / s)
			} else {
				tau[c] = 1
			}
		}
		sigma := p.sigma.Data()
		for r := 0; r < nrows; r++ {
			s := p.k.RowSum(r, p.alpha)
			if s > 0 {
				sigma[r] = T(1 / s)
			} else {
				sigma[r] = 1
			}
		}
	}

	p.initialized = true
	return nil
}

// Dualize exchanges the roles of G and F*, of K and -K', and of the
// preconditioners. Applying it twice restores the original orientation.
func (p *Problem[T]) Dualize() {
	p.g, p.fstar = p.fstar, p.g
	p.tau, p.sigma = p.sigma, p.tau
	p.dualized = !p.dualized
}

// EvalK applies the forward operator of the current orientation:
// K when native, -K' when dualized.
func (p *Problem[T]) EvalK(out, in []T) error {
	if !p.initialized {
		return ErrInvalidState
	}
	if !p.dualized {
		return p.k.Eval(out, in)
	}
	if err := p.k.EvalAdjoint(out, in); err != nil {
		return err
	}
	dev.Scale(out, -1)
	return nil
}

// EvalKAdjoint applies the adjoint of the current orientation's forward
// operator.
func (p *Problem[T]) EvalKAdjoint(out, in []T) error {
	if !p.initialized {
		return ErrInvalidState
	}
	if !p.dualized {
		return p.k.EvalAdjoint(out, in)
	}
	if err := p.k.Eval(out, in); err != nil {
		return err
	}
	dev.Scale(out, -1)
	return nil
}

// Release frees device memory owned by the problem. The problem must be
// re-initialized before further use.
func (p *Problem[T]) Release() {
	if p.dualized {
		p.Dualize()
	}
	p.k.Release()
	for _, px := range p.g {
		px.Release()
	}
	for _, px := range p.fstar {
		px.Release()
	}
	if p.tau != nil {
		p.tau.Release()
	}
	if p.sigma != nil {
		p.sigma.Release()
	}
	p.initialized = false
}
