package prox

import (
	"math"
	"sort"
)

// IndSimplex projects each group of dim coordinates onto the probability
// simplex {x >= 0, sum x = 1}. The projection is exact up to rounding
// (sort-based): nonnegativity holds exactly and each group sums to 1 within
// floating-point error. Step sizes are irrelevant for
// indicator functions; diagsteps is true since any step yields the same
// projection.
type IndSimplex[T Float] struct {
	base
	count, dim  int
	interleaved bool

	scratch []float64
}

// NewIndSimplex creates the per-group simplex projection over count groups
// of dimension dim starting at index.
func NewIndSimplex[T Float](index, count, dim int, interleaved bool) (*IndSimplex[T], error) {
	if index < 0 || count <= 0 || dim <= 0 {
		return nil, ErrBadParams
	}
	return &IndSimplex[T]{
		base:        base{index: index, size: count * dim, diagsteps: true},
		count:       count,
		dim:         dim,
		interleaved: interleaved,
	}, nil
}

func (s *IndSimplex[T]) Init() error {
	s.scratch = make([]float64, s.dim)
	return nil
}

func (s *IndSimplex[T]) Release() {
	s.scratch = nil
}

func (s *IndSimplex[T]) at(g, k int) int {
	if s.interleaved {
		return g + k*s.count
	}
	return g*s.dim + k
}

func (s *IndSimplex[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](s, result, arg, tauDiag, tau, invertTau)
}

func (s *IndSimplex[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	if s.scratch == nil {
		s.scratch = make([]float64, s.dim)
	}
	u := s.scratch
	for g := 0; g < s.count; g++ {
		for k := 0; k < s.dim; k++ {
			u[k] = float64(arg[s.at(g, k)])
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(u)))

		// largest rho with u_rho + (1 - cumsum)/rho > 0
		var cum, theta float64
		rho := 0
		run := 0.0
		for k := 0; k < s.dim; k++ {
			run += u[k]
			t := (1 - run) / float64(k+1)
			if u[k]+t > 0 {
				rho = k + 1
				cum = run
			}
		}
		theta = (1 - cum) / float64(rho)

		for k := 0; k < s.dim; k++ {
			idx := s.at(g, k)
			result[idx] = T(math.Max(float64(arg[idx])+theta, 0))
		}
	}
	return nil
}

// IndBallL2 projects each group onto the Euclidean ball of the given
// radius centered at the origin.
type IndBallL2[T Float] struct {
	base
	count, dim  int
	interleaved bool
	radius      float64
}

// NewIndBallL2 creates the per-group L2-ball projection.
func NewIndBallL2[T Float](index, count, dim int, interleaved bool, radius float64) (*IndBallL2[T], error) {
	if index < 0 || count <= 0 || dim <= 0 || radius < 0 {
		return nil, ErrBadParams
	}
	return &IndBallL2[T]{
		base:        base{index: index, size: count * dim, diagsteps: true},
		count:       count,
		dim:         dim,
		interleaved: interleaved,
		radius:      radius,
	}, nil
}

func (b *IndBallL2[T]) at(g, k int) int {
	if b.interleaved {
		return g + k*b.count
	}
	return g*b.dim + k
}

func (b *IndBallL2[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](b, result, arg, tauDiag, tau, invertTau)
}

func (b *IndBallL2[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	for g := 0; g < b.count; g++ {
		var norm float64
		for k := 0; k < b.dim; k++ {
			x := float64(arg[b.at(g, k)])
			norm += x * x
		}
		norm = math.Sqrt(norm)
		scale := 1.0
		if norm > b.radius {
			scale = b.radius / norm
		}
		for k := 0; k < b.dim; k++ {
			idx := b.at(g, k)
			result[idx] = T(float64(arg[idx]) * scale)
		}
	}
	return nil
}
