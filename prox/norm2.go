package prox

import "math"

// Norm2 is the grouped Euclidean prox: the range splits into count groups
// of dim coordinates, and the 1D function is applied to the Euclidean norm
// of each group, which is then rescaled radially. Coefficients index per
// group. With interleaved layout, element k of group g sits at g + k*count;
// otherwise groups are contiguous.
//
// Step sizes must be constant within a group; the first element's step is
// used for the whole group.
type Norm2[T Float] struct {
	base
	fn          Function1D
	coeffs      Coefficients
	count, dim  int
	interleaved bool
}

// NewNorm2 creates the grouped Euclidean-norm prox over count groups of
// dimension dim starting at index.
func NewNorm2[T Float](index, count, dim int, interleaved bool, fn Function1D, coeffs Coefficients) (*Norm2[T], error) {
	if index < 0 || count <= 0 || dim <= 0 || !coeffs.valid(count) {
		return nil, ErrBadParams
	}
	return &Norm2[T]{
		base:        base{index: index, size: count * dim, diagsteps: true},
		fn:          fn,
		coeffs:      coeffs,
		count:       count,
		dim:         dim,
		interleaved: interleaved,
	}, nil
}

func (n *Norm2[T]) at(g, k int) int {
	if n.interleaved {
		return g + k*n.count
	}
	return g*n.dim + k
}

func (n *Norm2[T]) Eval(result, arg, tauDiag []T, tau T, invertTau bool) error {
	return eval[T](n, result, arg, tauDiag, tau, invertTau)
}

func (n *Norm2[T]) evalLocal(result, arg, tauDiag []T, tau T, invertTau bool) error {
	c := n.coeffs
	for g := 0; g < n.count; g++ {
		s := step(tauDiag, n.at(g, 0), float64(tau), n.diagsteps, invertTau)

		a := coeff(c.A, g)
		b := coeff(c.B, g)
		cc := coeff(c.C, g)
		d := coeff(c.D, g)
		e := coeff(c.E, g)
		den := 1 + s*e

		// shift and scale each coordinate, accumulate the group norm
		var norm float64
		for k := 0; k < n.dim; k++ {
			x := (float64(arg[n.at(g, k)]) - s*d) / den
			norm += x * x
		}
		norm = math.Sqrt(norm)

		var scale float64
		if norm > 0 {
			st := cc * a * a * s / den
			res := (n.fn.Apply(a*norm+b, st, c.Alpha, c.Beta) - b) / a
			scale = res / norm
		}
		for k := 0; k < n.dim; k++ {
			idx := n.at(g, k)
			x := (float64(arg[idx]) - s*d) / den
			result[idx] = T(x * scale)
		}
	}
	return nil
}
