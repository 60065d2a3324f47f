package prox

import "math"

// Function1D identifies a scalar function phi whose proximal map the
// separable operators apply pointwise. Apply evaluates
// argmin_x phi(x) + (1/2tau)(x - x0)^2 in closed form; alpha and beta are
// function parameters (the Huber knee, for instance).
type Function1D uint8

const (
	Func1DZero Function1D = iota
	Func1DAbs
	Func1DSquare
	Func1DHuber
	Func1DL0
	Func1DIndLeq0
	Func1DIndGeq0
	Func1DIndEq0
	Func1DIndBox01
	Func1DMaxPos0
)

// ParseFunction1D maps a descriptor name to its function tag.
func ParseFunction1D(name string) (Function1D, error) {
	switch name {
	case "zero":
		return Func1DZero, nil
	case "abs":
		return Func1DAbs, nil
	case "square":
		return Func1DSquare, nil
	case "huber":
		return Func1DHuber, nil
	case "l0":
		return Func1DL0, nil
	case "ind_leq0":
		return Func1DIndLeq0, nil
	case "ind_geq0":
		return Func1DIndGeq0, nil
	case "ind_eq0":
		return Func1DIndEq0, nil
	case "ind_box01":
		return Func1DIndBox01, nil
	case "max_pos0":
		return Func1DMaxPos0, nil
	default:
		return 0, ErrUnknownFunction
	}
}

// String returns the descriptor name of the function.
func (f Function1D) String() string {
	switch f {
	case Func1DZero:
		return "zero"
	case Func1DAbs:
		return "abs"
	case Func1DSquare:
		return "square"
	case Func1DHuber:
		return "huber"
	case Func1DL0:
		return "l0"
	case Func1DIndLeq0:
		return "ind_leq0"
	case Func1DIndGeq0:
		return "ind_geq0"
	case Func1DIndEq0:
		return "ind_eq0"
	case Func1DIndBox01:
		return "ind_box01"
	case Func1DMaxPos0:
		return "max_pos0"
	default:
		return "unknown"
	}
}

// Apply evaluates the scalar prox at x0 with step tau.
func (f Function1D) Apply(x0, tau, alpha, beta float64) float64 {
	switch f {
	case Func1DZero:
		return x0

	case Func1DAbs:
		// soft thresholding
		if x0 >= tau {
			return x0 - tau
		}
		if x0 <= -tau {
			return x0 + tau
		}
		return 0

	case Func1DSquare:
		return x0 / (1 + tau)

	case Func1DHuber:
		// min_x huber_alpha(x) + (1/2tau)(x - x0)^2
		r := (x0 / tau) / (1 + alpha/tau)
		r /= math.Max(1, math.Abs(r))
		return x0 - tau*r

	case Func1DL0:
		// hard thresholding
		if x0*x0 > 2*tau {
			return x0
		}
		return 0

	case Func1DIndLeq0:
		if x0 > 0 {
			return 0
		}
		return x0

	case Func1DIndGeq0:
		if x0 < 0 {
			return 0
		}
		return x0

	case Func1DIndEq0:
		return 0

	case Func1DIndBox01:
		if x0 > 1 {
			return 1
		}
		if x0 < 0 {
			return 0
		}
		return x0

	case Func1DMaxPos0:
		if x0 > tau {
			return x0 - tau
		}
		if x0 < 0 {
			return x0
		}
		return 0

	default:
		return x0
	}
}
