package prox

import "errors"

var (
	// ErrShapeMismatch is returned when Eval arguments disagree with the
	// full variable length or the prox range exceeds it.
	ErrShapeMismatch = errors.New("algopdhg/prox: shape mismatch")

	// ErrBadParams is returned when a prox is constructed from inconsistent
	// parameters.
	ErrBadParams = errors.New("algopdhg/prox: bad parameters")

	// ErrUnknownFunction is returned for an unrecognized 1D function name.
	ErrUnknownFunction = errors.New("algopdhg/prox: unknown 1d function")

	// ErrDiagSteps names the condition of per-coordinate step sizes reaching
	// a prox that cannot honor them. No prox in this package returns it: a
	// prox whose Diagsteps is false ignores tauDiag and uses the scalar step.
	ErrDiagSteps = errors.New("algopdhg/prox: prox does not support diagonal step sizes")
)
