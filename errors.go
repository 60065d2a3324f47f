package algopdhg

import "errors"

// Sentinel errors returned by solver operations.
var (
	// ErrConfig is returned for malformed or inconsistent solver options.
	ErrConfig = errors.New("algopdhg: invalid configuration")

	// ErrInvalidState is returned when an operation runs before Initialize
	// or after Release.
	ErrInvalidState = errors.New("algopdhg: operation in invalid state")

	// ErrInvalidStructure is returned when the prox ranges do not partition
	// the variable vector, or the operator structure is inconsistent.
	ErrInvalidStructure = errors.New("algopdhg: invalid problem structure")

	// ErrShapeMismatch is returned on runtime dimension disagreement.
	ErrShapeMismatch = errors.New("algopdhg: shape mismatch")

	// ErrNumeric is returned when non-finite residuals are detected during
	// iteration.
	ErrNumeric = errors.New("algopdhg: non-finite residuals")
)
