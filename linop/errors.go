package linop

import "errors"

var (
	// ErrInvalidState is returned when AddBlock is called after Init, or
	// Eval before Init.
	ErrInvalidState = errors.New("algopdhg/linop: operation in invalid state")

	// ErrInvalidStructure is returned when two blocks occupy the same cell
	// or a block exceeds the operator bounds.
	ErrInvalidStructure = errors.New("algopdhg/linop: invalid block structure")

	// ErrShapeMismatch is returned when Eval input or output sizes disagree
	// with the operator dimensions.
	ErrShapeMismatch = errors.New("algopdhg/linop: shape mismatch")

	// ErrBadBlock is returned when a block is constructed from inconsistent
	// parameters.
	ErrBadBlock = errors.New("algopdhg/linop: bad block parameters")
)
