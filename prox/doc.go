// Package prox implements the proximal-operator catalog of algo-pdhg.
//
// A Prox evaluates (I + s df)^-1 over a contiguous index range of the
// primal or dual vector, with a scalar step size, optionally modulated by
// per-coordinate diagonal steps and optionally inverted. Leaf operators
// are pointwise 1D maps or small-group reductions; wrappers compose an
// inner prox through the Moreau identity, an index permutation, or an
// affine transform of the function. The catalog is closed: the interface
// carries an unexported method so all kinds live in this package.
package prox
