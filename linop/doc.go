// Package linop implements the block-structured linear operator K of the
// saddle-point problem min_x max_y <Kx, y> + G(x) - F*(y).
//
// K is assembled from typed leaf blocks placed at (row, col) offsets.
// Each block supports forward and adjoint application that accumulates
// into its output slice, plus absolute row/column power sums used for
// preconditioner construction. The composite validates that no two blocks
// occupy the same cell, so per-block kernels never race on an output.
package linop
