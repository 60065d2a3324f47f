package linop

import "github.com/cwbudde/algo-pdhg/dev"

// Float is the shared scalar constraint.
type Float = dev.Float

// Block is a leaf linear map placed at (RowOffset, ColOffset) inside the
// composite operator. EvalAdd and EvalAdjointAdd accumulate into their
// output slice; the composite zeroes the output once per application.
// Row/column indices passed to RowSum and ColSum are local to the block.
type Block[T Float] interface {
	RowOffset() int
	ColOffset() int
	NRows() int
	NCols() int

	// Init moves static parameters to the device. Must be called before
	// evaluation or sum queries.
	Init() error

	// Release frees device resources held by the block.
	Release()

	// EvalAdd computes out <- out + M*in on the block-local slices.
	EvalAdd(out, in []T) error

	// EvalAdjointAdd computes out <- out + M'*in on the swapped slices.
	EvalAdjointAdd(out, in []T) error

	// RowSum returns sum_j |M_ij|^p for local row i.
	RowSum(i int, p float64) float64

	// ColSum returns sum_i |M_ij|^p for local column j.
	ColSum(j int, p float64) float64
}

// blockBase carries placement and the per-exponent sum caches shared by all
// block kinds. Sums are computed on first request for an exponent and
// cached; the host is single-threaded so no locking is needed.
type blockBase struct {
	row, col     int
	nrows, ncols int

	rowSums map[float64][]float64
	colSums map[float64][]float64
}

func newBlockBase(row, col, nrows, ncols int) blockBase {
	return blockBase{row: row, col: col, nrows: nrows, ncols: ncols}
}

func (b *blockBase) RowOffset() int { return b.row }
func (b *blockBase) ColOffset() int { return b.col }
func (b *blockBase) NRows() int     { return b.nrows }
func (b *blockBase) NCols() int     { return b.ncols }

// cachedSums returns the row and column sums for exponent p, computing them
// through the kind-specific compute function on first use.
func (b *blockBase) cachedSums(p float64, compute func(p float64) (rows, cols []float64)) ([]float64, []float64) {
	if b.rowSums == nil {
		b.rowSums = make(map[float64][]float64)
		b.colSums = make(map[float64][]float64)
	}
	if rs, ok := b.rowSums[p]; ok {
		return rs, b.colSums[p]
	}
	rs, cs := compute(p)
	b.rowSums[p] = rs
	b.colSums[p] = cs
	return rs, cs
}

func (b *blockBase) dropSums() {
	b.rowSums = nil
	b.colSums = nil
}
