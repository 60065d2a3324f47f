package linop

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Dense is a dense block backed by a gonum matrix on the host. Init moves
// the entries to device precision in row-major order.
type Dense[T Float] struct {
	blockBase

	m *mat.Dense

	dvals []T
}

// NewDense creates a dense block at (row, col) from the given matrix.
func NewDense[T Float](row, col int, a *mat.Dense) (*Dense[T], error) {
	if a == nil {
		return nil, ErrBadBlock
	}
	r, c := a.Dims()
	return &Dense[T]{blockBase: newBlockBase(row, col, r, c), m: a}, nil
}

// NewDenseColMajor creates a dense block from a contiguous column-major
// host array, the layout used by the host array protocol.
func NewDenseColMajor[T Float](row, col, m, n int, vals []float64) (*Dense[T], error) {
	if len(vals) != m*n {
		return nil, ErrBadBlock
	}
	a := mat.NewDense(m, n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			a.Set(i, j, vals[j*m+i])
		}
	}
	return NewDense[T](row, col, a)
}

func (d *Dense[T]) Init() error {
	d.dvals = make([]T, d.nrows*d.ncols)
	for i := 0; i < d.nrows; i++ {
		for j := 0; j < d.ncols; j++ {
			d.dvals[i*d.ncols+j] = T(d.m.At(i, j))
		}
	}
	return nil
}

func (d *Dense[T]) Release() {
	d.dvals = nil
	d.dropSums()
}

func (d *Dense[T]) EvalAdd(out, in []T) error {
	if len(out) != d.nrows || len(in) != d.ncols {
		return ErrShapeMismatch
	}
	if d.dvals == nil {
		return ErrInvalidState
	}
	for i := 0; i < d.nrows; i++ {
		rowBase := i * d.ncols
		var acc T
		for j := 0; j < d.ncols; j++ {
			acc += d.dvals[rowBase+j] * in[j]
		}
		out[i] += acc
	}
	return nil
}

func (d *Dense[T]) EvalAdjointAdd(out, in []T) error {
	if len(out) != d.ncols || len(in) != d.nrows {
		return ErrShapeMismatch
	}
	if d.dvals == nil {
		return ErrInvalidState
	}
	for i := 0; i < d.nrows; i++ {
		rowBase := i * d.ncols
		v := in[i]
		for j := 0; j < d.ncols; j++ {
			out[j] += d.dvals[rowBase+j] * v
		}
	}
	return nil
}

func (d *Dense[T]) absSums(p float64) ([]float64, []float64) {
	rows := make([]float64, d.nrows)
	cols := make([]float64, d.ncols)
	for i := 0; i < d.nrows; i++ {
		for j := 0; j < d.ncols; j++ {
			a := math.Pow(math.Abs(d.m.At(i, j)), p)
			rows[i] += a
			cols[j] += a
		}
	}
	return rows, cols
}

func (d *Dense[T]) RowSum(i int, p float64) float64 {
	rs, _ := d.cachedSums(p, d.absSums)
	return rs[i]
}

func (d *Dense[T]) ColSum(j int, p float64) float64 {
	_, cs := d.cachedSums(p, d.absSums)
	return cs[j]
}
