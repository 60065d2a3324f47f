package linop

import (
	"math"

	"github.com/cwbudde/algo-pdhg/dev"
)

// Diags is a banded block: band k holds the constant factor factors[k] on
// the diagonal with column offset offsets[k], i.e. M[i][i+offsets[k]] =
// factors[k] wherever that column exists. The factors live in the
// process-wide constant-memory table; dev.ResetConstMem must run between
// problem setups.
type Diags[T Float] struct {
	blockBase

	factors []float64
	offsets []int

	base        int
	initialized bool
}

// NewDiags creates an m-by-n banded block at (row, col) with one factor per
// band offset. Offsets are column minus row and may be negative.
func NewDiags[T Float](row, col, m, n int, factors []float64, offsets []int) (*Diags[T], error) {
	if m < 0 || n < 0 || len(factors) == 0 || len(factors) != len(offsets) {
		return nil, ErrBadBlock
	}
	for _, o := range offsets {
		if o <= -m || o >= n {
			return nil, ErrBadBlock
		}
	}
	return &Diags[T]{
		blockBase: newBlockBase(row, col, m, n),
		factors:   factors,
		offsets:   offsets,
	}, nil
}

// Init stores the band factors in device constant memory.
func (d *Diags[T]) Init() error {
	base, err := dev.ConstMemAlloc(d.factors, d.offsets)
	if err != nil {
		return err
	}
	d.base = base
	d.initialized = true
	return nil
}

func (d *Diags[T]) Release() {
	d.initialized = false
	d.dropSums()
}

func (d *Diags[T]) bands() ([]float64, []int, error) {
	if !d.initialized {
		return nil, nil, ErrInvalidState
	}
	return dev.ConstMemBands(d.base, len(d.factors))
}

func (d *Diags[T]) EvalAdd(out, in []T) error {
	if len(out) != d.nrows || len(in) != d.ncols {
		return ErrShapeMismatch
	}
	factors, offsets, err := d.bands()
	if err != nil {
		return err
	}
	for k, f := range factors {
		o := offsets[k]
		lo := 0
		if o < 0 {
			lo = -o
		}
		hi := d.nrows
		if d.ncols-o < hi {
			hi = d.ncols - o
		}
		fv := T(f)
		for i := lo; i < hi; i++ {
			out[i] += fv * in[i+o]
		}
	}
	return nil
}

func (d *Diags[T]) EvalAdjointAdd(out, in []T) error {
	if len(out) != d.ncols || len(in) != d.nrows {
		return ErrShapeMismatch
	}
	factors, offsets, err := d.bands()
	if err != nil {
		return err
	}
	for k, f := range factors {
		o := offsets[k]
		lo := 0
		if o < 0 {
			lo = -o
		}
		hi := d.nrows
		if d.ncols-o < hi {
			hi = d.ncols - o
		}
		fv := T(f)
		for i := lo; i < hi; i++ {
			out[i+o] += fv * in[i]
		}
	}
	return nil
}

func (d *Diags[T]) absSums(p float64) ([]float64, []float64) {
	rows := make([]float64, d.nrows)
	cols := make([]float64, d.ncols)
	for k, f := range d.factors {
		o := d.offsets[k]
		a := math.Pow(math.Abs(f), p)
		for i := 0; i < d.nrows; i++ {
			j := i + o
			if j < 0 || j >= d.ncols {
				continue
			}
			rows[i] += a
			cols[j] += a
		}
	}
	return rows, cols
}

func (d *Diags[T]) RowSum(i int, p float64) float64 {
	rs, _ := d.cachedSums(p, d.absSums)
	return rs[i]
}

func (d *Diags[T]) ColSum(j int, p float64) float64 {
	_, cs := d.cachedSums(p, d.absSums)
	return cs[j]
}
