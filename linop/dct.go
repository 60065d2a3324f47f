package linop

import "math"

// TransformKind selects the trigonometric transform a Transform block applies.
type TransformKind uint8

const (
	// TransformDCT is the orthonormal DCT-II.
	TransformDCT TransformKind = iota
	// TransformDST is the orthonormal DST-I.
	TransformDST
)

// Transform is a square n-by-n orthonormal trigonometric transform block.
// The matrix is materialized at Init; for the sizes these blocks appear at
// in dataterm prefactoring the quadratic storage is cheaper than repeated
// trigonometric evaluation, and the sum queries read the same table.
type Transform[T Float] struct {
	blockBase
	kind TransformKind

	tbl []T
}

// NewTransform creates an n-by-n transform block at (row, col).
func NewTransform[T Float](row, col, n int, kind TransformKind) (*Transform[T], error) {
	if n <= 0 {
		return nil, ErrBadBlock
	}
	if kind != TransformDCT && kind != TransformDST {
		return nil, ErrBadBlock
	}
	return &Transform[T]{blockBase: newBlockBase(row, col, n, n), kind: kind}, nil
}

func (t *Transform[T]) entry(k, i int) float64 {
	n := float64(t.ncols)
	switch t.kind {
	case TransformDCT:
		v := math.Sqrt(2/n) * math.Cos(math.Pi*(2*float64(i)+1)*float64(k)/(2*n))
		if k == 0 {
			v /= math.Sqrt2
		}
		return v
	default:
		return math.Sqrt(2/(n+1)) * math.Sin(math.Pi*float64(k+1)*float64(i+1)/(n+1))
	}
}

func (t *Transform[T]) Init() error {
	n := t.ncols
	t.tbl = make([]T, n*n)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			t.tbl[k*n+i] = T(t.entry(k, i))
		}
	}
	return nil
}

func (t *Transform[T]) Release() {
	t.tbl = nil
	t.dropSums()
}

func (t *Transform[T]) EvalAdd(out, in []T) error {
	if len(out) != t.nrows || len(in) != t.ncols {
		return ErrShapeMismatch
	}
	if t.tbl == nil {
		return ErrInvalidState
	}
	n := t.ncols
	for k := 0; k < n; k++ {
		var acc T
		base := k * n
		for i := 0; i < n; i++ {
			acc += t.tbl[base+i] * in[i]
		}
		out[k] += acc
	}
	return nil
}

func (t *Transform[T]) EvalAdjointAdd(out, in []T) error {
	if len(out) != t.ncols || len(in) != t.nrows {
		return ErrShapeMismatch
	}
	if t.tbl == nil {
		return ErrInvalidState
	}
	n := t.ncols
	for k := 0; k < n; k++ {
		base := k * n
		v := in[k]
		for i := 0; i < n; i++ {
			out[i] += t.tbl[base+i] * v
		}
	}
	return nil
}

func (t *Transform[T]) absSums(p float64) ([]float64, []float64) {
	n := t.ncols
	rows := make([]float64, n)
	cols := make([]float64, n)
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			a := math.Pow(math.Abs(t.entry(k, i)), p)
			rows[k] += a
			cols[i] += a
		}
	}
	return rows, cols
}

func (t *Transform[T]) RowSum(i int, p float64) float64 {
	rs, _ := t.cachedSums(p, t.absSums)
	return rs[i]
}

func (t *Transform[T]) ColSum(j int, p float64) float64 {
	_, cs := t.cachedSums(p, t.absSums)
	return cs[j]
}
