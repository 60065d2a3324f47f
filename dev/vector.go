package dev

// Vector is a typed contiguous device buffer. Its length is fixed at
// allocation. All mutation goes through the owning component; sub-views
// alias the parent storage and never copy.
type Vector[T Float] struct {
	data []T
}

// NewVector allocates a device vector of length n, zero-filled.
func NewVector[T Float](n int) (*Vector[T], error) {
	if n < 0 {
		return nil, ErrInvalidLength
	}
	return &Vector[T]{data: make([]T, n)}, nil
}

// FromHost allocates a device vector holding a copy of src.
func FromHost[T Float](src []T) *Vector[T] {
	v := &Vector[T]{data: make([]T, len(src))}
	copy(v.data, src)
	return v
}

// FromHost64 allocates a device vector from a 64-bit host array, converting
// at the host-device boundary.
func FromHost64[T Float](src []float64) *Vector[T] {
	v := &Vector[T]{data: make([]T, len(src))}
	for i, x := range src {
		v.data[i] = T(x)
	}
	return v
}

// Len returns the vector length.
func (v *Vector[T]) Len() int {
	if v == nil {
		return 0
	}
	return len(v.data)
}

// Precision reports the scalar precision of the vector.
func (v *Vector[T]) Precision() PrecisionKind {
	var zero T
	if _, ok := any(zero).(float64); ok {
		return PrecisionFloat64
	}
	return PrecisionFloat32
}

// Fill sets every element to val.
func (v *Vector[T]) Fill(val T) {
	for i := range v.data {
		v.data[i] = val
	}
}

// Data returns the full aliasing view of the vector.
func (v *Vector[T]) Data() []T {
	return v.data
}

// Sub returns an aliasing view of [begin, end).
func (v *Vector[T]) Sub(begin, end int) ([]T, error) {
	if begin < 0 || end < begin || end > len(v.data) {
		return nil, ErrOutOfRange
	}
	return v.data[begin:end], nil
}

// CopyFromHost copies src into the vector.
func (v *Vector[T]) CopyFromHost(src []T) error {
	if len(src) != len(v.data) {
		return ErrLengthMismatch
	}
	copy(v.data, src)
	return nil
}

// CopyFromHost64 copies a 64-bit host array into the vector, converting
// elementwise.
func (v *Vector[T]) CopyFromHost64(src []float64) error {
	if len(src) != len(v.data) {
		return ErrLengthMismatch
	}
	for i, x := range src {
		v.data[i] = T(x)
	}
	return nil
}

// CopyToHost copies the vector into dst.
func (v *Vector[T]) CopyToHost(dst []T) error {
	if len(dst) != len(v.data) {
		return ErrLengthMismatch
	}
	copy(dst, v.data)
	return nil
}

// ToHost64 materializes the vector as a 64-bit host array.
func (v *Vector[T]) ToHost64() []float64 {
	out := make([]float64, len(v.data))
	for i, x := range v.data {
		out[i] = float64(x)
	}
	return out
}

// Clone allocates a device copy of the vector.
func (v *Vector[T]) Clone() *Vector[T] {
	return FromHost(v.data)
}

// Release frees the device allocation. The vector must not be used after.
func (v *Vector[T]) Release() {
	v.data = nil
}
