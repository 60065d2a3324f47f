package dev

import "sync"

// The banded-diagonal block keeps its per-band factors and offsets in a
// small fixed-capacity table that models device constant memory. The table
// is a process-wide resource shared by all diagonal blocks; ResetConstMem
// must run before each problem setup so factors from a previous instance
// cannot leak into the next.

// ConstMemCapacity is the maximum number of band factors the table holds
// across all live diagonal blocks.
const ConstMemCapacity = 1024

var (
	constMu      sync.Mutex
	constFactors [ConstMemCapacity]float64
	constOffsets [ConstMemCapacity]int
	constUsed    int
)

// ConstMemAlloc appends nd band factors and offsets to the constant-memory
// table and returns the table offset of the first entry.
func ConstMemAlloc(factors []float64, offsets []int) (int, error) {
	if len(factors) != len(offsets) {
		return 0, ErrLengthMismatch
	}
	constMu.Lock()
	defer constMu.Unlock()
	if constUsed+len(factors) > ConstMemCapacity {
		return 0, ErrConstMemCapacity
	}
	base := constUsed
	copy(constFactors[base:], factors)
	copy(constOffsets[base:], offsets)
	constUsed += len(factors)
	return base, nil
}

// ConstMemBands returns aliasing views of the nd factors and offsets stored
// at table offset base.
func ConstMemBands(base, nd int) ([]float64, []int, error) {
	constMu.Lock()
	defer constMu.Unlock()
	if base < 0 || nd < 0 || base+nd > constUsed {
		return nil, nil, ErrOutOfRange
	}
	return constFactors[base : base+nd], constOffsets[base : base+nd], nil
}

// ResetConstMem clears the constant-memory table. Diagonal blocks
// initialized before the reset must not be evaluated afterwards.
func ResetConstMem() {
	constMu.Lock()
	constUsed = 0
	constMu.Unlock()
}

// ConstMemUsed reports the number of occupied table entries.
func ConstMemUsed() int {
	constMu.Lock()
	defer constMu.Unlock()
	return constUsed
}
