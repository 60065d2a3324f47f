package dev

import "github.com/cwbudde/algo-pdhg/internal/fptypes"

// Float is the shared scalar constraint used across the solver stack.
type Float = fptypes.Float

// PrecisionKind describes the scalar precision of a device buffer.
type PrecisionKind uint8

const (
	PrecisionFloat32 PrecisionKind = iota
	PrecisionFloat64
)

// String returns a human-readable name for the precision.
func (p PrecisionKind) String() string {
	switch p {
	case PrecisionFloat32:
		return "float32"
	case PrecisionFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// DeviceInfo describes a compute device visible to a backend.
type DeviceInfo struct {
	ID          int
	Name        string
	Vendor      string
	Driver      string
	MemoryBytes uint64
	Cores       int
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}
