package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features reports the SIMD capabilities of the host CPU. The reference
// backend surfaces them through DeviceInfo so diagnostics can tell which
// vector width the fallback kernels run at.
type Features struct {
	HasSSE2      bool
	HasAVX2      bool
	HasAVX512    bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures reports the available CPU features for the current process.
func DetectFeatures() Features {
	return Features{
		HasSSE2:      cpu.X86.HasSSE2,
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// VectorWidth returns the widest supported vector register width in bits.
func (f Features) VectorWidth() int {
	switch {
	case f.HasAVX512:
		return 512
	case f.HasAVX2:
		return 256
	case f.HasSSE2, f.HasNEON:
		return 128
	default:
		return 64
	}
}
