package dev

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-pdhg/internal/cpu"
)

func init() {
	// The reference backend is always usable, so it doubles as the default.
	// Accelerator backends replace it via RegisterBackend.
	RegisterBackend(NewCPUBackend())
}

// CPUBackend is the host-memory reference backend. It satisfies the backend
// interfaces but executes all kernels on the CPU, which keeps the solver
// runnable on machines without an accelerator and anchors the test suite.
type CPUBackend struct {
	device DeviceInfo
}

// NewCPUBackend returns a reference backend exposing a single device that
// describes the host CPU.
func NewCPUBackend() *CPUBackend {
	features := cpu.DetectFeatures()
	return &CPUBackend{
		device: DeviceInfo{
			ID:     0,
			Name:   fmt.Sprintf("CPU reference (%s, %d-bit vectors)", features.Architecture, features.VectorWidth()),
			Vendor: "algo-pdhg",
			Driver: "host",
			Cores:  runtime.NumCPU(),
		},
	}
}

func (b *CPUBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "cpu",
		Version:     "1.0",
		Description: "host-memory reference backend",
	}
}

func (b *CPUBackend) Available() bool {
	return true
}

func (b *CPUBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.device}, nil
}

func (b *CPUBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("%w: %d", ErrDeviceIndex, deviceIndex)
	}
	return &cpuContext{device: b.device}, nil
}

type cpuContext struct {
	device DeviceInfo
}

func (c *cpuContext) Device() DeviceInfo {
	return c.device
}

// Synchronize is a no-op: host kernels complete before returning.
func (c *cpuContext) Synchronize() error {
	return nil
}

func (c *cpuContext) Reset() error {
	ResetConstMem()
	return nil
}

func (c *cpuContext) Close() error {
	return nil
}
