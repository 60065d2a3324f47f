package dev

import "errors"

var (
	// ErrNoBackend is returned when no device backend is registered.
	ErrNoBackend = errors.New("algopdhg/dev: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not
	// usable on the current system (no device, driver missing).
	ErrBackendUnavailable = errors.New("algopdhg/dev: backend unavailable")

	// ErrDeviceIndex is returned when a device index is out of range.
	ErrDeviceIndex = errors.New("algopdhg/dev: device index out of range")

	// ErrInvalidLength is returned for negative or otherwise invalid buffer sizes.
	ErrInvalidLength = errors.New("algopdhg/dev: invalid length")

	// ErrLengthMismatch is returned when vector operands disagree in length.
	ErrLengthMismatch = errors.New("algopdhg/dev: length mismatch")

	// ErrOutOfRange is returned when a sub-view exceeds its parent bounds.
	ErrOutOfRange = errors.New("algopdhg/dev: view out of range")

	// ErrConstMemCapacity is returned when the constant-memory factor table
	// would overflow its fixed capacity.
	ErrConstMemCapacity = errors.New("algopdhg/dev: constant memory capacity exceeded")
)
