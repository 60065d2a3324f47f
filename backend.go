package algopdhg

// Backend drives the iterative scheme on an initialized problem. One
// backend instance belongs to one problem and one solve at a time; all
// device work of an instance is serialized on its implicit stream.
type Backend[T Float] interface {
	// Init allocates iteration state. x0 and y0 warm-start the iterates
	// when non-nil (host 64-bit arrays, converted at the boundary).
	Init(p *Problem[T], x0, y0 []float64) error

	// PerformIteration advances the scheme by one accepted step.
	PerformIteration() error

	// Residuals reports the current primal and dual residuals and their
	// tolerance thresholds.
	Residuals() (primal, dual, epsPrimal, epsDual float64)

	// Converged reports whether both residuals are below their thresholds.
	Converged() bool

	// CurrentSolution materializes (x, Kx, y, K'y) on host memory, fully
	// synchronized with the device.
	CurrentSolution() (x, kx, y, kty []float64)

	// Release frees iteration state.
	Release()
}
