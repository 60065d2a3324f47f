package algopdhg

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Result describes how a solve terminated.
type Result uint8

const (
	Converged Result = iota
	StoppedMaxIters
	StoppedUser
)

// String returns the host-visible result description.
func (r Result) String() string {
	switch r {
	case Converged:
		return "Converged."
	case StoppedMaxIters:
		return "Reached maximum iterations."
	case StoppedUser:
		return "Stopped by user."
	default:
		return "Unknown."
	}
}

// IntermCallback is invoked at scheduled iterations with the current host
// solution. Returning true stops the solve.
type IntermCallback func(iter int, x, y []float64) bool

// StoppingCallback is polled once per iteration; returning true aborts the
// solve after the in-flight iteration completes.
type StoppingCallback func() bool

// Options configure a Solver.
type Options struct {
	// MaxIters caps the number of iterations. Default 1000.
	MaxIters int

	// NumCbackCalls is the number of intermediate callback invocations,
	// spaced linearly over the iteration range. Fewer than 2 disables the
	// schedule. Default 10.
	NumCbackCalls int

	// Verbose emits one diagnostic line per callback iteration.
	Verbose bool

	// SolveDualProblem dualizes the problem before iterating and restores
	// the orientation on return.
	SolveDualProblem bool

	// X0 and Y0 warm-start the iterates when non-nil.
	X0, Y0 []float64

	// Callback is the intermediate callback, may be nil.
	Callback IntermCallback

	// Stopping is the user-interrupt poll, may be nil.
	Stopping StoppingCallback

	// Log receives diagnostics. Defaults to a discarding logger.
	Log logr.Logger
}

// DefaultOptions returns the documented option defaults.
func DefaultOptions() Options {
	return Options{
		MaxIters:      1000,
		NumCbackCalls: 10,
		Log:           logr.Discard(),
	}
}

// Solver orchestrates problem and backend initialization, the iteration
// loop, callbacks, and termination. It is used from one host thread.
type Solver[T Float] struct {
	problem *Problem[T]
	backend Backend[T]
	opts    Options

	initialized bool
}

// NewSolver creates a solver for the given problem and backend.
func NewSolver[T Float](p *Problem[T], b Backend[T], opts Options) (*Solver[T], error) {
	if p == nil || b == nil {
		return nil, fmt.Errorf("%w: nil problem or backend", ErrConfig)
	}
	if opts.MaxIters <= 0 {
		return nil, fmt.Errorf("%w: max_iters must be positive", ErrConfig)
	}
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}
	return &Solver[T]{problem: p, backend: b, opts: opts}, nil
}

// Initialize prepares the problem and backend. Failures carry context and
// leave the solver uninitialized.
func (s *Solver[T]) Initialize() error {
	if err := s.problem.Init(); err != nil {
		return fmt.Errorf("failed to initialize the problem: %w", err)
	}
	if s.opts.SolveDualProblem {
		s.problem.Dualize()
	}
	if err := s.backend.Init(s.problem, s.opts.X0, s.opts.Y0); err != nil {
		return fmt.Errorf("failed to initialize the backend: %w", err)
	}
	s.initialized = true
	return nil
}

// callbackIters returns the scheduled callback iterations: NumCbackCalls
// points spaced linearly over [0, MaxIters-1].
func (s *Solver[T]) callbackIters() map[int]bool {
	n := s.opts.NumCbackCalls
	if n < 2 {
		return nil
	}
	pts := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		pts[i*(s.opts.MaxIters-1)/(n-1)] = true
	}
	return pts
}

// Solve runs the iteration loop until convergence, the iteration cap, or a
// user stop. If the problem was dualized, the orientation is restored and
// the reported (x, y) are swapped back before returning.
func (s *Solver[T]) Solve() (Result, error) {
	if !s.initialized {
		return StoppedMaxIters, ErrInvalidState
	}

	schedule := s.callbackIters()
	result := StoppedMaxIters

	for i := 0; i < s.opts.MaxIters; i++ {
		if err := s.backend.PerformIteration(); err != nil {
			return StoppedMaxIters, err
		}

		converged := s.backend.Converged()
		stopped := s.opts.Stopping != nil && s.opts.Stopping()
		last := i == s.opts.MaxIters-1

		if schedule[i] || converged || stopped || last {
			pr, du, epsPri, epsDua := s.backend.Residuals()
			if s.opts.Verbose {
				s.opts.Log.Info("iteration",
					"n", i+1,
					"primal_res", fmt.Sprintf("%.2e", pr),
					"eps_pri", fmt.Sprintf("%.2e", epsPri),
					"dual_res", fmt.Sprintf("%.2e", du),
					"eps_dua", fmt.Sprintf("%.2e", epsDua))
			}
			if s.opts.Callback != nil {
				x, _, y, _ := s.backend.CurrentSolution()
				if s.problem.Dualized() {
					x, y = y, x
				}
				if s.opts.Callback(i+1, x, y) {
					stopped = true
				}
			}
		}

		if converged {
			result = Converged
			break
		}
		if stopped {
			result = StoppedUser
			break
		}
	}

	if s.opts.SolveDualProblem {
		s.problem.Dualize()
	}
	return result, nil
}

// Solution returns the host copies of (x, Kx, y, K'y), swapped back to the
// native orientation if the solve ran on the dual.
func (s *Solver[T]) Solution() (x, kx, y, kty []float64) {
	x, kx, y, kty = s.backend.CurrentSolution()
	if s.opts.SolveDualProblem {
		x, y = y, x
		kx, kty = kty, kx
	}
	return x, kx, y, kty
}

// Release frees device memory held by the backend and problem.
func (s *Solver[T]) Release() {
	s.backend.Release()
	s.problem.Release()
	s.initialized = false
}
