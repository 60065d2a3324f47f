package dispatch

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	algopdhg "github.com/cwbudde/algo-pdhg"
	"github.com/cwbudde/algo-pdhg/dev"
)

var (
	lifecycleMu sync.Mutex
	refCount    int

	// LogWriter receives verbose solver diagnostics.
	LogWriter io.Writer = os.Stdout
)

// SolveResult is the host-visible outcome of solve_problem.
type SolveResult struct {
	X   []float64
	KX  []float64
	Y   []float64
	KTY []float64

	Result string
}

// LinOpResult is the host-visible outcome of eval_linop.
type LinOpResult struct {
	Result  []float64
	RowSums []float64
	ColSums []float64
	TimeMS  float64
}

// ProxResult is the host-visible outcome of eval_prox.
type ProxResult struct {
	Result []float64
	TimeMS float64
}

// Invoke executes one host command. Recognized commands: init, release,
// set_gpu, list_gpus, solve_problem, eval_linop, eval_prox. Any error
// releases device state before returning so subsequent invocations start
// from a clean context.
func Invoke(command string, args ...any) (result any, err error) {
	defer func() {
		if err != nil {
			resetDevice()
		}
	}()

	switch command {
	case "init":
		lifecycleMu.Lock()
		refCount++
		lifecycleMu.Unlock()
		return nil, nil

	case "release":
		lifecycleMu.Lock()
		if refCount > 0 {
			refCount--
		}
		lifecycleMu.Unlock()
		resetDevice()
		return nil, nil

	case "set_gpu":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: set_gpu takes one argument", ErrArgCount)
		}
		id, ok := toInt(args[0])
		if !ok {
			return nil, fmt.Errorf("%w: set_gpu wants an integer id", ErrConfig)
		}
		dev.SetDevice(id)
		return nil, nil

	case "list_gpus":
		return dev.ListDevices()

	case "solve_problem":
		if len(args) != 5 {
			return nil, fmt.Errorf("%w: solve_problem takes five arguments", ErrArgCount)
		}
		problemDesc, err := toParams(args[0])
		if err != nil {
			return nil, err
		}
		nrows, ok := toInt(args[1])
		if !ok {
			return nil, fmt.Errorf("%w: nrows wants an integer", ErrConfig)
		}
		ncols, ok := toInt(args[2])
		if !ok {
			return nil, fmt.Errorf("%w: ncols wants an integer", ErrConfig)
		}
		backendDesc, err := toParams(args[3])
		if err != nil {
			return nil, err
		}
		opts, err := toParams(args[4])
		if err != nil {
			return nil, err
		}
		if opts.String("precision", "double") == "single" {
			return solveProblem[float32](problemDesc, nrows, ncols, backendDesc, opts)
		}
		return solveProblem[float64](problemDesc, nrows, ncols, backendDesc, opts)

	case "eval_linop":
		if len(args) != 3 {
			return nil, fmt.Errorf("%w: eval_linop takes three arguments", ErrArgCount)
		}
		blockList, err := toParamsList(args[0])
		if err != nil {
			return nil, err
		}
		rhs, ok := toFloats(args[1])
		if !ok {
			return nil, fmt.Errorf("%w: eval_linop wants a host vector", ErrConfig)
		}
		transpose, ok := args[2].(bool)
		if !ok {
			return nil, fmt.Errorf("%w: eval_linop wants a transpose flag", ErrConfig)
		}
		return evalLinOp(blockList, rhs, transpose)

	case "eval_prox":
		if len(args) != 4 {
			return nil, fmt.Errorf("%w: eval_prox takes four arguments", ErrArgCount)
		}
		proxDesc, err := toParams(args[0])
		if err != nil {
			return nil, err
		}
		arg, ok := toFloats(args[1])
		if !ok {
			return nil, fmt.Errorf("%w: eval_prox wants a host vector", ErrConfig)
		}
		tau, ok := toFloat(args[2])
		if !ok {
			return nil, fmt.Errorf("%w: eval_prox wants a scalar step", ErrConfig)
		}
		tauDiag, ok := toFloats(args[3])
		if !ok {
			return nil, fmt.Errorf("%w: eval_prox wants diagonal steps", ErrConfig)
		}
		return evalProx(proxDesc, arg, tau, tauDiag)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
}

func resetDevice() {
	dev.ResetConstMem()
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func toParams(v any) (Params, error) {
	switch x := v.(type) {
	case Params:
		return x, nil
	case map[string]any:
		return Params(x), nil
	default:
		return nil, fmt.Errorf("%w: expected a parameter dictionary", ErrConfig)
	}
}

func toParamsList(v any) ([]Params, error) {
	return Params{"list": v}.SubList("list")
}

func hostLogger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		fmt.Fprintln(LogWriter, args)
	}, funcr.Options{})
}

func solveProblem[T algopdhg.Float](problemDesc Params, nrows, ncols int, backendDesc, opts Params) (*SolveResult, error) {
	dev.ResetConstMem()

	problem, err := createProblem[T](problemDesc, nrows, ncols, opts)
	if err != nil {
		return nil, err
	}
	backend, err := createBackend[T](backendDesc, opts)
	if err != nil {
		return nil, err
	}

	sopts := algopdhg.DefaultOptions()
	sopts.MaxIters = opts.Int("max_iters", sopts.MaxIters)
	sopts.NumCbackCalls = opts.Int("num_cback_calls", sopts.NumCbackCalls)
	sopts.Verbose = opts.Bool("verbose", false)
	sopts.SolveDualProblem = opts.Bool("solve_dual_problem", false)
	sopts.X0 = opts.Floats("x0", nil)
	sopts.Y0 = opts.Floats("y0", nil)
	sopts.Log = hostLogger()
	if cb, ok := opts["callback"].(algopdhg.IntermCallback); ok {
		sopts.Callback = cb
	} else if cb, ok := opts["callback"].(func(int, []float64, []float64) bool); ok {
		sopts.Callback = cb
	}
	if st, ok := opts["stopping"].(algopdhg.StoppingCallback); ok {
		sopts.Stopping = st
	} else if st, ok := opts["stopping"].(func() bool); ok {
		sopts.Stopping = st
	}
	if sopts.MaxIters <= 0 {
		return nil, fmt.Errorf("%w: max_iters must be positive", ErrConfig)
	}

	solver, err := algopdhg.NewSolver[T](problem, backend, sopts)
	if err != nil {
		return nil, err
	}
	defer solver.Release()

	if sopts.Verbose {
		if info, ok := dev.CurrentBackendInfo(); ok {
			if devices, derr := dev.ListDevices(); derr == nil && len(devices) > dev.CurrentDevice() {
				d := devices[dev.CurrentDevice()]
				fmt.Fprintf(LogWriter, "algo-pdhg on %s backend, device %d: %s (%d cores)\n",
					info.Name, d.ID, d.Name, d.Cores)
			}
		}
	}

	if err := solver.Initialize(); err != nil {
		return nil, err
	}
	res, err := solver.Solve()
	if err != nil {
		return nil, err
	}
	x, kx, y, kty := solver.Solution()
	return &SolveResult{X: x, KX: kx, Y: y, KTY: kty, Result: res.String()}, nil
}

func evalLinOp(blockList []Params, rhs []float64, transpose bool) (*LinOpResult, error) {
	dev.ResetConstMem()

	k, err := createLinOp[float64](blockList)
	if err != nil {
		return nil, err
	}
	if err := k.Init(); err != nil {
		return nil, err
	}
	defer k.Release()

	var res []float64
	start := time.Now()
	if transpose {
		if len(rhs) != k.NRows() {
			return nil, fmt.Errorf("%w: rhs has %d entries, want %d", ErrConfig, len(rhs), k.NRows())
		}
		res = make([]float64, k.NCols())
		err = k.EvalAdjoint(res, rhs)
	} else {
		if len(rhs) != k.NCols() {
			return nil, fmt.Errorf("%w: rhs has %d entries, want %d", ErrConfig, len(rhs), k.NCols())
		}
		res = make([]float64, k.NRows())
		err = k.Eval(res, rhs)
	}
	if err != nil {
		return nil, err
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1e3

	rowSums := make([]float64, k.NRows())
	for r := range rowSums {
		rowSums[r] = k.RowSum(r, 1)
	}
	colSums := make([]float64, k.NCols())
	for c := range colSums {
		colSums[c] = k.ColSum(c, 1)
	}
	return &LinOpResult{Result: res, RowSums: rowSums, ColSums: colSums, TimeMS: elapsed}, nil
}

func evalProx(proxDesc Params, arg []float64, tau float64, tauDiag []float64) (*ProxResult, error) {
	p, err := createProx[float64](proxDesc)
	if err != nil {
		return nil, err
	}
	if err := p.Init(); err != nil {
		return nil, err
	}
	defer p.Release()

	n := len(arg)
	if p.Index() != 0 || p.Size() != n {
		return nil, fmt.Errorf("%w: prox covers [%d, %d), input has %d entries",
			ErrConfig, p.Index(), p.Index()+p.Size(), n)
	}
	if len(tauDiag) != n {
		return nil, fmt.Errorf("%w: tau_diag has %d entries, want %d", ErrConfig, len(tauDiag), n)
	}

	result := make([]float64, n)
	start := time.Now()
	if err := p.Eval(result, arg, tauDiag, tau, false); err != nil {
		return nil, err
	}
	elapsed := float64(time.Since(start).Microseconds()) / 1e3
	return &ProxResult{Result: result, TimeMS: elapsed}, nil
}

// LifecycleCount reports the current init refcount, for host bindings that
// need to decide whether to unload.
func LifecycleCount() int {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()
	return refCount
}
