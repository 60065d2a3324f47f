package algopdhg

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pdhg/dev"
)

// StepsizeRule selects the step-size scheme of the PDHG backend.
type StepsizeRule uint8

const (
	// StepsizePDHG keeps constant scalar steps with theta = 1.
	StepsizePDHG StepsizeRule = iota
	// StepsizeAlg2 accelerates under strong convexity gamma of G.
	StepsizeAlg2
	// StepsizeGoldstein backtracks on a descent inequality and cautiously
	// grows the steps when it holds with slack.
	StepsizeGoldstein
)

// AdaptRule selects the residual-balancing scheme.
type AdaptRule uint8

const (
	AdaptOff AdaptRule = iota
	// AdaptBalance periodically rescales tau against sigma, preserving
	// their product, so the residual norms track each other.
	AdaptBalance
)

// PDHGOptions tune the primal-dual backend. Zero values select the
// documented defaults.
type PDHGOptions struct {
	Stepsize StepsizeRule
	Adapt    AdaptRule

	// TolAbs and TolRel enter the residual thresholds
	// eps = TolAbs*sqrt(dim) + TolRel*|iterate|.
	TolAbs float64
	TolRel float64

	// Gamma is the strong-convexity modulus of G used by StepsizeAlg2.
	Gamma float64

	// Backtracking parameters for StepsizeGoldstein.
	BtAlpha      float64 // descent-test constant, default 0.95
	BtEta        float64 // shrink factor, default 0.75
	BtDelta      float64 // growth factor, default 1.02
	BtMaxRetries int     // bound on retries per iteration, default 10

	// Residual-balancing parameters for AdaptBalance.
	BalanceInterval int     // iterations between rescales, default 10
	BalanceRatio    float64 // tolerated residual ratio, default 5
	BalanceFactor   float64 // tau/sigma rescale factor, default 1.5
}

func (o *PDHGOptions) setDefaults() {
	if o.TolAbs == 0 {
		o.TolAbs = 1e-6
	}
	if o.TolRel == 0 {
		o.TolRel = 1e-4
	}
	if o.BtAlpha == 0 {
		o.BtAlpha = 0.95
	}
	if o.BtEta == 0 {
		o.BtEta = 0.75
	}
	if o.BtDelta == 0 {
		o.BtDelta = 1.02
	}
	if o.BtMaxRetries == 0 {
		o.BtMaxRetries = 10
	}
	if o.BalanceInterval == 0 {
		o.BalanceInterval = 10
	}
	if o.BalanceRatio == 0 {
		o.BalanceRatio = 5
	}
	if o.BalanceFactor == 0 {
		o.BalanceFactor = 1.5
	}
}

// BackendPDHG implements the preconditioned primal-dual scheme
//
//	x+ = prox_{tau G}(x - tau .* K'y)
//	xb = x+ + theta (x+ - x)
//	y+ = prox_{sigma F*}(y + sigma .* K xb)
//
// with scalar step multipliers tauScal and sigmaScal on top of the
// problem's diagonal preconditioners.
type BackendPDHG[T Float] struct {
	prob *Problem[T]
	opts PDHGOptions

	x, xNew     *dev.Vector[T]
	y, yNew     *dev.Vector[T]
	kx, kxNew   *dev.Vector[T]
	kty, ktyNew *dev.Vector[T]
	argX        *dev.Vector[T]
	argY        *dev.Vector[T]
	kxBar       *dev.Vector[T]

	tauScal   float64
	sigmaScal float64
	theta     float64

	iter      int
	primalRes float64
	dualRes   float64
	epsPri    float64
	epsDua    float64

	initialized bool
}

// NewBackendPDHG creates a PDHG backend with the given options.
func NewBackendPDHG[T Float](opts PDHGOptions) *BackendPDHG[T] {
	opts.setDefaults()
	return &BackendPDHG[T]{opts: opts}
}

func (b *BackendPDHG[T]) Init(p *Problem[T], x0, y0 []float64) error {
	ncols, nrows := p.NCols(), p.NRows()

	alloc := func(n int) *dev.Vector[T] {
		v, _ := dev.NewVector[T](n)
		return v
	}
	b.prob = p
	b.x, b.xNew, b.argX = alloc(ncols), alloc(ncols), alloc(ncols)
	b.y, b.yNew, b.argY = alloc(nrows), alloc(nrows), alloc(nrows)
	b.kx, b.kxNew, b.kxBar = alloc(nrows), alloc(nrows), alloc(nrows)
	b.kty, b.ktyNew = alloc(ncols), alloc(ncols)

	if x0 != nil {
		if len(x0) != ncols {
			return fmt.Errorf("%w: x0 has %d entries, want %d", ErrShapeMismatch, len(x0), ncols)
		}
		if err := b.x.CopyFromHost64(x0); err != nil {
			return err
		}
	}
	if y0 != nil {
		if len(y0) != nrows {
			return fmt.Errorf("%w: y0 has %d entries, want %d", ErrShapeMismatch, len(y0), nrows)
		}
		if err := b.y.CopyFromHost64(y0); err != nil {
			return err
		}
	}

	if err := p.EvalK(b.kx.Data(), b.x.Data()); err != nil {
		return err
	}
	if err := p.EvalKAdjoint(b.kty.Data(), b.y.Data()); err != nil {
		return err
	}

	b.tauScal = 1
	b.sigmaScal = 1
	b.theta = 1
	b.iter = 0
	b.primalRes = math.Inf(1)
	b.dualRes = math.Inf(1)
	b.initialized = true
	return nil
}

// attemptStep runs one tentative primal-dual step with the current scalar
// steps, filling xNew, kxNew, yNew.
func (b *BackendPDHG[T]) attemptStep() error {
	p := b.prob
	tauDiag := p.TauDiag()
	sigmaDiag := p.SigmaDiag()

	// argX = x - tauScal * tauDiag .* K'y
	x := b.x.Data()
	argX := b.argX.Data()
	kty := b.kty.Data()
	ts := T(b.tauScal)
	for i := range argX {
		argX[i] = x[i] - ts*tauDiag[i]*kty[i]
	}
	xNew := b.xNew.Data()
	for _, px := range p.ProxG() {
		if err := px.Eval(xNew, argX, tauDiag, ts, false); err != nil {
			return err
		}
	}

	if err := p.EvalK(b.kxNew.Data(), xNew); err != nil {
		return err
	}

	// kxBar = K(x+ + theta (x+ - x)) without forming xbar
	kx := b.kx.Data()
	kxNew := b.kxNew.Data()
	kxBar := b.kxBar.Data()
	th := T(b.theta)
	for i := range kxBar {
		kxBar[i] = kxNew[i] + th*(kxNew[i]-kx[i])
	}

	// argY = y + sigmaScal * sigmaDiag .* K xbar
	y := b.y.Data()
	argY := b.argY.Data()
	ss := T(b.sigmaScal)
	for i := range argY {
		argY[i] = y[i] + ss*sigmaDiag[i]*kxBar[i]
	}
	yNew := b.yNew.Data()
	for _, px := range p.ProxFstar() {
		if err := px.Eval(yNew, argY, sigmaDiag, ss, false); err != nil {
			return err
		}
	}
	return nil
}

// descentGap returns lhs/rhs of the backtracking inequality
// 2*tau*sigma*|K dx|^2 <= alpha*(|dx|^2/tau + |dy|^2/sigma).
func (b *BackendPDHG[T]) descentGap() float64 {
	x, xNew := b.x.Data(), b.xNew.Data()
	y, yNew := b.y.Data(), b.yNew.Data()
	kx, kxNew := b.kx.Data(), b.kxNew.Data()

	var dx2, dy2, kdx2 float64
	for i := range x {
		d := float64(xNew[i] - x[i])
		dx2 += d * d
	}
	for i := range y {
		d := float64(yNew[i] - y[i])
		dy2 += d * d
	}
	for i := range kx {
		d := float64(kxNew[i] - kx[i])
		kdx2 += d * d
	}
	lhs := 2 * b.tauScal * b.sigmaScal * kdx2
	rhs := b.opts.BtAlpha * (dx2/b.tauScal + dy2/b.sigmaScal)
	if rhs == 0 {
		return 0
	}
	return lhs / rhs
}

func (b *BackendPDHG[T]) PerformIteration() error {
	if !b.initialized {
		return ErrInvalidState
	}

	if err := b.attemptStep(); err != nil {
		return err
	}

	grow := false
	switch b.opts.Stepsize {
	case StepsizeGoldstein:
		for retry := 0; retry < b.opts.BtMaxRetries; retry++ {
			gap := b.descentGap()
			if gap <= 1 {
				// grow only after the accepted step's residuals are taken
				grow = gap < 0.5
				break
			}
			b.tauScal *= b.opts.BtEta
			b.sigmaScal *= b.opts.BtEta
			if err := b.attemptStep(); err != nil {
				return err
			}
		}
	}

	if err := b.prob.EvalKAdjoint(b.ktyNew.Data(), b.yNew.Data()); err != nil {
		return err
	}

	if err := b.computeResiduals(); err != nil {
		return err
	}

	switch {
	case grow:
		b.tauScal *= b.opts.BtDelta
		b.sigmaScal *= b.opts.BtDelta
	case b.opts.Stepsize == StepsizeAlg2:
		th := 1 / math.Sqrt(1+2*b.opts.Gamma*b.tauScal)
		b.theta = th
		b.tauScal *= th
		b.sigmaScal /= th
	}

	if b.opts.Adapt == AdaptBalance && b.iter > 0 && b.iter%b.opts.BalanceInterval == 0 {
		s := b.opts.BalanceFactor
		switch {
		case b.primalRes > b.opts.BalanceRatio*b.dualRes:
			// primal lags: larger tau, smaller sigma, product preserved
			b.tauScal *= s
			b.sigmaScal /= s
		case b.dualRes > b.opts.BalanceRatio*b.primalRes:
			b.tauScal /= s
			b.sigmaScal *= s
		}
	}

	b.x, b.xNew = b.xNew, b.x
	b.y, b.yNew = b.yNew, b.y
	b.kx, b.kxNew = b.kxNew, b.kx
	b.kty, b.ktyNew = b.ktyNew, b.kty
	b.iter++
	return nil
}

// computeResiduals evaluates
//
//	primal = |dx ./ tau - K' dy|_1, dual = |dy ./ sigma - K dx|_1
//
// and the tolerance thresholds of the new iterates.
func (b *BackendPDHG[T]) computeResiduals() error {
	p := b.prob
	tauDiag := p.TauDiag()
	sigmaDiag := p.SigmaDiag()
	x, xNew := b.x.Data(), b.xNew.Data()
	y, yNew := b.y.Data(), b.yNew.Data()
	kx, kxNew := b.kx.Data(), b.kxNew.Data()
	kty, ktyNew := b.kty.Data(), b.ktyNew.Data()

	var pr float64
	for i := range x {
		dx := float64(xNew[i]-x[i]) / (b.tauScal * float64(tauDiag[i]))
		kdy := float64(ktyNew[i] - kty[i])
		pr += math.Abs(dx - kdy)
	}
	var du float64
	for i := range y {
		dy := float64(yNew[i]-y[i]) / (b.sigmaScal * float64(sigmaDiag[i]))
		kdx := float64(kxNew[i] - kx[i])
		du += math.Abs(dy - kdx)
	}

	if math.IsNaN(pr) || math.IsInf(pr, 0) || math.IsNaN(du) || math.IsInf(du, 0) {
		return fmt.Errorf("%w: primal %g dual %g at iteration %d", ErrNumeric, pr, du, b.iter)
	}

	b.primalRes = pr
	b.dualRes = du
	b.epsPri = b.opts.TolAbs*math.Sqrt(float64(len(x))) + b.opts.TolRel*float64(dev.Norm2(xNew))
	b.epsDua = b.opts.TolAbs*math.Sqrt(float64(len(y))) + b.opts.TolRel*float64(dev.Norm2(yNew))
	return nil
}

func (b *BackendPDHG[T]) Residuals() (primal, dual, epsPrimal, epsDual float64) {
	return b.primalRes, b.dualRes, b.epsPri, b.epsDua
}

func (b *BackendPDHG[T]) Converged() bool {
	return b.primalRes <= b.epsPri && b.dualRes <= b.epsDua
}

func (b *BackendPDHG[T]) CurrentSolution() (x, kx, y, kty []float64) {
	return b.x.ToHost64(), b.kx.ToHost64(), b.y.ToHost64(), b.kty.ToHost64()
}

// Iteration returns the number of accepted iterations.
func (b *BackendPDHG[T]) Iteration() int { return b.iter }

func (b *BackendPDHG[T]) Release() {
	for _, v := range []*dev.Vector[T]{
		b.x, b.xNew, b.y, b.yNew, b.kx, b.kxNew, b.kty, b.ktyNew,
		b.argX, b.argY, b.kxBar,
	} {
		if v != nil {
			v.Release()
		}
	}
	b.initialized = false
}
