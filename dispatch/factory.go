package dispatch

import (
	"fmt"

	algopdhg "github.com/cwbudde/algo-pdhg"
	"github.com/cwbudde/algo-pdhg/linop"
	"github.com/cwbudde/algo-pdhg/prox"
)

// createBlock builds one block from its descriptor.
func createBlock[T algopdhg.Float](desc Params) (linop.Block[T], error) {
	kind, err := desc.RequiredString("kind")
	if err != nil {
		return nil, err
	}
	row, err := desc.RequiredInt("row")
	if err != nil {
		return nil, err
	}
	col, err := desc.RequiredInt("col")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "zero":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		return linop.NewZero[T](row, col, m, n)

	case "identity":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		return linop.NewIdentity[T](row, col, m, n, desc.Float("scale", 1))

	case "sparse":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		rowPtr, err := desc.RequiredInts("row_ptr")
		if err != nil {
			return nil, err
		}
		colInd, err := desc.RequiredInts("col_ind")
		if err != nil {
			return nil, err
		}
		vals, err := desc.RequiredFloats("vals")
		if err != nil {
			return nil, err
		}
		return linop.NewSparseCSR[T](row, col, m, n, rowPtr, colInd, vals)

	case "sparse_kron_id":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		rowPtr, err := desc.RequiredInts("row_ptr")
		if err != nil {
			return nil, err
		}
		colInd, err := desc.RequiredInts("col_ind")
		if err != nil {
			return nil, err
		}
		vals, err := desc.RequiredFloats("vals")
		if err != nil {
			return nil, err
		}
		d, err := desc.RequiredInt("diaglength")
		if err != nil {
			return nil, err
		}
		seed, err := linop.NewSparseCSR[T](0, 0, m, n, rowPtr, colInd, vals)
		if err != nil {
			return nil, err
		}
		return linop.NewSparseKronID[T](row, col, seed, d)

	case "dense":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		vals, err := desc.RequiredFloats("vals")
		if err != nil {
			return nil, err
		}
		return linop.NewDenseColMajor[T](row, col, m, n, vals)

	case "diags":
		m, err := desc.RequiredInt("nrows")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("ncols")
		if err != nil {
			return nil, err
		}
		factors, err := desc.RequiredFloats("factors")
		if err != nil {
			return nil, err
		}
		offsets, err := desc.RequiredInts("offsets")
		if err != nil {
			return nil, err
		}
		return linop.NewDiags[T](row, col, m, n, factors, offsets)

	case "gradient2d":
		nx, err := desc.RequiredInt("nx")
		if err != nil {
			return nil, err
		}
		ny, err := desc.RequiredInt("ny")
		if err != nil {
			return nil, err
		}
		return linop.NewGradient2D[T](row, col, nx, ny)

	case "gradient3d":
		nx, err := desc.RequiredInt("nx")
		if err != nil {
			return nil, err
		}
		ny, err := desc.RequiredInt("ny")
		if err != nil {
			return nil, err
		}
		nz, err := desc.RequiredInt("nz")
		if err != nil {
			return nil, err
		}
		return linop.NewGradient3D[T](row, col, nx, ny, nz)

	case "dct", "dst":
		n, err := desc.RequiredInt("n")
		if err != nil {
			return nil, err
		}
		tk := linop.TransformDCT
		if kind == "dst" {
			tk = linop.TransformDST
		}
		return linop.NewTransform[T](row, col, n, tk)

	default:
		return nil, fmt.Errorf("%w: unknown block kind %q", ErrConfig, kind)
	}
}

// createLinOp assembles the composite operator from a block list.
func createLinOp[T algopdhg.Float](blocks []Params) (*linop.LinearOperator[T], error) {
	k := linop.New[T]()
	for i, desc := range blocks {
		b, err := createBlock[T](desc)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if err := k.AddBlock(b); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func readCoefficients(desc Params, size int) (prox.Coefficients, error) {
	c := prox.DefaultCoefficients()
	c.A = desc.Floats("a", c.A)
	c.B = desc.Floats("b", c.B)
	c.C = desc.Floats("c", c.C)
	c.D = desc.Floats("d", c.D)
	c.E = desc.Floats("e", c.E)
	c.Alpha = desc.Float("alpha", 0)
	c.Beta = desc.Float("beta", 0)
	return c, nil
}

// createProx builds one prox operator, recursing into wrapper descriptors.
func createProx[T algopdhg.Float](desc Params) (prox.Prox[T], error) {
	kind, err := desc.RequiredString("kind")
	if err != nil {
		return nil, err
	}

	switch kind {
	case "separable":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		size, err := desc.RequiredInt("size")
		if err != nil {
			return nil, err
		}
		name, err := desc.RequiredString("fn")
		if err != nil {
			return nil, err
		}
		fn, err := prox.ParseFunction1D(name)
		if err != nil {
			return nil, err
		}
		coeffs, err := readCoefficients(desc, size)
		if err != nil {
			return nil, err
		}
		return prox.NewSeparable1D[T](index, size, fn, coeffs)

	case "norm2":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		count, err := desc.RequiredInt("count")
		if err != nil {
			return nil, err
		}
		dim, err := desc.RequiredInt("dim")
		if err != nil {
			return nil, err
		}
		name, err := desc.RequiredString("fn")
		if err != nil {
			return nil, err
		}
		fn, err := prox.ParseFunction1D(name)
		if err != nil {
			return nil, err
		}
		coeffs, err := readCoefficients(desc, count)
		if err != nil {
			return nil, err
		}
		return prox.NewNorm2[T](index, count, dim, desc.Bool("interleaved", false), fn, coeffs)

	case "ind_simplex":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		count, err := desc.RequiredInt("count")
		if err != nil {
			return nil, err
		}
		dim, err := desc.RequiredInt("dim")
		if err != nil {
			return nil, err
		}
		return prox.NewIndSimplex[T](index, count, dim, desc.Bool("interleaved", false))

	case "ind_ball_l2":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		count, err := desc.RequiredInt("count")
		if err != nil {
			return nil, err
		}
		dim, err := desc.RequiredInt("dim")
		if err != nil {
			return nil, err
		}
		radius, err := desc.RequiredFloat("radius")
		if err != nil {
			return nil, err
		}
		return prox.NewIndBallL2[T](index, count, dim, desc.Bool("interleaved", false), radius)

	case "quad_diag":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		size, err := desc.RequiredInt("size")
		if err != nil {
			return nil, err
		}
		w, err := desc.RequiredFloats("w")
		if err != nil {
			return nil, err
		}
		a, err := desc.RequiredFloats("center")
		if err != nil {
			return nil, err
		}
		return prox.NewQuadDiag[T](index, size, w, a)

	case "singular_values":
		index, err := desc.RequiredInt("index")
		if err != nil {
			return nil, err
		}
		count, err := desc.RequiredInt("count")
		if err != nil {
			return nil, err
		}
		m, err := desc.RequiredInt("m")
		if err != nil {
			return nil, err
		}
		n, err := desc.RequiredInt("n")
		if err != nil {
			return nil, err
		}
		name, err := desc.RequiredString("fn")
		if err != nil {
			return nil, err
		}
		fn, err := prox.ParseFunction1D(name)
		if err != nil {
			return nil, err
		}
		coeffs, err := readCoefficients(desc, count)
		if err != nil {
			return nil, err
		}
		return prox.NewSingularValues[T](index, count, m, n, fn, coeffs)

	case "moreau":
		innerDesc, err := desc.Sub("inner")
		if err != nil {
			return nil, err
		}
		inner, err := createProx[T](innerDesc)
		if err != nil {
			return nil, err
		}
		return prox.NewMoreau[T](inner)

	case "permute":
		innerDesc, err := desc.Sub("inner")
		if err != nil {
			return nil, err
		}
		inner, err := createProx[T](innerDesc)
		if err != nil {
			return nil, err
		}
		perm, err := desc.RequiredInts("perm")
		if err != nil {
			return nil, err
		}
		return prox.NewPermute[T](inner, perm)

	case "transform":
		innerDesc, err := desc.Sub("inner")
		if err != nil {
			return nil, err
		}
		inner, err := createProx[T](innerDesc)
		if err != nil {
			return nil, err
		}
		return prox.NewAffineTransform[T](inner,
			desc.Float("a", 1), desc.Float("b", 0), desc.Float("c", 1),
			desc.Float("d", 0), desc.Float("e", 0))

	default:
		return nil, fmt.Errorf("%w: unknown prox kind %q", ErrConfig, kind)
	}
}

func createProxList[T algopdhg.Float](descs []Params) ([]prox.Prox[T], error) {
	out := make([]prox.Prox[T], 0, len(descs))
	for i, d := range descs {
		p, err := createProx[T](d)
		if err != nil {
			return nil, fmt.Errorf("prox %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// createProblem builds a problem from its descriptor and checks the
// declared dimensions.
func createProblem[T algopdhg.Float](desc Params, nrows, ncols int, opts Params) (*algopdhg.Problem[T], error) {
	blocks, err := desc.SubList("linop")
	if err != nil {
		return nil, err
	}
	k, err := createLinOp[T](blocks)
	if err != nil {
		return nil, err
	}
	if k.NRows() != nrows || k.NCols() != ncols {
		return nil, fmt.Errorf("%w: operator is %dx%d, declared %dx%d",
			ErrConfig, k.NRows(), k.NCols(), nrows, ncols)
	}
	gDescs, err := desc.SubList("prox_g")
	if err != nil {
		return nil, err
	}
	g, err := createProxList[T](gDescs)
	if err != nil {
		return nil, err
	}
	fDescs, err := desc.SubList("prox_fstar")
	if err != nil {
		return nil, err
	}
	fstar, err := createProxList[T](fDescs)
	if err != nil {
		return nil, err
	}

	p := algopdhg.NewProblem[T](k, g, fstar)
	precond := algopdhg.PrecondAlpha
	if opts.String("precond", "alpha") == "off" {
		precond = algopdhg.PrecondOff
	}
	if err := p.SetPrecond(precond, opts.Float("precond_alpha", 1)); err != nil {
		return nil, err
	}
	return p, nil
}

// createBackend builds the iteration backend from its descriptor merged
// with the solver options (the options table carries stepsize and adapt).
func createBackend[T algopdhg.Float](desc, opts Params) (algopdhg.Backend[T], error) {
	kind := desc.String("kind", "pdhg")
	if kind != "pdhg" {
		return nil, fmt.Errorf("%w: unknown backend kind %q", ErrConfig, kind)
	}

	po := algopdhg.PDHGOptions{
		TolAbs: opts.Float("tol_abs", 0),
		TolRel: opts.Float("tol_rel", 0),
		Gamma:  desc.Float("gamma", 0),

		BtAlpha:      desc.Float("bt_alpha", 0),
		BtEta:        desc.Float("bt_eta", 0),
		BtDelta:      desc.Float("bt_delta", 0),
		BtMaxRetries: desc.Int("bt_max_retries", 0),

		BalanceInterval: desc.Int("balance_interval", 0),
		BalanceRatio:    desc.Float("balance_ratio", 0),
		BalanceFactor:   desc.Float("balance_factor", 0),
	}

	switch opts.String("stepsize", desc.String("stepsize", "pdhg")) {
	case "pdhg":
		po.Stepsize = algopdhg.StepsizePDHG
	case "alg2":
		po.Stepsize = algopdhg.StepsizeAlg2
	case "goldstein":
		po.Stepsize = algopdhg.StepsizeGoldstein
	default:
		return nil, fmt.Errorf("%w: unknown stepsize rule", ErrConfig)
	}

	switch opts.String("adapt", desc.String("adapt", "off")) {
	case "off":
		po.Adapt = algopdhg.AdaptOff
	case "balance":
		po.Adapt = algopdhg.AdaptBalance
	default:
		return nil, fmt.Errorf("%w: unknown adapt rule", ErrConfig)
	}

	return algopdhg.NewBackendPDHG[T](po), nil
}
