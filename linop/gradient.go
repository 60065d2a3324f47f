package linop

// Gradient2D is the forward-difference gradient stencil on an nx-by-ny
// grid with Neumann boundary (the difference at the last sample of a
// direction is zero). Pixel (x, y) maps to index x + y*nx. The block maps
// N = nx*ny inputs to 2N outputs: first the x-differences, then the
// y-differences. A 1D gradient is the ny = 1 case, whose y-difference rows
// are identically zero.
//
// Row and column sums use the closed form of the stencil: an interior
// difference row holds one +1 and one -1 entry, so its |.|^p sum is 2 for
// every p; a column accumulates one entry per incident difference.
type Gradient2D[T Float] struct {
	blockBase
	nx, ny int
}

// NewGradient2D creates the gradient block at (row, col) for an nx-by-ny grid.
func NewGradient2D[T Float](row, col, nx, ny int) (*Gradient2D[T], error) {
	if nx <= 0 || ny <= 0 {
		return nil, ErrBadBlock
	}
	n := nx * ny
	return &Gradient2D[T]{blockBase: newBlockBase(row, col, 2*n, n), nx: nx, ny: ny}, nil
}

func (g *Gradient2D[T]) Init() error { return nil }
func (g *Gradient2D[T]) Release()    {}

func (g *Gradient2D[T]) EvalAdd(out, in []T) error {
	if len(out) != g.nrows || len(in) != g.ncols {
		return ErrShapeMismatch
	}
	nx, ny := g.nx, g.ny
	n := nx * ny
	for y := 0; y < ny; y++ {
		rowBase := y * nx
		for x := 0; x < nx; x++ {
			idx := rowBase + x
			if x < nx-1 {
				out[idx] += in[idx+1] - in[idx]
			}
			if y < ny-1 {
				out[n+idx] += in[idx+nx] - in[idx]
			}
		}
	}
	return nil
}

// EvalAdjointAdd accumulates the negative divergence of the dual field.
func (g *Gradient2D[T]) EvalAdjointAdd(out, in []T) error {
	if len(out) != g.ncols || len(in) != g.nrows {
		return ErrShapeMismatch
	}
	nx, ny := g.nx, g.ny
	n := nx * ny
	for y := 0; y < ny; y++ {
		rowBase := y * nx
		for x := 0; x < nx; x++ {
			idx := rowBase + x
			if x < nx-1 {
				out[idx+1] += in[idx]
				out[idx] -= in[idx]
			}
			if y < ny-1 {
				out[idx+nx] += in[n+idx]
				out[idx] -= in[n+idx]
			}
		}
	}
	return nil
}

func (g *Gradient2D[T]) RowSum(i int, p float64) float64 {
	n := g.nx * g.ny
	if i < n {
		if i%g.nx < g.nx-1 {
			return 2
		}
		return 0
	}
	if (i-n)/g.nx < g.ny-1 {
		return 2
	}
	return 0
}

func (g *Gradient2D[T]) ColSum(j int, p float64) float64 {
	x := j % g.nx
	y := j / g.nx
	var s float64
	if x < g.nx-1 {
		s++
	}
	if x > 0 {
		s++
	}
	if y < g.ny-1 {
		s++
	}
	if y > 0 {
		s++
	}
	return s
}

// Gradient3D is the forward-difference gradient on an nx-by-ny-by-nz grid
// with Neumann boundary. Voxel (x, y, z) maps to index x + y*nx + z*nx*ny;
// the block maps N = nx*ny*nz inputs to 3N outputs ordered by direction.
type Gradient3D[T Float] struct {
	blockBase
	nx, ny, nz int
}

// NewGradient3D creates the gradient block at (row, col) for the given grid.
func NewGradient3D[T Float](row, col, nx, ny, nz int) (*Gradient3D[T], error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, ErrBadBlock
	}
	n := nx * ny * nz
	return &Gradient3D[T]{blockBase: newBlockBase(row, col, 3*n, n), nx: nx, ny: ny, nz: nz}, nil
}

func (g *Gradient3D[T]) Init() error { return nil }
func (g *Gradient3D[T]) Release()    {}

func (g *Gradient3D[T]) EvalAdd(out, in []T) error {
	if len(out) != g.nrows || len(in) != g.ncols {
		return ErrShapeMismatch
	}
	nx, ny, nz := g.nx, g.ny, g.nz
	n := nx * ny * nz
	plane := nx * ny
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			rowBase := z*plane + y*nx
			for x := 0; x < nx; x++ {
				idx := rowBase + x
				if x < nx-1 {
					out[idx] += in[idx+1] - in[idx]
				}
				if y < ny-1 {
					out[n+idx] += in[idx+nx] - in[idx]
				}
				if z < nz-1 {
					out[2*n+idx] += in[idx+plane] - in[idx]
				}
			}
		}
	}
	return nil
}

func (g *Gradient3D[T]) EvalAdjointAdd(out, in []T) error {
	if len(out) != g.ncols || len(in) != g.nrows {
		return ErrShapeMismatch
	}
	nx, ny, nz := g.nx, g.ny, g.nz
	n := nx * ny * nz
	plane := nx * ny
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			rowBase := z*plane + y*nx
			for x := 0; x < nx; x++ {
				idx := rowBase + x
				if x < nx-1 {
					out[idx+1] += in[idx]
					out[idx] -= in[idx]
				}
				if y < ny-1 {
					out[idx+nx] += in[n+idx]
					out[idx] -= in[n+idx]
				}
				if z < nz-1 {
					out[idx+plane] += in[2*n+idx]
					out[idx] -= in[2*n+idx]
				}
			}
		}
	}
	return nil
}

func (g *Gradient3D[T]) RowSum(i int, p float64) float64 {
	n := g.nx * g.ny * g.nz
	plane := g.nx * g.ny
	dir := i / n
	idx := i % n
	x := idx % g.nx
	y := (idx / g.nx) % g.ny
	z := idx / plane
	switch dir {
	case 0:
		if x < g.nx-1 {
			return 2
		}
	case 1:
		if y < g.ny-1 {
			return 2
		}
	case 2:
		if z < g.nz-1 {
			return 2
		}
	}
	return 0
}

func (g *Gradient3D[T]) ColSum(j int, p float64) float64 {
	plane := g.nx * g.ny
	x := j % g.nx
	y := (j / g.nx) % g.ny
	z := j / plane
	var s float64
	if x < g.nx-1 {
		s++
	}
	if x > 0 {
		s++
	}
	if y < g.ny-1 {
		s++
	}
	if y > 0 {
		s++
	}
	if z < g.nz-1 {
		s++
	}
	if z > 0 {
		s++
	}
	return s
}
