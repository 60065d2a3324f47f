package algopdhg

import "github.com/cwbudde/algo-pdhg/internal/fptypes"

// Float is the type constraint for scalar types supported by the solver.
// The canonical definition is in internal/fptypes.
type Float = fptypes.Float
