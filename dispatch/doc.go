// Package dispatch exposes the solver to host numerical environments
// through a single command entry point.
//
// Commands receive untyped parameter dictionaries describing the linear
// operator blocks, the prox catalog, the backend, and solver options. Host
// arrays are contiguous 64-bit slices; conversion to the instantiation
// scalar type happens at this boundary. Unknown dictionary keys are
// ignored; missing required keys fail with a configuration error. Every
// failing command releases device state so the next invocation starts
// from a clean context.
package dispatch
