// Package dev provides the device-array layer for algo-pdhg.
//
// It defines a backend registry that mirrors the usual GPU runtime split:
// a Backend discovers devices and creates Contexts, a Context owns the
// per-instance execution stream, and Vectors are typed contiguous device
// buffers with host transfer and elementwise kernels. A CPU-backed
// reference backend is registered by default so the solver runs everywhere;
// accelerator backends register themselves behind build tags.
package dev
