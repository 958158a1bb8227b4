// Package imgfx applies chains of parameterized filters to raster images.
//
// # Overview
//
// A filter is described by a Kind from a closed catalogue and a Payload of
// parameter values. A FilterSpec pairs the two; a FilterChain is an ordered
// list of specs applied first to last. An Executor runs a chain over a
// Buffer using a pixel Backend, memoizing stage outputs in an optional
// cache.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/imgfx"
//	    "github.com/gogpu/imgfx/backend/software"
//	)
//
//	exec := imgfx.NewExecutor(software.New(),
//	    imgfx.WithCache(imgfx.NewBufferCache(256, 256<<20)))
//	defer exec.Close()
//
//	chain := imgfx.NewChain(
//	    imgfx.MustSpec(imgfx.KindExposure, 0.5),
//	    imgfx.MustSpec(imgfx.KindGaussianBlur, 3),
//	)
//	out, err := exec.Apply(ctx, chain, src)
//
// # Parameters
//
// Parameter values are never rejected for being out of range. Validate
// clamps every component to its declared range and rounds it to its
// declared precision, so values from continuous input such as slider drags
// are always usable. Only a payload of the wrong shape is an error.
//
// # Caching
//
// Stage outputs are keyed by CacheKey: the kind, the canonical sanitized
// payload and the identity of the stage input. The input of the first
// stage is identified by the source buffer's content fingerprint; later
// stages use the digest of the previous key, so a chain edited at stage k
// reuses the cached outputs of stages before k. Cached buffers are frozen
// and shared. Results are byte-identical with and without the cache.
//
// # Masks
//
// A Mask is a vector region built from Paths. Composite blends a filtered
// buffer over the original through the mask's anti-aliased coverage.
// Compositing with a mask and with its Inverse partitions the image
// exactly between original and filtered pixels. Executor.SubmitMasked runs
// rasterization, the chain and the composite on the executor's workers.
//
// # Memory
//
// Buffers come from an Allocator. Preflight estimates the peak memory of a
// chain and fails with *AllocationError when it exceeds a ceiling; the error
// carries the scale factor for a retry at reduced resolution.
//
// # Errors
//
// Failures are classified by sentinel errors (ErrUnsupportedKind,
// ErrInvalidPayloadShape, ErrAllocation, ErrBackend, ErrDimensionMismatch,
// ErrInvalidPath) and by the typed errors *StageError, *AllocationError
// and *DimensionError. IsRecoverable separates resource and backend failures
// from defects in the calling code.
//
// # Logging
//
// imgfx is silent by default. Use SetLogger or WithLogger to route its
// log/slog output.
package imgfx

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
