package imgfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/imgfx/cache"
	"github.com/gogpu/imgfx/internal/metrics"
	"github.com/gogpu/imgfx/internal/parallel"
)

// Backend performs the pixel transformation of one stage. Implementations
// must be deterministic: equal inputs give byte-identical outputs.
type Backend interface {
	// Supports reports whether kind has a registered transformation.
	Supports(kind Kind) bool

	// Transform writes the result of applying spec to src into dst. dst
	// has the dimensions and format of src. spec is already sanitized.
	// Returning an error wrapping ErrUnsupportedKind marks a catalogue
	// defect; any other error is a recoverable backend failure.
	Transform(ctx context.Context, spec FilterSpec, src, dst *Buffer) error
}

// Cache memoizes stage outputs. Buffers stored in a Cache are frozen.
type Cache interface {
	Get(key CacheKey) (*Buffer, bool)
	Put(key CacheKey, b *Buffer) bool
	Invalidate(pred func(CacheKey) bool) int
}

// NewBufferCache returns an LRU for stage outputs bounded by entry count
// and total pixel bytes. Either bound may be zero to disable it.
func NewBufferCache(maxEntries int, maxBytes int64) *cache.LRU[CacheKey, *Buffer] {
	return cache.NewLRU(cache.Config[CacheKey, *Buffer]{
		MaxEntries: maxEntries,
		MaxBytes:   maxBytes,
		SizeOf:     func(b *Buffer) int64 { return b.Bytes() },
	})
}

// Executor applies filter chains to buffers.
//
// An Executor is safe for concurrent use. Concurrent requests for the same
// stage key share one computation.
type Executor struct {
	backend Backend
	alloc   Allocator
	cache   Cache
	ceiling int64
	log     *slog.Logger

	flight singleflight.Group

	jobWorkers int
	poolOnce   sync.Once
	pool       *parallel.WorkerPool
}

// NewExecutor creates an executor backed by backend. Host resources such as
// the allocator and the cache are passed explicitly through options.
func NewExecutor(backend Backend, opts ...ExecutorOption) *Executor {
	if backend == nil {
		panic("imgfx: nil backend")
	}
	e := &Executor{
		backend: backend,
		alloc:   NewPool(4, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = Logger()
	}
	return e
}

// Allocator returns the executor's allocator.
func (e *Executor) Allocator() Allocator { return e.alloc }

type flightResult struct {
	buf    *Buffer
	cached bool
}

// Apply runs chain over src and returns the final buffer.
//
// The empty chain returns src itself. Otherwise every stage consumes the
// previous stage's output. Cancellation of ctx is checked before each
// stage. A failing stage aborts the chain and is reported as *StageError;
// no partial result is returned.
//
// The caller owns the returned buffer unless it is frozen, in which case it
// is shared with the cache and must not be modified. Release it through
// the executor's Allocator when done.
func (e *Executor) Apply(ctx context.Context, chain FilterChain, src *Buffer, opts ...ApplyOption) (*Buffer, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source buffer", ErrInvalidDimensions)
	}
	cfg := applyConfig{ceiling: e.ceiling}
	for _, opt := range opts {
		opt(&cfg)
	}
	if chain.Empty() {
		metrics.RecordChain(metrics.ResultIdentity)
		return src, nil
	}

	specs, err := e.prepare(chain)
	if err != nil {
		metrics.RecordChain(metrics.ResultError)
		return nil, err
	}
	if cfg.ceiling > 0 {
		if err := e.Preflight(chain, src, cfg.ceiling); err != nil {
			metrics.RecordRejection()
			metrics.RecordChain(metrics.ResultError)
			e.log.Warn("imgfx: memory pre-flight rejected chain", "err", err)
			return nil, err
		}
	}

	source := src.Fingerprint()
	cur := src
	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			e.releaseIntermediate(cur, src)
			metrics.RecordStage(spec.Kind.String(), metrics.ResultCancelled, 0)
			metrics.RecordChain(metrics.ResultCancelled)
			return nil, &StageError{Index: i, Kind: spec.Kind, Err: err}
		}

		key := NewCacheKey(spec, source)
		start := time.Now()
		out, cached, err := e.stage(ctx, key, spec, cur, cfg.noCache)
		elapsed := time.Since(start)
		if err != nil {
			e.releaseIntermediate(cur, src)
			result := metrics.ResultError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result = metrics.ResultCancelled
			}
			metrics.RecordStage(spec.Kind.String(), result, elapsed.Seconds())
			metrics.RecordChain(result)
			e.log.Warn("imgfx: stage failed", "stage", i, "kind", spec.Kind.String(), "err", err)
			return nil, &StageError{Index: i, Kind: spec.Kind, Err: err}
		}

		e.releaseIntermediate(cur, src)
		cur = out
		source = key.Digest()

		result := metrics.ResultComputed
		if cached {
			result = metrics.ResultCached
		}
		metrics.RecordStage(spec.Kind.String(), result, elapsed.Seconds())
		e.log.Debug("imgfx: stage done",
			"stage", i+1, "total", len(specs), "kind", spec.Kind.String(),
			"cached", cached, "elapsed", elapsed)

		if cfg.progress != nil {
			cfg.progress(Progress{
				Stage:   i + 1,
				Total:   len(specs),
				Kind:    spec.Kind,
				Cached:  cached,
				Elapsed: elapsed,
			})
		}
	}

	metrics.RecordChain(metrics.ResultOK)
	return cur, nil
}

// prepare checks that every stage is dispatchable and sanitizes payloads
// before any buffer is allocated.
func (e *Executor) prepare(chain FilterChain) ([]FilterSpec, error) {
	specs := chain.Specs()
	for i, s := range specs {
		if !s.Kind.Valid() || !e.backend.Supports(s.Kind) {
			return nil, &StageError{Index: i, Kind: s.Kind, Err: ErrUnsupportedKind}
		}
	}
	for i, s := range specs {
		p, err := Validate(s, s.Params)
		if err != nil {
			return nil, &StageError{Index: i, Kind: s.Kind, Err: err}
		}
		specs[i].Params = p
	}
	return specs, nil
}

// stage produces the output of one stage, from the cache when possible.
// At most one computation per key runs at a time.
func (e *Executor) stage(ctx context.Context, key CacheKey, spec FilterSpec, in *Buffer, noCache bool) (*Buffer, bool, error) {
	useCache := e.cache != nil && !noCache
	if useCache {
		if b, ok := e.cache.Get(key); ok {
			metrics.RecordCacheLookup(true)
			return b, true, nil
		}
		metrics.RecordCacheLookup(false)
	}

	v, err, shared := e.flight.Do(key.String(), func() (any, error) {
		if useCache {
			// Another flight may have stored the key since the lookup.
			if b, ok := e.cache.Get(key); ok {
				return flightResult{buf: b, cached: true}, nil
			}
		}
		out, err := e.compute(ctx, spec, in)
		if err != nil {
			return nil, err
		}
		if useCache {
			out.Freeze()
			e.cache.Put(key, out)
			// The cache's byte budget accounts for the buffer from here on.
			e.alloc.Release(out)
		}
		return flightResult{buf: out}, nil
	})
	if err != nil {
		// The flight ran under another caller's context. If that caller gave
		// up but this one has not, compute independently.
		if shared && ctx.Err() == nil &&
			(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			out, err := e.compute(ctx, spec, in)
			return out, false, err
		}
		return nil, false, err
	}

	r := v.(flightResult)
	if shared {
		r.buf.Freeze()
	}
	return r.buf, r.cached, nil
}

// compute allocates the stage output and runs the backend.
func (e *Executor) compute(ctx context.Context, spec FilterSpec, in *Buffer) (*Buffer, error) {
	dst, err := e.alloc.Allocate(in.Width(), in.Height(), in.Format())
	if err != nil {
		if errors.Is(err, ErrAllocation) {
			metrics.RecordRejection()
		}
		return nil, err
	}

	if err := e.backend.Transform(ctx, spec, in, dst); err != nil {
		e.alloc.Release(dst)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
			errors.Is(err, ErrUnsupportedKind), errors.Is(err, ErrBackend):
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if !dst.SameSize(in) || dst.Format() != in.Format() {
		e.alloc.Release(dst)
		return nil, fmt.Errorf("%w: %s changed buffer geometry", ErrBackend, spec.Kind)
	}
	return dst, nil
}

// releaseIntermediate hands a finished intermediate back to the allocator.
// The source is caller-owned and never released.
func (e *Executor) releaseIntermediate(b, src *Buffer) {
	if b == nil || b == src {
		return
	}
	e.alloc.Release(b)
}

// Invalidate drops cached stage outputs whose key satisfies pred and
// returns the number dropped. Call it when an edited parameter makes older
// results useless.
func (e *Executor) Invalidate(pred func(CacheKey) bool) int {
	if e.cache == nil {
		return 0
	}
	return e.cache.Invalidate(pred)
}

// InvalidateKind drops every cached output produced by kind.
func (e *Executor) InvalidateKind(kind Kind) int {
	return e.Invalidate(func(k CacheKey) bool { return k.Kind == kind })
}

// ApplyMasked applies chain to src and composites the result over src
// through mask, so the chain only shows where the mask covers.
func (e *Executor) ApplyMasked(ctx context.Context, chain FilterChain, src *Buffer, mask *Mask, opts ...ApplyOption) (*Buffer, error) {
	if mask == nil {
		return e.Apply(ctx, chain, src, opts...)
	}
	if mask.Width != src.Width() || mask.Height != src.Height() {
		return nil, &DimensionError{
			What: "mask",
			Want: [2]int{src.Width(), src.Height()},
			Got:  [2]int{mask.Width, mask.Height},
		}
	}
	cov, err := mask.Coverage()
	if err != nil {
		return nil, err
	}
	filtered, err := e.Apply(ctx, chain, src, opts...)
	if err != nil {
		return nil, err
	}
	if filtered == src {
		return src.Clone(), nil
	}
	out, err := CompositeCoverage(src, filtered, cov)
	e.releaseIntermediate(filtered, src)
	return out, err
}
