package imgfx

import (
	"log/slog"
	"time"
)

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithAllocator sets the buffer allocator. The default is an unlimited Pool.
func WithAllocator(a Allocator) ExecutorOption {
	return func(e *Executor) {
		if a != nil {
			e.alloc = a
		}
	}
}

// WithCache enables stage memoization. Without it every stage is computed.
func WithCache(c Cache) ExecutorOption {
	return func(e *Executor) { e.cache = c }
}

// WithWorkers sets the number of goroutines that run submitted jobs. Zero
// or negative means GOMAXPROCS.
func WithWorkers(n int) ExecutorOption {
	return func(e *Executor) { e.jobWorkers = n }
}

// WithMemoryCeiling makes every Apply run a memory pre-flight against
// ceiling bytes. Zero disables the check.
func WithMemoryCeiling(ceiling int64) ExecutorOption {
	return func(e *Executor) { e.ceiling = ceiling }
}

// WithLogger sets the executor's logger. The default is the package logger.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.log = l }
}

// Progress reports a completed stage.
type Progress struct {
	Stage   int // 1-based number of the completed stage
	Total   int // number of stages in the chain
	Kind    Kind
	Cached  bool // stage output came from the cache
	Elapsed time.Duration
}

// ApplyOption configures a single Apply, ApplyMasked or Submit call.
type ApplyOption func(*applyConfig)

type applyConfig struct {
	progress func(Progress)
	ceiling  int64
	noCache  bool
}

// WithProgress registers fn to be called once per completed stage. fn runs
// on the goroutine executing the chain, which is not the caller's goroutine
// when the chain was submitted with Submit.
func WithProgress(fn func(Progress)) ApplyOption {
	return func(c *applyConfig) { c.progress = fn }
}

// WithCeiling overrides the executor's memory ceiling for one call.
func WithCeiling(ceiling int64) ApplyOption {
	return func(c *applyConfig) { c.ceiling = ceiling }
}

// WithoutCache bypasses the cache for one call. Results are identical.
func WithoutCache() ApplyOption {
	return func(c *applyConfig) { c.noCache = true }
}
