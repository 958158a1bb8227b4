// Package parallel provides the worker pool that runs filter chains off the
// caller's goroutine and a banded row splitter for per-pixel work.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines.
//
// Tasks share one queue; each worker pulls the next task when it becomes
// idle, so a long chain never holds up shorter ones queued behind it on
// another worker.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	mu      sync.RWMutex // guards queue sends against Close
}

// NewWorkerPool starts a pool with the given number of workers. If workers
// is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A queue of a few tasks per worker hides hand-off latency.
	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), max(workers*4, 8)),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		if task != nil {
			task()
		}
	}
}

// Submit queues fn. It blocks while the queue is full and reports false if
// the pool is closed, in which case fn is not run.
func (p *WorkerPool) Submit(fn func()) bool {
	if fn == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}
	p.queue <- fn
	return true
}

// Close stops accepting work, waits for queued tasks to finish and stops
// the workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.queue)
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Done is closed once Close has been called.
func (p *WorkerPool) Done() <-chan struct{} { return p.done }

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }

// Queued returns the approximate number of tasks waiting to run.
func (p *WorkerPool) Queued() int { return len(p.queue) }
