package imgfx

import (
	"context"

	"github.com/gogpu/imgfx/internal/parallel"
)

// Job is a chain, optionally masked, submitted for execution on the
// executor's workers.
type Job struct {
	cancel context.CancelFunc
	done   chan struct{}
	buf    *Buffer
	err    error
}

// Done is closed once the job has finished, successfully or not.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job has finished and returns its result.
func (j *Job) Wait() (*Buffer, error) {
	<-j.done
	return j.buf, j.err
}

// Cancel asks the job to stop. The chain stops before its next stage and
// Wait reports the context error wrapped in a *StageError.
func (j *Job) Cancel() { j.cancel() }

func (j *Job) finish(buf *Buffer, err error) {
	j.buf, j.err = buf, err
	j.cancel()
	close(j.done)
}

func (e *Executor) workers() *parallel.WorkerPool {
	e.poolOnce.Do(func() {
		e.pool = parallel.NewWorkerPool(e.jobWorkers)
		e.log.Info("imgfx: worker pool started", "workers", e.pool.Workers())
	})
	return e.pool
}

// Submit runs chain over src on the executor's worker pool and returns
// immediately. Progress callbacks registered with WithProgress run on the
// worker goroutine. Submitting to a closed executor yields a job that
// fails with ErrClosed.
func (e *Executor) Submit(ctx context.Context, chain FilterChain, src *Buffer, opts ...ApplyOption) *Job {
	return e.submit(ctx, func(jctx context.Context) (*Buffer, error) {
		return e.Apply(jctx, chain, src, opts...)
	})
}

// SubmitMasked is Submit for ApplyMasked. Rasterizing the mask and
// compositing run on the worker as well.
func (e *Executor) SubmitMasked(ctx context.Context, chain FilterChain, src *Buffer, mask *Mask, opts ...ApplyOption) *Job {
	return e.submit(ctx, func(jctx context.Context) (*Buffer, error) {
		return e.ApplyMasked(jctx, chain, src, mask, opts...)
	})
}

func (e *Executor) submit(ctx context.Context, run func(context.Context) (*Buffer, error)) *Job {
	jctx, cancel := context.WithCancel(ctx)
	j := &Job{cancel: cancel, done: make(chan struct{})}

	ok := e.workers().Submit(func() {
		j.finish(run(jctx))
	})
	if !ok {
		j.finish(nil, ErrClosed)
	}
	return j
}

// Close stops accepting jobs and waits for queued jobs to finish. Close is
// safe to call multiple times.
func (e *Executor) Close() {
	e.workers().Close()
	e.log.Info("imgfx: executor closed")
}
