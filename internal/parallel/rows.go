package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps bands large enough that scheduling overhead stays small
// relative to the per-row work.
const minBandRows = 16

// Rows splits [0, height) into contiguous bands and calls fn for each band
// on up to workers goroutines. Cancellation of ctx is observed between
// bands; the first error from fn or ctx is returned.
//
// With workers <= 0, GOMAXPROCS is used. Small images run on the calling
// goroutine.
func Rows(ctx context.Context, height, workers int, fn func(y0, y1 int) error) error {
	if height <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	bands := min(workers, max(1, height/minBandRows))
	if bands == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, height)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	step := (height + bands - 1) / bands
	for y0 := 0; y0 < height; y0 += step {
		y1 := min(y0+step, height)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(y0, y1)
		})
	}
	return g.Wait()
}
