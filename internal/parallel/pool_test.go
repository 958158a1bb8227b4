package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int32
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		if !p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}) {
			t.Fatal("Submit on running pool returned false")
		}
	}
	wg.Wait()

	if got := count.Load(); got != 100 {
		t.Errorf("ran %d tasks, want 100", got)
	}
}

func TestWorkerPoolDefaults(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	if p.Workers() <= 0 {
		t.Errorf("Workers() = %d, want > 0", p.Workers())
	}
	if !p.IsRunning() {
		t.Error("new pool should be running")
	}
}

func TestWorkerPoolClose(t *testing.T) {
	p := NewWorkerPool(2)

	var ran atomic.Bool
	p.Submit(func() { ran.Store(true) })
	p.Close()
	p.Close() // idempotent

	if !ran.Load() {
		t.Error("queued task should complete before Close returns")
	}
	if p.Submit(func() {}) {
		t.Error("Submit after Close should return false")
	}
	select {
	case <-p.Done():
	default:
		t.Error("Done should be closed after Close")
	}
}

func TestRowsCoversEveryRowOnce(t *testing.T) {
	for _, height := range []int{1, 15, 16, 100, 1000} {
		seen := make([]int32, height)
		err := Rows(context.Background(), height, 8, func(y0, y1 int) error {
			for y := y0; y < y1; y++ {
				atomic.AddInt32(&seen[y], 1)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("height %d: %v", height, err)
		}
		for y, n := range seen {
			if n != 1 {
				t.Fatalf("height %d: row %d visited %d times", height, y, n)
			}
		}
	}
}

func TestRowsPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Rows(context.Background(), 256, 4, func(y0, _ int) error {
		if y0 == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Rows error = %v, want boom", err)
	}
}

func TestRowsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Rows(ctx, 8, 1, func(int, int) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Rows error = %v, want context.Canceled", err)
	}
	if called {
		t.Error("fn should not run on a cancelled context")
	}
}
