package extract

import (
	"context"
	"sync"
	"time"
)

// slidingWindow caps how many calls start within a rolling window. Acquire
// blocks, rechecking once per second, until a slot frees up.
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	starts []time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &slidingWindow{limit: limit, window: window}
}

func (w *slidingWindow) tryAcquire(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-w.window)
	kept := w.starts[:0]
	for _, t := range w.starts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	w.starts = kept

	if len(w.starts) >= w.limit {
		return false
	}
	w.starts = append(w.starts, now)
	return true
}

// Acquire blocks until a slot is available or the context is cancelled.
func (w *slidingWindow) Acquire(ctx context.Context) error {
	for {
		if w.tryAcquire(time.Now()) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
