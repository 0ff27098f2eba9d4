package animate

import (
	"context"
	"time"
)

// Queue is a Requester that holds one pending callback until its owner runs
// it. Hosts embed it.
type Queue struct {
	pending func()
}

func (q *Queue) Request(frame func()) {
	q.pending = frame
}

// Pending reports whether a callback is waiting.
func (q *Queue) Pending() bool {
	return q.pending != nil
}

// RunPending runs the waiting callback, if any. The slot is cleared first so
// the callback can request its successor.
func (q *Queue) RunPending() bool {
	frame := q.pending
	if frame == nil {
		return false
	}
	q.pending = nil
	frame()
	return true
}

// TickerRequester runs callbacks on a timer with no display attached.
type TickerRequester struct {
	Queue
}

// NewTickerRequester returns an empty headless requester.
func NewTickerRequester() *TickerRequester {
	return &TickerRequester{}
}

// Run runs one pending callback per interval. It returns nil when no callback
// is pending or after limit callbacks (0 means no limit), and ctx.Err() when
// ctx is cancelled first. A non-positive interval runs callbacks back to back.
func (t *TickerRequester) Run(ctx context.Context, interval time.Duration, limit uint64) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var ran uint64
	for {
		if !t.Pending() {
			return nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		t.RunPending()
		ran++
		if limit > 0 && ran >= limit {
			return nil
		}
	}
}
