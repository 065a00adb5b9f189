package backend

import (
	"context"
	"sync"
	"time"
)

// throttle hands out request slots at least interval apart.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	slot time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: max(interval, 0)}
}

// wait reserves the next slot and sleeps until it opens. It returns the
// context error if ctx ends first; the reserved slot is not given back.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.interval == 0 {
		return ctx.Err()
	}
	t.mu.Lock()
	now := time.Now()
	at := t.slot
	if at.Before(now) {
		at = now
	}
	t.slot = at.Add(t.interval)
	t.mu.Unlock()

	delay := time.Until(at)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
