package nominatim

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// throttle spaces successive calls at least minDelay apart.
type throttle struct {
	clock    clockwork.Clock
	minDelay time.Duration

	mu   sync.Mutex
	last time.Time
}

func newThrottle(clock clockwork.Clock, minDelay time.Duration) *throttle {
	return &throttle{clock: clock, minDelay: minDelay}
}

// wait blocks until minDelay has passed since the previous call returned,
// or ctx is done.
func (t *throttle) wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if d := t.minDelay - t.clock.Since(t.last); d > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.clock.After(d):
			}
		}
	}
	t.last = t.clock.Now()
	return nil
}
