package session

import (
	"context"
	"time"
)

// poller is a cancellable scheduled task. Each tick runs the step to
// completion before the next tick is armed, so at most one call is in
// flight at any time; overlapping ticks cannot happen by construction.
type poller struct {
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// startPoller runs step on the given cadence until step returns false
// or the poller is stopped. The first step runs after one full
// interval, matching the backend's ramp-up after session start.
func startPoller(interval time.Duration, step func(ctx context.Context) bool) *poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{
		interval: interval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go p.run(ctx, step)
	return p
}

func (p *poller) run(ctx context.Context, step func(ctx context.Context) bool) {
	defer close(p.done)
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if !step(ctx) {
			return
		}
		timer.Reset(p.interval)
	}
}

// stop cancels the poller and waits for any in-flight step to settle.
// Safe to call more than once.
func (p *poller) stop() {
	if p == nil {
		return
	}
	p.cancel()
	<-p.done
}
