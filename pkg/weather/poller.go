package weather

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often current conditions are refreshed.
const DefaultPollInterval = 5 * time.Minute

// Poller periodically fetches current conditions and keeps the last good
// reading. Fetch failures never propagate: the previous reading stays in
// place, and an error state is only exposed while no reading has ever
// succeeded. Responses that resolve after a newer fetch was issued are
// discarded so a slow response cannot overwrite fresher state.
type Poller struct {
	Client *Client

	// Interval overrides DefaultPollInterval when positive.
	Interval time.Duration

	mu      sync.Mutex
	gen     uint64
	reading *Reading
	lastErr error
}

func (p *Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultPollInterval
}

// Reading returns the last good reading, or nil plus the error state when
// nothing was ever fetched.
func (p *Poller) Reading() (*Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reading != nil {
		return p.reading, nil
	}
	return nil, p.lastErr
}

// Fetch performs one poll. Safe to call concurrently with Run; the
// generation guard makes the newest issued fetch win.
func (p *Poller) Fetch(ctx context.Context) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	r, err := p.Client.Current(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// A newer fetch was issued while this one was in flight.
		return
	}
	if err != nil {
		p.lastErr = err
		return
	}
	p.reading = r
	p.lastErr = nil
}

// Run polls until ctx is cancelled, starting with an immediate fetch.
func (p *Poller) Run(ctx context.Context) {
	p.Fetch(ctx)
	if _, err := p.Reading(); err != nil {
		fmt.Fprintf(os.Stderr, "weather: %v\n", err)
	}

	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Fetch(ctx)
		}
	}
}
