package rollover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/store"
	"tableflip.dev/pawlog/pkg/timeutil"
)

// DefaultInterval is how often the watcher polls for a wall-clock date
// change. Polling, not events: nothing pushes a notification when the local
// calendar day ticks over.
const DefaultInterval = 10 * time.Second

// Watcher detects local calendar date changes and archives the finished
// day: the live "main" document's contents are copied verbatim into a
// document keyed by the ended date, then "main" is cleared.
type Watcher struct {
	Persistence store.Persistence

	// Now is the clock; tests override it. Nil means time.Now.
	Now func() time.Time

	// Interval overrides DefaultInterval when positive.
	Interval time.Duration

	// OnArchived fires after a date change has been handled successfully,
	// whether or not any data was copied. Callers reset the history catalog
	// and re-point the active selection at the new today.
	OnArchived func(ended time.Time)

	mu       sync.Mutex
	inFlight bool
	last     time.Time
}

func (w *Watcher) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Watcher) interval() time.Duration {
	if w.Interval > 0 {
		return w.Interval
	}
	return DefaultInterval
}

// Run polls until ctx is cancelled. Check failures are logged and retried
// on the next tick; a degraded store never stops the watcher.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()

	// Seed the baseline so the first tick does not look like a rollover.
	if _, err := w.Check(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "rollover: %v\n", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Check(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "rollover: %v\n", err)
			}
		}
	}
}

// Check compares the current local date with the last observed one and
// archives when the day has advanced. A boolean in-flight guard keeps a
// slow archival from overlapping with the next tick. The baseline only
// advances once Archive succeeds, so a failed archival is retried on the
// next tick against the same ended date. Returns true when a date change
// was handled.
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return false, nil
	}
	w.inFlight = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	now := w.now()
	if w.last.IsZero() {
		w.last = now
		return false, nil
	}
	if timeutil.SameDay(now, w.last) {
		return false, nil
	}

	ended := w.last
	if _, err := w.Archive(ctx, ended); err != nil {
		return false, err
	}
	w.last = now
	if w.OnArchived != nil {
		w.OnArchived(ended)
	}
	return true, nil
}

// Archive copies the live document's contents into the ended date's
// document and clears the live one. It is a no-op when "main" is empty or
// when a document for the ended date already exists, which makes it safe to
// run more than once per boundary. Returns true when data was copied.
func (w *Watcher) Archive(ctx context.Context, ended time.Time) (bool, error) {
	if w.Persistence == nil {
		return false, errors.New("rollover: no persistence configured")
	}

	day, err := w.Persistence.Read(ctx, daybook.MainKey)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rollover: read main: %w", err)
	}
	if day.Empty() {
		return false, nil
	}

	endedKey := timeutil.DayKey(ended)
	if w.Persistence.Exists(endedKey) {
		return false, nil
	}

	if err := w.Persistence.Write(endedKey, day); err != nil {
		return false, fmt.Errorf("rollover: archive %s: %w", endedKey, err)
	}
	if err := w.Persistence.Write(daybook.MainKey, entry.NewDayLog()); err != nil {
		return false, fmt.Errorf("rollover: clear main: %w", err)
	}
	return true, nil
}
