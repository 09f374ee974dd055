package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/pawlog/pkg/entry"
)

// Watch streams fresh DayLog snapshots for one document key until ctx is
// cancelled. The channel carries the decoded document as of each change; if
// the consumer is slow, pending snapshots are replaced so the newest one is
// always the next delivered. The channel closes once ctx is done or the
// watcher hits an unrecoverable error.
func (p *persistence) Watch(ctx context.Context, key string) (<-chan *entry.DayLog, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	dir := filepath.Join(p.basePath, daysDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure days directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	snapshots := make(chan *entry.DayLog, 1)

	go func() {
		defer close(snapshots)
		defer closeWatcher()

		send := func(day *entry.DayLog) {
			// Latest snapshot wins: displace an undelivered older one
			// rather than blocking the watcher on a slow consumer.
			for {
				select {
				case snapshots <- day:
					return
				default:
					select {
					case <-snapshots:
					default:
					}
				}
			}
		}

		deliver := func() {
			day, err := p.Read(ctx, key)
			if err != nil {
				// Treat a vanished or half-written document as a miss; the
				// next change will deliver a readable snapshot.
				if !errors.Is(err, ErrNotFound) {
					fmt.Fprintf(os.Stderr, "store: watch read %s: %v\n", key, err)
				}
				return
			}
			send(day)
		}

		throttle := newChangeThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Unclassifiable churn: re-read so the consumer stays
				// current even when the event stream is lossy.
				throttle.Enqueue(deliver)
				_ = err
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(evt.Name) != key {
					continue
				}
				throttle.Enqueue(deliver)
			}
		}
	}()

	return snapshots, nil
}

// changeThrottle coalesces rapid change notifications so the consumer sees
// one snapshot per burst of filesystem activity instead of one per write.
type changeThrottle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newChangeThrottle(delay time.Duration) *changeThrottle {
	return &changeThrottle{delay: delay}
}

func (t *changeThrottle) Enqueue(fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fire()
	})
}

func (t *changeThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
