package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"tableflip.dev/pawlog/pkg/store"
	"tableflip.dev/pawlog/pkg/timeutil"
)

// DefaultPageSize is how many raw keys one catalog page requests.
const DefaultPageSize = 15

// Catalog is the read-only projection of dates known to have (or assumed to
// have) a day log. It owns the list of selectable dates, never entry
// contents. Pages are raw key queries in descending order; because day keys
// are YYYY-MM-DD they sort correctly as plain strings.
type Catalog struct {
	Persistence store.Persistence

	// Now is the clock; tests override it. Nil means time.Now.
	Now func() time.Time

	// PageSize overrides DefaultPageSize when positive.
	PageSize int

	mu      sync.Mutex
	known   map[string]struct{}
	cursor  string
	dates   []time.Time
	hasMore bool
	loaded  bool
}

func (c *Catalog) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Catalog) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

// Dates returns the current catalog, newest first.
func (c *Catalog) Dates() []time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Time{}, c.dates...)
}

// HasMore reports whether another page of historical keys may exist.
func (c *Catalog) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// LoadPage fetches one page of day keys and recomputes the catalog. With
// reset it starts over from the newest key; otherwise it continues strictly
// after the last key of the previous page. Today and yesterday are always
// part of the catalog even before any document exists for them.
//
// A failed query on the very first load falls back to a catalog of just
// today and yesterday; on later loads the existing catalog is left
// untouched. Either way paging stops until the next reset. The query error
// is returned for logging; the returned dates are always usable.
func (c *Catalog) LoadPage(ctx context.Context, reset bool) ([]time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if reset {
		c.cursor = ""
		c.known = nil
	}
	if c.known == nil {
		c.known = make(map[string]struct{})
	}

	raw, err := c.Persistence.Keys(ctx, c.cursor, c.pageSize())
	if err != nil {
		c.hasMore = false
		if !c.loaded {
			c.injectSynthetic()
			c.recompute()
			c.loaded = true
		}
		return append([]time.Time{}, c.dates...), err
	}

	for _, key := range raw {
		if timeutil.IsDayKey(key) {
			c.known[key] = struct{}{}
		}
	}
	if len(raw) > 0 {
		c.cursor = raw[len(raw)-1]
	}
	c.hasMore = len(raw) >= c.pageSize()

	c.injectSynthetic()
	c.recompute()
	c.loaded = true
	return append([]time.Time{}, c.dates...), nil
}

// injectSynthetic adds today and yesterday so they are always selectable.
func (c *Catalog) injectSynthetic() {
	now := c.now()
	c.known[timeutil.DayKey(now)] = struct{}{}
	c.known[timeutil.DayKey(timeutil.Yesterday(now))] = struct{}{}
}

func (c *Catalog) recompute() {
	dates := make([]time.Time, 0, len(c.known))
	for key := range c.known {
		d, err := timeutil.ParseDayKey(key)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].After(dates[j])
	})
	c.dates = dates
}
