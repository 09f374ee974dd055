package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/pawlog/pkg/entry"
)

// ErrNotFound is returned when no document exists for a key.
var ErrNotFound = errors.New("store: day not found")

// Persistence is the day-document contract: one JSON DayLog per key, where
// the key is either "main" (the live current day) or a YYYY-MM-DD date.
//
// Writes are whole-document; there is no compare-and-swap, so concurrent
// writers race last-writer-wins. The system assumes a single editing client.
type Persistence interface {
	// Read returns the DayLog stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) (*entry.DayLog, error)
	// Write replaces the document under key.
	Write(key string, day *entry.DayLog) error
	// Exists reports whether a document is stored under key.
	Exists(key string) bool
	// Keys lists stored keys in descending lexicographic order. When after
	// is non-empty only keys strictly following it in that order (i.e.
	// lexicographically smaller) are returned. At most limit keys are
	// returned; limit <= 0 means no limit.
	Keys(ctx context.Context, after string, limit int) ([]string, error)
	// Watch streams DayLog snapshots for key until ctx is cancelled. Every
	// remote change produces a fresh snapshot; when the consumer lags, older
	// undelivered snapshots are replaced by the newest one.
	Watch(ctx context.Context, key string) (<-chan *entry.DayLog, error)
}

const daysDir = "days"

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) Read(ctx context.Context, key string) (*entry.DayLog, error) {
	if !p.d.Has(key) {
		return nil, ErrNotFound
	}
	val, err := p.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	day := entry.NewDayLog()
	if err := json.Unmarshal(val, day); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return day, nil
}

func (p *persistence) Write(key string, day *entry.DayLog) error {
	if day == nil {
		day = entry.NewDayLog()
	}
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (p *persistence) Exists(key string) bool {
	return p.d.Has(key)
}

func (p *persistence) Keys(ctx context.Context, after string, limit int) ([]string, error) {
	all := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		all = append(all, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(all)))

	out := make([]string, 0, len(all))
	for _, key := range all {
		if after != "" && key >= after {
			continue
		}
		out = append(out, key)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{daysDir},
		FileName: s,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
