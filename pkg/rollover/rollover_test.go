package rollover

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/store"
)

type memoryPersistence struct {
	mu   sync.Mutex
	docs map[string]*entry.DayLog
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{docs: make(map[string]*entry.DayLog)}
}

func (m *memoryPersistence) Read(_ context.Context, key string) (*entry.DayLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return d.Clone(), nil
}

func (m *memoryPersistence) Write(key string, day *entry.DayLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = day.Clone()
	return nil
}

func (m *memoryPersistence) Exists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[key]
	return ok
}

func (m *memoryPersistence) Keys(context.Context, string, int) ([]string, error) {
	return nil, nil
}

func (m *memoryPersistence) Watch(context.Context, string) (<-chan *entry.DayLog, error) {
	return nil, nil
}

func seededMain(t *testing.T) (*memoryPersistence, *entry.DayLog) {
	t.Helper()
	mp := newMemoryPersistence()
	day := entry.NewDayLog()
	day.Walks = append(day.Walks, entry.NewWalk(time.Date(2026, 8, 24, 8, 0, 0, 0, time.Local)))
	day.Meals = append(day.Meals, entry.NewMeal(time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local), 500))
	if err := mp.Write(daybook.MainKey, day); err != nil {
		t.Fatalf("seed main: %v", err)
	}
	return mp, day
}

func TestArchiveCopiesAndClearsMain(t *testing.T) {
	mp, seeded := seededMain(t)
	w := &Watcher{Persistence: mp}
	ended := time.Date(2026, 8, 24, 23, 59, 0, 0, time.Local)

	copied, err := w.Archive(context.Background(), ended)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !copied {
		t.Fatal("expected data to be copied")
	}

	archived, err := mp.Read(context.Background(), "2026-08-24")
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if len(archived.Walks) != len(seeded.Walks) || len(archived.Meals) != len(seeded.Meals) {
		t.Fatalf("archive not verbatim: %+v", archived)
	}

	main, err := mp.Read(context.Background(), daybook.MainKey)
	if err != nil {
		t.Fatalf("read main: %v", err)
	}
	if !main.Empty() {
		t.Fatalf("main not cleared: %+v", main)
	}
}

func TestArchiveIdempotent(t *testing.T) {
	mp, _ := seededMain(t)
	w := &Watcher{Persistence: mp}
	ended := time.Date(2026, 8, 24, 12, 0, 0, 0, time.Local)
	ctx := context.Background()

	if _, err := w.Archive(ctx, ended); err != nil {
		t.Fatalf("first archive: %v", err)
	}
	first, _ := mp.Read(ctx, "2026-08-24")

	copied, err := w.Archive(ctx, ended)
	if err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if copied {
		t.Fatal("second archive must be a no-op")
	}
	second, _ := mp.Read(ctx, "2026-08-24")
	if len(first.Walks) != len(second.Walks) || len(first.Meals) != len(second.Meals) {
		t.Fatalf("repeated archive changed the historical document")
	}
	main, _ := mp.Read(ctx, daybook.MainKey)
	if !main.Empty() {
		t.Fatal("main must stay empty after repeated archive")
	}
}

func TestArchiveNoOpWhenMainEmpty(t *testing.T) {
	mp := newMemoryPersistence()
	if err := mp.Write(daybook.MainKey, entry.NewDayLog()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w := &Watcher{Persistence: mp}

	copied, err := w.Archive(context.Background(), time.Now().AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if copied {
		t.Fatal("empty main must not archive")
	}
}

func TestArchiveNoOpWhenEndedDocExists(t *testing.T) {
	mp, _ := seededMain(t)
	existing := entry.NewDayLog()
	existing.Snacks = append(existing.Snacks, entry.NewSnack(time.Now(), "carrot", 1))
	if err := mp.Write("2026-08-24", existing); err != nil {
		t.Fatalf("seed existing: %v", err)
	}
	w := &Watcher{Persistence: mp}

	copied, err := w.Archive(context.Background(), time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if copied {
		t.Fatal("existing historical document must not be overwritten")
	}
	got, _ := mp.Read(context.Background(), "2026-08-24")
	if len(got.Snacks) != 1 {
		t.Fatalf("existing document was modified: %+v", got)
	}
}

// flakyPersistence fails a fixed number of reads before recovering.
type flakyPersistence struct {
	*memoryPersistence
	readFailures int
}

func (f *flakyPersistence) Read(ctx context.Context, key string) (*entry.DayLog, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return nil, errors.New("store offline")
	}
	return f.memoryPersistence.Read(ctx, key)
}

func TestCheckRetriesFailedArchival(t *testing.T) {
	mp, _ := seededMain(t)
	fp := &flakyPersistence{memoryPersistence: mp, readFailures: 1}
	current := time.Date(2026, 8, 24, 23, 59, 55, 0, time.Local)
	w := &Watcher{Persistence: fp, Now: func() time.Time { return current }}
	ctx := context.Background()

	if _, err := w.Check(ctx); err != nil {
		t.Fatalf("baseline check: %v", err)
	}

	// The store is down exactly when midnight passes.
	current = time.Date(2026, 8, 25, 0, 0, 5, 0, time.Local)
	changed, err := w.Check(ctx)
	if err == nil {
		t.Fatal("expected the boundary check to fail")
	}
	if changed {
		t.Fatal("failed archival must not count as handled")
	}
	if mp.Exists("2026-08-24") {
		t.Fatal("no document should exist after a failed archival")
	}

	// The next healthy tick archives the same ended day.
	current = current.Add(10 * time.Second)
	changed, err = w.Check(ctx)
	if err != nil {
		t.Fatalf("retry check: %v", err)
	}
	if !changed {
		t.Fatal("expected the retry to handle the date change")
	}
	if !mp.Exists("2026-08-24") {
		t.Fatal("ended day was never archived")
	}
	main, _ := mp.Read(ctx, daybook.MainKey)
	if !main.Empty() {
		t.Fatal("main must be cleared after the retried archival")
	}
}

func TestRunArchivesOnTick(t *testing.T) {
	mp, _ := seededMain(t)
	var mu sync.Mutex
	current := time.Date(2026, 8, 24, 23, 59, 59, 0, time.Local)
	archived := make(chan time.Time, 1)
	w := &Watcher{
		Persistence: mp,
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return current
		},
		Interval:   5 * time.Millisecond,
		OnArchived: func(ended time.Time) { archived <- ended },
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the baseline before the loop starts so the tick after the date
	// flip is the one that archives.
	if _, err := w.Check(ctx); err != nil {
		t.Fatalf("baseline check: %v", err)
	}
	go w.Run(ctx)

	mu.Lock()
	current = time.Date(2026, 8, 25, 0, 0, 5, 0, time.Local)
	mu.Unlock()

	select {
	case ended := <-archived:
		if ended.Day() != 24 {
			t.Fatalf("expected ended date of the 24th, got %v", ended)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rollover never fired")
	}
	if !mp.Exists("2026-08-24") {
		t.Fatal("expected archived document for the ended date")
	}
}

func TestCheckDetectsDateChange(t *testing.T) {
	mp, _ := seededMain(t)
	current := time.Date(2026, 8, 24, 23, 59, 50, 0, time.Local)
	var archivedEnded time.Time
	w := &Watcher{
		Persistence: mp,
		Now:         func() time.Time { return current },
		OnArchived:  func(ended time.Time) { archivedEnded = ended },
	}
	ctx := context.Background()

	// First check only seeds the baseline.
	if changed, err := w.Check(ctx); err != nil || changed {
		t.Fatalf("baseline check: changed=%v err=%v", changed, err)
	}

	// Same day: nothing happens.
	current = current.Add(5 * time.Second)
	if changed, err := w.Check(ctx); err != nil || changed {
		t.Fatalf("same-day check: changed=%v err=%v", changed, err)
	}

	// Midnight passes.
	current = time.Date(2026, 8, 25, 0, 0, 5, 0, time.Local)
	changed, err := w.Check(ctx)
	if err != nil {
		t.Fatalf("rollover check: %v", err)
	}
	if !changed {
		t.Fatal("expected date change to be detected")
	}
	if archivedEnded.Day() != 24 {
		t.Fatalf("expected ended date of the 24th, got %v", archivedEnded)
	}
	if !mp.Exists("2026-08-24") {
		t.Fatal("expected archived document for the ended date")
	}
}
