package daybook

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/store"
	"tableflip.dev/pawlog/pkg/timeutil"
)

// WalkInterval is how long after the last walk the next one comes due.
const WalkInterval = 3 * time.Hour

var (
	// ErrIndex is returned when an edit or delete targets a position that
	// does not exist in the addressed sequence.
	ErrIndex = errors.New("daybook: no entry at that index")

	// ErrHistorySubscribe is returned when a live subscription is requested
	// for a date other than today. Only the "main" document changes out from
	// under the client; historical documents are read on demand.
	ErrHistorySubscribe = errors.New("daybook: can only subscribe to the current day")
)

// Service provides the day-log operations shared by the CLI and the
// dashboard UI. All operations take the selected date explicitly and work
// read-modify-write against the resolved document; last writer wins, which
// is accepted because a household runs a single editing client.
type Service struct {
	Persistence store.Persistence

	// Now is the clock; tests override it. Nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Result carries the document state after an operation. CreatedNew is set
// when the operation materialized a historical document that did not exist
// before, meaning a new selectable date appeared.
type Result struct {
	Day         *entry.DayLog
	HistoryMode bool
	CreatedNew  bool
}

// Load fetches the DayLog for date. A missing "main" document is persisted
// empty on first read; missing historical documents are created by Resolve.
// HistoryMode is set when date is not the current local calendar day.
func (s *Service) Load(ctx context.Context, date time.Time) (*Result, error) {
	key, created, err := s.Resolve(date)
	if err != nil {
		return nil, err
	}
	day, err := s.Persistence.Read(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		day = entry.NewDayLog()
		if key == MainKey {
			if err := s.Persistence.Write(key, day); err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}
	return &Result{Day: day, HistoryMode: key != MainKey, CreatedNew: created}, nil
}

// Subscribe streams snapshots of today's document. Date changes and
// shutdown must cancel ctx; leaving a subscription running leaks a watcher.
func (s *Service) Subscribe(ctx context.Context, date time.Time) (<-chan *entry.DayLog, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if !timeutil.SameDay(date, s.now()) {
		return nil, ErrHistorySubscribe
	}
	return s.Persistence.Watch(ctx, MainKey)
}

func (s *Service) mutate(ctx context.Context, date time.Time, transform func(*entry.DayLog) error) (*Result, error) {
	key, created, err := s.Resolve(date)
	if err != nil {
		return nil, err
	}
	day, err := s.Persistence.Read(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		day = entry.NewDayLog()
	} else if err != nil {
		return nil, err
	}
	if err := transform(day); err != nil {
		return nil, err
	}
	if err := s.Persistence.Write(key, day); err != nil {
		return nil, err
	}
	return &Result{Day: day, HistoryMode: key != MainKey, CreatedNew: created}, nil
}

// AddWalk appends a walk at the given time and re-sorts the walk sequence
// ascending.
func (s *Service) AddWalk(ctx context.Context, date time.Time, at time.Time) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		day.Walks = append(day.Walks, entry.NewWalk(at))
		entry.SortWalks(day.Walks)
		return nil
	})
}

// AddMeal appends a meal at the current time. Meals keep insertion order.
func (s *Service) AddMeal(ctx context.Context, date time.Time, weight int) (*Result, error) {
	meal := entry.NewMeal(s.now(), weight)
	if err := meal.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		day.Meals = append(day.Meals, meal)
		return nil
	})
}

// AddSnack appends a snack at the current time. Snacks keep insertion order.
func (s *Service) AddSnack(ctx context.Context, date time.Time, typ string, quantity int) (*Result, error) {
	snack := entry.NewSnack(s.now(), typ, quantity)
	if err := snack.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		day.Snacks = append(day.Snacks, snack)
		return nil
	})
}

// EditWalk replaces the time of the walk at index and re-sorts.
func (s *Service) EditWalk(ctx context.Context, date time.Time, index int, at time.Time) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		if index < 0 || index >= len(day.Walks) {
			return ErrIndex
		}
		day.Walks[index] = entry.NewWalk(at)
		entry.SortWalks(day.Walks)
		return nil
	})
}

// EditMeal replaces the weight of the meal at index; its time is unchanged.
func (s *Service) EditMeal(ctx context.Context, date time.Time, index int, weight int) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		if index < 0 || index >= len(day.Meals) {
			return ErrIndex
		}
		updated := day.Meals[index]
		updated.Weight = weight
		if err := updated.Validate(); err != nil {
			return err
		}
		day.Meals[index] = updated
		return nil
	})
}

// EditSnack replaces the type and quantity of the snack at index; its time
// is unchanged.
func (s *Service) EditSnack(ctx context.Context, date time.Time, index int, typ string, quantity int) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		if index < 0 || index >= len(day.Snacks) {
			return ErrIndex
		}
		updated := day.Snacks[index]
		updated.Type = typ
		updated.Quantity = quantity
		if err := updated.Validate(); err != nil {
			return err
		}
		day.Snacks[index] = updated
		return nil
	})
}

// Delete removes the entry at index from the addressed sequence. Callers
// confirm with the user before invoking this.
func (s *Service) Delete(ctx context.Context, date time.Time, kind entry.Kind, index int) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		switch kind {
		case entry.KindWalk:
			if index < 0 || index >= len(day.Walks) {
				return ErrIndex
			}
			day.Walks = append(day.Walks[:index], day.Walks[index+1:]...)
		case entry.KindMeal:
			if index < 0 || index >= len(day.Meals) {
				return ErrIndex
			}
			day.Meals = append(day.Meals[:index], day.Meals[index+1:]...)
		case entry.KindSnack:
			if index < 0 || index >= len(day.Snacks) {
				return ErrIndex
			}
			day.Snacks = append(day.Snacks[:index], day.Snacks[index+1:]...)
		default:
			return errors.New("daybook: unknown entry kind")
		}
		return nil
	})
}

// ResetDay empties all three sequences for the resolved day. The document
// itself stays in place. Callers confirm with the user before invoking this.
func (s *Service) ResetDay(ctx context.Context, date time.Time) (*Result, error) {
	return s.mutate(ctx, date, func(day *entry.DayLog) error {
		day.Walks = []entry.Walk{}
		day.Meals = []entry.Meal{}
		day.Snacks = []entry.Snack{}
		return nil
	})
}

// NextWalkTime returns when the next walk comes due: the last walk's time
// plus WalkInterval. ok is false when the day has no walk with a valid
// timestamp yet.
func NextWalkTime(day *entry.DayLog) (time.Time, bool) {
	if day == nil {
		return time.Time{}, false
	}
	for i := len(day.Walks) - 1; i >= 0; i-- {
		if day.Walks[i].Time.Valid() {
			return day.Walks[i].Time.Add(WalkInterval), true
		}
	}
	return time.Time{}, false
}

// WalkDue reports whether a walk is due at now. Always false when viewing a
// historical day; always true when no walk has happened yet today.
func WalkDue(day *entry.DayLog, now time.Time, historyMode bool) bool {
	if historyMode {
		return false
	}
	next, ok := NextWalkTime(day)
	if !ok {
		return true
	}
	return !now.Before(next)
}
