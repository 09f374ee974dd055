package daybook

import (
	"errors"
	"time"

	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/timeutil"
)

// MainKey is the well-known document key for the current day's live log.
const MainKey = "main"

var errNoPersistence = errors.New("daybook: no persistence configured")

// Resolve maps a calendar date to its document key: "main" when date falls
// on the current local calendar day, otherwise the date's YYYY-MM-DD key.
// A missing historical document is created empty before the key is returned,
// and created reports when that happened so callers can refresh the history
// catalog. Creation is idempotent: resolving the same non-today date twice
// performs at most one create.
func (s *Service) Resolve(date time.Time) (key string, created bool, err error) {
	if s.Persistence == nil {
		return "", false, errNoPersistence
	}
	if timeutil.SameDay(date, s.now()) {
		return MainKey, false, nil
	}
	key = timeutil.DayKey(date)
	if !s.Persistence.Exists(key) {
		if err := s.Persistence.Write(key, entry.NewDayLog()); err != nil {
			return "", false, err
		}
		return key, true, nil
	}
	return key, false, nil
}
