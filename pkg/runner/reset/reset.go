package reset

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/printers"
	"tableflip.dev/pawlog/pkg/timeutil"
)

// Reset wipes all entries for the selected day after confirmation. The
// document itself stays in place.
type Reset struct {
	Date time.Time

	// Confirm asks the user before anything is written; declining aborts
	// with no state change.
	Confirm func(prompt string) bool

	Service *daybook.Service
}

func (r *Reset) Do(ctx context.Context) error {
	now := time.Now()
	if r.Date.IsZero() {
		r.Date = now
	}
	if r.Confirm != nil && !r.Confirm(fmt.Sprintf("Wipe all entries for %s", timeutil.DayKey(r.Date))) {
		fmt.Println("aborted")
		return nil
	}
	res, err := r.Service.ResetDay(ctx, r.Date)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Day(res.Day, r.Date, res.HistoryMode, now)
	return nil
}
