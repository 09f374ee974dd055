package add

import (
	"context"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/printers"
)

// Add appends one entry to the selected day and prints the result.
type Add struct {
	Kind entry.Kind
	Date time.Time

	// At is the walk time; zero means now.
	At time.Time

	Weight    int
	SnackType string
	Quantity  int

	Service *daybook.Service
}

func (a *Add) Do(ctx context.Context) error {
	now := time.Now()
	if a.Date.IsZero() {
		a.Date = now
	}

	var (
		res *daybook.Result
		err error
	)
	switch a.Kind {
	case entry.KindWalk:
		at := a.At
		if at.IsZero() {
			at = now
		}
		res, err = a.Service.AddWalk(ctx, a.Date, at)
	case entry.KindMeal:
		res, err = a.Service.AddMeal(ctx, a.Date, a.Weight)
	case entry.KindSnack:
		res, err = a.Service.AddSnack(ctx, a.Date, a.SnackType, a.Quantity)
	}
	if err != nil {
		return err
	}

	pp := printers.PrettyPrint{}
	pp.Day(res.Day, a.Date, res.HistoryMode, now)
	return nil
}
