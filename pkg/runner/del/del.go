package del

import (
	"context"
	"fmt"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/printers"
)

// Delete removes one entry by kind and position after confirmation.
type Delete struct {
	Kind  entry.Kind
	Index int
	Date  time.Time

	Confirm func(prompt string) bool

	Service *daybook.Service
}

func (d *Delete) Do(ctx context.Context) error {
	now := time.Now()
	if d.Date.IsZero() {
		d.Date = now
	}
	if d.Confirm != nil && !d.Confirm(fmt.Sprintf("Delete %s #%d", d.Kind, d.Index)) {
		fmt.Println("aborted")
		return nil
	}
	res, err := d.Service.Delete(ctx, d.Date, d.Kind, d.Index)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Day(res.Day, d.Date, res.HistoryMode, now)
	return nil
}
