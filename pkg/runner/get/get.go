package get

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/printers"
)

// Get loads and prints the selected day's log.
type Get struct {
	Date time.Time

	// Output selects the rendering; "json" emits the raw document.
	Output string

	Service *daybook.Service
}

func (g *Get) Do(ctx context.Context) error {
	now := time.Now()
	if g.Date.IsZero() {
		g.Date = now
	}
	res, err := g.Service.Load(ctx, g.Date)
	if err != nil {
		return err
	}
	if g.Output == "json" {
		b, err := json.Marshal(res.Day)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	pp := printers.PrettyPrint{}
	pp.Day(res.Day, g.Date, res.HistoryMode, now)
	return nil
}
