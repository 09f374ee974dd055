package history

import (
	"context"
	"fmt"
	"os"
	"time"

	"tableflip.dev/pawlog/pkg/history"
	"tableflip.dev/pawlog/pkg/printers"
)

// History prints the catalog of known day logs, newest first.
type History struct {
	// Pages is how many catalog pages to fetch; at least one.
	Pages int

	Catalog *history.Catalog
}

func (h *History) Do(ctx context.Context) error {
	pages := h.Pages
	if pages < 1 {
		pages = 1
	}

	dates, err := h.Catalog.LoadPage(ctx, true)
	if err != nil {
		// First-load failures degrade to the synthetic catalog.
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
	}
	for i := 1; i < pages && h.Catalog.HasMore(); i++ {
		if dates, err = h.Catalog.LoadPage(ctx, false); err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			break
		}
	}

	pp := printers.PrettyPrint{}
	pp.History(dates, h.Catalog.HasMore(), time.Now())
	return nil
}
