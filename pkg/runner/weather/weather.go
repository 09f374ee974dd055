package weather

import (
	"context"

	"tableflip.dev/pawlog/pkg/printers"
	"tableflip.dev/pawlog/pkg/weather"
)

// Weather fetches and prints current conditions once.
type Weather struct {
	Client *weather.Client
}

func (w *Weather) Do(ctx context.Context) error {
	r, err := w.Client.Current(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Weather(r)
	return nil
}
