package commands

import (
	"github.com/spf13/cobra"

	rweather "tableflip.dev/pawlog/pkg/runner/weather"
	"tableflip.dev/pawlog/pkg/store"
	"tableflip.dev/pawlog/pkg/weather"
)

func addWeather(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show current conditions at the configured location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			r := &rweather.Weather{Client: &weather.Client{Config: cfg.Weather()}}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
