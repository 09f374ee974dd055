package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := loadService()
			if err != nil {
				return err
			}
			return tui.Run(svc, cfg.Weather())
		},
	}

	topLevel.AddCommand(cmd)
}
