package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/commands/options"
	"tableflip.dev/pawlog/pkg/runner/reset"
	"tableflip.dev/pawlog/pkg/timeutil"
)

func addReset(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "reset [date]",
		Short: "Wipe all entries for a day (the document stays)",
		Args:  cobra.MaximumNArgs(1),
		Example: `
pawlog reset
pawlog reset 2026-08-20
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &reset.Reset{}
			if len(args) == 1 {
				date, err := timeutil.ParseDayKey(args[0])
				if err != nil {
					return err
				}
				r.Date = date
			}
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r.Service = svc
			if !co.Yes {
				r.Confirm = confirm
			}
			return r.Do(cmd.Context())
		},
	}
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
