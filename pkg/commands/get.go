package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/pawlog/pkg/runner/get"
	"tableflip.dev/pawlog/pkg/timeutil"
)

func addGet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "get [date]",
		Short: "Show the log for a day (today when no date is given)",
		Args:  cobra.MaximumNArgs(1),
		Example: `
pawlog get
pawlog get 2026-08-20
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &get.Get{}
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
			if oo.JSON {
				r.Output = "json"
			}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
