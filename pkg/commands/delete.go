package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/commands/options"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/runner/del"
)

func addDelete(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "delete <walk|meal|snack> <index>",
		Short: "Delete one entry by kind and position",
		Args:  cobra.ExactArgs(2),
		Example: `
pawlog delete walk 0
pawlog delete snack 1 --date 2026-08-20
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := entry.KindForAlias(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			date, err := do.GetDate()
			if err != nil {
				return err
			}

			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r := &del.Delete{Kind: kind, Index: index, Date: date, Service: svc}
			if !co.Yes {
				r.Confirm = confirm
			}
			return r.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
