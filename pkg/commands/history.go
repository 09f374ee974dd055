package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/commands/options"
	hcat "tableflip.dev/pawlog/pkg/history"
	"tableflip.dev/pawlog/pkg/runner/history"
)

func addHistory(topLevel *cobra.Command) {
	po := &options.PageOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List days with a log, newest first",
		Example: `
pawlog history
pawlog history --pages 3
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r := &history.History{
				Pages:   po.Pages,
				Catalog: &hcat.Catalog{Persistence: svc.Persistence},
			}
			return r.Do(cmd.Context())
		},
	}
	options.AddPageArgs(cmd, po)

	topLevel.AddCommand(cmd)
}
