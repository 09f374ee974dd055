package commands

import (
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "pawlog",
		Short: base.Wrap80("Pet care logging for one very good dog."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addAdd(topLevel)
	addGet(topLevel)
	addHistory(topLevel)
	addDelete(topLevel)
	addReset(topLevel)
	addWeather(topLevel)
	addVersion(topLevel)
}

// loadService wires config, persistence and the day-log service for one
// command invocation.
func loadService() (*daybook.Service, store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return &daybook.Service{Persistence: p}, cfg, nil
}

// confirm asks a yes/no question; any non-affirmative answer (including a
// cancelled prompt) declines.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		return false
	}
	return true
}
