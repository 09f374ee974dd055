package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/commands/options"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log something for the day",
		Example: `
pawlog add walk
pawlog add walk --time 07:30
pawlog add meal 500
pawlog add snack biscuit 2 --date 2026-08-20
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addWalk(cmd)
	addMeal(cmd)
	addSnack(cmd)

	topLevel.AddCommand(cmd)
}

func addWalk(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	to := &options.TimeOptions{}

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Log a walk",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := do.GetDate()
			if err != nil {
				return err
			}
			if date.IsZero() {
				date = time.Now()
			}
			at, err := to.GetAt(date)
			if err != nil {
				return err
			}

			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r := &add.Add{Kind: entry.KindWalk, Date: date, At: at, Service: svc}
			return r.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	options.AddTimeArg(cmd, to)
	topLevel.AddCommand(cmd)
}

func addMeal(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "meal [grams]",
		Short: "Log a meal by weight in grams",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, ok, err := intArgOrPrompt(args, 0, "Weight (g)")
			if err != nil {
				return err
			}
			if !ok {
				// Cancelled prompt: abort with no state change.
				return nil
			}

			date, err := do.GetDate()
			if err != nil {
				return err
			}
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r := &add.Add{Kind: entry.KindMeal, Date: date, Weight: weight, Service: svc}
			return r.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	topLevel.AddCommand(cmd)
}

func addSnack(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "snack [type] [quantity]",
		Short: "Log a snack by type and quantity",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, ok, err := stringArgOrPrompt(args, 0, "Snack type")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			quantity, ok, err := intArgOrPrompt(args, 1, "Quantity")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			date, err := do.GetDate()
			if err != nil {
				return err
			}
			svc, _, err := loadService()
			if err != nil {
				return err
			}
			r := &add.Add{Kind: entry.KindSnack, Date: date, SnackType: typ, Quantity: quantity, Service: svc}
			return r.Do(cmd.Context())
		},
	}
	options.AddDateArg(cmd, do)
	topLevel.AddCommand(cmd)
}

// intArgOrPrompt uses the positional argument when present, otherwise asks.
// ok is false when the user cancelled the prompt.
func intArgOrPrompt(args []string, idx int, label string) (int, bool, error) {
	if len(args) > idx {
		n, err := strconv.Atoi(args[idx])
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a whole number: %w", strings.ToLower(label), err)
		}
		return n, true, nil
	}
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive whole number")
			}
			return nil
		},
	}
	out, err := prompt.Run()
	if err != nil {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func stringArgOrPrompt(args []string, idx int, label string) (string, bool, error) {
	if len(args) > idx {
		return args[idx], true, nil
	}
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("must not be empty")
			}
			return nil
		},
	}
	out, err := prompt.Run()
	if err != nil {
		return "", false, nil
	}
	return strings.TrimSpace(out), true, nil
}
