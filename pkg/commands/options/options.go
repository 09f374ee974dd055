package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pawlog/pkg/timeutil"
)

// DateOptions selects which day a command targets.
type DateOptions struct {
	OnString string
}

func AddDateArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.OnString, "date", "",
		`Target a specific day, example: --date="2026-08-20". Defaults to today.`)
}

// GetDate parses the flag; zero time means today.
func (o *DateOptions) GetDate() (time.Time, error) {
	if o.OnString == "" {
		return time.Time{}, nil
	}
	return timeutil.ParseDayKey(o.OnString)
}

// TimeOptions carries a custom walk time.
type TimeOptions struct {
	AtString string
}

func AddTimeArg(cmd *cobra.Command, o *TimeOptions) {
	cmd.Flags().StringVar(&o.AtString, "time", "",
		`Custom walk time: an HH:MM clock time on the target day, or a full RFC3339 timestamp.`)
}

// GetAt parses the flag against the target day; zero time means now.
func (o *TimeOptions) GetAt(day time.Time) (time.Time, error) {
	if o.AtString == "" {
		return time.Time{}, nil
	}
	return timeutil.ParseClock(o.AtString, day)
}

// ConfirmOptions skips interactive confirmation for destructive commands.
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false, "Skip the confirmation prompt.")
}

// PageOptions controls history pagination depth.
type PageOptions struct {
	Pages int
}

func AddPageArgs(cmd *cobra.Command, o *PageOptions) {
	cmd.Flags().IntVar(&o.Pages, "pages", 1, "How many catalog pages to fetch.")
}
