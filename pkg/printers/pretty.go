package printers

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/timeutil"
	"tableflip.dev/pawlog/pkg/weather"
)

const layoutClock = "15:04"

type PrettyPrint struct{}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Day renders one DayLog. Walks with unparsable times show an error marker
// instead of being dropped; meals and snacks missing their numeric field
// are hidden and reported in the summary.
func (pp *PrettyPrint) Day(day *entry.DayLog, date time.Time, historyMode bool, now time.Time) {
	pp.Title(timeutil.DayKey(date))

	section := color.New(color.Bold)
	faint := color.New(color.Faint)
	bad := color.New(color.FgHiRed)

	_, _ = section.Println("Walks")
	if len(day.Walks) == 0 {
		_, _ = faint.Println("  none")
	}
	for i, w := range day.Walks {
		if !w.Time.Valid() {
			_, _ = bad.Printf("  %d. ⚠ unreadable time %q\n", i, w.Time.Raw())
			continue
		}
		fmt.Printf("  %d. 🐾 %s\n", i, w.Time.Local().Format(layoutClock))
	}

	_, _ = section.Println("Meals")
	meals := day.VisibleMeals()
	if len(meals) == 0 {
		_, _ = faint.Println("  none")
	}
	for i, m := range meals {
		fmt.Printf("  %d. 🍖 %s  %dg\n", i, m.Time.Local().Format(layoutClock), m.Weight)
	}

	_, _ = section.Println("Snacks")
	snacks := day.VisibleSnacks()
	if len(snacks) == 0 {
		_, _ = faint.Println("  none")
	}
	for i, s := range snacks {
		fmt.Printf("  %d. 🦴 %s  %s ×%d\n", i, s.Time.Local().Format(layoutClock), s.Type, s.Quantity)
	}

	if q := day.Quarantined(); q > 0 {
		_, _ = faint.Printf("(%d malformed record(s) hidden)\n", q)
	}

	if historyMode {
		return
	}
	if daybook.WalkDue(day, now, false) {
		due := color.New(color.FgHiYellow, color.Bold)
		_, _ = due.Println("Walk due now!")
		return
	}
	if next, ok := daybook.NextWalkTime(day); ok {
		_, _ = faint.Printf("Next walk at %s (in %s)\n",
			next.Local().Format(layoutClock), timeutil.FormatShort(next.Sub(now)))
	}
}

// History renders the catalog as a table, newest first.
func (pp *PrettyPrint) History(dates []time.Time, hasMore bool, now time.Time) {
	table := uitable.New()
	table.AddRow("DATE", "WHEN")
	for _, d := range dates {
		table.AddRow(timeutil.DayKey(d), relativeDay(d, now))
	}
	fmt.Println(table)
	if hasMore {
		f := color.New(color.Faint)
		_, _ = f.Println("(more available)")
	}
}

func relativeDay(d, now time.Time) string {
	switch {
	case timeutil.SameDay(d, now):
		return "today"
	case timeutil.SameDay(d, timeutil.Yesterday(now)):
		return "yesterday"
	default:
		return d.Local().Format("Monday")
	}
}

// Weather renders one reading.
func (pp *PrettyPrint) Weather(r *weather.Reading) {
	fmt.Printf("%s  %.1f°C  %s\n", weather.Glyph(r.Icon), r.Temp, r.Description)
	f := color.New(color.Faint)
	_, _ = f.Printf("humidity %d%%  wind %.1f m/s\n", r.Humidity, r.WindSpeed)
}
