package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/pawlog/pkg/daybook"
	"tableflip.dev/pawlog/pkg/entry"
	"tableflip.dev/pawlog/pkg/history"
	"tableflip.dev/pawlog/pkg/rollover"
	"tableflip.dev/pawlog/pkg/store"
	"tableflip.dev/pawlog/pkg/timeutil"
	"tableflip.dev/pawlog/pkg/weather"
)

const layoutClock = "15:04"

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modePrompt
	modeConfirm
)

type action int

const (
	actionNone action = iota
	actionAddWalk
	actionAddMealWeight
	actionAddSnackType
	actionAddSnackQty
	actionEditWalk
	actionEditMealWeight
	actionEditSnackType
	actionEditSnackQty
	actionDelete
	actionReset
)

// date item for the left (history) list
type dateItem struct {
	date  time.Time
	today bool
}

func (d dateItem) Title() string {
	if d.today {
		return timeutil.DayKey(d.date) + "  (today)"
	}
	return timeutil.DayKey(d.date)
}
func (d dateItem) Description() string { return "" }
func (d dateItem) FilterValue() string { return timeutil.DayKey(d.date) }

// row is one selectable line in the right (entries) pane, addressed by the
// entry's position in its document sequence.
type row struct {
	kind  entry.Kind
	index int
	label string
}

// Model contains the dashboard state.
type Model struct {
	svc      *daybook.Service
	catalog  *history.Catalog
	poller   *weather.Poller
	watcher  *rollover.Watcher
	ctx      context.Context
	mode     mode
	action   action

	selected    time.Time
	day         *entry.DayLog
	historyMode bool

	// subCancel tears down the live subscription for the previous date; it
	// must run on every date change and on shutdown.
	subCancel context.CancelFunc
	subCh     <-chan *entry.DayLog

	// dayGen and catGen discard responses superseded by a newer request.
	dayGen int
	catGen int

	focus    int // 0: history, 1: entries
	histList list.Model
	rows     []row
	cursor   int

	input       textinput.Model
	confirmWhat string

	pendingIndex int
	pendingKind  entry.Kind
	pendingType  string

	now    time.Time
	status string

	termWidth  int
	termHeight int
}

// New creates the dashboard model.
func New(svc *daybook.Service, weatherCfg store.WeatherConfig) *Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 28, 20)
	l.Title = "Days"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 64
	ti.Prompt = ""

	now := time.Now()
	m := Model{
		svc:      svc,
		catalog:  &history.Catalog{Persistence: svc.Persistence},
		poller:   &weather.Poller{Client: &weather.Client{Config: weatherCfg}},
		watcher:  &rollover.Watcher{Persistence: svc.Persistence},
		ctx:      context.Background(),
		mode:     modeNormal,
		action:   actionNone,
		focus:    1,
		selected: now,
		day:      entry.NewDayLog(),
		histList: l,
		input:    ti,
		now:      now,
		status:   "j/k move, h/l panes, w walk, W timed walk, f meal, s snack, e edit, d delete, R reset, m more, q quit",
	}
	return &m
}

// messages
type errMsg struct{ err error }
type dayLoadedMsg struct {
	gen int
	res *daybook.Result
}
type mutatedMsg struct {
	gen    int
	res    *daybook.Result
	status string
}
type snapshotMsg struct {
	day *entry.DayLog
	ch  <-chan *entry.DayLog
}
type subscribedMsg struct {
	ch <-chan *entry.DayLog
}
type catalogMsg struct {
	gen     int
	dates   []time.Time
	hasMore bool
	err     error
}
type clockTickMsg time.Time
type rolloverTickMsg time.Time
type rolloverDoneMsg struct{ changed bool }
type weatherTickMsg time.Time
type weatherDoneMsg struct{}

// Init loads initial data and starts the timers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadDay(),
		m.loadCatalog(true),
		m.subscribe(),
		m.fetchWeather(),
		clockTick(),
		rolloverTick(),
		weatherTick(),
	)
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func rolloverTick() tea.Cmd {
	return tea.Tick(rollover.DefaultInterval, func(t time.Time) tea.Msg { return rolloverTickMsg(t) })
}

func weatherTick() tea.Cmd {
	return tea.Tick(weather.DefaultPollInterval, func(t time.Time) tea.Msg { return weatherTickMsg(t) })
}

func (m *Model) loadDay() tea.Cmd {
	m.dayGen++
	gen := m.dayGen
	date := m.selected
	return func() tea.Msg {
		res, err := m.svc.Load(m.ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return dayLoadedMsg{gen: gen, res: res}
	}
}

func (m *Model) loadCatalog(reset bool) tea.Cmd {
	m.catGen++
	gen := m.catGen
	return func() tea.Msg {
		dates, err := m.catalog.LoadPage(m.ctx, reset)
		return catalogMsg{gen: gen, dates: dates, hasMore: m.catalog.HasMore(), err: err}
	}
}

// subscribe tears down any previous live subscription and, when the
// selected date is today, establishes a new one.
func (m *Model) subscribe() tea.Cmd {
	if m.subCancel != nil {
		m.subCancel()
		m.subCancel = nil
		m.subCh = nil
	}
	if !timeutil.SameDay(m.selected, time.Now()) {
		return nil
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.subCancel = cancel
	date := m.selected
	return func() tea.Msg {
		ch, err := m.svc.Subscribe(ctx, date)
		if err != nil {
			cancel()
			return errMsg{err}
		}
		return subscribedMsg{ch: ch}
	}
}

func waitSnapshot(ch <-chan *entry.DayLog) tea.Cmd {
	return func() tea.Msg {
		day, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{day: day, ch: ch}
	}
}

func (m *Model) fetchWeather() tea.Cmd {
	return func() tea.Msg {
		m.poller.Fetch(m.ctx)
		return weatherDoneMsg{}
	}
}

func (m *Model) checkRollover() tea.Cmd {
	return func() tea.Msg {
		changed, err := m.watcher.Check(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return rolloverDoneMsg{changed: changed}
	}
}

// mutateCmd issues one mutation against the currently selected day. The
// captured generation ties the response to that selection; a result that
// lands after the user moved to another date is discarded.
func (m *Model) mutateCmd(status string, op func() (*daybook.Result, error)) tea.Cmd {
	gen := m.dayGen
	return func() tea.Msg {
		res, err := op()
		if err != nil {
			return errMsg{err}
		}
		return mutatedMsg{gen: gen, res: res, status: status}
	}
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()

	case errMsg:
		m.status = "ERR: " + msg.err.Error()

	case dayLoadedMsg:
		if msg.gen != m.dayGen {
			// A newer load was issued; this response is stale.
			break
		}
		m.day = msg.res.Day
		m.historyMode = msg.res.HistoryMode
		m.rebuildRows()
		if msg.res.CreatedNew {
			cmds = append(cmds, m.loadCatalog(true))
		}

	case mutatedMsg:
		if msg.gen != m.dayGen {
			// The selection moved on while the mutation was in flight.
			break
		}
		m.day = msg.res.Day
		m.historyMode = msg.res.HistoryMode
		m.status = msg.status
		m.rebuildRows()
		if msg.res.CreatedNew {
			cmds = append(cmds, m.loadCatalog(true))
		}

	case subscribedMsg:
		m.subCh = msg.ch
		cmds = append(cmds, waitSnapshot(msg.ch))

	case snapshotMsg:
		// Ignore snapshots from a superseded subscription.
		if msg.ch != m.subCh {
			break
		}
		if !m.historyMode {
			m.day = msg.day
			m.rebuildRows()
		}
		cmds = append(cmds, waitSnapshot(msg.ch))

	case catalogMsg:
		if msg.gen != m.catGen {
			break
		}
		if msg.err != nil {
			m.status = "history degraded: " + msg.err.Error()
		}
		m.setHistoryItems(msg.dates)

	case clockTickMsg:
		m.now = time.Time(msg)
		cmds = append(cmds, clockTick())

	case rolloverTickMsg:
		cmds = append(cmds, m.checkRollover(), rolloverTick())

	case rolloverDoneMsg:
		if msg.changed {
			// New day: re-point the selection at today, then reload.
			m.selected = time.Now()
			m.status = "a new day started"
			cmds = append(cmds, m.loadDay(), m.loadCatalog(true), m.subscribe())
		}

	case weatherTickMsg:
		cmds = append(cmds, m.fetchWeather(), weatherTick())

	case weatherDoneMsg:
		// A render pass is enough; the poller holds the reading.

	case tea.KeyPressMsg:
		switch m.mode {
		case modePrompt:
			cmds = append(cmds, m.updatePrompt(msg)...)
		case modeConfirm:
			cmds = append(cmds, m.updateConfirm(msg)...)
		case modeNormal:
			cmds = append(cmds, m.updateNormal(msg)...)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateNormal(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case "q", "ctrl+c":
		if m.subCancel != nil {
			m.subCancel()
		}
		cmds = append(cmds, tea.Quit)

	case "h", "left":
		m.focus = 0
	case "l", "right":
		m.focus = 1

	case "j", "down":
		if m.focus == 0 {
			m.histList.CursorDown()
		} else if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.focus == 0 {
			m.histList.CursorUp()
		} else if m.cursor > 0 {
			m.cursor--
		}

	case "enter":
		if m.focus == 0 {
			if it, ok := m.histList.SelectedItem().(dateItem); ok {
				m.selectDate(it.date, &cmds)
			}
		}

	case "t":
		m.selectDate(time.Now(), &cmds)

	case "m":
		if m.catalog.HasMore() {
			cmds = append(cmds, m.loadCatalog(false))
		} else {
			m.status = "no more history"
		}

	case "w":
		at := m.entryTime()
		date := m.selected
		cmds = append(cmds, m.mutateCmd("walk logged", func() (*daybook.Result, error) {
			return m.svc.AddWalk(m.ctx, date, at)
		}))

	case "W":
		m.openPrompt(actionAddWalk, "Walk time (HH:MM)", "")
		cmds = append(cmds, m.focusInput()...)

	case "f":
		m.openPrompt(actionAddMealWeight, "Meal weight (g)", "")
		cmds = append(cmds, m.focusInput()...)

	case "s":
		m.openPrompt(actionAddSnackType, "Snack type", "")
		cmds = append(cmds, m.focusInput()...)

	case "e":
		if r, ok := m.currentRow(); ok {
			m.pendingIndex = r.index
			switch r.kind {
			case entry.KindWalk:
				m.openPrompt(actionEditWalk, "New walk time (HH:MM)", "")
			case entry.KindMeal:
				m.openPrompt(actionEditMealWeight, "New weight (g)", strconv.Itoa(m.day.Meals[r.index].Weight))
			case entry.KindSnack:
				m.openPrompt(actionEditSnackType, "New snack type", m.day.Snacks[r.index].Type)
			}
			cmds = append(cmds, m.focusInput()...)
		}

	case "d":
		if r, ok := m.currentRow(); ok {
			m.pendingIndex = r.index
			m.pendingKind = r.kind
			m.mode = modeConfirm
			m.action = actionDelete
			m.confirmWhat = fmt.Sprintf("Delete %s #%d? (y/n)", r.kind, r.index)
		}

	case "R":
		m.mode = modeConfirm
		m.action = actionReset
		m.confirmWhat = fmt.Sprintf("Wipe all entries for %s? (y/n)", timeutil.DayKey(m.selected))

	case "r":
		cmds = append(cmds, m.loadDay(), m.loadCatalog(true))

	case "g":
		cmds = append(cmds, m.fetchWeather())
	}
	return cmds
}

func (m *Model) updatePrompt(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		cmds = append(cmds, m.submitPrompt(input)...)
	case "esc":
		m.closePrompt()
		m.status = "cancelled"
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (m *Model) submitPrompt(input string) []tea.Cmd {
	var cmds []tea.Cmd
	date := m.selected
	act := m.action
	idx := m.pendingIndex

	abort := func(msg string) {
		m.closePrompt()
		m.status = msg
	}

	switch act {
	case actionAddWalk, actionEditWalk:
		at, err := timeutil.ParseClock(input, date)
		if err != nil {
			abort("invalid time: " + input)
			return cmds
		}
		m.closePrompt()
		if act == actionAddWalk {
			cmds = append(cmds, m.mutateCmd("walk logged", func() (*daybook.Result, error) {
				return m.svc.AddWalk(m.ctx, date, at)
			}))
		} else {
			cmds = append(cmds, m.mutateCmd("walk updated", func() (*daybook.Result, error) {
				return m.svc.EditWalk(m.ctx, date, idx, at)
			}))
		}

	case actionAddMealWeight, actionEditMealWeight:
		weight, err := parsePositive(input)
		if err != nil {
			abort("weight must be a positive whole number of grams")
			return cmds
		}
		m.closePrompt()
		if act == actionAddMealWeight {
			cmds = append(cmds, m.mutateCmd("meal logged", func() (*daybook.Result, error) {
				return m.svc.AddMeal(m.ctx, date, weight)
			}))
		} else {
			cmds = append(cmds, m.mutateCmd("meal updated", func() (*daybook.Result, error) {
				return m.svc.EditMeal(m.ctx, date, idx, weight)
			}))
		}

	case actionAddSnackType, actionEditSnackType:
		if input == "" {
			abort("snack type must not be empty")
			return cmds
		}
		m.pendingType = input
		next := actionAddSnackQty
		if act == actionEditSnackType {
			next = actionEditSnackQty
		}
		m.openPrompt(next, "Quantity", "")
		cmds = append(cmds, m.focusInput()...)

	case actionAddSnackQty, actionEditSnackQty:
		quantity, err := parsePositive(input)
		if err != nil {
			abort("quantity must be a positive whole number")
			return cmds
		}
		typ := m.pendingType
		m.closePrompt()
		if act == actionAddSnackQty {
			cmds = append(cmds, m.mutateCmd("snack logged", func() (*daybook.Result, error) {
				return m.svc.AddSnack(m.ctx, date, typ, quantity)
			}))
		} else {
			cmds = append(cmds, m.mutateCmd("snack updated", func() (*daybook.Result, error) {
				return m.svc.EditSnack(m.ctx, date, idx, typ, quantity)
			}))
		}
	}
	return cmds
}

func (m *Model) updateConfirm(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg.String() {
	case "y", "Y", "enter":
		act := m.action
		date := m.selected
		idx := m.pendingIndex
		kind := m.pendingKind
		m.mode = modeNormal
		m.action = actionNone
		switch act {
		case actionDelete:
			cmds = append(cmds, m.mutateCmd("deleted", func() (*daybook.Result, error) {
				return m.svc.Delete(m.ctx, date, kind, idx)
			}))
		case actionReset:
			cmds = append(cmds, m.mutateCmd("day wiped", func() (*daybook.Result, error) {
				return m.svc.ResetDay(m.ctx, date)
			}))
		}
	case "n", "N", "esc", "q":
		m.mode = modeNormal
		m.action = actionNone
		m.status = "cancelled"
	}
	return cmds
}

func (m *Model) openPrompt(act action, placeholder, value string) {
	m.mode = modePrompt
	m.action = act
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
}

func (m *Model) focusInput() []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.input.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, textinput.Blink)
	return cmds
}

func (m *Model) closePrompt() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) selectDate(date time.Time, cmds *[]tea.Cmd) {
	m.selected = date
	m.cursor = 0
	*cmds = append(*cmds, m.loadDay())
	if cmd := m.subscribe(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// entryTime places "now" on the selected calendar day, so logging against a
// historical date produces a timestamp on that date.
func (m *Model) entryTime() time.Time {
	now := time.Now()
	if timeutil.SameDay(m.selected, now) {
		return now
	}
	y, mo, d := m.selected.Local().Date()
	return time.Date(y, mo, d, now.Hour(), now.Minute(), now.Second(), 0, time.Local)
}

func (m *Model) currentRow() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) rebuildRows() {
	m.rows = buildRows(m.day)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// buildRows flattens the day into selectable lines. Indices address the
// document sequences, so hidden malformed meals/snacks do not shift the
// positions of the visible ones.
func buildRows(day *entry.DayLog) []row {
	rows := make([]row, 0, len(day.Walks)+len(day.Meals)+len(day.Snacks))
	for i, w := range day.Walks {
		label := "🐾 " + w.Time.Local().Format(layoutClock)
		if !w.Time.Valid() {
			label = fmt.Sprintf("⚠ unreadable time %q", w.Time.Raw())
		}
		rows = append(rows, row{kind: entry.KindWalk, index: i, label: label})
	}
	for i, meal := range day.Meals {
		if meal.Weight <= 0 {
			continue
		}
		rows = append(rows, row{
			kind:  entry.KindMeal,
			index: i,
			label: fmt.Sprintf("🍖 %s  %dg", meal.Time.Local().Format(layoutClock), meal.Weight),
		})
	}
	for i, s := range day.Snacks {
		if s.Quantity <= 0 {
			continue
		}
		rows = append(rows, row{
			kind:  entry.KindSnack,
			index: i,
			label: fmt.Sprintf("🦴 %s  %s ×%d", s.Time.Local().Format(layoutClock), s.Type, s.Quantity),
		})
	}
	return rows
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("not positive: %d", n)
	}
	return n, nil
}

func (m *Model) setHistoryItems(dates []time.Time) {
	now := time.Now()
	items := make([]list.Item, 0, len(dates))
	for _, d := range dates {
		items = append(items, dateItem{date: d, today: timeutil.SameDay(d, now)})
	}
	m.histList.SetItems(items)
	if len(items) > 0 && m.histList.Index() < 0 {
		m.histList.Select(0)
	}
}

// walkStatus renders the due line against the continuously advancing clock.
func walkStatus(day *entry.DayLog, now time.Time, historyMode bool) string {
	if historyMode {
		return ""
	}
	if daybook.WalkDue(day, now, false) {
		return "🔔 walk due now"
	}
	next, ok := daybook.NextWalkTime(day)
	if !ok {
		return ""
	}
	return fmt.Sprintf("next walk %s (in %s)", next.Local().Format(layoutClock), timeutil.FormatShort(next.Sub(now)))
}

func (m *Model) weatherLine() string {
	r, err := m.poller.Reading()
	if r != nil {
		return fmt.Sprintf("%s %.1f°C  %s  💧%d%%  🌬%.1f m/s",
			weather.Glyph(r.Icon), r.Temp, r.Description, r.Humidity, r.WindSpeed)
	}
	if err != nil {
		return "weather unavailable"
	}
	return "fetching weather…"
}

// View renders the dashboard.
func (m *Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("🐕 pawlog — " + timeutil.DayKey(m.selected))
	header := title + "\n" + m.weatherLine()
	if due := walkStatus(m.day, m.now, m.historyMode); due != "" {
		header += "\n" + due
	}
	if m.historyMode {
		header += "\n" + lipgloss.NewStyle().Faint(true).Render("(history)")
	}

	var entries strings.Builder
	entries.WriteString("Entries\n")
	if len(m.rows) == 0 {
		entries.WriteString(lipgloss.NewStyle().Faint(true).Render("  nothing logged") + "\n")
	}
	for i, r := range m.rows {
		indicator := "  "
		if m.focus == 1 && i == m.cursor {
			indicator = "→ "
		}
		entries.WriteString(indicator + r.label + "\n")
	}
	if q := m.day.Quarantined(); q > 0 {
		entries.WriteString(lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("  (%d malformed hidden)", q)) + "\n")
	}

	gap := lipgloss.NewStyle().Padding(0, 1).Render
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.histList.View(), gap(" "), entries.String())

	if m.mode == modePrompt {
		body += "\n\n" + m.input.Placeholder + ": " + m.input.View()
	}
	if m.mode == modeConfirm {
		panel := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2)
		body += "\n\n" + panel.Render(m.confirmWhat)
	}

	status := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.status)
	return header + "\n\n" + body + "\n\n" + status
}

// applySizes recalculates pane sizes for the current terminal.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := m.termWidth / 3
	if left < 24 {
		left = 24
	}
	if left > 36 {
		left = 36
	}
	height := m.termHeight - 10
	if height < 8 {
		height = 8
	}
	m.histList.SetSize(left, height)
}

// Run launches the dashboard.
func Run(svc *daybook.Service, weatherCfg store.WeatherConfig) error {
	p := tea.NewProgram(New(svc, weatherCfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
