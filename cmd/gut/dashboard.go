package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/api"
	"gutcheck/internal/dateutil"
	"gutcheck/internal/query"
)

const fetchTimeout = 30 * time.Second

// dashboardModel is the daily view: a date cursor, the day's entries with a
// selection, the summary card, and the tips pane. All data comes out of the
// query cache; ensureFetches starts whatever reads are missing or stale.
type dashboardModel struct {
	app    *app
	cache  *query.Cache
	styles ui.Styles

	cursor   time.Time
	selected int

	dialog     *dialogModel
	generating bool
}

func newDashboardModel(a *app, cache *query.Cache, styles ui.Styles) dashboardModel {
	return dashboardModel{
		app:    a,
		cache:  cache,
		styles: styles,
		cursor: dateutil.Today(),
	}
}

// reset returns the cursor to today, e.g. after a fresh sign-in.
func (m *dashboardModel) reset() {
	m.cursor = dateutil.Today()
	m.selected = 0
	m.dialog = nil
	m.generating = false
}

func (m dashboardModel) dialogOpen() bool { return m.dialog != nil }

func (m dashboardModel) date() string { return dateutil.Key(m.cursor) }

func (m dashboardModel) keys() (entries, summary, tips query.Key) {
	date := m.date()
	return query.Key{Resource: query.Entries, Date: date},
		query.Key{Resource: query.DailySummary, Date: date},
		query.Key{Resource: query.Tips, Date: date}
}

func (m dashboardModel) entries() []api.FoodEntry {
	entriesKey, _, _ := m.keys()
	list, ok := query.Value[api.FoodEntryList](m.cache, entriesKey)
	if !ok {
		return nil
	}
	return list.Entries
}

// loading reports whether any of the day's reads or the tips generation is
// in flight.
func (m dashboardModel) loading() bool {
	entriesKey, summaryKey, tipsKey := m.keys()
	for _, key := range []query.Key{entriesKey, summaryKey, tipsKey} {
		if _, state := m.cache.Lookup(key); state == query.Loading {
			return true
		}
	}
	return m.generating
}

// clampSelection keeps the selection inside the (possibly shrunk) entry list.
func (m *dashboardModel) clampSelection() {
	n := len(m.entries())
	if n == 0 {
		m.selected = 0
	} else if m.selected >= n {
		m.selected = n - 1
	}
}

// ensureFetches starts a fetch for every key of the current day that is
// missing or stale. Fresh and in-flight keys are left alone.
func (m *dashboardModel) ensureFetches() tea.Cmd {
	entriesKey, summaryKey, tipsKey := m.keys()
	date := m.date()
	client := m.app.client

	var cmds []tea.Cmd
	if gen, start := m.cache.Begin(entriesKey); start {
		cmds = append(cmds, fetchCmd(entriesKey, gen, func(ctx context.Context) (any, error) {
			return client.FoodEntries(ctx, date)
		}))
	}
	if gen, start := m.cache.Begin(summaryKey); start {
		cmds = append(cmds, fetchCmd(summaryKey, gen, func(ctx context.Context) (any, error) {
			return client.DailySummary(ctx, date)
		}))
	}
	if gen, start := m.cache.Begin(tipsKey); start {
		cmds = append(cmds, fetchCmd(tipsKey, gen, func(ctx context.Context) (any, error) {
			return client.Tips(ctx, date)
		}))
	}
	return tea.Batch(cmds...)
}

// fetchCmd runs one read off the update loop and reports it back stamped
// with the generation its Begin issued.
func fetchCmd(key query.Key, gen uint64, fetch func(context.Context) (any, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		value, err := fetch(ctx)
		return queryResultMsg{key: key, gen: gen, value: value, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if m.dialog != nil {
		return m.updateDialog(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	entries := m.entries()
	switch key.String() {
	case "left", "h":
		m.cursor = dateutil.AddDays(m.cursor, -1)
		m.selected = 0
		return m, m.ensureFetches()

	case "right", "l":
		// The future holds no entries; navigation stops at today.
		if dateutil.IsToday(m.cursor) {
			return m, nil
		}
		m.cursor = dateutil.AddDays(m.cursor, 1)
		m.selected = 0
		return m, m.ensureFetches()

	case "t":
		if dateutil.IsToday(m.cursor) {
			return m, nil
		}
		m.cursor = dateutil.Today()
		m.selected = 0
		return m, m.ensureFetches()

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(entries)-1 {
			m.selected++
		}
		return m, nil

	case "a":
		d := newAddDialog(m.styles)
		m.dialog = &d
		return m, d.focusCmd()

	case "e":
		if m.selected >= len(entries) {
			return m, nil
		}
		d := newEditDialog(m.styles, entries[m.selected])
		m.dialog = &d
		return m, d.focusCmd()

	case "d":
		if m.selected >= len(entries) {
			return m, nil
		}
		return m, m.deleteCmd(entries[m.selected].ID)

	case "g":
		if m.generating {
			return m, nil
		}
		m.generating = true
		return m, m.generateTipsCmd()

	case "r":
		entriesKey, summaryKey, tipsKey := m.keys()
		m.cache.Invalidate(entriesKey, summaryKey, tipsKey)
		return m, m.ensureFetches()
	}
	return m, nil
}

func (m dashboardModel) updateDialog(msg tea.Msg) (dashboardModel, tea.Cmd) {
	d, outcome, cmd := m.dialog.update(msg)
	m.dialog = &d

	switch outcome {
	case dialogCancelled:
		m.dialog = nil
		return m, nil
	case dialogSubmitted:
		return m, m.submitDialogCmd(d)
	}
	return m, cmd
}

// submitDialogCmd issues the add or update mutation for a submitted dialog.
// The dialog stays open until the mutation reports success.
func (m dashboardModel) submitDialogCmd(d dialogModel) tea.Cmd {
	client := m.app.client
	date := m.date()
	text := d.trimmedText()
	meal := d.meal()
	entryID := d.entryID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		if entryID != "" {
			result, err := client.UpdateFoodEntry(ctx, entryID, text)
			if err != nil {
				return mutationMsg{err: err}
			}
			return mutationMsg{verb: "updated", date: date, score: result.UpdatedGutScore, hasScore: true}
		}

		result, err := client.AddFoodEntry(ctx, api.NewEntryRequest{
			Date:     date,
			Time:     time.Now().Format("15:04"),
			MealType: meal,
			FoodText: text,
		})
		if err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{verb: "added", date: date, score: result.UpdatedGutScore, hasScore: true}
	}
}

func (m dashboardModel) deleteCmd(entryID string) tea.Cmd {
	client := m.app.client
	date := m.date()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if err := client.DeleteFoodEntry(ctx, entryID); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{verb: "Entry deleted", date: date}
	}
}

func (m dashboardModel) generateTipsCmd() tea.Cmd {
	client := m.app.client
	date := m.date()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		if _, err := client.GenerateTips(ctx, date); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{verb: "Tips generated", date: date}
	}
}

// mutationDone applies a completed write to the dashboard's local state:
// invalidate the affected keys first, then close the dialog or clear the
// generating flag. The caller refetches and shows the toast.
func (m dashboardModel) mutationDone(msg mutationMsg) (dashboardModel, tea.Cmd) {
	if msg.err != nil {
		if m.dialog != nil {
			m.dialog.failed(msg.err)
		}
		m.generating = false
		return m, nil
	}

	switch msg.verb {
	case "added", "updated", "Entry deleted":
		m.cache.Invalidate(
			query.Key{Resource: query.Entries, Date: msg.date},
			query.Key{Resource: query.DailySummary, Date: msg.date},
		)
		m.dialog = nil
	case "Tips generated":
		m.cache.Invalidate(query.Key{Resource: query.Tips, Date: msg.date})
		m.generating = false
	}
	m.clampSelection()
	return m, nil
}

func (m dashboardModel) view() string {
	entriesKey, summaryKey, tipsKey := m.keys()

	summary, _ := query.Value[*api.DailySummary](m.cache, summaryKey)
	_, summaryState := m.cache.Lookup(summaryKey)
	_, entriesState := m.cache.Lookup(entriesKey)
	tips, _ := query.Value[*api.TipsLog](m.cache, tipsKey)
	_, tipsState := m.cache.Lookup(tipsKey)

	dateLine := m.styles.CardHead.Render(dateutil.DisplayLabel(m.date()))
	if dateutil.IsToday(m.cursor) {
		dateLine += "  " + m.styles.Badge.Render("today")
	} else {
		dateLine += "  " + m.styles.Help.Render("t: back to today")
	}

	parts := []string{
		dateLine,
		m.styles.DailySummaryCard(summary, summaryState == query.Loading),
		m.styles.EntryList(m.entries(), m.selected, entriesState == query.Loading),
		m.styles.TipsCard(tips, tipsState == query.Loading, m.generating),
		m.styles.Help.Render("←/→: day  ↑/↓: select  a: add  e: edit  d: delete  g: tips  r: refresh"),
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	if m.dialog != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.dialog.view())
	}
	return body
}
