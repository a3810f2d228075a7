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

// weeklyModel is the weekly view: a Monday-anchored week cursor over the
// weekly summary. Forward navigation stops at the current week.
type weeklyModel struct {
	app    *app
	cache  *query.Cache
	styles ui.Styles

	cursor time.Time // always a Monday
}

func newWeeklyModel(a *app, cache *query.Cache, styles ui.Styles) weeklyModel {
	return weeklyModel{
		app:    a,
		cache:  cache,
		styles: styles,
		cursor: dateutil.WeekStart(dateutil.Today()),
	}
}

func (m *weeklyModel) reset() {
	m.cursor = dateutil.WeekStart(dateutil.Today())
}

func (m weeklyModel) start() string { return dateutil.Key(m.cursor) }

func (m weeklyModel) key() query.Key {
	return query.Key{Resource: query.WeeklySummary, Date: m.start()}
}

func (m weeklyModel) loading() bool {
	_, state := m.cache.Lookup(m.key())
	return state == query.Loading
}

func (m *weeklyModel) ensureFetches() tea.Cmd {
	key := m.key()
	gen, ok := m.cache.Begin(key)
	if !ok {
		return nil
	}
	client := m.app.client
	start := m.start()
	return fetchCmd(key, gen, func(ctx context.Context) (any, error) {
		return client.WeeklySummary(ctx, start)
	})
}

func (m weeklyModel) update(msg tea.Msg) (weeklyModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		m.cursor = dateutil.AddDays(m.cursor, -7)
		return m, m.ensureFetches()

	case "right", "l":
		if dateutil.IsCurrentWeek(m.cursor) {
			return m, nil
		}
		m.cursor = dateutil.AddDays(m.cursor, 7)
		return m, m.ensureFetches()

	case "t":
		if dateutil.IsCurrentWeek(m.cursor) {
			return m, nil
		}
		m.reset()
		return m, m.ensureFetches()

	case "r":
		m.cache.Invalidate(m.key())
		return m, m.ensureFetches()
	}
	return m, nil
}

func (m weeklyModel) view() string {
	key := m.key()
	summary, _ := query.Value[*api.WeeklySummary](m.cache, key)
	_, state := m.cache.Lookup(key)

	head := m.styles.CardHead.Render("Week of " + dateutil.DisplayLabel(m.start()))
	if dateutil.IsCurrentWeek(m.cursor) {
		head += "  " + m.styles.Badge.Render("this week")
	} else {
		head += "  " + m.styles.Help.Render("t: back to this week")
	}

	parts := []string{
		head,
		m.styles.WeeklyChart(summary, state == query.Loading),
	}
	if summary != nil {
		parts = append(parts, m.styles.WeeklyStatCards(summary), m.styles.TrendLine(summary))
	}
	parts = append(parts, m.styles.Help.Render("←/→: week  r: refresh"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
