package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gutcheck/internal/api"
	"gutcheck/internal/dateutil"
)

const chartBarWidth = 30

// WeeklyChart renders per-day score bars for a week. A nil summary renders
// the empty state.
func (s Styles) WeeklyChart(summary *api.WeeklySummary, loading bool) string {
	if loading {
		return s.Card.Render(s.Muted.Render("Loading weekly trends..."))
	}
	if summary == nil || len(summary.DailyScores) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.CardHead.Render("No data for this week"),
			s.Muted.Render("Log meals during the week to see trends here."),
		)
		return s.Card.Render(body)
	}

	rows := []string{s.CardHead.Render("Daily Scores"), ""}
	for _, day := range summary.DailyScores {
		label := s.Label.Render(fmt.Sprintf("%-12s", dateutil.DisplayLabel(day.Date)))
		filled := day.GutScore * chartBarWidth / 100
		if filled < 0 {
			filled = 0
		}
		if filled > chartBarWidth {
			filled = chartBarWidth
		}
		bar := s.ScoreStyle(day.GutScore).Render(strings.Repeat("█", filled))
		score := "—"
		if day.GutScore > 0 {
			score = fmt.Sprintf("%d", day.GutScore)
		}
		rows = append(rows, fmt.Sprintf("%s %s %s", label, bar, s.Value.Render(score)))
	}

	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// WeeklyStatCards renders the average / best day / days tracked summary row.
func (s Styles) WeeklyStatCards(summary *api.WeeklySummary) string {
	if summary == nil {
		return ""
	}

	tracked := 0
	best := api.DayScore{}
	for _, d := range summary.DailyScores {
		if d.GutScore > 0 {
			tracked++
		}
		if d.GutScore > best.GutScore {
			best = d
		}
	}

	avg := s.card2("Weekly Average", s.ScoreStyle(int(summary.AverageGutScore)).Render(fmt.Sprintf("%.0f", summary.AverageGutScore)))

	bestVal := "—"
	bestLabel := ""
	if best.Date != "" {
		bestVal = fmt.Sprintf("%d", best.GutScore)
		bestLabel = dateutil.DisplayLabel(best.Date)
	}
	bestCard := s.card2("Best Day", s.Good.Render(bestVal)+" "+s.Muted.Render(bestLabel))

	trackedCard := s.card2("Days Tracked", s.Value.Render(fmt.Sprintf("%d/7", tracked)))

	return lipgloss.JoinHorizontal(lipgloss.Top, avg, " ", bestCard, " ", trackedCard)
}

// TrendLine renders the fiber/processed/overall trend classifications.
func (s Styles) TrendLine(summary *api.WeeklySummary) string {
	if summary == nil {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.Label.Render("Fiber "), s.trendBadge(summary.FiberTrend),
		s.Label.Render("   Whole foods "), s.trendBadge(summary.ProcessedTrend),
		s.Label.Render("   Overall "), s.trendBadge(summary.Trend),
	)
}

func (s Styles) trendBadge(t api.Trend) string {
	switch t {
	case api.TrendImproving:
		return s.Good.Render("▲ improving")
	case api.TrendDeclining:
		return s.Bad.Render("▼ declining")
	default:
		return s.Muted.Render("► stable")
	}
}

func (s Styles) card2(label, value string) string {
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Label.Render(label),
		value,
	))
}
