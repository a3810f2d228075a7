package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gutcheck/internal/api"
)

const gaugeWidth = 25

// Gauge renders a 0-100 score as a filled bar.
func (s Styles) Gauge(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score * gaugeWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", gaugeWidth-filled)
	return s.ScoreStyle(score).Render(bar)
}

// DailySummaryCard renders the day's gut score and component stats. A nil
// summary renders the empty state; loading shows a placeholder line.
func (s Styles) DailySummaryCard(summary *api.DailySummary, loading bool) string {
	if loading {
		return s.Card.Render(s.Muted.Render("Loading summary..."))
	}
	if summary == nil {
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.CardHead.Render("No summary yet"),
			s.Muted.Render("Log some meals to see your daily gut health summary."),
		)
		return s.Card.Render(body)
	}

	head := lipgloss.JoinHorizontal(lipgloss.Center,
		s.CardHead.Render("Gut Score "),
		s.ScoreStyle(summary.GutScore).Render(fmt.Sprintf("%d", summary.GutScore)),
		s.Muted.Render("/100  "),
		s.Badge.Render(summary.Status),
	)

	rows := []string{
		head,
		s.Gauge(summary.GutScore),
		"",
		s.statRow("Fiber", fmt.Sprintf("%dg", summary.Stats.FiberGrams), summary.Stats.FiberScore),
		s.statRow("Diversity", "", summary.Stats.DiversityScore),
		s.statRow("Whole foods", "", summary.Stats.ProcessedScore),
		s.statRow("Probiotics", "", summary.Stats.ProbioticScore),
		s.statRow("Digestion", "", summary.Stats.DigestiveScore),
	}
	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s Styles) statRow(name, detail string, score int) string {
	label := s.Label.Render(fmt.Sprintf("%-12s", name))
	val := s.ScoreStyle(score).Render(fmt.Sprintf("%3d", score))
	if detail != "" {
		return fmt.Sprintf("%s %s  %s", label, val, s.Muted.Render(detail))
	}
	return fmt.Sprintf("%s %s", label, val)
}
