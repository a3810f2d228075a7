package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"gutcheck/internal/api"
)

// TipsCard renders the day's tips as markdown. A nil log means none have
// been generated yet; generating disables and labels the trigger hint.
func (s Styles) TipsCard(tips *api.TipsLog, loading, generating bool) string {
	head := s.CardHead.Render("Gut Health Tips")

	var body string
	switch {
	case loading:
		body = s.Muted.Render("Loading tips...")
	case generating:
		body = s.Muted.Render("Generating tips...")
	case tips == nil || len(tips.Tips) == 0:
		body = lipgloss.JoinVertical(lipgloss.Left,
			s.Muted.Render("No tips yet for this day."),
			s.Help.Render("Press 'g' to generate tips."),
		)
	default:
		body = s.renderTipsMarkdown(tips.Tips)
	}

	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (s Styles) renderTipsMarkdown(tips []string) string {
	var md strings.Builder
	for _, tip := range tips {
		fmt.Fprintf(&md, "- %s\n", tip)
	}

	stylePath := "light"
	if s.Theme.IsDark {
		stylePath = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(stylePath),
		glamour.WithWordWrap(60),
	)
	if err != nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimRight(out, "\n")
}
