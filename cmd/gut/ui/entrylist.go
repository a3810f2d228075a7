package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"gutcheck/internal/api"
)

// mealBadges keeps the dialog and the list rendering consistent.
var mealBadges = map[api.MealType]string{
	api.MealBreakfast: "breakfast",
	api.MealLunch:     "lunch    ",
	api.MealDinner:    "dinner   ",
	api.MealSnack:     "snack    ",
}

// EntryList renders the day's food log. selected highlights the entry the
// cursor is on; pass -1 for no selection.
func (s Styles) EntryList(entries []api.FoodEntry, selected int, loading bool) string {
	if loading {
		return s.Card.Render(s.Muted.Render("Loading entries..."))
	}
	if len(entries) == 0 {
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.CardHead.Render("Food Log"),
			s.Muted.Render("No meals logged yet. Press 'a' to add one."),
		)
		return s.Card.Render(body)
	}

	noun := "entries"
	if len(entries) == 1 {
		noun = "entry"
	}
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.CardHead.Render("Food Log  "),
			s.Muted.Render(fmt.Sprintf("%d %s", len(entries), noun)),
		),
		"",
	}

	for i, e := range entries {
		badge := s.Badge.Render(mealBadges[e.MealType])
		text := e.FoodText
		if e.Time != "" {
			text = fmt.Sprintf("%s  %s", s.Muted.Render(e.Time), text)
		}
		line := fmt.Sprintf("%s  %s", badge, text)
		if i == selected {
			line = s.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	return s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
