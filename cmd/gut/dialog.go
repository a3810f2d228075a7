package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/api"
)

// dialogOutcome tells the dashboard what a key did to the dialog.
type dialogOutcome int

const (
	dialogNone dialogOutcome = iota
	dialogCancelled
	dialogSubmitted
)

// dialogModel is the add/edit form: a meal type selector and a food text
// input. Editing fixes the meal type; only the text changes. The dialog
// closes on cancel or on mutation success, never on submit itself.
type dialogModel struct {
	styles ui.Styles

	entryID string // empty for add
	mealIdx int
	input   textinput.Model

	focusMeal  bool
	submitting bool
	errText    string
}

func newAddDialog(styles ui.Styles) dialogModel {
	input := textinput.New()
	input.Placeholder = "what did you eat?"
	input.CharLimit = 500
	input.Width = 50
	return dialogModel{
		styles:    styles,
		input:     input,
		focusMeal: true,
	}
}

func newEditDialog(styles ui.Styles, entry api.FoodEntry) dialogModel {
	input := textinput.New()
	input.CharLimit = 500
	input.Width = 50
	input.SetValue(entry.FoodText)
	input.CursorEnd()

	mealIdx := 0
	for i, mt := range api.MealTypes {
		if mt == entry.MealType {
			mealIdx = i
		}
	}
	return dialogModel{
		styles:  styles,
		entryID: entry.ID,
		mealIdx: mealIdx,
		input:   input,
	}
}

func (d *dialogModel) focusCmd() tea.Cmd {
	if d.focusMeal {
		return nil
	}
	return d.input.Focus()
}

func (d dialogModel) meal() api.MealType { return api.MealTypes[d.mealIdx] }

func (d dialogModel) trimmedText() string { return strings.TrimSpace(d.input.Value()) }

// failed reopens the form for another attempt after a rejected mutation.
func (d *dialogModel) failed(err error) {
	d.submitting = false
	d.errText = err.Error()
}

func (d dialogModel) update(msg tea.Msg) (dialogModel, dialogOutcome, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return d, dialogNone, cmd
	}
	if d.submitting {
		return d, dialogNone, nil
	}

	switch key.String() {
	case "esc":
		return d, dialogCancelled, nil

	case "tab":
		if d.entryID != "" {
			return d, dialogNone, nil // meal type is fixed while editing
		}
		d.focusMeal = !d.focusMeal
		if d.focusMeal {
			d.input.Blur()
			return d, dialogNone, nil
		}
		return d, dialogNone, d.input.Focus()

	case "left":
		if d.focusMeal {
			d.mealIdx = (d.mealIdx + len(api.MealTypes) - 1) % len(api.MealTypes)
			return d, dialogNone, nil
		}

	case "right":
		if d.focusMeal {
			d.mealIdx = (d.mealIdx + 1) % len(api.MealTypes)
			return d, dialogNone, nil
		}

	case "enter":
		if d.trimmedText() == "" {
			d.errText = "Food text must not be empty."
			return d, dialogNone, nil
		}
		d.submitting = true
		d.errText = ""
		return d, dialogSubmitted, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, dialogNone, cmd
}

func (d dialogModel) view() string {
	var b strings.Builder
	if d.entryID != "" {
		b.WriteString(d.styles.CardHead.Render("Edit entry") + "\n\n")
		b.WriteString(d.styles.Label.Render("Meal: ") + d.styles.Badge.Render(string(d.meal())) + "\n")
	} else {
		b.WriteString(d.styles.CardHead.Render("Log a meal") + "\n\n")
		b.WriteString(d.styles.Label.Render("Meal: "))
		for i, mt := range api.MealTypes {
			name := string(mt)
			if i == d.mealIdx {
				if d.focusMeal {
					name = d.styles.Selected.Render(name)
				} else {
					name = d.styles.Badge.Render(name)
				}
			} else {
				name = d.styles.Muted.Render(name)
			}
			b.WriteString(name)
			if i < len(api.MealTypes)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(d.input.View() + "\n\n")

	switch {
	case d.submitting:
		b.WriteString(d.styles.Muted.Render("Saving..."))
	case d.entryID != "":
		b.WriteString(d.styles.Help.Render("enter: save  esc: cancel"))
	default:
		b.WriteString(d.styles.Help.Render("tab: meal/text  ←/→: meal type  enter: save  esc: cancel"))
	}
	if d.errText != "" {
		b.WriteString("\n" + d.styles.ErrToast.Render(d.errText))
	}

	return d.styles.Card.Render(b.String())
}
