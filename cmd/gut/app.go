package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/identity"
	"gutcheck/internal/query"
)

// activeView selects which content view has the keyboard.
type activeView int

const (
	viewDashboard activeView = iota
	viewWeekly
)

// Messages shared across the views.
type (
	// sessionMsg carries a session state change from the identity manager's
	// subscription into the update loop.
	sessionMsg identity.Change

	// queryResultMsg carries a fetched value back to the cache, stamped with
	// the generation its Begin issued.
	queryResultMsg struct {
		key   query.Key
		gen   uint64
		value any
		err   error
	}

	// mutationMsg reports a completed write. Successful mutations invalidate
	// their affected keys before any toast is shown.
	mutationMsg struct {
		verb     string
		date     string
		score    int
		hasScore bool
		err      error
	}

	// authMsg reports a completed sign-in or sign-up attempt.
	authMsg struct{ err error }

	clearToastMsg struct{}
)

const toastDuration = 4 * time.Second

// appModel is the root bubbletea model. It gates the content views behind
// the session state and owns the toast line and view switching.
type appModel struct {
	app    *app
	styles ui.Styles
	cache  *query.Cache

	status identity.Status
	view   activeView

	signin    signinModel
	dashboard dashboardModel
	weekly    weeklyModel
	spinner   spinner.Model

	sessionCh   chan identity.Change
	unsubscribe func()

	toast    string
	toastErr bool

	width  int
	height int
}

// runDashboard wires the components and runs the interactive program.
func runDashboard() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	styles := a.styles()
	cache := query.New()

	m := appModel{
		app:       a,
		styles:    styles,
		cache:     cache,
		status:    identity.StatusUnknown,
		signin:    newSigninModel(a, styles),
		dashboard: newDashboardModel(a, cache, styles),
		weekly:    newWeeklyModel(a, cache, styles),
		spinner:   newSpinner(styles),
		sessionCh: make(chan identity.Change, 8),
	}
	m.unsubscribe = a.session.Subscribe(func(c identity.Change) {
		// Drop rather than block: the latest state is re-read on receipt.
		select {
		case m.sessionCh <- c:
		default:
		}
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newSpinner(styles ui.Styles) spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner))
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.resolveSession(),
		m.waitForSession(),
		m.spinner.Tick,
	)
}

// resolveSession restores the persisted session off the update loop.
func (m appModel) resolveSession() tea.Cmd {
	return func() tea.Msg {
		status := m.app.session.Resolve(context.Background())
		return sessionMsg(identity.Change{Status: status, Session: m.app.session.Session()})
	}
}

// waitForSession blocks on the subscription channel for the next change.
// Re-issued after every sessionMsg so the subscription stays drained.
func (m appModel) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		return sessionMsg(<-ch)
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionMsg:
		prev := m.status
		m.status = msg.Status
		cmds := []tea.Cmd{m.waitForSession()}
		if m.status == identity.StatusAuthenticated && prev != identity.StatusAuthenticated {
			// Queries are enabled only now; kick off the active view's reads.
			m.dashboard.reset()
			m.weekly.reset()
			cmds = append(cmds, m.activeFetches())
		}
		if m.status == identity.StatusAnonymous {
			m.signin = newSigninModel(m.app, m.styles)
		}
		return m, tea.Batch(cmds...)

	case authMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			m.signin, cmd = m.signin.fail(msg.err)
			return m, cmd
		}
		// Success reaches us through the session subscription.
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mutationMsg:
		return m.handleMutation(msg)

	case queryResultMsg:
		if msg.err != nil {
			// Reads fail only when the session is gone. Release the slot so
			// it refetches after re-authentication, then re-resolve.
			m.cache.Fail(msg.key, msg.gen)
			return m, m.resolveSession()
		}
		m.cache.Store(msg.key, msg.gen, msg.value)
		m.dashboard.clampSelection()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.route(msg)
}

// handleMutation applies a completed write: invalidate first, then toast,
// then refetch whatever the active view needs.
func (m appModel) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	done, cmd := m.dashboard.mutationDone(msg)
	m.dashboard = done
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if msg.err != nil {
		m.toast = msg.err.Error()
		m.toastErr = true
	} else {
		m.toast = mutationToast(msg)
		m.toastErr = false
		cmds = append(cmds, m.activeFetches())
	}
	cmds = append(cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{} }))
	return m, tea.Batch(cmds...)
}

func mutationToast(msg mutationMsg) string {
	if msg.hasScore {
		return fmt.Sprintf("Entry %s. Gut score is now %d.", msg.verb, msg.score)
	}
	return fmt.Sprintf("%s.", msg.verb)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works, except while a text field would swallow it.
	if msg.String() == "ctrl+c" {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	}

	if m.status != identity.StatusAuthenticated {
		return m.route(msg)
	}

	// Tab switches views unless the dashboard dialog is capturing input.
	if msg.String() == "tab" && !m.dashboard.dialogOpen() {
		if m.view == viewDashboard {
			m.view = viewWeekly
		} else {
			m.view = viewDashboard
		}
		return m, m.activeFetches()
	}
	if msg.String() == "q" && !m.dashboard.dialogOpen() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	}

	return m.route(msg)
}

// route forwards a message to whichever view is active.
func (m appModel) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.status == identity.StatusUnknown:
		return m, nil
	case m.status == identity.StatusAnonymous:
		m.signin, cmd = m.signin.update(msg)
	case m.view == viewDashboard:
		m.dashboard, cmd = m.dashboard.update(msg)
	default:
		m.weekly, cmd = m.weekly.update(msg)
	}
	return m, cmd
}

// activeFetches starts whatever reads the active view is missing.
func (m *appModel) activeFetches() tea.Cmd {
	if m.status != identity.StatusAuthenticated {
		return nil
	}
	if m.view == viewDashboard {
		return m.dashboard.ensureFetches()
	}
	return m.weekly.ensureFetches()
}

func (m appModel) View() string {
	var body string
	switch {
	case m.status == identity.StatusUnknown:
		body = m.spinner.View() + m.styles.Muted.Render("Checking session...")
	case m.status == identity.StatusAnonymous:
		body = m.signin.view()
	case m.view == viewDashboard:
		body = m.dashboard.view()
	default:
		body = m.weekly.view()
	}

	var parts []string
	if m.status == identity.StatusAuthenticated {
		parts = append(parts, m.header())
	}
	parts = append(parts, body)
	if m.toast != "" {
		style := m.styles.Toast
		if m.toastErr {
			style = m.styles.ErrToast
		}
		parts = append(parts, style.Render(m.toast))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m appModel) header() string {
	daily := "Daily"
	weekly := "Weekly"
	if m.view == viewDashboard {
		daily = m.styles.Selected.Render(daily)
		weekly = m.styles.Muted.Render(weekly)
	} else {
		daily = m.styles.Muted.Render(daily)
		weekly = m.styles.Selected.Render(weekly)
	}
	line := m.styles.Title.Render("gutcheck") + "  " + daily + " | " + weekly +
		"  " + m.styles.Help.Render("tab: switch view  q: quit")
	if m.activeLoading() {
		line += "  " + m.spinner.View()
	}
	return line
}

// activeLoading reports whether the active view has a fetch in flight.
func (m appModel) activeLoading() bool {
	if m.view == viewDashboard {
		return m.dashboard.loading()
	}
	return m.weekly.loading()
}
