package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/identity"
)

// signinModel is the anonymous-state view: an email/password form that
// toggles between signing in and creating an account.
type signinModel struct {
	app    *app
	styles ui.Styles

	email    textinput.Model
	password textinput.Model
	focus    int // 0 email, 1 password

	signup     bool
	submitting bool
	errText    string
}

func newSigninModel(a *app, styles ui.Styles) signinModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 128
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 128
	password.Width = 40

	return signinModel{
		app:      a,
		styles:   styles,
		email:    email,
		password: password,
	}
}

// fail reports a completed failed attempt back into the form.
func (m signinModel) fail(err error) (signinModel, tea.Cmd) {
	m.submitting = false
	if errors.Is(err, identity.ErrAlreadyRegistered) {
		m.errText = "An account with this email already exists. Press ctrl+t to sign in instead."
	} else {
		m.errText = err.Error()
	}
	return m, nil
}

func (m signinModel) update(msg tea.Msg) (signinModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}
	if m.submitting {
		return m, nil
	}

	switch key.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % 2
		return m.applyFocus()
	case "shift+tab", "up":
		m.focus = (m.focus + 1) % 2
		return m.applyFocus()
	case "ctrl+t":
		m.signup = !m.signup
		m.errText = ""
		return m, nil
	case "ctrl+g":
		m.submitting = true
		m.errText = ""
		return m, m.googleCmd()
	case "enter":
		return m.submit()
	}
	return m.updateInputs(msg)
}

func (m signinModel) applyFocus() (signinModel, tea.Cmd) {
	if m.focus == 0 {
		m.password.Blur()
		return m, m.email.Focus()
	}
	m.email.Blur()
	return m, m.password.Focus()
}

func (m signinModel) updateInputs(msg tea.Msg) (signinModel, tea.Cmd) {
	var cmds [2]tea.Cmd
	m.email, cmds[0] = m.email.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	return m, tea.Batch(cmds[0], cmds[1])
}

func (m signinModel) submit() (signinModel, tea.Cmd) {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	if email == "" || password == "" {
		m.errText = "Email and password are required."
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	session := m.app.session
	signup := m.signup
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if signup {
			return authMsg{err: session.SignUp(ctx, email, password)}
		}
		return authMsg{err: session.SignIn(ctx, email, password)}
	}
}

// googleCmd opens the browser and blocks on the OAuth callback.
func (m signinModel) googleCmd() tea.Cmd {
	session := m.app.session
	port := m.app.cfg.OAuthCallbackPort
	return func() tea.Msg {
		flow, err := session.BeginGoogleSignIn(port)
		if err != nil {
			return authMsg{err: err}
		}
		_ = openBrowser(flow.AuthURL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return authMsg{err: session.CompleteGoogleSignIn(ctx, flow)}
	}
}

func (m signinModel) view() string {
	title := "Sign in"
	action := "sign in"
	toggle := "ctrl+t: create an account instead"
	if m.signup {
		title = "Create account"
		action = "sign up"
		toggle = "ctrl+t: sign in instead"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("gutcheck") + "  " +
		m.styles.Subtitle.Render("log meals, watch your gut score") + "\n\n")
	b.WriteString(m.styles.CardHead.Render(title) + "\n\n")
	b.WriteString(m.styles.Prompt.Render("Email") + "\n")
	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.styles.Prompt.Render("Password") + "\n")
	b.WriteString(m.password.View() + "\n\n")

	if m.submitting {
		b.WriteString(m.styles.Muted.Render("Signing in...") + "\n")
	} else {
		b.WriteString(m.styles.Help.Render("enter: "+action+"  ctrl+g: continue with Google  "+toggle) + "\n")
	}
	if m.errText != "" {
		b.WriteString(m.styles.ErrToast.Render(m.errText) + "\n")
	}

	return m.styles.Card.Render(lipgloss.NewStyle().Width(50).Render(b.String()))
}
