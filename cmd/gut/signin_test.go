package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/identity"
)

func TestSigninEmptyFieldsDoNotSubmit(t *testing.T) {
	m := newSigninModel(&app{}, ui.DefaultStyles())

	m, cmd := m.update(keyMsg("enter"))
	assert.Nil(t, cmd, "empty credentials must not start a sign in")
	assert.NotEmpty(t, m.errText)
	assert.False(t, m.submitting)
}

func TestSigninModeToggle(t *testing.T) {
	m := newSigninModel(&app{}, ui.DefaultStyles())
	require.False(t, m.signup)

	m, _ = m.update(keyMsg("ctrl+t"))
	assert.True(t, m.signup)
	assert.Contains(t, m.view(), "Create account")

	m, _ = m.update(keyMsg("ctrl+t"))
	assert.False(t, m.signup)
	assert.Contains(t, m.view(), "Sign in")
}

func TestSigninAlreadyRegisteredMessage(t *testing.T) {
	m := newSigninModel(&app{}, ui.DefaultStyles())
	m.submitting = true

	m, _ = m.fail(identity.ErrAlreadyRegistered)
	assert.False(t, m.submitting)
	assert.Contains(t, m.errText, "already exists")
}
