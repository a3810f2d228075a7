package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gutcheck/cmd/gut/config"
	"gutcheck/cmd/gut/ui"
	"gutcheck/internal/api"
	"gutcheck/internal/identity"
	"gutcheck/internal/query"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()
	a := &app{client: api.NewClient("http://127.0.0.1:0", testTokens{}, zap.NewNop())}
	styles := ui.DefaultStyles()
	cache := query.New()
	return appModel{
		app:       a,
		styles:    styles,
		cache:     cache,
		status:    identity.StatusAuthenticated,
		signin:    newSigninModel(a, styles),
		dashboard: newDashboardModel(a, cache, styles),
		weekly:    newWeeklyModel(a, cache, styles),
		spinner:   newSpinner(styles),
		sessionCh: make(chan identity.Change, 8),
	}
}

func TestErroredFetchLeavesSlotFetchable(t *testing.T) {
	m := newTestApp(t)
	key := query.Key{Resource: query.Entries, Date: m.dashboard.date()}

	gen, start := m.cache.Begin(key)
	require.True(t, start)

	// The fetch comes back with the session gone; the slot must not wedge
	// in its loading state.
	_, _ = m.Update(queryResultMsg{key: key, gen: gen, err: api.ErrNotAuthenticated})

	_, state := m.cache.Lookup(key)
	assert.NotEqual(t, query.Loading, state)

	_, start = m.cache.Begin(key)
	assert.True(t, start, "the slot must be fetchable again after re-authentication")
}

func TestSpinnerShownWhileDashboardLoading(t *testing.T) {
	m := newTestApp(t)
	require.False(t, m.dashboard.loading())
	assert.NotContains(t, m.View(), m.spinner.View())

	cmd := m.dashboard.ensureFetches()
	require.NotNil(t, cmd)
	require.True(t, m.dashboard.loading())
	assert.Contains(t, m.View(), m.spinner.View())
}

func TestStylesHonorConfiguredTheme(t *testing.T) {
	a := &app{cfg: config.Config{Theme: "dark"}}
	assert.True(t, a.styles().Theme.IsDark)

	a = &app{cfg: config.Default()}
	assert.False(t, a.styles().Theme.IsDark)
}
