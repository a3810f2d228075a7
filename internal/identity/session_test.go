package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a minimal identity service for tests.
type fakeProvider struct {
	mux          *http.ServeMux
	signOutFails bool
	refreshCount int
}

func newFakeProvider(t *testing.T) (*fakeProvider, *Provider) {
	t.Helper()

	f := &fakeProvider{mux: http.NewServeMux()}

	f.mux.HandleFunc("POST /signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":400,"msg":"User already registered"}`))
			return
		}
		writeSession(w, "signup-token")
	})

	f.mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("grant_type") {
		case "password":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "correct" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
				return
			}
			writeSession(w, "password-token")
		case "refresh_token":
			f.refreshCount++
			writeSession(w, "refreshed-token")
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})

	f.mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		if f.signOutFails {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"msg":"logout failed"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(f.mux)
	t.Cleanup(srv.Close)
	return f, NewProvider(srv.URL, "anon-key")
}

func writeSession(w http.ResponseWriter, token string) {
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  token,
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-" + token,
		"user":          map[string]string{"id": "u1", "email": "user@example.com"},
	})
}

func newTestManager(t *testing.T) (*fakeProvider, *Manager, string) {
	t.Helper()
	f, p := newFakeProvider(t)
	dir := t.TempDir()
	return f, NewManager(p, dir, nil), dir
}

func TestManager_InitialStatusUnknown(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)
	assert.Equal(t, StatusUnknown, m.Status())
}

func TestResolve_NoPersistedSession(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)
	assert.Equal(t, StatusAnonymous, m.Resolve(context.Background()))
	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Nil(t, m.Session())
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)

	var changes []Status
	unsub := m.Subscribe(func(c Change) { changes = append(changes, c.Status) })
	defer unsub()

	first := m.Resolve(context.Background())
	second := m.Resolve(context.Background())

	assert.Equal(t, first, second)
	for _, s := range changes {
		assert.Equal(t, StatusAnonymous, s, "both initialization paths converge to the same state")
	}
}

func TestResolve_PersistedSessionStillValid(t *testing.T) {
	t.Parallel()

	f, m, dir := newTestManager(t)

	persist(t, dir, &Session{
		AccessToken:  "persisted-token",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	})

	assert.Equal(t, StatusAuthenticated, m.Resolve(context.Background()))
	assert.Zero(t, f.refreshCount, "a valid session is not refreshed")

	tok, err := m.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "persisted-token", tok)
}

func TestResolve_ExpiredSessionRefreshes(t *testing.T) {
	t.Parallel()

	f, m, dir := newTestManager(t)

	persist(t, dir, &Session{
		AccessToken:  "old-token",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	})

	assert.Equal(t, StatusAuthenticated, m.Resolve(context.Background()))
	assert.Equal(t, 1, f.refreshCount)

	tok, err := m.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", tok)
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	_, m, dir := newTestManager(t)

	var got []Change
	unsub := m.Subscribe(func(c Change) { got = append(got, c) })
	defer unsub()

	require.NoError(t, m.SignIn(context.Background(), "user@example.com", "correct"))

	assert.Equal(t, StatusAuthenticated, m.Status())
	require.NotEmpty(t, got)
	assert.Equal(t, StatusAuthenticated, got[len(got)-1].Status)

	// Session is persisted for the next run.
	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.NoError(t, err)
}

func TestSignIn_BadCredentials(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)
	m.Resolve(context.Background())

	err := m.SignIn(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
	assert.Equal(t, StatusAnonymous, m.Status(), "failed sign-in leaves state untouched")
}

func TestSignUp_AlreadyRegistered(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)
	m.Resolve(context.Background())

	err := m.SignUp(context.Background(), "taken@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, StatusAnonymous, m.Status())
}

func TestSignUp_Success(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)
	require.NoError(t, m.SignUp(context.Background(), "new@example.com", "pw"))
	assert.Equal(t, StatusAuthenticated, m.Status())
}

func TestSignOut_ProviderFailureKeepsSession(t *testing.T) {
	t.Parallel()

	f, m, _ := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "user@example.com", "correct"))

	f.signOutFails = true
	err := m.SignOut(context.Background())
	require.Error(t, err)

	assert.Equal(t, StatusAuthenticated, m.Status(), "session is cleared only when the provider confirms")
	tok, err := m.AccessToken()
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}

func TestSignOut_Success(t *testing.T) {
	t.Parallel()

	_, m, dir := newTestManager(t)
	require.NoError(t, m.SignIn(context.Background(), "user@example.com", "correct"))

	require.NoError(t, m.SignOut(context.Background()))
	assert.Equal(t, StatusAnonymous, m.Status())

	_, err := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(err), "persisted session must be removed")

	_, err = m.AccessToken()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()

	_, m, _ := newTestManager(t)

	calls := 0
	unsub := m.Subscribe(func(Change) { calls++ })

	m.Resolve(context.Background())
	require.Equal(t, 1, calls)

	unsub()
	unsub() // double unsubscribe is safe

	require.NoError(t, m.SignIn(context.Background(), "user@example.com", "correct"))
	assert.Equal(t, 1, calls, "no notifications after unsubscribe")
}

func TestAccessToken_RefreshesNearExpiry(t *testing.T) {
	t.Parallel()

	f, m, dir := newTestManager(t)

	persist(t, dir, &Session{
		AccessToken:  "nearly-expired",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(10 * time.Hour),
	})
	m.Resolve(context.Background())

	// Shrink the expiry under the refresh margin.
	m.mu.Lock()
	m.session.Expiry = time.Now().Add(10 * time.Second)
	m.mu.Unlock()

	tok, err := m.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", tok)
	assert.Equal(t, 1, f.refreshCount)
}

func TestStartOAuth_BuildsAuthorizeURL(t *testing.T) {
	t.Parallel()

	p := NewProvider("https://id.example.com/auth/v1", "anon")
	flow, err := p.StartOAuth("google", 53121)
	require.NoError(t, err)

	assert.Contains(t, flow.AuthURL, "https://id.example.com/auth/v1/authorize?")
	assert.Contains(t, flow.AuthURL, "provider=google")
	assert.Contains(t, flow.AuthURL, "code_challenge=")
	assert.NotEmpty(t, flow.Verifier)
	assert.NotEmpty(t, flow.State)
}

func persist(t *testing.T, dir string, sess *Session) {
	t.Helper()
	store := newTokenStore(dir)
	require.NoError(t, store.Save(sess))
}
