package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoSession is returned by AccessToken when no user is signed in.
var ErrNoSession = errors.New("no active session")

// refreshMargin is how far ahead of expiry a token is refreshed.
const refreshMargin = time.Minute

// Status is the session state machine: Unknown until the persisted session
// has been resolved, then Authenticated or Anonymous.
type Status int

const (
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers whenever the session state moves.
type Change struct {
	Status  Status
	Session *Session
}

// Manager owns the current session: it resolves persisted credentials at
// startup, exposes the sign-in/sign-up/sign-out operations, refreshes tokens
// ahead of expiry, and notifies subscribers on every state change. It
// satisfies api.TokenSource.
type Manager struct {
	provider *Provider
	store    *tokenStore
	log      *zap.Logger

	mu        sync.Mutex
	status    Status
	session   *Session
	listeners map[int]func(Change)
	nextID    int
}

// NewManager builds a session manager persisting tokens under dir. The
// logger may be nil.
func NewManager(provider *Provider, dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		provider:  provider,
		store:     newTokenStore(dir),
		log:       log,
		status:    StatusUnknown,
		listeners: make(map[int]func(Change)),
	}
}

// Status returns the current session status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Session returns a copy of the current session, or nil when anonymous.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Subscribe registers fn for session change notifications and returns its
// unsubscribe func. Unsubscribing twice is safe.
func (m *Manager) Subscribe(fn func(Change)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// set updates the state and notifies subscribers outside the lock. Setting
// the same state twice is fine: both initialization paths (explicit Resolve
// and a provider callback) converge on the same shape.
func (m *Manager) set(status Status, session *Session) {
	m.mu.Lock()
	m.status = status
	m.session = session

	fns := make([]func(Change), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	change := Change{Status: status, Session: session}
	for _, fn := range fns {
		fn(change)
	}
}

// Resolve loads the persisted session and settles the state machine to
// Authenticated or Anonymous. Expired sessions are refreshed; refresh
// failures resolve to Anonymous. Calling Resolve more than once is
// idempotent.
func (m *Manager) Resolve(ctx context.Context) Status {
	sess, err := m.store.Load()
	if err != nil {
		m.log.Warn("session load failed", zap.Error(err))
	}
	if sess == nil {
		m.set(StatusAnonymous, nil)
		return StatusAnonymous
	}

	if time.Until(sess.Expiry) < refreshMargin {
		refreshed, err := m.provider.Refresh(ctx, sess.RefreshToken)
		if err != nil {
			m.log.Warn("session refresh failed", zap.Error(err))
			m.set(StatusAnonymous, nil)
			return StatusAnonymous
		}
		sess = refreshed
		if err := m.store.Save(sess); err != nil {
			m.log.Warn("session save failed", zap.Error(err))
		}
	}

	m.set(StatusAuthenticated, sess)
	return StatusAuthenticated
}

// SignUp creates a new account. Duplicate emails surface as
// ErrAlreadyRegistered so callers can show the "sign in instead" message.
// Failures leave the current state untouched.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	sess, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	return m.adopt(sess)
}

// SignIn exchanges credentials for a session. Single failure path.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	sess, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	return m.adopt(sess)
}

// BeginGoogleSignIn starts the OAuth redirect flow and returns the URL the
// user must open. No local state changes here; the session arrives through
// CompleteGoogleSignIn and reaches observers via the subscription.
func (m *Manager) BeginGoogleSignIn(callbackPort int) (*OAuthFlow, error) {
	return m.provider.StartOAuth("google", callbackPort)
}

// CompleteGoogleSignIn blocks until the provider redirects back, then adopts
// the resulting session.
func (m *Manager) CompleteGoogleSignIn(ctx context.Context, flow *OAuthFlow) error {
	sess, err := m.provider.WaitForCallback(ctx, flow)
	if err != nil {
		return err
	}
	return m.adopt(sess)
}

func (m *Manager) adopt(sess *Session) error {
	if err := m.store.Save(sess); err != nil {
		m.log.Warn("session save failed", zap.Error(err))
	}
	m.set(StatusAuthenticated, sess)
	return nil
}

// SignOut revokes the session with the provider. On provider failure the
// local session is kept: state is only cleared once the provider confirms.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	if sess == nil {
		m.set(StatusAnonymous, nil)
		return nil
	}

	if err := m.provider.SignOut(ctx, sess.AccessToken); err != nil {
		m.log.Warn("sign out failed, keeping session", zap.Error(err))
		return err
	}

	if err := m.store.Clear(); err != nil {
		m.log.Warn("token store clear failed", zap.Error(err))
	}
	m.set(StatusAnonymous, nil)
	return nil
}

// AccessToken returns the current bearer token, refreshing it when it is
// about to expire. Implements api.TokenSource.
func (m *Manager) AccessToken() (string, error) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()

	if sess == nil {
		return "", ErrNoSession
	}
	if time.Until(sess.Expiry) >= refreshMargin {
		return sess.AccessToken, nil
	}

	refreshed, err := m.provider.Refresh(context.Background(), sess.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := m.store.Save(refreshed); err != nil {
		m.log.Warn("session save failed", zap.Error(err))
	}
	m.set(StatusAuthenticated, refreshed)
	return refreshed.AccessToken, nil
}
