// Package identity manages the user session against the external identity
// provider (a GoTrue-style auth service). The provider's internal protocol is
// an opaque collaborator: this package only drives its REST surface and owns
// the local session state machine around it.
package identity

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAlreadyRegistered marks a sign-up attempt for an email that already has
// an account. Callers show a different message for this case.
var ErrAlreadyRegistered = errors.New("email already registered")

// User is the provider's view of the account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds the provider-issued tokens. Expiry is computed client-side
// from expires_in when the session is received.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	User         User      `json:"user"`
}

// providerError is the provider's error envelope. Different endpoints use
// different field names, so all are decoded.
type providerError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e providerError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Provider is the REST client for the identity service.
type Provider struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewProvider builds a provider client. anonKey is the service's public API
// key, sent on every request.
func NewProvider(baseURL, anonKey string) *Provider {
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{},
	}
}

func (p *Provider) post(ctx context.Context, path, bearer string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return p.http.Do(req)
}

func decodeSession(resp *http.Response) (*Session, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		msg := pe.text()
		if msg == "" {
			msg = fmt.Sprintf("identity service returned status %d", resp.StatusCode)
		}
		if strings.Contains(strings.ToLower(msg), "already registered") {
			return nil, fmt.Errorf("%s: %w", msg, ErrAlreadyRegistered)
		}
		return nil, errors.New(msg)
	}

	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, errors.New("identity service returned no session")
	}
	s.Expiry = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	return &s, nil
}

// SignUp registers a new email/password account and returns its session.
// ErrAlreadyRegistered is wrapped into the error for duplicate emails.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := p.post(ctx, "/signup", "", body)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}

// SignIn exchanges email/password credentials for a session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := p.post(ctx, "/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}

// Refresh exchanges a refresh token for a new session.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	resp, err := p.post(ctx, "/token?grant_type=refresh_token", "", body)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}

// SignOut revokes the session on the provider side.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	resp, err := p.post(ctx, "/logout", accessToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		if msg := pe.text(); msg != "" {
			return errors.New(msg)
		}
		return fmt.Errorf("sign out failed with status %d", resp.StatusCode)
	}
	return nil
}

// OAuthFlow holds the state of a pending OAuth redirect sign-in.
type OAuthFlow struct {
	AuthURL  string
	Verifier string
	State    string
	port     string
}

// StartOAuth builds the provider's authorize URL for the named OAuth
// provider ("google") with a PKCE challenge, redirecting back to a local
// callback listener.
func (p *Provider) StartOAuth(oauthProvider string, callbackPort int) (*OAuthFlow, error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return nil, err
	}
	verifier := base64.RawURLEncoding.EncodeToString(verifierBytes)

	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return nil, err
	}
	state := base64.RawURLEncoding.EncodeToString(stateBytes)

	port := fmt.Sprintf(":%d", callbackPort)
	u, err := url.Parse(p.baseURL + "/authorize")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("provider", oauthProvider)
	q.Set("redirect_to", "http://localhost"+port+"/callback")
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "s256")
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return &OAuthFlow{
		AuthURL:  u.String(),
		Verifier: verifier,
		State:    state,
		port:     port,
	}, nil
}

// WaitForCallback runs a local HTTP listener until the provider redirects
// back with an authorization code, then exchanges the code for a session.
func (p *Provider) WaitForCallback(ctx context.Context, flow *OAuthFlow) (*Session, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errStr := q.Get("error"); errStr != "" {
			http.Error(w, "Sign-in failed: "+errStr, http.StatusBadRequest)
			errChan <- fmt.Errorf("sign-in failed: %s", errStr)
			return
		}
		if s := q.Get("state"); flow.State != "" && s != flow.State {
			http.Error(w, "Invalid state", http.StatusBadRequest)
			errChan <- errors.New("invalid state received")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code received", http.StatusBadRequest)
			errChan <- errors.New("no code received")
			return
		}
		w.Write([]byte("Signed in. You can close this window and return to the terminal."))
		codeChan <- code
	})

	server := &http.Server{Addr: flow.port, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer server.Close()

	select {
	case code := <-codeChan:
		return p.exchangeCode(ctx, code, flow.Verifier)
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Provider) exchangeCode(ctx context.Context, code, verifier string) (*Session, error) {
	body := map[string]string{"auth_code": code, "code_verifier": verifier}
	resp, err := p.post(ctx, "/token?grant_type=pkce", "", body)
	if err != nil {
		return nil, err
	}
	return decodeSession(resp)
}
