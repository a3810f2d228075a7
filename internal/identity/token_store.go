package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// tokenStore persists the session across runs so the user stays signed in.
type tokenStore struct {
	path string
}

func newTokenStore(dir string) *tokenStore {
	return &tokenStore{path: filepath.Join(dir, "session.json")}
}

// Load reads the persisted session. A missing file means no session.
func (s *tokenStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *tokenStore) Save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the persisted session.
func (s *tokenStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
