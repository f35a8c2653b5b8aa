// Package storage persists the session token between client runs.
//
// The token is the only durable session state: identity claims and the
// user profile are always rederived after startup, so the store is a
// single opaque string in one well-known file.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileName is the file the token is kept in when no explicit
// path is configured.
const DefaultFileName = "session_token"

// TokenStore reads and writes the persisted session token.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store backed by the given file path.
// An empty path places the file in the user's config directory.
func NewTokenStore(path string) (*TokenStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "ustahub", DefaultFileName)
	}
	return &TokenStore{path: path}, nil
}

// Path returns the location of the backing file.
func (s *TokenStore) Path() string {
	return s.path
}

// Load returns the persisted token. A missing file means no session and
// returns an empty string, not an error.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the persisted token with the given value.
func (s *TokenStore) Save(tok string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(tok), 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is a no-op.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
