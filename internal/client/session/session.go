// Package session owns the client's authentication state: the bearer
// token, the identity claims derived from it, and the cached user
// profile. It is the single authority on "who is logged in" for the
// whole application; everything else consumes it read-only.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ykaradag/ustahub/internal/client/api"
	"github.com/ykaradag/ustahub/internal/client/token"
	"github.com/ykaradag/ustahub/internal/models"
)

// Backend is the slice of the API client the session manager needs.
type Backend interface {
	// Login exchanges a credential for a session token.
	Login(ctx context.Context, req api.LoginRequest) (string, error)
	// Register creates an account and returns its session token.
	Register(ctx context.Context, req api.RegisterRequest) (string, error)
	// MyProfile fetches the authenticated user's profile.
	MyProfile(ctx context.Context) (*models.UserProfile, error)
}

// Store persists the session token across client runs.
type Store interface {
	// Load returns the persisted token, or empty when no session exists.
	Load() (string, error)
	// Save overwrites the persisted token.
	Save(tok string) error
	// Clear removes the persisted token.
	Clear() error
}

// ErrSessionRejected reports that the backend rejected the freshly
// issued token before the login could complete: the awaited profile
// fetch came back 401/403 and the global expiry reaction tore the
// session down again.
var ErrSessionRejected = errors.New("session rejected by backend during login")

// Manager holds the session state. It is safe for concurrent use; its
// state is guarded by a mutex and asynchronous profile fetches carry a
// generation number so a completion from a superseded session can never
// overwrite current state.
type Manager struct {
	backend Backend
	store   Store
	log     *zap.Logger

	mu      sync.Mutex
	tok     string
	claims  *token.Claims
	profile *models.UserProfile
	// gen increments whenever the session identity changes. Profile
	// fetch results are dropped unless their generation still matches.
	gen uint64
}

// NewManager constructs a session manager. State starts empty; call
// Initialize to hydrate a persisted session.
func NewManager(backend Backend, store Store, log *zap.Logger) *Manager {
	return &Manager{backend: backend, store: store, log: log}
}

// Initialize hydrates the session from the persisted token, if any. A
// malformed persisted token is discarded silently: corrupt local state
// is recovered from, never reported as an error. The profile fetch runs
// in the background.
func (m *Manager) Initialize(ctx context.Context) error {
	raw, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load persisted token: %w", err)
	}
	if raw == "" {
		return nil
	}

	claims, err := token.Decode(raw)
	if err != nil {
		m.log.Debug("discarding malformed persisted token", zap.Error(err))
		if err := m.store.Clear(); err != nil {
			return fmt.Errorf("clear malformed token: %w", err)
		}
		return nil
	}

	m.mu.Lock()
	m.tok = raw
	m.claims = claims
	m.profile = nil
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	go m.fetchProfile(ctx, gen)
	return nil
}

// Login authenticates with the backend. On success the new token is
// persisted and decoded, and a profile fetch is attempted before Login
// returns; a failed fetch leaves the profile empty but the session
// authenticated. On failure the session is left exactly as it was and
// the backend's error is returned for the caller to render; the one
// exception is ErrSessionRejected, where the global 401/403 reaction
// has already cleared everything.
func (m *Manager) Login(ctx context.Context, req api.LoginRequest) error {
	raw, err := m.backend.Login(ctx, req)
	if err != nil {
		return err
	}
	return m.adopt(ctx, raw)
}

// Register creates an account. The backend issues a usable token
// directly, so a successful registration behaves like an immediate
// login.
func (m *Manager) Register(ctx context.Context, req api.RegisterRequest) error {
	raw, err := m.backend.Register(ctx, req)
	if err != nil {
		return err
	}
	return m.adopt(ctx, raw)
}

// adopt installs a freshly issued token: persist, decode, replace state,
// then await one profile fetch attempt. If that fetch gets the session
// expired (the backend rejected the token it just issued), adopt reports
// ErrSessionRejected instead of success so no caller sees an
// authenticated state that no longer exists.
func (m *Manager) adopt(ctx context.Context, raw string) error {
	claims, err := token.Decode(raw)
	if err != nil {
		return fmt.Errorf("decode issued token: %w", err)
	}
	if err := m.store.Save(raw); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	m.mu.Lock()
	m.tok = raw
	m.claims = claims
	m.profile = nil
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	m.fetchProfile(ctx, gen)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		return ErrSessionRejected
	}
	return nil
}

// Logout clears the persisted token and resets all session state. No
// backend call is made; afterwards the manager is indistinguishable from
// a fresh, never-authenticated start.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		m.log.Error("failed to clear persisted token", zap.Error(err))
	}
	m.reset()
}

// Invalidate resets in-memory session state without touching the store.
// The API client calls it (via the application) after a 401/403 response
// has already cleared the persisted token.
func (m *Manager) Invalidate() {
	m.reset()
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.tok = ""
	m.claims = nil
	m.profile = nil
	m.gen++
	m.mu.Unlock()
}

// RefreshProfile re-fetches the profile and replaces the cached copy.
// Call it after any operation that may have changed profile data on the
// backend. Failures are not surfaced: the cached profile is cleared
// instead of going stale, and the caller may re-attempt.
func (m *Manager) RefreshProfile(ctx context.Context) {
	m.mu.Lock()
	if m.tok == "" {
		m.mu.Unlock()
		return
	}
	gen := m.gen
	m.mu.Unlock()

	m.fetchProfile(ctx, gen)
}

// fetchProfile performs one profile fetch attempt for the session
// generation gen. If the session has changed by the time the response
// arrives, the result is discarded; state fetched under a superseded
// token must never resurface.
func (m *Manager) fetchProfile(ctx context.Context, gen uint64) {
	profile, err := m.backend.MyProfile(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		m.log.Debug("discarding stale profile fetch result")
		return
	}
	if err != nil {
		m.log.Debug("profile fetch failed, clearing cached profile", zap.Error(err))
		m.profile = nil
		return
	}
	m.profile = profile
}

// Token returns the current session token, or empty when not
// authenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok
}

// Claims returns the identity claims decoded from the current token, or
// nil when not authenticated.
func (m *Manager) Claims() *token.Claims {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims
}

// Profile returns the cached user profile, or nil when none has been
// fetched yet (or the last fetch failed).
func (m *Manager) Profile() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// IsAdmin reports whether the current claims carry the admin authority.
// It is derived from the claims on every call, so it cannot desync from
// them; with no session it is false, not an error.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.claims.IsAdmin()
}

// Authenticated reports whether a session token is currently held.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tok != ""
}
