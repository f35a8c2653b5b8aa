package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ykaradag/ustahub/internal/client/api"
	"github.com/ykaradag/ustahub/internal/client/api/apitest"
	"github.com/ykaradag/ustahub/internal/models"
)

// fakeBackend implements Backend for testing.
type fakeBackend struct {
	LoginFunc    func(ctx context.Context, req api.LoginRequest) (string, error)
	RegisterFunc func(ctx context.Context, req api.RegisterRequest) (string, error)
	ProfileFunc  func(ctx context.Context) (*models.UserProfile, error)
}

func (f *fakeBackend) Login(ctx context.Context, req api.LoginRequest) (string, error) {
	return f.LoginFunc(ctx, req)
}

func (f *fakeBackend) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	return f.RegisterFunc(ctx, req)
}

func (f *fakeBackend) MyProfile(ctx context.Context) (*models.UserProfile, error) {
	return f.ProfileFunc(ctx)
}

// memStore is an in-memory token store.
type memStore struct {
	mu  sync.Mutex
	tok string
}

func (s *memStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, nil
}

func (s *memStore) Save(tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
	return nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	return nil
}

func (s *memStore) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func profileBackend(profile *models.UserProfile) *fakeBackend {
	return &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return profile, nil
		},
	}
}

// requireEmpty asserts the manager is in the never-authenticated state.
func requireEmpty(t *testing.T, m *Manager) {
	t.Helper()
	assert.Empty(t, m.Token())
	assert.Nil(t, m.Claims())
	assert.Nil(t, m.Profile())
	assert.False(t, m.IsAdmin())
	assert.False(t, m.Authenticated())
}

func TestInitialize_NoToken(t *testing.T) {
	m := NewManager(profileBackend(nil), &memStore{}, zap.NewNop())

	require.NoError(t, m.Initialize(context.Background()))
	requireEmpty(t, m)
}

func TestInitialize_ValidToken(t *testing.T) {
	store := &memStore{tok: apitest.MintToken("alice", []string{"ROLE_USER", "ROLE_ADMIN"})}
	fetched := make(chan struct{})
	backend := &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			defer close(fetched)
			return &models.UserProfile{Username: "alice", FullName: "Alice A"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())

	require.NoError(t, m.Initialize(context.Background()))
	require.NotNil(t, m.Claims())
	assert.Equal(t, "alice", m.Claims().Subject)
	assert.True(t, m.IsAdmin())

	// The profile fetch is asynchronous during initialize.
	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Fatal("profile fetch never started")
	}
	assert.Eventually(t, func() bool {
		p := m.Profile()
		return p != nil && p.FullName == "Alice A"
	}, time.Second, 10*time.Millisecond)
}

func TestInitialize_NonAdminToken(t *testing.T) {
	store := &memStore{tok: apitest.MintToken("bob", []string{"ROLE_USER"})}
	m := NewManager(profileBackend(nil), store, zap.NewNop())

	require.NoError(t, m.Initialize(context.Background()))
	assert.False(t, m.IsAdmin())
	assert.Equal(t, "bob", m.Claims().Subject)
}

func TestInitialize_MalformedToken(t *testing.T) {
	for _, raw := range []string{"garbage", "a.b", "ey.ey.ey"} {
		store := &memStore{tok: raw}
		m := NewManager(profileBackend(nil), store, zap.NewNop())

		require.NoError(t, m.Initialize(context.Background()), "token %q", raw)
		requireEmpty(t, m)
		assert.Empty(t, store.get(), "persisted token %q should be discarded", raw)
	}
}

func TestLogin_Success(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{tok: "stale-previous-token"}
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			if req.Identifier != "bob" || req.Secret != "correctpass" {
				t.Errorf("unexpected credential: %+v", req)
			}
			return tok, nil
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return &models.UserProfile{Username: "bob", FullName: "Bob B"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())

	err := m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "correctpass"})
	require.NoError(t, err)

	assert.Equal(t, tok, m.Token())
	assert.Equal(t, tok, store.get(), "old persisted token must be overwritten")
	assert.Equal(t, "bob", m.Claims().Subject)
	// Login awaits the profile fetch; no flash of missing profile.
	require.NotNil(t, m.Profile())
	assert.Equal(t, "Bob B", m.Profile().FullName)
}

func TestLogin_BadCredentials(t *testing.T) {
	wantErr := &api.Error{Status: http.StatusUnauthorized, Message: "invalid credentials", Path: "/auth/login"}
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			return "", wantErr
		},
	}
	store := &memStore{}
	m := NewManager(backend, store, zap.NewNop())

	err := m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "wrongpass"})
	require.Error(t, err)
	assert.True(t, api.IsAuthRejected(err))
	requireEmpty(t, m)
	assert.Empty(t, store.get())
}

func TestLogin_FailureLeavesExistingSession(t *testing.T) {
	tok := apitest.MintToken("alice", []string{"ROLE_ADMIN"})
	store := &memStore{tok: tok}
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			return "", errors.New("connection refused")
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return &models.UserProfile{Username: "alice"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	err := m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "pw"})
	require.Error(t, err)
	assert.False(t, api.IsAuthRejected(err), "transport error is not a rejection")

	// Previous session untouched.
	assert.Equal(t, tok, m.Token())
	assert.Equal(t, "alice", m.Claims().Subject)
	assert.NotNil(t, m.Profile())
	assert.Equal(t, tok, store.get())
}

func TestLogin_ProfileFetchFailure(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			return tok, nil
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return nil, errors.New("profile endpoint down")
		},
	}
	m := NewManager(backend, &memStore{}, zap.NewNop())

	// A failed profile fetch does not fail the login or invalidate the
	// token; the user is authenticated with an empty profile.
	require.NoError(t, m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "pw"}))
	assert.Equal(t, tok, m.Token())
	assert.Nil(t, m.Profile())
	assert.True(t, m.Authenticated())
}

func TestLogin_TokenRejectedDuringProfileFetch(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{}
	var m *Manager
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			return tok, nil
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			// The backend rejects the token it just issued; the API
			// client's global 401/403 reaction clears the store and
			// invalidates the session before the fetch returns.
			_ = store.Clear()
			m.Invalidate()
			return nil, &api.Error{Status: http.StatusUnauthorized, Message: "token revoked", Path: "/me"}
		},
	}
	m = NewManager(backend, store, zap.NewNop())

	err := m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "pw"})
	require.ErrorIs(t, err, ErrSessionRejected)

	// Login must not report success with a torn-down session; callers
	// may rely on claims being present after a nil error.
	requireEmpty(t, m)
	assert.Empty(t, store.get())
}

func TestRegister_ActsAsLogin(t *testing.T) {
	tok := apitest.MintToken("carol", []string{"ROLE_USER"})
	store := &memStore{}
	backend := &fakeBackend{
		RegisterFunc: func(ctx context.Context, req api.RegisterRequest) (string, error) {
			return tok, nil
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			return &models.UserProfile{Username: "carol"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())

	require.NoError(t, m.Register(context.Background(), api.RegisterRequest{Username: "carol", Secret: "pw"}))
	assert.Equal(t, tok, m.Token())
	assert.Equal(t, tok, store.get())
	assert.Equal(t, "carol", m.Claims().Subject)
	require.NotNil(t, m.Profile())
}

func TestLogout(t *testing.T) {
	tok := apitest.MintToken("alice", []string{"ROLE_ADMIN"})
	store := &memStore{tok: tok}
	m := NewManager(profileBackend(&models.UserProfile{Username: "alice"}), store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	m.Logout()

	requireEmpty(t, m)
	assert.Empty(t, store.get())
}

func TestRefreshProfile_ReplacesCache(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{tok: tok}
	name := "Bob B"
	var mu sync.Mutex
	backend := &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			mu.Lock()
			defer mu.Unlock()
			return &models.UserProfile{Username: "bob", FullName: name}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	mu.Lock()
	name = "Robert B"
	mu.Unlock()
	m.RefreshProfile(context.Background())

	require.NotNil(t, m.Profile())
	assert.Equal(t, "Robert B", m.Profile().FullName)
}

func TestRefreshProfile_FailureClearsCache(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{tok: tok}
	var mu sync.Mutex
	fail := false
	backend := &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			mu.Lock()
			defer mu.Unlock()
			if fail {
				return nil, errors.New("backend unavailable")
			}
			return &models.UserProfile{Username: "bob"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	mu.Lock()
	fail = true
	mu.Unlock()
	m.RefreshProfile(context.Background())

	// Stale data is cleared rather than kept; the session itself survives.
	assert.Nil(t, m.Profile())
	assert.True(t, m.Authenticated())
}

func TestRefreshProfile_NoSessionIsNoop(t *testing.T) {
	called := false
	backend := &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			called = true
			return nil, nil
		},
	}
	m := NewManager(backend, &memStore{}, zap.NewNop())

	m.RefreshProfile(context.Background())
	assert.False(t, called, "no fetch should happen without a session")
}

func TestStaleResultGuard_LogoutDuringRefresh(t *testing.T) {
	tok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{tok: tok}

	block := make(chan struct{})
	started := make(chan struct{})
	first := true
	backend := &fakeBackend{
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			if first {
				first = false
				return &models.UserProfile{Username: "bob"}, nil
			}
			close(started)
			<-block
			return &models.UserProfile{Username: "bob", FullName: "Late Result"}, nil
		},
	}
	m := NewManager(backend, store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.RefreshProfile(context.Background())
		close(done)
	}()
	<-started

	// Logout while the refresh is in flight, then let it complete.
	m.Logout()
	close(block)
	<-done

	// The late completion must not resurrect the profile.
	requireEmpty(t, m)
}

func TestStaleResultGuard_LoginSupersedesRefresh(t *testing.T) {
	aliceTok := apitest.MintToken("alice", []string{"ROLE_USER"})
	bobTok := apitest.MintToken("bob", []string{"ROLE_USER"})
	store := &memStore{tok: aliceTok}

	block := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	backend := &fakeBackend{
		LoginFunc: func(ctx context.Context, req api.LoginRequest) (string, error) {
			return bobTok, nil
		},
		ProfileFunc: func(ctx context.Context) (*models.UserProfile, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			switch n {
			case 1:
				return &models.UserProfile{Username: "alice", FullName: "Alice A"}, nil
			case 2:
				// The in-flight refresh under alice's session.
				close(started)
				<-block
				return &models.UserProfile{Username: "alice", FullName: "Stale Alice"}, nil
			default:
				return &models.UserProfile{Username: "bob", FullName: "Bob B"}, nil
			}
		},
	}
	m := NewManager(backend, store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))
	assert.Eventually(t, func() bool { return m.Profile() != nil }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.RefreshProfile(context.Background())
		close(done)
	}()
	<-started

	require.NoError(t, m.Login(context.Background(), api.LoginRequest{Identifier: "bob", Secret: "pw"}))
	close(block)
	<-done

	// Bob's session must keep bob's profile; alice's late fetch is dropped.
	assert.Equal(t, "bob", m.Claims().Subject)
	require.NotNil(t, m.Profile())
	assert.Equal(t, "Bob B", m.Profile().FullName)
}

func TestInvalidate_ResetsStateOnly(t *testing.T) {
	tok := apitest.MintToken("alice", []string{"ROLE_USER"})
	store := &memStore{tok: tok}
	m := NewManager(profileBackend(&models.UserProfile{Username: "alice"}), store, zap.NewNop())
	require.NoError(t, m.Initialize(context.Background()))

	m.Invalidate()

	requireEmpty(t, m)
	// The store is the API client's responsibility on 401/403.
	assert.Equal(t, tok, store.get())
}
