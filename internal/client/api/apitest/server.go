// Package apitest provides an in-process fixture backend for client
// tests. It issues real signed tokens and enforces bearer auth the way
// the production backend does, so session and API tests exercise the
// full request path.
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ykaradag/ustahub/internal/client/token"
	"github.com/ykaradag/ustahub/internal/models"
)

// signingKey signs fixture tokens. The client never verifies signatures;
// the fixture backend does, like the real one.
var signingKey = []byte("apitest-signing-key")

// Account is a fixture user the server accepts credentials for.
type Account struct {
	Password    string
	Authorities []string
	Profile     models.UserProfile
}

type ctxKey string

const subjectKey ctxKey = "subject"

// Server is a fixture marketplace backend bound to an httptest server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]*Account

	// profileHook, when set, runs before GET /me responds. Tests use it
	// to stall or interleave profile fetches.
	profileHook func()

	// Ustalar and Hizmetler back the public catalog endpoints.
	Ustalar   []models.Usta
	Hizmetler []models.Hizmet

	// portfolio holds gallery entries keyed by trade ID.
	portfolio map[string][]models.PortfolioItem

	// meCalls counts GET /me requests served.
	meCalls int
}

// NewServer starts a fixture backend. Callers own shutdown via Close.
func NewServer() *Server {
	s := &Server{
		accounts:  make(map[string]*Account),
		portfolio: make(map[string][]models.PortfolioItem),
	}

	r := chi.NewRouter()
	r.Use(s.bearerAuth)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Get("/ustalar", s.handleUstalar)
	r.Get("/ustalar/{ustaID}/portfolio", s.handleActivePortfolio)
	r.Get("/hizmetler", s.handleHizmetler)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/admin/users", s.handleAdminUsers)
		r.Post("/admin/ustalar", s.handleAdminCreateUsta)
		r.Get("/admin/ustalar/{ustaID}/portfolio", s.handleAdminPortfolio)
		r.Post("/admin/ustalar/{ustaID}/portfolio", s.handleAdminCreatePortfolioItem)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// AddAccount registers a fixture user.
func (s *Server) AddAccount(username string, acc *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = acc
}

// RemoveAccount deletes a fixture user; subsequent authenticated calls
// for it come back 401 as if the account had been revoked server-side.
func (s *Server) RemoveAccount(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, username)
}

// SetProfileHook installs fn to run before each GET /me response. Tests
// use it to stall or interleave profile fetches.
func (s *Server) SetProfileHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profileHook = fn
}

// ProfileCalls reports how many GET /me requests have been served.
func (s *Server) ProfileCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meCalls
}

// MintToken issues a signed token for the given subject and authorities,
// the same way handleLogin does.
func MintToken(subject string, authorities []string) string {
	claims := &token.Claims{
		Authorities: authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: subject,
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return raw
}

// bearerAuth enforces bearer-token authentication on everything except
// the auth and public catalog endpoints. On success the token subject is
// stored in the request context.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	open := map[string]bool{
		"/auth/login":    true,
		"/auth/register": true,
		"/ustalar":       true,
		"/hizmetler":     true,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if open[r.URL.Path] || strings.HasPrefix(r.URL.Path, "/ustalar/") {
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims := &token.Claims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return signingKey, nil
		})
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Secret     string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identifier == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Identifier]
	s.mu.Unlock()
	if !ok || acc.Password != req.Secret {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	writeJSON(w, map[string]string{"token": MintToken(req.Identifier, acc.Authorities)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Secret   string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Secret == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Username]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "username already taken")
		return
	}
	s.accounts[req.Username] = &Account{
		Password:    req.Secret,
		Authorities: []string{"ROLE_USER"},
		Profile: models.UserProfile{
			FullName: req.FullName,
			Username: req.Username,
			Email:    req.Email,
		},
	}
	s.mu.Unlock()

	writeJSON(w, map[string]string{"token": MintToken(req.Username, []string{"ROLE_USER"})})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.meCalls++
	hook := s.profileHook
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	subject, _ := r.Context().Value(subjectKey).(string)
	s.mu.Lock()
	acc, ok := s.accounts[subject]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	writeJSON(w, acc.Profile)
}

// adminOnly rejects non-admin subjects with a 403 and reports whether
// the handler may proceed.
func (s *Server) adminOnly(w http.ResponseWriter, r *http.Request) bool {
	subject, _ := r.Context().Value(subjectKey).(string)
	s.mu.Lock()
	acc, ok := s.accounts[subject]
	s.mu.Unlock()
	if !ok || !hasAuthority(acc.Authorities, token.AdminAuthority) {
		writeError(w, http.StatusForbidden, "admin authority required")
		return false
	}
	return true
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	s.mu.Lock()
	page := models.Page[models.UserProfile]{Size: len(s.accounts)}
	for _, a := range s.accounts {
		page.Content = append(page.Content, a.Profile)
	}
	s.mu.Unlock()
	page.TotalElements = len(page.Content)
	page.TotalPages = 1
	writeJSON(w, page)
}

func (s *Server) handleUstalar(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Ustalar)
}

func (s *Server) handleHizmetler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.Hizmetler)
}

func (s *Server) handleAdminCreateUsta(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	var req struct {
		Name            string `json:"name"`
		ProfileImageURL string `json:"profileImageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	usta := models.Usta{
		ID:              uuid.NewString(),
		Name:            req.Name,
		ProfileImageURL: req.ProfileImageURL,
	}
	s.mu.Lock()
	s.Ustalar = append(s.Ustalar, usta)
	s.mu.Unlock()
	writeJSON(w, usta)
}

func (s *Server) handleAdminPortfolio(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.portfolio[chi.URLParam(r, "ustaID")])
}

func (s *Server) handleAdminCreatePortfolioItem(w http.ResponseWriter, r *http.Request) {
	if !s.adminOnly(w, r) {
		return
	}

	var req struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		MediaURL    string           `json:"mediaUrl"`
		MediaType   models.MediaType `json:"mediaType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	item := models.PortfolioItem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		IsActive:    true,
	}
	ustaID := chi.URLParam(r, "ustaID")
	s.mu.Lock()
	s.portfolio[ustaID] = append(s.portfolio[ustaID], item)
	s.mu.Unlock()
	writeJSON(w, item)
}

func (s *Server) handleActivePortfolio(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []models.PortfolioItem
	for _, item := range s.portfolio[chi.URLParam(r, "ustaID")] {
		if item.IsActive {
			active = append(active, item)
		}
	}
	writeJSON(w, active)
}

func hasAuthority(authorities []string, want string) bool {
	for _, a := range authorities {
		if a == want {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
