package state

import (
	"sync"

	"github.com/five82/haven/internal/models"
)

// Session holds the authenticated user and bearer token.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    models.User
	expired bool
}

// NewSession returns a session seeded with token, which may be empty.
func NewSession(token string) *Session {
	return &Session{token: token}
}

// Set stores the result of a login or register.
func (s *Session) Set(auth models.AuthSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = auth.Token
	s.user = auth.User
	s.expired = false
}

// SetUser records the user returned by /auth/me.
func (s *Session) SetUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Token returns the bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user.
func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SignedIn reports whether a token is present and has not been rejected.
func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !s.expired
}

// MarkExpired records that the backend rejected the token.
func (s *Session) MarkExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = true
}

// Expired reports whether the token was rejected.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expired
}

// Clear forgets the token and user.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = models.User{}
	s.expired = false
}
