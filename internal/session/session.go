// Package session owns the login state: who is signed in and the bearer
// token their requests carry.
//
// The token lives here and nowhere else. The API client receives a Session
// as its TokenProvider at construction instead of reading a mutable global,
// so expiry and logout are enforced in exactly one place.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/okuznetsova/newsdesk/internal/model"
)

// Session is the current login state. Safe for concurrent use; the count
// poller reads the token from a background goroutine.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
	nick   string
	role   model.Role
	expiry time.Time // zero when the token carries no exp claim
}

// New returns an empty, signed-out session.
func New() *Session {
	return &Session{}
}

// Token returns the bearer token, or "" when signed out or expired.
// Expired tokens are never sent: the server would answer 401 anyway,
// and an unauthenticated request gets the same answer sooner.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expired() {
		return ""
	}
	return s.token
}

// SignIn installs the credentials returned by the login endpoint.
func (s *Session) SignIn(token, userID, nick string, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
	s.nick = nick
	s.role = role
	s.expiry = tokenExpiry(token)
}

// SignOut clears all credentials.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
	s.nick = ""
	s.role = ""
	s.expiry = time.Time{}
}

// Expired reports whether a signed-in session's token has passed its exp
// claim. The API client checks this before issuing a request, so a dead
// session turns into a sign-in redirect without a round trip - relevant
// when the user is offline and the server's 401 would never arrive.
// A signed-out session is not expired, it is merely unauthenticated.
func (s *Session) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.expired()
}

// Valid reports whether a usable token is present.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && !s.expired()
}

// UserID returns the signed-in user's id, sent as the moderator id on
// moderation calls.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Nick returns the signed-in user's nick.
func (s *Session) Nick() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nick
}

// Role returns the signed-in user's role.
func (s *Session) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// IsAdmin reports whether the user may manage accounts.
func (s *Session) IsAdmin() bool {
	return s.Role() == model.RoleAdministrator
}

// CanModerate reports whether the user may open the admin panel.
func (s *Session) CanModerate() bool {
	r := s.Role()
	return r == model.RoleAdministrator || r == model.RoleModerator
}

// expired must be called with the lock held.
func (s *Session) expired() bool {
	return !s.expiry.IsZero() && time.Now().After(s.expiry)
}

// tokenExpiry extracts the exp claim without verifying the signature.
// The client has no signing key; the server remains the authority and will
// reject a forged token regardless. We only want to stop sending a token
// we already know is dead.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
