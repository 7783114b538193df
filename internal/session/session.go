package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a non-empty token cannot be parsed as a JWT.
var ErrInvalidToken = errors.New("session: invalid token")

// User is the identity carried by the backend token.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session holds the backend credential for one signed-in user. It is created
// explicitly, passed to every board and gateway call, and closed at logout.
type Session struct {
	id        string
	token     string
	user      User
	createdAt time.Time
	expiresAt time.Time

	mu     sync.RWMutex
	closed bool
}

// New builds a session from a backend-issued token. The token is decoded without
// signature verification; the backend remains the verifier. An empty token yields
// an anonymous session.
func New(token string, now time.Time) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	s := &Session{
		id:        uuid.NewString(),
		token:     token,
		createdAt: now,
	}
	if token == "" {
		return s, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	s.user = userFromClaims(claims)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.expiresAt = exp.Time
	}
	return s, nil
}

func userFromClaims(claims jwt.MapClaims) User {
	u := User{
		Name:  stringClaim(claims, "name"),
		Email: stringClaim(claims, "email"),
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		u.ID = sub
	} else {
		u.ID = stringClaim(claims, "user_id", "userId", "id")
	}
	return u
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// ID returns the opaque session id.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Token returns the bearer credential, empty for anonymous sessions.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Session) User() User {
	if s == nil {
		return User{}
	}
	return s.user
}

// ExpiresAt is zero when the token carries no exp claim.
func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.expiresAt
}

func (s *Session) CreatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.createdAt
}

// Expired reports whether the token's exp claim is in the past.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.expiresAt.IsZero() {
		return false
	}
	return !now.Before(s.expiresAt)
}

// Close ends the session. Safe to call more than once.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Active reports whether the session can still be used for backend calls.
func (s *Session) Active(now time.Time) bool {
	return !s.Closed() && !s.Expired(now)
}
