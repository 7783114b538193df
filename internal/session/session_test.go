package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestNewParsesClaims(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "user-42",
		"name":  "Asha",
		"email": "asha@example.com",
		"exp":   exp.Unix(),
	})

	s, err := New("Bearer "+token, now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.ID() == "" {
		t.Fatalf("expected generated session id")
	}
	if s.Token() != token {
		t.Fatalf("expected bearer prefix stripped")
	}
	if u := s.User(); u.ID != "user-42" || u.Name != "Asha" || u.Email != "asha@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	if !s.ExpiresAt().Equal(time.Unix(exp.Unix(), 0)) {
		t.Fatalf("expected expiry %v, got %v", exp, s.ExpiresAt())
	}
	if s.Expired(now) {
		t.Fatalf("expected session active before exp")
	}
	if !s.Expired(exp.Add(time.Second)) {
		t.Fatalf("expected session expired after exp")
	}
}

func TestNewFallsBackToUserIDClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"user_id": float64(7)})
	s, err := New(token, time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.User().ID != "7" {
		t.Fatalf("expected numeric user id claim, got %q", s.User().ID)
	}
	if !s.ExpiresAt().IsZero() || s.Expired(time.Now().Add(24*time.Hour)) {
		t.Fatalf("expected no expiry without exp claim")
	}
}

func TestNewAnonymousSession(t *testing.T) {
	s, err := New("", time.Now())
	if err != nil {
		t.Fatalf("expected anonymous session, got %v", err)
	}
	if s.Token() != "" || s.User().ID != "" {
		t.Fatalf("expected empty credentials")
	}
}

func TestNewRejectsGarbage(t *testing.T) {
	_, err := New("not-a-jwt", time.Now())
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	now := time.Now()
	s, _ := New("", now)
	if !s.Active(now) {
		t.Fatalf("expected new session active")
	}
	s.Close()
	s.Close()
	if !s.Closed() || s.Active(now) {
		t.Fatalf("expected closed session inactive")
	}

	var nilSession *Session
	nilSession.Close()
	if nilSession.Closed() || nilSession.Token() != "" {
		t.Fatalf("expected nil session to be safe")
	}
}
