package sessions

import (
	"errors"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

var (
	// ErrNotFound is returned for unknown session ids.
	ErrNotFound = errors.New("sessions: session not found")
	// ErrInactive is returned for sessions that were closed or have expired.
	ErrInactive = errors.New("sessions: session closed or expired")
)

// Store defines the contract for keeping sessions.
type Store interface {
	PutSession(sess *session.Session)
	GetSession(id string) (*session.Session, bool)
	DeleteSession(id string) (*session.Session, bool)
	ListSessions() []*session.Session
}

// Service creates and tracks operator sessions.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service. A nil now uses time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Create starts a session for the given backend token.
func (s *Service) Create(token string) (*session.Session, error) {
	sess, err := session.New(token, s.now())
	if err != nil {
		return nil, err
	}
	if !sess.Active(s.now()) {
		return nil, ErrInactive
	}
	s.store.PutSession(sess)
	return sess, nil
}

// Get returns an active session.
func (s *Service) Get(id string) (*session.Session, error) {
	sess, ok := s.store.GetSession(id)
	if !ok {
		return nil, ErrNotFound
	}
	if !sess.Active(s.now()) {
		return sess, ErrInactive
	}
	return sess, nil
}

// Delete logs the session out and forgets it.
func (s *Service) Delete(id string) (*session.Session, error) {
	sess, ok := s.store.DeleteSession(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess.Close()
	return sess, nil
}

// EvictExpired forgets sessions that are closed or expired at now and returns their ids.
func (s *Service) EvictExpired(now time.Time) []string {
	var ids []string
	for _, sess := range s.store.ListSessions() {
		if sess.Active(now) {
			continue
		}
		if _, ok := s.store.DeleteSession(sess.ID()); ok {
			sess.Close()
			ids = append(ids, sess.ID())
		}
	}
	return ids
}
