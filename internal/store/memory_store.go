package store

import (
	"sync"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

type boardEntry struct {
	board     *scoring.Board
	sessionID string
	touched   time.Time
}

// MemoryStore keeps sessions and their open boards in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	boards   map[string]*boardEntry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*session.Session),
		boards:   make(map[string]*boardEntry),
	}
}

// BoardKey is the registry key for a session's board on a match.
func BoardKey(sessionID, matchID string) string {
	return sessionID + "/" + matchID
}

// PutSession stores sess under its id.
func (s *MemoryStore) PutSession(sess *session.Session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess
}

// GetSession retrieves a session by id.
func (s *MemoryStore) GetSession(id string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// DeleteSession removes a session and returns it.
func (s *MemoryStore) DeleteSession(id string) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	return sess, ok
}

// ListSessions returns the stored sessions in no particular order.
func (s *MemoryStore) ListSessions() []*session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// GetBoard returns the board for sessionID/matchID and marks it touched at now.
func (s *MemoryStore) GetBoard(sessionID, matchID string, now time.Time) (*scoring.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.boards[BoardKey(sessionID, matchID)]
	if !ok {
		return nil, false
	}
	e.touched = now
	return e.board, true
}

// PutBoard stores b unless a board already exists for the key, and returns the stored one.
func (s *MemoryStore) PutBoard(sessionID, matchID string, b *scoring.Board, now time.Time) *scoring.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := BoardKey(sessionID, matchID)
	if e, ok := s.boards[key]; ok {
		e.touched = now
		return e.board
	}
	s.boards[key] = &boardEntry{board: b, sessionID: sessionID, touched: now}
	return b
}

// DeleteBoard removes one board.
func (s *MemoryStore) DeleteBoard(sessionID, matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := BoardKey(sessionID, matchID)
	_, ok := s.boards[key]
	delete(s.boards, key)
	return ok
}

// DeleteSessionBoards removes every board opened by sessionID.
func (s *MemoryStore) DeleteSessionBoards(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.boards {
		if e.sessionID == sessionID {
			delete(s.boards, key)
			n++
		}
	}
	return n
}

// DeleteBoardsIdleSince removes boards not touched since cutoff.
func (s *MemoryStore) DeleteBoardsIdleSince(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, e := range s.boards {
		if e.touched.Before(cutoff) {
			delete(s.boards, key)
			n++
		}
	}
	return n
}

// BoardCount returns the number of open boards.
func (s *MemoryStore) BoardCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.boards)
}
