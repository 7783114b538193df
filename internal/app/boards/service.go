package boards

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scoring"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// Store defines the contract for keeping open boards.
type Store interface {
	GetBoard(sessionID, matchID string, now time.Time) (*scoring.Board, bool)
	PutBoard(sessionID, matchID string, b *scoring.Board, now time.Time) *scoring.Board
	DeleteBoard(sessionID, matchID string) bool
	DeleteSessionBoards(sessionID string) int
	DeleteBoardsIdleSince(cutoff time.Time) int
}

// loadTimeout bounds a shared board load once it no longer follows the caller that started it.
const loadTimeout = 30 * time.Second

// Factory builds an unloaded board for a session and match.
type Factory func(sess *session.Session, matchID string) *scoring.Board

// Service opens, caches and closes scoring boards per session.
type Service struct {
	store    Store
	newBoard Factory
	now      func() time.Time
	group    singleflight.Group
}

// NewService constructs a Service. A nil now uses time.Now.
func NewService(store Store, newBoard Factory, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, newBoard: newBoard, now: now}
}

// Open returns the session's board for matchID, loading it on first use.
// Concurrent opens of the same board share one load; a failed load is not cached.
// The shared load outlives a cancelled caller, and each caller stops waiting
// when its own ctx ends.
func (s *Service) Open(ctx context.Context, sess *session.Session, matchID string) (*scoring.Board, error) {
	matchID = strings.TrimSpace(matchID)
	sessID := sess.ID()
	if b, ok := s.store.GetBoard(sessID, matchID, s.now()); ok {
		return b, nil
	}

	ch := s.group.DoChan(sessID+"/"+matchID, func() (any, error) {
		if b, ok := s.store.GetBoard(sessID, matchID, s.now()); ok {
			return b, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		b := s.newBoard(sess, matchID)
		if err := b.Load(loadCtx); err != nil {
			return nil, err
		}
		return s.store.PutBoard(sessID, matchID, b, s.now()), nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*scoring.Board), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns an already open board.
func (s *Service) Get(sessionID, matchID string) (*scoring.Board, bool) {
	return s.store.GetBoard(sessionID, strings.TrimSpace(matchID), s.now())
}

// Close drops one board.
func (s *Service) Close(sessionID, matchID string) bool {
	return s.store.DeleteBoard(sessionID, strings.TrimSpace(matchID))
}

// CloseSession drops every board the session opened.
func (s *Service) CloseSession(sessionID string) int {
	return s.store.DeleteSessionBoards(sessionID)
}

// EvictIdle drops boards untouched for longer than ttl.
func (s *Service) EvictIdle(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return s.store.DeleteBoardsIdleSince(now.Add(-ttl))
}
