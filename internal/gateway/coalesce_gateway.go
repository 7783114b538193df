package gateway

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/session"
)

// sharedCallTimeout bounds a coalesced read once it no longer follows any one caller.
const sharedCallTimeout = 30 * time.Second

// coalescingGateway collapses concurrent identical reads into one backend call.
// Writes pass straight through.
type coalescingGateway struct {
	MatchGateway
	group singleflight.Group
}

// NewCoalescingGateway wraps next so that simultaneous GetMatch/GetRoster calls for
// the same id and session share a single request.
func NewCoalescingGateway(next MatchGateway) MatchGateway {
	return &coalescingGateway{MatchGateway: next}
}

func (g *coalescingGateway) GetMatch(ctx context.Context, sess *session.Session, matchID string) (matches.Match, error) {
	if g.MatchGateway == nil {
		return matches.Match{}, ErrUnavailable
	}
	v, err := g.share(ctx, "match:"+sess.ID()+":"+matchID, func(callCtx context.Context) (any, error) {
		return g.MatchGateway.GetMatch(callCtx, sess, matchID)
	})
	if err != nil {
		return matches.Match{}, err
	}
	return v.(matches.Match), nil
}

func (g *coalescingGateway) GetRoster(ctx context.Context, sess *session.Session, teamID string) ([]players.Player, error) {
	if g.MatchGateway == nil {
		return nil, ErrUnavailable
	}
	v, err := g.share(ctx, "roster:"+sess.ID()+":"+teamID, func(callCtx context.Context) (any, error) {
		return g.MatchGateway.GetRoster(callCtx, sess, teamID)
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]players.Player)
	out := make([]players.Player, len(shared))
	copy(out, shared)
	return out, nil
}

// share runs call once per key. The call is detached from the caller that
// started it so one cancelled request does not fail every waiter; each caller
// still stops waiting when its own context ends.
func (g *coalescingGateway) share(ctx context.Context, key string, call func(context.Context) (any, error)) (any, error) {
	ch := g.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		return call(callCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
