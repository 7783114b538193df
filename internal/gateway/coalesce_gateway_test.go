package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/domain/players"
)

func TestCoalescingGatewaySharesConcurrentReads(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	fg := &fakeGateway{getMatch: func(call int) (matches.Match, error) {
		entered <- struct{}{}
		<-release
		return matches.Match{ID: "m1"}, nil
	}}
	g := NewCoalescingGateway(fg)

	var wg sync.WaitGroup
	results := make([]matches.Match, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = g.GetMatch(context.Background(), nil, "m1")
	}()
	<-entered

	// The group entry exists now; a second caller joins it.
	joined := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		close(joined)
		results[1], _ = g.GetMatch(context.Background(), nil, "m1")
	}()
	<-joined
	close(release)
	wg.Wait()

	if results[0].ID != "m1" || results[1].ID != "m1" {
		t.Fatalf("unexpected results %+v", results)
	}
	if calls := fg.matchCalls.Load(); calls < 1 || calls > 2 {
		t.Fatalf("expected at most two backend calls, got %d", calls)
	}
}

func TestCoalescingGatewayCopiesRoster(t *testing.T) {
	fg := &fakeGateway{getRoster: func(call int) ([]players.Player, error) {
		return []players.Player{{ID: "p1", Name: "Asha"}}, nil
	}}
	g := NewCoalescingGateway(fg)

	first, err := g.GetRoster(context.Background(), nil, "t1")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	first[0].Name = "changed"
	second, _ := g.GetRoster(context.Background(), nil, "t1")
	if second[0].Name != "Asha" {
		t.Fatalf("expected independent roster copies, got %+v", second)
	}
}

func TestCoalescingGatewayPropagatesErrorsAndWrites(t *testing.T) {
	boom := errors.New("boom")
	fg := &fakeGateway{
		getMatch:  func(int) (matches.Match, error) { return matches.Match{}, boom },
		getRoster: func(int) ([]players.Player, error) { return nil, boom },
	}
	g := NewCoalescingGateway(fg)

	if _, err := g.GetMatch(context.Background(), nil, "m1"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := g.GetRoster(context.Background(), nil, "t1"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := g.DismissPlayer(context.Background(), nil, "m1"); err != nil {
		t.Fatalf("unexpected write error %v", err)
	}
	if fg.writeCalls.Load() != 1 {
		t.Fatalf("expected write passthrough, got %d", fg.writeCalls.Load())
	}
}

func TestCoalescingGatewayNilInner(t *testing.T) {
	g := NewCoalescingGateway(nil)
	if _, err := g.GetRoster(context.Background(), nil, "t1"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCoalescingGatewaySurvivesFirstCallerCancel(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	backendErr := make(chan error, 2)
	var once sync.Once
	fg := &fakeGateway{matchCtx: func(ctx context.Context) (matches.Match, error) {
		once.Do(func() { close(entered) })
		<-release
		backendErr <- ctx.Err()
		return matches.Match{ID: "m1"}, nil
	}}
	g := NewCoalescingGateway(fg)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := g.GetMatch(firstCtx, nil, "m1")
		firstErr <- err
	}()
	<-entered

	secondDone := make(chan struct{})
	var second matches.Match
	var secondErr error
	go func() {
		defer close(secondDone)
		second, secondErr = g.GetMatch(context.Background(), nil, "m1")
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller canceled, got %v", err)
	}
	close(release)
	<-secondDone

	if secondErr != nil || second.ID != "m1" {
		t.Fatalf("expected second caller to get the match, got %+v err %v", second, secondErr)
	}
	if err := <-backendErr; err != nil {
		t.Fatalf("expected backend call to outlive the canceled caller, got %v", err)
	}
	if calls := fg.matchCalls.Load(); calls < 1 || calls > 2 {
		t.Fatalf("expected at most two backend calls, got %d", calls)
	}
}
