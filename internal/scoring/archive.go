package scoring

import (
	"context"
	"time"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/journal"
	"github.com/preston-bernstein/cricket-scoreboard-service/internal/scorecards"
)

// EventSink records accepted actions. journal.Store satisfies it.
type EventSink interface {
	Record(ctx context.Context, e journal.Event) error
}

// Archive stores the scorecard of a completed match. scorecards.Writer satisfies it.
type Archive interface {
	WriteScorecard(sc scorecards.Scorecard) error
}

// scorecardFromView builds the archived summary from a board snapshot.
func scorecardFromView(v View, archivedAt time.Time) scorecards.Scorecard {
	sc := scorecards.Scorecard{
		MatchID:       v.MatchID,
		BattingFirst:  v.BattingFirst,
		FieldingFirst: v.FieldingFirst,
		Toss:          v.Toss,
		ResultText:    v.ResultText,
		Winner:        v.Winner,
		CompletedAt:   v.CompletedAt,
		ArchivedAt:    archivedAt.UTC(),
	}
	for i, in := range []InningsView{v.Innings1, v.Innings2} {
		team := v.BattingFirst
		if i == 1 {
			team = v.FieldingFirst
		}
		card := scorecards.InningsCard{
			Number:  i + 1,
			Team:    team,
			Runs:    in.Runs,
			Wickets: in.Wickets,
			Balls:   in.Balls,
			Fours:   in.Fours,
			Sixes:   in.Sixes,
			Overs:   in.Overs,
			RunRate: in.RunRate,
			Batters: make([]scorecards.BatterCard, 0, len(in.CompletedPlayers)),
		}
		for _, b := range in.CompletedPlayers {
			card.Batters = append(card.Batters, scorecards.BatterCard{
				PlayerID:   b.PlayerID,
				Name:       b.Name,
				Runs:       b.Runs,
				Balls:      b.Balls,
				Fours:      b.Fours,
				Sixes:      b.Sixes,
				StrikeRate: b.StrikeRate,
			})
		}
		sc.Innings = append(sc.Innings, card)
	}
	return sc
}
