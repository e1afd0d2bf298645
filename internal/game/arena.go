package game

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Arena runs the full match flow: aggregate both squads, check the rank
// gap, simulate, then adjust ratings and record the match.
type Arena struct {
	Squads SquadReader
	Ranks  RankProvider
	UoW    UnitOfWork
	Rand   Rand
	Rules  Rules
}

type MatchReport struct {
	MatchID    string     `json:"match_id"`
	Home       TeamReport `json:"home"`
	Away       TeamReport `json:"away"`
	Outcome    Outcome    `json:"outcome"`
	Goals      []Goal     `json:"goals"`
	Adjustment Adjustment `json:"adjustment"`
}

type TeamReport struct {
	AccountID int64   `json:"account_id"`
	Name      string  `json:"name"`
	Average   float64 `json:"average"`
	Rank      int     `json:"rank"`
	Goals     int     `json:"goals"`
}

func (a *Arena) Play(ctx context.Context, currentID, opponentID int64) (MatchReport, error) {
	if currentID == opponentID {
		return MatchReport{}, Errorf(KindInvalidInput, "cannot play against yourself")
	}

	home, err := Aggregate(ctx, a.Squads, currentID)
	if err != nil {
		return MatchReport{}, err
	}
	away, err := Aggregate(ctx, a.Squads, opponentID)
	if err != nil {
		return MatchReport{}, err
	}

	homeRank, err := a.Ranks.RankPosition(ctx, currentID)
	if err != nil {
		return MatchReport{}, err
	}
	awayRank, err := a.Ranks.RankPosition(ctx, opponentID)
	if err != nil {
		return MatchReport{}, err
	}
	gap := homeRank - awayRank
	if gap < 0 {
		gap = -gap
	}
	if gap > a.Rules.MaxRankGap {
		return MatchReport{}, Errorf(KindRankGap, "rank difference %d exceeds %d", gap, a.Rules.MaxRankGap)
	}

	rng := a.Rand
	if rng == nil {
		rng = Shared()
	}
	res := Simulate(rng,
		Team{Name: home.Name, Average: home.Value()},
		Team{Name: away.Name, Average: away.Value()},
	)

	rec := MatchRecord{
		ID:        uuid.NewString(),
		HomeID:    currentID,
		AwayID:    opponentID,
		HomeGoals: res.HomeGoals,
		AwayGoals: res.AwayGoals,
		Outcome:   res.Outcome,
		PlayedAt:  time.Now().UTC(),
	}
	adj, err := AdjustRatings(ctx, a.UoW, a.Rules.Ratings,
		Participant{AccountID: currentID, Rank: homeRank},
		Participant{AccountID: opponentID, Rank: awayRank},
		res.Outcome, &rec)
	if err != nil {
		return MatchReport{}, err
	}

	return MatchReport{
		MatchID:    rec.ID,
		Home:       TeamReport{AccountID: currentID, Name: home.Name, Average: home.Value(), Rank: homeRank, Goals: res.HomeGoals},
		Away:       TeamReport{AccountID: opponentID, Name: away.Name, Average: away.Value(), Rank: awayRank, Goals: res.AwayGoals},
		Outcome:    res.Outcome,
		Goals:      res.Goals,
		Adjustment: adj,
	}, nil
}
