package game

import (
	"context"
	"time"
)

// Delta is the rating change for the current side on a win or a loss.
type Delta struct {
	Win  int `json:"win" yaml:"win"`
	Loss int `json:"loss" yaml:"loss"`
}

// DeltaTable maps rank(current) - rank(opponent) to a Delta. Differences
// missing from the table are neutral.
type DeltaTable map[int]Delta

func DefaultDeltaTable() DeltaTable {
	return DeltaTable{
		-2: {Win: 5, Loss: -20},
		-1: {Win: 10, Loss: -15},
		0:  {Win: 10, Loss: -5},
		1:  {Win: 15, Loss: -10},
		2:  {Win: 20, Loss: -5},
	}
}

// Deltas returns (current, opponent) rating changes. The policy is
// zero-sum: the opponent always gets the negation of the current delta, and
// a draw moves nobody.
func (t DeltaTable) Deltas(rankDiff int, outcome Outcome) (int, int) {
	d := t[rankDiff]
	switch outcome {
	case Win:
		return d.Win, -d.Win
	case Loss:
		return d.Loss, -d.Loss
	default:
		return 0, 0
	}
}

type Participant struct {
	AccountID int64
	Rank      int
}

type Adjustment struct {
	CurrentDelta   int `json:"current_delta"`
	OpponentDelta  int `json:"opponent_delta"`
	CurrentRating  int `json:"current_rating"`
	OpponentRating int `json:"opponent_rating"`
}

// AdjustRatings applies the table deltas to both accounts in one unit of
// work. When rec is non-nil the match record is written in the same unit,
// with its deltas filled in.
func AdjustRatings(ctx context.Context, uow UnitOfWork, table DeltaTable, current, opponent Participant, outcome Outcome, rec *MatchRecord) (Adjustment, error) {
	curDelta, oppDelta := table.Deltas(current.Rank-opponent.Rank, outcome)

	var adj Adjustment
	err := uow.WithinTx(ctx, func(l Ledger) error {
		// lock rows in id order
		first, second := current.AccountID, opponent.AccountID
		if second < first {
			first, second = second, first
		}
		a, err := l.Account(ctx, first)
		if err != nil {
			return err
		}
		b, err := l.Account(ctx, second)
		if err != nil {
			return err
		}
		cur, opp := a, b
		if cur.ID != current.AccountID {
			cur, opp = b, a
		}

		adj = Adjustment{
			CurrentDelta:   curDelta,
			OpponentDelta:  oppDelta,
			CurrentRating:  cur.Rating + curDelta,
			OpponentRating: opp.Rating + oppDelta,
		}
		if outcome != Draw {
			if err := l.SetRating(ctx, cur.ID, adj.CurrentRating); err != nil {
				return err
			}
			if err := l.SetRating(ctx, opp.ID, adj.OpponentRating); err != nil {
				return err
			}
		}

		if rec != nil {
			rec.HomeDelta = curDelta
			rec.AwayDelta = oppDelta
			if rec.PlayedAt.IsZero() {
				rec.PlayedAt = time.Now().UTC()
			}
			if err := l.RecordMatch(ctx, *rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Adjustment{}, err
	}
	return adj, nil
}
