package game

import (
	"context"
	"math/big"
)

// SquadAverage is the mean of the three per-player attribute averages.
// It is kept as the integer attribute total so the value stays exact;
// Value and Rat convert for presentation.
type SquadAverage struct {
	AccountID int64
	Name      string
	Total     int
	Players   [SquadSize]Stats
}

func (a SquadAverage) Value() float64 {
	return float64(a.Total) / float64(SquadSize*StatCount)
}

func (a SquadAverage) Rat() *big.Rat {
	return big.NewRat(int64(a.Total), SquadSize*StatCount)
}

// Aggregate resolves the account's squad and computes its average.
func Aggregate(ctx context.Context, r SquadReader, accountID int64) (SquadAverage, error) {
	name, err := r.AccountName(ctx, accountID)
	if err != nil {
		return SquadAverage{}, err
	}
	ids, err := r.SquadPlayerIDs(ctx, accountID)
	if err != nil {
		return SquadAverage{}, err
	}

	out := SquadAverage{AccountID: accountID, Name: name}
	for i, id := range ids {
		st, err := r.OwnedPlayerStats(ctx, id)
		if err != nil {
			return SquadAverage{}, err
		}
		out.Players[i] = st
		out.Total += st.Sum()
	}
	return out, nil
}
