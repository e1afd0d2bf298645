package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

func (s *Store) recordMatch(ctx context.Context, q querier, rec game.MatchRecord) error {
	ins := s.sb.Insert("matches").
		Columns("id", "home_id", "away_id", "home_goals", "away_goals", "outcome", "home_delta", "away_delta", "played_at").
		Values(rec.ID, rec.HomeID, rec.AwayID, rec.HomeGoals, rec.AwayGoals, string(rec.Outcome), rec.HomeDelta, rec.AwayDelta, rec.PlayedAt.Unix())
	_, err := qExec(ctx, q, ins)
	return err
}

// MatchesFor returns the account's most recent matches, home or away.
func (s *Store) MatchesFor(ctx context.Context, accountID int64, limit uint64) ([]game.MatchRecord, error) {
	q := s.sb.Select("id", "home_id", "away_id", "home_goals", "away_goals", "outcome", "home_delta", "away_delta", "played_at").
		From("matches").
		Where(sq.Or{sq.Eq{"home_id": accountID}, sq.Eq{"away_id": accountID}}).
		OrderBy("played_at DESC", "id ASC").
		Limit(limit)
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.MatchRecord{}
	for rows.Next() {
		var m game.MatchRecord
		var outcome string
		var played int64
		if err := rows.Scan(&m.ID, &m.HomeID, &m.AwayID, &m.HomeGoals, &m.AwayGoals, &outcome, &m.HomeDelta, &m.AwayDelta, &played); err != nil {
			return nil, err
		}
		m.Outcome = game.Outcome(outcome)
		m.PlayedAt = time.Unix(played, 0).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
