package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

// RankedAccount is a leaderboard row. Only accounts with a full squad are
// ranked; ties on rating go to the older account.
type RankedAccount struct {
	Rank      int    `json:"rank"`
	AccountID int64  `json:"account_id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
}

func fullSquad(alias string) sq.Sqlizer {
	return sq.Expr("(SELECT COUNT(*) FROM squad_slots ss WHERE ss.account_id = "+alias+".id) = ?", game.SquadSize)
}

// rankExpr counts full-squad accounts ordered ahead of a.
var rankExpr = "(SELECT COUNT(*) FROM accounts b WHERE " +
	"(SELECT COUNT(*) FROM squad_slots sb WHERE sb.account_id = b.id) = ? " +
	"AND (b.rating > a.rating OR (b.rating = a.rating AND b.id < a.id))) + 1"

func (s *Store) RankPosition(ctx context.Context, accountID int64) (int, error) {
	acc, err := s.AccountByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	q := s.sb.Select("COUNT(*)").From("accounts a").
		Where(fullSquad("a")).
		Where(sq.Or{
			sq.Gt{"a.rating": acc.Rating},
			sq.And{sq.Eq{"a.rating": acc.Rating}, sq.Lt{"a.id": acc.ID}},
		})
	var ahead int
	if err := qRow(ctx, s.db, q).Scan(&ahead); err != nil {
		return 0, err
	}
	return ahead + 1, nil
}

func (s *Store) ranked(ctx context.Context, where sq.Sqlizer, limit uint64) ([]RankedAccount, error) {
	q := s.sb.Select("a.id", "a.name", "a.rating").
		Column(sq.Expr(rankExpr, game.SquadSize)).
		From("accounts a").
		Where(fullSquad("a")).
		OrderBy("a.rating DESC", "a.id ASC").
		Limit(limit)
	if where != nil {
		q = q.Where(where)
	}
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RankedAccount{}
	for rows.Next() {
		var r RankedAccount
		if err := rows.Scan(&r.AccountID, &r.Name, &r.Rating, &r.Rank); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Leaderboard returns the top accounts by rating.
func (s *Store) Leaderboard(ctx context.Context, limit uint64) ([]RankedAccount, error) {
	return s.ranked(ctx, nil, limit)
}

// Lobby lists other full-squad accounts whose rating is within window of
// the caller's. The caller must have a full squad.
func (s *Store) Lobby(ctx context.Context, accountID int64, window int, limit uint64) ([]RankedAccount, error) {
	if _, err := s.SquadPlayerIDs(ctx, accountID); err != nil {
		return nil, err
	}
	acc, err := s.AccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.ranked(ctx, sq.And{
		sq.NotEq{"a.id": accountID},
		sq.GtOrEq{"a.rating": acc.Rating - window},
		sq.LtOrEq{"a.rating": acc.Rating + window},
	}, limit)
}
