package store

import (
	"context"
	"math"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

// OwnedView is an owned player joined with its catalog entry.
type OwnedView struct {
	ID        int64      `json:"id"`
	CatalogID int64      `json:"catalog_id"`
	Name      string     `json:"name"`
	Level     int        `json:"level"`
	Stats     game.Stats `json:"stats"`
	Rating    int        `json:"rating"`
	SquadSlot *int       `json:"squad_slot,omitempty"`
}

// DisplayRating is the rounded attribute average plus the level.
func DisplayRating(st game.Stats, level int) int {
	return int(math.Round(st.Average())) + level
}

func (s *Store) ownedViews(ctx context.Context, where sq.Sqlizer) ([]OwnedView, error) {
	q := s.sb.Select(
		"o.id", "o.catalog_id", "c.name", "o.level",
		"c.speed", "c.finishing", "c.power", "c.defense", "c.stamina", "q.slot",
	).
		From("owned_players o").
		Join("catalog_players c ON c.id = o.catalog_id").
		LeftJoin("squad_slots q ON q.owned_player_id = o.id").
		Where(where).
		OrderBy("o.id ASC")
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OwnedView{}
	for rows.Next() {
		var v OwnedView
		var slot *int
		if err := rows.Scan(&v.ID, &v.CatalogID, &v.Name, &v.Level,
			&v.Stats.Speed, &v.Stats.Finishing, &v.Stats.Power, &v.Stats.Defense, &v.Stats.Stamina, &slot); err != nil {
			return nil, err
		}
		v.SquadSlot = slot
		v.Rating = DisplayRating(v.Stats, v.Level)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) OwnedPlayers(ctx context.Context, accountID int64) ([]OwnedView, error) {
	return s.ownedViews(ctx, sq.Eq{"o.account_id": accountID})
}

// SquadView lists the account's squad members ordered by slot.
func (s *Store) SquadView(ctx context.Context, accountID int64) ([]OwnedView, error) {
	if _, err := s.AccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	views, err := s.ownedViews(ctx, sq.And{sq.Eq{"o.account_id": accountID}, sq.NotEq{"q.slot": nil}})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(views, func(a, b OwnedView) int { return *a.SquadSlot - *b.SquadSlot })
	return views, nil
}
