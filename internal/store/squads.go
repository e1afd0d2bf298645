package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

func (s *Store) AccountName(ctx context.Context, accountID int64) (string, error) {
	var name string
	err := qRow(ctx, s.db, s.sb.Select("name").From("accounts").Where(sq.Eq{"id": accountID})).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", game.ErrAccountNotFound
	}
	return name, err
}

func (s *Store) SquadPlayerIDs(ctx context.Context, accountID int64) ([game.SquadSize]int64, error) {
	var ids [game.SquadSize]int64
	slots, err := s.squadSlots(ctx, s.db, accountID)
	if err != nil {
		return ids, err
	}
	if len(slots) < game.SquadSize {
		return ids, game.ErrNoSquad
	}
	for _, sl := range slots {
		ids[sl.Slot-1] = sl.OwnedPlayerID
	}
	return ids, nil
}

func (s *Store) OwnedPlayerStats(ctx context.Context, ownedPlayerID int64) (game.Stats, error) {
	q := s.sb.Select("c.speed", "c.finishing", "c.power", "c.defense", "c.stamina").
		From("owned_players o").
		Join("catalog_players c ON c.id = o.catalog_id").
		Where(sq.Eq{"o.id": ownedPlayerID})
	var st game.Stats
	err := qRow(ctx, s.db, q).Scan(&st.Speed, &st.Finishing, &st.Power, &st.Defense, &st.Stamina)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Stats{}, game.Errorf(game.KindMissingCatalogEntry, "owned player %d does not resolve to a catalog entry", ownedPlayerID)
	}
	return st, err
}

func (s *Store) squadSlots(ctx context.Context, q querier, accountID int64) ([]game.SquadSlot, error) {
	rows, err := qQuery(ctx, q, s.sb.Select("slot", "owned_player_id").
		From("squad_slots").
		Where(sq.Eq{"account_id": accountID}).
		OrderBy("slot ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.SquadSlot{}
	for rows.Next() {
		var sl game.SquadSlot
		if err := rows.Scan(&sl.Slot, &sl.OwnedPlayerID); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}
