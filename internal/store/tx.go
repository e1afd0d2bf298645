package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

// WithinTx runs fn in a database transaction. The transaction commits only
// when fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(game.Ledger) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&ledger{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type ledger struct {
	s  *Store
	tx *sql.Tx
}

func (l *ledger) Account(ctx context.Context, accountID int64) (game.Account, error) {
	q := l.s.forUpdate(l.s.sb.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": accountID}))
	return scanAccount(qRow(ctx, l.tx, q))
}

func (l *ledger) updateAccount(ctx context.Context, accountID int64, col string, v any) error {
	res, err := qExec(ctx, l.tx, l.s.sb.Update("accounts").Set(col, v).Where(sq.Eq{"id": accountID}))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return game.ErrAccountNotFound
	}
	return nil
}

func (l *ledger) SetRating(ctx context.Context, accountID int64, rating int) error {
	return l.updateAccount(ctx, accountID, "rating", rating)
}

func (l *ledger) SetCash(ctx context.Context, accountID int64, cash int64) error {
	if cash < 0 {
		return game.ErrInsufficientFunds
	}
	return l.updateAccount(ctx, accountID, "cash", cash)
}

func (l *ledger) Catalog(ctx context.Context) ([]game.CatalogEntry, error) {
	return l.s.listCatalog(ctx, l.tx)
}

func (l *ledger) OwnsCatalogEntry(ctx context.Context, accountID, catalogID int64) (bool, error) {
	q := l.s.sb.Select("COUNT(*)").From("owned_players").
		Where(sq.Eq{"account_id": accountID, "catalog_id": catalogID})
	var n int
	if err := qRow(ctx, l.tx, q).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (l *ledger) GrantPlayer(ctx context.Context, accountID, catalogID int64) (game.OwnedPlayer, error) {
	op := game.OwnedPlayer{AccountID: accountID, CatalogID: catalogID}
	ins := l.s.sb.Insert("owned_players").
		Columns("account_id", "catalog_id", "level", "created_at").
		Values(accountID, catalogID, 0, unixNow()).
		Suffix("RETURNING id")
	if err := qRow(ctx, l.tx, ins).Scan(&op.ID); err != nil {
		return game.OwnedPlayer{}, err
	}
	return op, nil
}

func (l *ledger) OwnedPlayer(ctx context.Context, accountID, ownedPlayerID int64) (game.OwnedPlayer, error) {
	q := l.s.forUpdate(l.s.sb.Select("id", "account_id", "catalog_id", "level").
		From("owned_players").
		Where(sq.Eq{"id": ownedPlayerID, "account_id": accountID}))
	var op game.OwnedPlayer
	err := qRow(ctx, l.tx, q).Scan(&op.ID, &op.AccountID, &op.CatalogID, &op.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return game.OwnedPlayer{}, game.Errorf(game.KindPlayerNotOwned, "player %d is not owned by this account", ownedPlayerID)
	}
	return op, err
}

func (l *ledger) DeleteOwnedPlayer(ctx context.Context, ownedPlayerID int64) error {
	if _, err := qExec(ctx, l.tx, l.s.sb.Delete("squad_slots").Where(sq.Eq{"owned_player_id": ownedPlayerID})); err != nil {
		return err
	}
	res, err := qExec(ctx, l.tx, l.s.sb.Delete("owned_players").Where(sq.Eq{"id": ownedPlayerID}))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return game.ErrPlayerNotOwned
	}
	return nil
}

func (l *ledger) SetLevel(ctx context.Context, ownedPlayerID int64, level int) error {
	if level < 0 || level > game.MaxLevel {
		return game.ErrMaxEnhancement
	}
	_, err := qExec(ctx, l.tx, l.s.sb.Update("owned_players").Set("level", level).Where(sq.Eq{"id": ownedPlayerID}))
	return err
}

func (l *ledger) SquadSlots(ctx context.Context, accountID int64) ([]game.SquadSlot, error) {
	return l.s.squadSlots(ctx, l.tx, accountID)
}

func (l *ledger) AddSquadSlot(ctx context.Context, accountID int64, slot int, ownedPlayerID int64) error {
	ins := l.s.sb.Insert("squad_slots").
		Columns("account_id", "slot", "owned_player_id").
		Values(accountID, slot, ownedPlayerID)
	if _, err := qExec(ctx, l.tx, ins); err != nil {
		if isUniqueViolation(err) {
			return game.Wrap(game.KindAlreadyInSquad, err, "player or slot already taken")
		}
		return err
	}
	return nil
}

func (l *ledger) RemoveSquadSlot(ctx context.Context, accountID int64, ownedPlayerID int64) error {
	res, err := qExec(ctx, l.tx, l.s.sb.Delete("squad_slots").
		Where(sq.Eq{"account_id": accountID, "owned_player_id": ownedPlayerID}))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return game.ErrNotInSquad
	}
	return nil
}

func (l *ledger) RecordMatch(ctx context.Context, rec game.MatchRecord) error {
	return l.s.recordMatch(ctx, l.tx, rec)
}
