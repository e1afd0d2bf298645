package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"squad-arena/internal/game"
)

var accountColumns = []string{"id", "email", "name", "pass_hash", "role", "cash", "rating", "created_at"}

func scanAccount(row rowScanner) (game.Account, error) {
	var a game.Account
	var created int64
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PassHash, &a.Role, &a.Cash, &a.Rating, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Account{}, game.ErrAccountNotFound
	}
	if err != nil {
		return game.Account{}, err
	}
	a.CreatedAt = time.Unix(created, 0).UTC()
	return a, nil
}

// CreateAccount inserts a new account. Duplicate email or name yields a
// KindConflict error.
func (s *Store) CreateAccount(ctx context.Context, a game.Account) (game.Account, error) {
	if a.Role == "" {
		a.Role = game.RoleUser
	}
	if a.Rating == 0 {
		a.Rating = game.StartingRating
	}
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.CreatedAt = time.Unix(unixNow(), 0).UTC()

	ins := s.sb.Insert("accounts").
		Columns("email", "name", "pass_hash", "role", "cash", "rating", "created_at").
		Values(a.Email, a.Name, a.PassHash, a.Role, a.Cash, a.Rating, a.CreatedAt.Unix()).
		Suffix("RETURNING id")
	if err := qRow(ctx, s.db, ins).Scan(&a.ID); err != nil {
		if isUniqueViolation(err) {
			return game.Account{}, game.Wrap(game.KindConflict, err, "email or account name already taken")
		}
		return game.Account{}, err
	}
	return a, nil
}

func (s *Store) AccountByEmail(ctx context.Context, email string) (game.Account, error) {
	q := s.sb.Select(accountColumns...).From("accounts").
		Where(sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
	return scanAccount(qRow(ctx, s.db, q))
}

func (s *Store) AccountByID(ctx context.Context, id int64) (game.Account, error) {
	q := s.sb.Select(accountColumns...).From("accounts").Where(sq.Eq{"id": id})
	return scanAccount(qRow(ctx, s.db, q))
}

// TopUpCash adds amount to the account's cash and returns the new balance.
func (s *Store) TopUpCash(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, game.Errorf(game.KindInvalidInput, "amount must be positive")
	}
	upd := s.sb.Update("accounts").
		Set("cash", sq.Expr("cash + ?", amount)).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING cash")
	var cash int64
	err := qRow(ctx, s.db, upd).Scan(&cash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, game.ErrAccountNotFound
	}
	return cash, err
}

// ListAccounts pages through accounts by id.
func (s *Store) ListAccounts(ctx context.Context, limit, offset uint64) ([]game.Account, error) {
	q := s.sb.Select(accountColumns...).From("accounts").
		OrderBy("id ASC").Limit(limit).Offset(offset)
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
