package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Store is the SQL-backed persistence for accounts, players, squads,
// matches and audit logs. It implements game.SquadReader,
// game.RankProvider and game.UnitOfWork.
type Store struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect
	sb      sq.StatementBuilderType
}

func newStore(db *sql.DB, pool *pgxpool.Pool, d Dialect) *Store {
	var ph sq.PlaceholderFormat = sq.Question
	if d == Postgres {
		ph = sq.Dollar
	}
	return &Store{db: db, pool: pool, dialect: d, sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

/* ===================== CONNECT ===================== */

// OpenPostgres connects with retries for up to 30 seconds, then applies
// pending migrations.
func OpenPostgres(ctx context.Context, url string) (*Store, error) {
	pool, err := connectPool(ctx, url, 30*time.Second)
	if err != nil {
		return nil, err
	}
	s := newStore(stdlib.OpenDBFromPool(pool), pool, Postgres)
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func connectPool(ctx context.Context, url string, wait time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10

	deadline := time.Now().Add(wait)
	for {
		attempt, cancel := context.WithTimeout(ctx, 2*time.Second)
		pool, err := pgxpool.NewWithConfig(attempt, cfg)
		if err == nil {
			if err = pool.Ping(attempt); err == nil {
				cancel()
				return pool, nil
			}
			pool.Close()
		}
		cancel()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("failed to connect DB after retries: %w", err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// OpenSQLite opens (or creates) a database file with foreign keys enabled.
// A single connection is used so writers never contend.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := newStore(db, nil, SQLite)
	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() {
	_ = s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
}

/* ===================== SQUIRREL HELPERS ===================== */

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func qExec(ctx context.Context, q querier, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.ExecContext(ctx, query, args...)
}

func qQuery(ctx context.Context, q querier, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}

// qRow defers a build error to Scan, like a missing row.
func qRow(ctx context.Context, q querier, b sq.Sqlizer) rowScanner {
	query, args, err := b.ToSql()
	if err != nil {
		return errRow{err}
	}
	return q.QueryRowContext(ctx, query, args...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// forUpdate locks selected rows where the dialect supports it. SQLite
// serializes writers on its single connection instead.
func (s *Store) forUpdate(b sq.SelectBuilder) sq.SelectBuilder {
	if s.dialect == Postgres {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func unixNow() int64 { return time.Now().UTC().Unix() }
