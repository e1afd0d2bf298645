package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"gopkg.in/yaml.v3"

	"squad-arena/internal/game"
)

//go:embed seed/catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Players []game.CatalogEntry `yaml:"players"`
}

// LoadCatalog parses a catalog YAML file. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) ([]game.CatalogEntry, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for _, p := range f.Players {
		if p.Name == "" || !p.Stats.Valid() {
			return nil, fmt.Errorf("catalog entry %q: attributes must be within 1..100", p.Name)
		}
	}
	return f.Players, nil
}

var catalogColumns = []string{"id", "name", "speed", "finishing", "power", "defense", "stamina"}

func scanCatalog(row rowScanner) (game.CatalogEntry, error) {
	var e game.CatalogEntry
	err := row.Scan(&e.ID, &e.Name, &e.Speed, &e.Finishing, &e.Power, &e.Defense, &e.Stamina)
	if errors.Is(err, sql.ErrNoRows) {
		return game.CatalogEntry{}, game.ErrMissingCatalogEntry
	}
	return e, err
}

func (s *Store) listCatalog(ctx context.Context, q querier) ([]game.CatalogEntry, error) {
	rows, err := qQuery(ctx, q, s.sb.Select(catalogColumns...).From("catalog_players").OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.CatalogEntry{}
	for rows.Next() {
		e, err := scanCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListCatalog(ctx context.Context) ([]game.CatalogEntry, error) {
	return s.listCatalog(ctx, s.db)
}

func (s *Store) CatalogEntry(ctx context.Context, id int64) (game.CatalogEntry, error) {
	q := s.sb.Select(catalogColumns...).From("catalog_players").Where(sq.Eq{"id": id})
	return scanCatalog(qRow(ctx, s.db, q))
}

func (s *Store) AddCatalogEntry(ctx context.Context, e game.CatalogEntry) (game.CatalogEntry, error) {
	return s.addCatalogEntry(ctx, s.db, e)
}

func (s *Store) addCatalogEntry(ctx context.Context, q querier, e game.CatalogEntry) (game.CatalogEntry, error) {
	if e.Name == "" || !e.Stats.Valid() {
		return game.CatalogEntry{}, game.Errorf(game.KindInvalidInput, "name is required and attributes must be within 1..100")
	}
	ins := s.sb.Insert("catalog_players").
		Columns("name", "speed", "finishing", "power", "defense", "stamina").
		Values(e.Name, e.Speed, e.Finishing, e.Power, e.Defense, e.Stamina).
		Suffix("RETURNING id")
	if err := qRow(ctx, q, ins).Scan(&e.ID); err != nil {
		if isUniqueViolation(err) {
			return game.CatalogEntry{}, game.Wrap(game.KindConflict, err, "catalog player already exists")
		}
		return game.CatalogEntry{}, err
	}
	return e, nil
}

// SeedCatalog inserts entries when the catalog table is empty and reports
// how many rows were written.
func (s *Store) SeedCatalog(ctx context.Context, entries []game.CatalogEntry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var n int
	if err := qRow(ctx, tx, s.sb.Select("COUNT(*)").From("catalog_players")).Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, e := range entries {
		if _, err := s.addCatalogEntry(ctx, tx, e); err != nil {
			return 0, err
		}
	}
	return len(entries), tx.Commit()
}
