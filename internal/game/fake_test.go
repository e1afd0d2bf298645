package game_test

import (
	"context"
	"errors"
	"maps"
	"slices"

	"squad-arena/internal/game"
)

// memState is an in-memory ledger. WithinTx runs fn against a copy and only
// swaps it in on success.
type memState struct {
	accounts map[int64]game.Account
	catalog  map[int64]game.CatalogEntry
	owned    map[int64]game.OwnedPlayer
	slots    map[int64][]game.SquadSlot
	matches  []game.MatchRecord
	nextID   int64
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts: maps.Clone(s.accounts),
		catalog:  maps.Clone(s.catalog),
		owned:    maps.Clone(s.owned),
		slots:    make(map[int64][]game.SquadSlot, len(s.slots)),
		matches:  slices.Clone(s.matches),
		nextID:   s.nextID,
	}
	for k, v := range s.slots {
		c.slots[k] = slices.Clone(v)
	}
	return c
}

type memStore struct {
	state *memState
	// failAfter makes WithinTx fail after fn ran, forcing a rollback.
	failAfter error
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		accounts: map[int64]game.Account{},
		catalog:  map[int64]game.CatalogEntry{},
		owned:    map[int64]game.OwnedPlayer{},
		slots:    map[int64][]game.SquadSlot{},
		nextID:   100,
	}}
}

func (m *memStore) WithinTx(ctx context.Context, fn func(game.Ledger) error) error {
	work := m.state.clone()
	if err := fn(&memLedger{s: work}); err != nil {
		return err
	}
	if m.failAfter != nil {
		return m.failAfter
	}
	m.state = work
	return nil
}

func (m *memStore) addAccount(id int64, name string, rating int, cash int64) {
	m.state.accounts[id] = game.Account{ID: id, Name: name, Rating: rating, Cash: cash, Role: game.RoleUser}
}

func (m *memStore) addCatalog(id int64, name string, st game.Stats) {
	m.state.catalog[id] = game.CatalogEntry{ID: id, Name: name, Stats: st}
}

func (m *memStore) addOwned(id, accountID, catalogID int64, level int) {
	m.state.owned[id] = game.OwnedPlayer{ID: id, AccountID: accountID, CatalogID: catalogID, Level: level}
}

func (m *memStore) fillSquad(accountID int64, ownedIDs ...int64) {
	for i, id := range ownedIDs {
		m.state.slots[accountID] = append(m.state.slots[accountID], game.SquadSlot{Slot: i + 1, OwnedPlayerID: id})
	}
}

// SquadReader

func (m *memStore) AccountName(_ context.Context, id int64) (string, error) {
	a, ok := m.state.accounts[id]
	if !ok {
		return "", game.ErrAccountNotFound
	}
	return a.Name, nil
}

func (m *memStore) SquadPlayerIDs(_ context.Context, id int64) ([game.SquadSize]int64, error) {
	var out [game.SquadSize]int64
	slots := m.state.slots[id]
	if len(slots) < game.SquadSize {
		return out, game.ErrNoSquad
	}
	for _, s := range slots {
		out[s.Slot-1] = s.OwnedPlayerID
	}
	return out, nil
}

func (m *memStore) OwnedPlayerStats(_ context.Context, ownedID int64) (game.Stats, error) {
	op, ok := m.state.owned[ownedID]
	if !ok {
		return game.Stats{}, game.ErrMissingCatalogEntry
	}
	ce, ok := m.state.catalog[op.CatalogID]
	if !ok {
		return game.Stats{}, game.ErrMissingCatalogEntry
	}
	return ce.Stats, nil
}

// RankProvider, ordering by rating desc then id asc among full squads.

func (m *memStore) RankPosition(_ context.Context, id int64) (int, error) {
	me, ok := m.state.accounts[id]
	if !ok {
		return 0, game.ErrAccountNotFound
	}
	rank := 1
	for _, a := range m.state.accounts {
		if a.ID == id || len(m.state.slots[a.ID]) < game.SquadSize {
			continue
		}
		if a.Rating > me.Rating || (a.Rating == me.Rating && a.ID < me.ID) {
			rank++
		}
	}
	return rank, nil
}

type memLedger struct{ s *memState }

func (l *memLedger) Account(_ context.Context, id int64) (game.Account, error) {
	a, ok := l.s.accounts[id]
	if !ok {
		return game.Account{}, game.ErrAccountNotFound
	}
	return a, nil
}

func (l *memLedger) SetRating(_ context.Context, id int64, rating int) error {
	a, ok := l.s.accounts[id]
	if !ok {
		return game.ErrAccountNotFound
	}
	a.Rating = rating
	l.s.accounts[id] = a
	return nil
}

func (l *memLedger) SetCash(_ context.Context, id int64, cash int64) error {
	a, ok := l.s.accounts[id]
	if !ok {
		return game.ErrAccountNotFound
	}
	a.Cash = cash
	l.s.accounts[id] = a
	return nil
}

func (l *memLedger) Catalog(context.Context) ([]game.CatalogEntry, error) {
	ids := slices.Sorted(maps.Keys(l.s.catalog))
	out := make([]game.CatalogEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, l.s.catalog[id])
	}
	return out, nil
}

func (l *memLedger) OwnsCatalogEntry(_ context.Context, accountID, catalogID int64) (bool, error) {
	for _, op := range l.s.owned {
		if op.AccountID == accountID && op.CatalogID == catalogID {
			return true, nil
		}
	}
	return false, nil
}

func (l *memLedger) GrantPlayer(_ context.Context, accountID, catalogID int64) (game.OwnedPlayer, error) {
	l.s.nextID++
	op := game.OwnedPlayer{ID: l.s.nextID, AccountID: accountID, CatalogID: catalogID}
	l.s.owned[op.ID] = op
	return op, nil
}

func (l *memLedger) OwnedPlayer(_ context.Context, accountID, id int64) (game.OwnedPlayer, error) {
	op, ok := l.s.owned[id]
	if !ok || op.AccountID != accountID {
		return game.OwnedPlayer{}, game.ErrPlayerNotOwned
	}
	return op, nil
}

func (l *memLedger) DeleteOwnedPlayer(_ context.Context, id int64) error {
	op, ok := l.s.owned[id]
	if !ok {
		return game.ErrPlayerNotOwned
	}
	delete(l.s.owned, id)
	l.s.slots[op.AccountID] = slices.DeleteFunc(l.s.slots[op.AccountID], func(s game.SquadSlot) bool {
		return s.OwnedPlayerID == id
	})
	return nil
}

func (l *memLedger) SetLevel(_ context.Context, id int64, level int) error {
	op, ok := l.s.owned[id]
	if !ok {
		return game.ErrPlayerNotOwned
	}
	op.Level = level
	l.s.owned[id] = op
	return nil
}

func (l *memLedger) SquadSlots(_ context.Context, accountID int64) ([]game.SquadSlot, error) {
	return slices.Clone(l.s.slots[accountID]), nil
}

func (l *memLedger) AddSquadSlot(_ context.Context, accountID int64, slot int, ownedID int64) error {
	for _, slots := range l.s.slots {
		for _, s := range slots {
			if s.OwnedPlayerID == ownedID {
				return game.ErrAlreadyInSquad
			}
		}
	}
	l.s.slots[accountID] = append(l.s.slots[accountID], game.SquadSlot{Slot: slot, OwnedPlayerID: ownedID})
	return nil
}

func (l *memLedger) RemoveSquadSlot(_ context.Context, accountID int64, ownedID int64) error {
	l.s.slots[accountID] = slices.DeleteFunc(l.s.slots[accountID], func(s game.SquadSlot) bool {
		return s.OwnedPlayerID == ownedID
	})
	return nil
}

func (l *memLedger) RecordMatch(_ context.Context, rec game.MatchRecord) error {
	l.s.matches = append(l.s.matches, rec)
	return nil
}

// scripted replays a fixed sequence of Float64 values and IntN results.
type scripted struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *scripted) Float64() float64 {
	if s.fi >= len(s.floats) {
		panic("scripted: out of floats")
	}
	v := s.floats[s.fi]
	s.fi++
	return v
}

func (s *scripted) IntN(n int) int {
	if s.ii >= len(s.ints) {
		panic("scripted: out of ints")
	}
	v := s.ints[s.ii] % n
	s.ii++
	return v
}

var errBoom = errors.New("boom")
