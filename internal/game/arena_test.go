package game_test

import (
	"context"
	"errors"
	"testing"

	"squad-arena/internal/game"
)

func arenaFixture() *memStore {
	m := newMemStore()
	strong := game.Stats{Speed: 90, Finishing: 90, Power: 90, Defense: 90, Stamina: 90}
	weak := game.Stats{Speed: 10, Finishing: 10, Power: 10, Defense: 10, Stamina: 10}
	m.addCatalog(10, "ace", strong)
	m.addCatalog(11, "rookie", weak)

	// ranks by rating: 1 -> #1, 2 -> #2, 3 -> #3, 4 -> #4
	for i, rating := range []int{1300, 1200, 1100, 1000} {
		id := int64(i + 1)
		m.addAccount(id, []string{"north", "south", "east", "west"}[i], rating, 0)
		cat := int64(11)
		if id == 1 {
			cat = 10
		}
		base := id * 10
		m.addOwned(base, id, cat, 0)
		m.addOwned(base+1, id, cat, 0)
		m.addOwned(base+2, id, cat, 0)
		m.fillSquad(id, base, base+1, base+2)
	}
	m.addAccount(9, "benchwarmer", 2000, 0)
	return m
}

func newArena(m *memStore, rng game.Rand) *game.Arena {
	return &game.Arena{Squads: m, Ranks: m, UoW: m, Rand: rng, Rules: game.DefaultRules()}
}

func TestArena_RankOneBeatsRankTwo(t *testing.T) {
	m := arenaFixture()
	// home (avg 90) scores every minute, away (avg 10) never does
	floats := make([]float64, 2*game.MatchMinutes)
	for i := range floats {
		if i%2 == 0 {
			floats[i] = 0.5
		} else {
			floats[i] = 0.95
		}
	}

	rep, err := newArena(m, &scripted{floats: floats}).Play(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if rep.Outcome != game.Win || rep.Home.Goals != game.MatchMinutes || rep.Away.Goals != 0 {
		t.Fatalf("report %+v", rep)
	}
	if rep.Home.Rank != 1 || rep.Away.Rank != 2 {
		t.Fatalf("ranks %d/%d", rep.Home.Rank, rep.Away.Rank)
	}
	if rep.Adjustment.CurrentDelta != 10 || rep.Adjustment.OpponentDelta != -10 {
		t.Fatalf("adjustment %+v", rep.Adjustment)
	}
	if m.state.accounts[1].Rating != 1310 || m.state.accounts[2].Rating != 1190 {
		t.Fatalf("ratings %d/%d", m.state.accounts[1].Rating, m.state.accounts[2].Rating)
	}
	if len(m.state.matches) != 1 || m.state.matches[0].ID != rep.MatchID {
		t.Fatalf("match not recorded")
	}
}

func TestArena_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		opponent int64
		kind     game.Kind
	}{
		{"self play", 1, 1, game.KindInvalidInput},
		{"rank gap", 1, 4, game.KindRankGap},
		{"opponent without squad", 1, 9, game.KindNoSquad},
		{"unknown opponent", 1, 77, game.KindAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := arenaFixture()
			_, err := newArena(m, game.NewSeeded(1)).Play(context.Background(), tt.current, tt.opponent)
			if game.KindOf(err) != tt.kind {
				t.Fatalf("got %v, want kind %s", err, tt.kind)
			}
			if len(m.state.matches) != 0 || m.state.accounts[1].Rating != 1300 {
				t.Fatalf("state mutated on rejection")
			}
		})
	}
}

func TestArena_RankGapOfTwoAllowed(t *testing.T) {
	m := arenaFixture()
	_, err := newArena(m, game.NewSeeded(3)).Play(context.Background(), 1, 3)
	if errors.Is(err, game.ErrRankGap) {
		t.Fatalf("gap of 2 rejected")
	}
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
}
