package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"squad-arena/internal/game"
	"squad-arena/internal/store"
)

func openTest(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func mustAccount(t *testing.T, s *store.Store, name string, rating int, cash int64) game.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), game.Account{
		Email: name + "@example.com", Name: name, PassHash: "x", Rating: rating, Cash: cash,
	})
	if err != nil {
		t.Fatalf("CreateAccount %s: %v", name, err)
	}
	return a
}

func mustSeed(t *testing.T, s *store.Store) []game.CatalogEntry {
	t.Helper()
	entries, err := store.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if _, err := s.SeedCatalog(context.Background(), entries); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}
	cat, err := s.ListCatalog(context.Background())
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	return cat
}

// grantSquad gives the account three players from the catalog and fills
// its squad with them.
func grantSquad(t *testing.T, s *store.Store, accountID int64, cat []game.CatalogEntry) []int64 {
	t.Helper()
	ctx := context.Background()
	var ids []int64
	err := s.WithinTx(ctx, func(l game.Ledger) error {
		for i := 0; i < game.SquadSize; i++ {
			op, err := l.GrantPlayer(ctx, accountID, cat[i].ID)
			if err != nil {
				return err
			}
			ids = append(ids, op.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	for _, id := range ids {
		if _, err := game.AssignToSquad(ctx, s, accountID, id); err != nil {
			t.Fatalf("assign: %v", err)
		}
	}
	return ids
}

func TestStore_AccountsAndConflicts(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	a := mustAccount(t, s, "striker01", 0, 10000)
	if a.Rating != game.StartingRating || a.Role != game.RoleUser {
		t.Fatalf("defaults not applied: %+v", a)
	}

	_, err := s.CreateAccount(ctx, game.Account{Email: "STRIKER01@example.com", Name: "other01", PassHash: "x"})
	if game.KindOf(err) != game.KindConflict {
		t.Fatalf("duplicate email: %v", err)
	}

	got, err := s.AccountByEmail(ctx, "Striker01@Example.com")
	if err != nil || got.ID != a.ID {
		t.Fatalf("AccountByEmail: %+v %v", got, err)
	}
	if _, err := s.AccountByID(ctx, 999); !errors.Is(err, game.ErrAccountNotFound) {
		t.Fatalf("missing account: %v", err)
	}

	cash, err := s.TopUpCash(ctx, a.ID, 500)
	if err != nil || cash != 10500 {
		t.Fatalf("TopUpCash: %d %v", cash, err)
	}
	if _, err := s.TopUpCash(ctx, 999, 500); !errors.Is(err, game.ErrAccountNotFound) {
		t.Fatalf("top up missing: %v", err)
	}
}

func TestStore_CatalogSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	cat := mustSeed(t, s)
	if len(cat) == 0 {
		t.Fatalf("seed wrote nothing")
	}
	n, err := s.SeedCatalog(ctx, cat)
	if err != nil || n != 0 {
		t.Fatalf("second seed: %d %v", n, err)
	}
	if _, err := s.CatalogEntry(ctx, 9999); !errors.Is(err, game.ErrMissingCatalogEntry) {
		t.Fatalf("missing entry: %v", err)
	}
	if _, err := s.AddCatalogEntry(ctx, game.CatalogEntry{Name: "bad", Stats: game.Stats{Speed: 101, Finishing: 1, Power: 1, Defense: 1, Stamina: 1}}); game.KindOf(err) != game.KindInvalidInput {
		t.Fatalf("invalid stats accepted: %v", err)
	}
}

func TestStore_AggregateAndMatchFlow(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	cat := mustSeed(t, s)

	home := mustAccount(t, s, "homeside", 1300, 0)
	away := mustAccount(t, s, "awayside", 1200, 0)
	lonely := mustAccount(t, s, "lonelyone", 5000, 0)
	grantSquad(t, s, home.ID, cat)
	grantSquad(t, s, away.ID, cat[3:])

	avg, err := game.Aggregate(ctx, s, home.ID)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	want := cat[0].Sum() + cat[1].Sum() + cat[2].Sum()
	if avg.Total != want {
		t.Fatalf("total %d, want %d", avg.Total, want)
	}
	if _, err := game.Aggregate(ctx, s, lonely.ID); !errors.Is(err, game.ErrNoSquad) {
		t.Fatalf("no squad: %v", err)
	}

	// accounts without a full squad are not ranked
	if r, _ := s.RankPosition(ctx, home.ID); r != 1 {
		t.Fatalf("home rank %d", r)
	}
	if r, _ := s.RankPosition(ctx, away.ID); r != 2 {
		t.Fatalf("away rank %d", r)
	}

	arena := &game.Arena{Squads: s, Ranks: s, UoW: s, Rand: game.NewSeeded(11), Rules: game.DefaultRules()}
	rep, err := arena.Play(ctx, home.ID, away.ID)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	h, _ := s.AccountByID(ctx, home.ID)
	a, _ := s.AccountByID(ctx, away.ID)
	if h.Rating != 1300+rep.Adjustment.CurrentDelta || a.Rating != 1200+rep.Adjustment.OpponentDelta {
		t.Fatalf("ratings %d/%d after %+v", h.Rating, a.Rating, rep.Adjustment)
	}
	if h.Rating+a.Rating != 2500 {
		t.Fatalf("rating total changed: %d", h.Rating+a.Rating)
	}

	hist, err := s.MatchesFor(ctx, away.ID, 10)
	if err != nil || len(hist) != 1 || hist[0].ID != rep.MatchID || hist[0].Outcome != rep.Outcome {
		t.Fatalf("history %+v %v", hist, err)
	}

	board, err := s.Leaderboard(ctx, 100)
	if err != nil || len(board) != 2 {
		t.Fatalf("leaderboard %+v %v", board, err)
	}
	if board[0].Rank != 1 || board[1].Rank != 2 || board[0].Rating < board[1].Rating {
		t.Fatalf("leaderboard order %+v", board)
	}

	lobby, err := s.Lobby(ctx, home.ID, 1000, 50)
	if err != nil || len(lobby) != 1 || lobby[0].AccountID != away.ID {
		t.Fatalf("lobby %+v %v", lobby, err)
	}
	if _, err := s.Lobby(ctx, lonely.ID, 1000, 50); !errors.Is(err, game.ErrNoSquad) {
		t.Fatalf("lobby without squad: %v", err)
	}
}

func TestStore_FailedUnitOfWorkRollsBack(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	a := mustAccount(t, s, "firstacct", 1100, 0)
	b := mustAccount(t, s, "secondacct", 1000, 0)

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(l game.Ledger) error {
		if err := l.SetRating(ctx, a.ID, 1110); err != nil {
			return err
		}
		if err := l.SetRating(ctx, b.ID, 990); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	ra, _ := s.AccountByID(ctx, a.ID)
	rb, _ := s.AccountByID(ctx, b.ID)
	if ra.Rating != 1100 || rb.Rating != 1000 {
		t.Fatalf("ratings changed: %d/%d", ra.Rating, rb.Rating)
	}

	_, err = game.AdjustRatings(ctx, s, game.DefaultDeltaTable(),
		game.Participant{AccountID: a.ID, Rank: 1},
		game.Participant{AccountID: 777, Rank: 2},
		game.Win, nil)
	if !errors.Is(err, game.ErrAccountNotFound) {
		t.Fatalf("missing opponent: %v", err)
	}
	ra, _ = s.AccountByID(ctx, a.ID)
	if ra.Rating != 1100 {
		t.Fatalf("rating changed after failed adjust: %d", ra.Rating)
	}
}

func TestStore_DrawAndEnhance(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	mustSeed(t, s)
	acc := mustAccount(t, s, "gambler01", 1000, 3000)

	rules := game.DefaultRules()
	first, err := game.Draw(ctx, s, game.NewSeeded(5), rules, acc.ID)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if first.CashLeft != 2000 {
		t.Fatalf("cash left %d", first.CashLeft)
	}

	// grant a twin directly so the enhancement has valid material
	var twin game.OwnedPlayer
	err = s.WithinTx(ctx, func(l game.Ledger) error {
		var err error
		twin, err = l.GrantPlayer(ctx, acc.ID, first.Entry.ID)
		return err
	})
	if err != nil {
		t.Fatalf("grant twin: %v", err)
	}
	if _, err := game.AssignToSquad(ctx, s, acc.ID, twin.ID); err != nil {
		t.Fatalf("assign twin: %v", err)
	}

	res, err := game.Enhance(ctx, s, game.NewSeeded(1), rules, acc.ID, first.Player.ID, twin.ID)
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	// level 0 always succeeds
	if !res.Success || res.Target.Level != 1 || res.CashLeft != 1000 {
		t.Fatalf("enhance %+v", res)
	}

	owned, err := s.OwnedPlayers(ctx, acc.ID)
	if err != nil || len(owned) != 1 {
		t.Fatalf("owned %+v %v", owned, err)
	}
	if owned[0].Level != 1 || owned[0].Rating != store.DisplayRating(owned[0].Stats, 1) {
		t.Fatalf("owned view %+v", owned[0])
	}
	squad, err := s.SquadView(ctx, acc.ID)
	if err != nil || len(squad) != 0 {
		t.Fatalf("material left in squad: %+v %v", squad, err)
	}

	_, err = game.Draw(ctx, s, game.NewSeeded(6), rules, acc.ID)
	if err != nil {
		t.Fatalf("second draw: %v", err)
	}
	_, err = game.Draw(ctx, s, game.NewSeeded(7), rules, acc.ID)
	if !errors.Is(err, game.ErrInsufficientFunds) {
		t.Fatalf("broke draw: %v", err)
	}
}

func TestStore_Logs(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	a := mustAccount(t, s, "auditee01", 1000, 0)

	if err := s.LogAction(ctx, &a.ID, "login", "success"); err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if err := s.LogAction(ctx, nil, "admin_login", "success"); err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	logs, err := s.ListLogs(ctx, 10)
	if err != nil || len(logs) != 2 {
		t.Fatalf("logs %+v %v", logs, err)
	}
	if logs[0].Action != "admin_login" || logs[0].ActorID != nil {
		t.Fatalf("newest first: %+v", logs[0])
	}
	if logs[1].ActorID == nil || *logs[1].ActorID != a.ID {
		t.Fatalf("actor lost: %+v", logs[1])
	}
}
