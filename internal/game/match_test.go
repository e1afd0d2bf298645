package game_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"squad-arena/internal/game"
)

func checkConsistent(t *testing.T, res game.MatchResult) {
	t.Helper()
	var home, away int
	last := 0
	for _, g := range res.Goals {
		if g.Minute < last || g.Minute < 1 || g.Minute > game.MatchMinutes {
			t.Fatalf("goal log out of order or range: %+v", res.Goals)
		}
		last = g.Minute
		if g.Side == game.Home {
			home++
		} else {
			away++
		}
	}
	if home != res.HomeGoals || away != res.AwayGoals {
		t.Fatalf("log has %d-%d, result says %d-%d", home, away, res.HomeGoals, res.AwayGoals)
	}
	want := game.Draw
	switch {
	case res.HomeGoals > res.AwayGoals:
		want = game.Win
	case res.HomeGoals < res.AwayGoals:
		want = game.Loss
	}
	if res.Outcome != want {
		t.Fatalf("outcome %s for %d-%d", res.Outcome, res.HomeGoals, res.AwayGoals)
	}
}

func TestSimulate_ScriptedSequence(t *testing.T) {
	// home scores in minutes 1 and 3, away in 2 and 3
	floats := make([]float64, 2*game.MatchMinutes)
	for i := range floats {
		floats[i] = 0.99
	}
	floats[0] = 0.10  // m1 home
	floats[3] = 0.20  // m2 away
	floats[4] = 0.30  // m3 home
	floats[5] = 0.499 // m3 away

	home := game.Team{Name: "alpha", Average: 50}
	away := game.Team{Name: "bravo", Average: 50}

	res := game.Simulate(&scripted{floats: floats}, home, away)
	checkConsistent(t, res)

	if res.HomeGoals != 2 || res.AwayGoals != 2 || res.Outcome != game.Draw {
		t.Fatalf("got %d-%d %s", res.HomeGoals, res.AwayGoals, res.Outcome)
	}
	want := []game.Goal{
		{Minute: 1, Side: game.Home, Team: "alpha"},
		{Minute: 2, Side: game.Away, Team: "bravo"},
		{Minute: 3, Side: game.Home, Team: "alpha"},
		{Minute: 3, Side: game.Away, Team: "bravo"},
	}
	if len(res.Goals) != len(want) {
		t.Fatalf("goals: got %+v", res.Goals)
	}
	for i := range want {
		if res.Goals[i] != want[i] {
			t.Fatalf("goal %d: got %+v want %+v", i, res.Goals[i], want[i])
		}
	}
}

func TestSimulate_ConsumesExactlyThirtyDraws(t *testing.T) {
	floats := make([]float64, 2*game.MatchMinutes)
	src := &scripted{floats: floats}
	game.Simulate(src, game.Team{Average: 40}, game.Team{Average: 60})
	if src.fi != 2*game.MatchMinutes {
		t.Fatalf("consumed %d draws", src.fi)
	}
}

func TestSimulate_ReplayIsDeterministic(t *testing.T) {
	home := game.Team{Name: "h", Average: 47.2}
	away := game.Team{Name: "a", Average: 61.8}

	for seed := uint64(1); seed <= 20; seed++ {
		a := game.Simulate(game.NewSeeded(seed), home, away)
		b := game.Simulate(game.NewSeeded(seed), home, away)
		checkConsistent(t, a)
		if a.HomeGoals != b.HomeGoals || a.AwayGoals != b.AwayGoals || len(a.Goals) != len(b.Goals) {
			t.Fatalf("seed %d: replay differs", seed)
		}
		for i := range a.Goals {
			if a.Goals[i] != b.Goals[i] {
				t.Fatalf("seed %d: goal %d differs", seed, i)
			}
		}
	}
}

func TestSimulate_Extremes(t *testing.T) {
	rng := game.NewSeeded(7)
	res := game.Simulate(rng, game.Team{Average: 100}, game.Team{Average: 0})
	if res.HomeGoals != game.MatchMinutes || res.AwayGoals != 0 || res.Outcome != game.Win {
		t.Fatalf("got %d-%d %s", res.HomeGoals, res.AwayGoals, res.Outcome)
	}
}

func TestSimulate_GoalCountsFollowBinomial(t *testing.T) {
	const runs = 4000
	dist := distuv.Binomial{N: game.MatchMinutes, P: 0.5}

	rng := game.NewSeeded(42)
	team := game.Team{Name: "even", Average: 50}
	var sum float64
	low := 0
	for i := 0; i < runs; i++ {
		res := game.Simulate(rng, team, team)
		checkConsistent(t, res)
		sum += float64(res.HomeGoals)
		if res.HomeGoals <= 4 {
			low++
		}
	}

	mean := sum / runs
	se := math.Sqrt(dist.Variance() / runs)
	if math.Abs(mean-dist.Mean()) > 5*se {
		t.Fatalf("mean goals %.3f, want %.3f ± %.3f", mean, dist.Mean(), 5*se)
	}

	p := dist.CDF(4)
	freq := float64(low) / runs
	pse := math.Sqrt(p * (1 - p) / runs)
	if math.Abs(freq-p) > 5*pse {
		t.Fatalf("P(goals<=4) observed %.4f, want %.4f ± %.4f", freq, p, 5*pse)
	}
}

func TestOutcomeFlip(t *testing.T) {
	cases := map[game.Outcome]game.Outcome{game.Win: game.Loss, game.Loss: game.Win, game.Draw: game.Draw}
	for in, want := range cases {
		if got := in.Flip(); got != want {
			t.Fatalf("%s.Flip() = %s", in, got)
		}
	}
}
