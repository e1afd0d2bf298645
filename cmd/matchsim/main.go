// Command matchsim plays many seeded matches between two squad averages and
// prints outcome rates and goal statistics. It is used to check balance
// changes before they ship.
package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"squad-arena/internal/game"
)

type config struct {
	home     float64
	away     float64
	runs     int
	workers  int
	seed     uint64
	progress bool
}

type report struct {
	runs                  int
	wins, draws, losses   int
	homeMean, homeStd     float64
	awayMean, awayStd     float64
	expectHome, expectAwy float64
	used                  time.Duration
}

func main() {
	var cfg config
	flag.Float64Var(&cfg.home, "home", 50, "home squad average (0..100)")
	flag.Float64Var(&cfg.away, "away", 50, "away squad average (0..100)")
	flag.IntVar(&cfg.runs, "runs", 100000, "matches per worker")
	flag.IntVar(&cfg.workers, "workers", 1, "parallel workers")
	flag.Uint64Var(&cfg.seed, "seed", 1, "base seed; worker i uses seed+i")
	flag.BoolVar(&cfg.progress, "progress", true, "show a progress bar")
	flag.Parse()

	if err := cfg.valid(); err != nil {
		log.Fatal(err)
	}
	rep := run(cfg)
	rep.print(os.Stdout)
}

func (cfg config) valid() error {
	switch {
	case cfg.home < 0 || cfg.home > game.ScoringRange || cfg.away < 0 || cfg.away > game.ScoringRange:
		return errors.New("averages must be within 0..100")
	case cfg.runs < 1:
		return errors.New("runs must be > 0")
	case cfg.workers < 1:
		return errors.New("workers must be > 0")
	}
	return nil
}

func run(cfg config) report {
	total := cfg.runs * cfg.workers
	homeGoals := make([]float64, total)
	awayGoals := make([]float64, total)
	outcomes := make([]game.Outcome, total)

	bar := pb.StartNew(total)
	if !cfg.progress {
		bar.SetWriter(io.Discard)
	}

	home := game.Team{Name: "home", Average: cfg.home}
	away := game.Team{Name: "away", Average: cfg.away}

	var wg sync.WaitGroup
	wg.Add(cfg.workers)
	for w := 0; w < cfg.workers; w++ {
		go func(w int) {
			defer wg.Done()
			rng := game.NewSeeded(cfg.seed + uint64(w))
			base := w * cfg.runs
			for i := 0; i < cfg.runs; i++ {
				res := game.Simulate(rng, home, away)
				homeGoals[base+i] = float64(res.HomeGoals)
				awayGoals[base+i] = float64(res.AwayGoals)
				outcomes[base+i] = res.Outcome
				bar.Increment()
			}
		}(w)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	rep := report{runs: total, used: used}
	for _, o := range outcomes {
		switch o {
		case game.Win:
			rep.wins++
		case game.Loss:
			rep.losses++
		default:
			rep.draws++
		}
	}
	rep.homeMean, rep.homeStd = stat.MeanStdDev(homeGoals, nil)
	rep.awayMean, rep.awayStd = stat.MeanStdDev(awayGoals, nil)
	rep.expectHome = distuv.Binomial{N: game.MatchMinutes, P: cfg.home / game.ScoringRange}.Mean()
	rep.expectAwy = distuv.Binomial{N: game.MatchMinutes, P: cfg.away / game.ScoringRange}.Mean()
	return rep
}

func (r report) print(w io.Writer) {
	p := message.NewPrinter(language.English)
	pct := func(n int) float64 { return 100 * float64(n) / float64(r.runs) }

	p.Fprintf(w, "matches   : %d (%v)\n", r.runs, r.used.Round(time.Millisecond))
	p.Fprintf(w, "home win  : %d (%.2f%%)\n", r.wins, pct(r.wins))
	p.Fprintf(w, "draw      : %d (%.2f%%)\n", r.draws, pct(r.draws))
	p.Fprintf(w, "home loss : %d (%.2f%%)\n", r.losses, pct(r.losses))
	p.Fprintf(w, "home goals: mean %.3f sd %.3f (expected %.3f)\n", r.homeMean, r.homeStd, r.expectHome)
	p.Fprintf(w, "away goals: mean %.3f sd %.3f (expected %.3f)\n", r.awayMean, r.awayStd, r.expectAwy)
}
