package game

const (
	MatchMinutes = 15
	// ScoringRange is the width of the per-minute draw. Averages live on the
	// same 0..100 scale, so a side scores with probability average/100.
	ScoringRange = 100.0
)

type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Outcome is reported from the home side's point of view.
type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Draw Outcome = "draw"
)

// Flip returns the same outcome seen from the other side.
func (o Outcome) Flip() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return Draw
	}
}

type Team struct {
	Name    string
	Average float64
}

type Goal struct {
	Minute int    `json:"minute"`
	Side   Side   `json:"-"`
	Team   string `json:"team"`
}

type MatchResult struct {
	Outcome   Outcome
	HomeGoals int
	AwayGoals int
	Goals     []Goal
}

// Simulate plays MatchMinutes minutes. Each minute consumes exactly two
// draws, home first, and either side scores when its draw is below its
// average. Both sides may score in the same minute.
func Simulate(rng Rand, home, away Team) MatchResult {
	var res MatchResult
	for minute := 1; minute <= MatchMinutes; minute++ {
		homeRoll := rng.Float64() * ScoringRange
		awayRoll := rng.Float64() * ScoringRange

		if homeRoll < home.Average {
			res.HomeGoals++
			res.Goals = append(res.Goals, Goal{Minute: minute, Side: Home, Team: home.Name})
		}
		if awayRoll < away.Average {
			res.AwayGoals++
			res.Goals = append(res.Goals, Goal{Minute: minute, Side: Away, Team: away.Name})
		}
	}

	switch {
	case res.HomeGoals > res.AwayGoals:
		res.Outcome = Win
	case res.HomeGoals < res.AwayGoals:
		res.Outcome = Loss
	default:
		res.Outcome = Draw
	}
	return res
}
