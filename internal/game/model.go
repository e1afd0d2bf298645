package game

import "time"

const (
	SquadSize      = 3
	StatCount      = 5
	MaxLevel       = 10
	StartingRating = 1000
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Stats struct {
	Speed     int `json:"speed" yaml:"speed"`
	Finishing int `json:"finishing" yaml:"finishing"`
	Power     int `json:"power" yaml:"power"`
	Defense   int `json:"defense" yaml:"defense"`
	Stamina   int `json:"stamina" yaml:"stamina"`
}

func (s Stats) Sum() int {
	return s.Speed + s.Finishing + s.Power + s.Defense + s.Stamina
}

// Average is the plain mean of the five attributes.
func (s Stats) Average() float64 {
	return float64(s.Sum()) / StatCount
}

func (s Stats) Valid() bool {
	for _, v := range []int{s.Speed, s.Finishing, s.Power, s.Defense, s.Stamina} {
		if v < 1 || v > 100 {
			return false
		}
	}
	return true
}

type Account struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PassHash  string    `json:"-"`
	Role      string    `json:"role"`
	Cash      int64     `json:"cash"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type CatalogEntry struct {
	ID   int64  `json:"id" yaml:"-"`
	Name string `json:"name" yaml:"name"`
	Stats `yaml:",inline"`
}

type OwnedPlayer struct {
	ID        int64 `json:"id"`
	AccountID int64 `json:"account_id"`
	CatalogID int64 `json:"catalog_id"`
	Level     int   `json:"level"`
}

// SquadSlot is one filled slot (1..SquadSize) of an account's squad.
type SquadSlot struct {
	Slot          int   `json:"slot"`
	OwnedPlayerID int64 `json:"owned_player_id"`
}

type MatchRecord struct {
	ID        string    `json:"id"`
	HomeID    int64     `json:"home_id"`
	AwayID    int64     `json:"away_id"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	Outcome   Outcome   `json:"outcome"`
	HomeDelta int       `json:"home_delta"`
	AwayDelta int       `json:"away_delta"`
	PlayedAt  time.Time `json:"played_at"`
}
