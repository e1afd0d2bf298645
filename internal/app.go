package internal

import (
	"time"

	"go.uber.org/zap"

	"squad-arena/internal/game"
	"squad-arena/internal/store"
)

// App carries the dependencies shared by every handler.
type App struct {
	Store    *store.Store
	Rules    game.Rules
	Rand     game.Rand
	Log      *zap.Logger
	Metrics  *Metrics
	Sessions AdminSessions

	Secret       string
	TokenTTL     time.Duration
	AdminID      string
	AdminPW      string
	CookieSecure bool
	LobbyWindow  int
}

func (a *App) arena() *game.Arena {
	return &game.Arena{
		Squads: a.Store,
		Ranks:  a.Store,
		UoW:    a.Store,
		Rand:   a.rand(),
		Rules:  a.Rules,
	}
}

func (a *App) rand() game.Rand {
	if a.Rand == nil {
		return game.Shared()
	}
	return a.Rand
}
