package game

import "context"

// SquadReader is the read side the Stat Aggregator needs.
//
// SquadPlayerIDs returns ErrNoSquad when fewer than SquadSize slots are
// filled; OwnedPlayerStats returns ErrMissingCatalogEntry when the owned
// player or its catalog entry cannot be resolved.
type SquadReader interface {
	AccountName(ctx context.Context, accountID int64) (string, error)
	SquadPlayerIDs(ctx context.Context, accountID int64) ([SquadSize]int64, error)
	OwnedPlayerStats(ctx context.Context, ownedPlayerID int64) (Stats, error)
}

// RankProvider gives an account's 1-based leaderboard position.
type RankProvider interface {
	RankPosition(ctx context.Context, accountID int64) (int, error)
}

// Ledger is the set of mutations available inside one unit of work.
// Every method returns ErrAccountNotFound / ErrPlayerNotOwned style
// rejections for missing rows, never a bare driver error.
type Ledger interface {
	// Account loads and locks the account row for the rest of the unit.
	Account(ctx context.Context, accountID int64) (Account, error)
	SetRating(ctx context.Context, accountID int64, rating int) error
	SetCash(ctx context.Context, accountID int64, cash int64) error

	Catalog(ctx context.Context) ([]CatalogEntry, error)
	OwnsCatalogEntry(ctx context.Context, accountID, catalogID int64) (bool, error)
	GrantPlayer(ctx context.Context, accountID, catalogID int64) (OwnedPlayer, error)
	OwnedPlayer(ctx context.Context, accountID, ownedPlayerID int64) (OwnedPlayer, error)
	// DeleteOwnedPlayer also clears any squad slot holding the player.
	DeleteOwnedPlayer(ctx context.Context, ownedPlayerID int64) error
	SetLevel(ctx context.Context, ownedPlayerID int64, level int) error

	SquadSlots(ctx context.Context, accountID int64) ([]SquadSlot, error)
	AddSquadSlot(ctx context.Context, accountID int64, slot int, ownedPlayerID int64) error
	RemoveSquadSlot(ctx context.Context, accountID int64, ownedPlayerID int64) error

	RecordMatch(ctx context.Context, rec MatchRecord) error
}

// UnitOfWork runs fn atomically: everything fn did through the Ledger is
// committed when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(Ledger) error) error
}
