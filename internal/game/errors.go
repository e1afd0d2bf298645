package game

import (
	"errors"
	"fmt"
)

// Kind is the stable identifier of a rejection, surfaced to API callers.
type Kind string

const (
	KindNoSquad             Kind = "no_squad"
	KindMissingCatalogEntry Kind = "missing_catalog_entry"
	KindAccountNotFound     Kind = "account_not_found"
	KindExhaustedRetries    Kind = "exhausted_retries"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindMaterialMismatch    Kind = "material_mismatch"
	KindMaxEnhancement      Kind = "max_enhancement"
	KindPlayerNotOwned      Kind = "player_not_owned"
	KindEmptyCatalog        Kind = "empty_catalog"
	KindSquadFull           Kind = "squad_full"
	KindAlreadyInSquad      Kind = "already_in_squad"
	KindNotInSquad          Kind = "not_in_squad"
	KindInvalidInput        Kind = "invalid_input"
	KindRankGap             Kind = "rank_gap"
	KindConflict            Kind = "conflict"
	KindUnauthorized        Kind = "unauthorized"
)

// Error is a rejection with a stable Kind and a human-readable message.
// Cause, when set, is the lower-level error that produced it.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNoSquad) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNoSquad             = &Error{Kind: KindNoSquad, Msg: "squad is missing or incomplete"}
	ErrMissingCatalogEntry = &Error{Kind: KindMissingCatalogEntry, Msg: "catalog entry not found"}
	ErrAccountNotFound     = &Error{Kind: KindAccountNotFound, Msg: "account not found"}
	ErrExhaustedRetries    = &Error{Kind: KindExhaustedRetries, Msg: "draw retries exhausted"}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds, Msg: "not enough cash"}
	ErrMaterialMismatch    = &Error{Kind: KindMaterialMismatch, Msg: "material must be the same player at the same level"}
	ErrMaxEnhancement      = &Error{Kind: KindMaxEnhancement, Msg: "player is already at max level"}
	ErrPlayerNotOwned      = &Error{Kind: KindPlayerNotOwned, Msg: "player not owned"}
	ErrEmptyCatalog        = &Error{Kind: KindEmptyCatalog, Msg: "player catalog is empty"}
	ErrSquadFull           = &Error{Kind: KindSquadFull, Msg: "squad is full"}
	ErrAlreadyInSquad      = &Error{Kind: KindAlreadyInSquad, Msg: "player is already in the squad"}
	ErrNotInSquad          = &Error{Kind: KindNotInSquad, Msg: "player is not in the squad"}
	ErrRankGap             = &Error{Kind: KindRankGap, Msg: "rank difference too large"}
)

func Errorf(kind Kind, format string, a ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// KindOf returns the Kind of err, or "" when err is not a game rejection.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
