package game

import "context"

// AssignToSquad puts an owned player into the first free slot.
func AssignToSquad(ctx context.Context, uow UnitOfWork, accountID, ownedPlayerID int64) (SquadSlot, error) {
	var out SquadSlot
	err := uow.WithinTx(ctx, func(l Ledger) error {
		if _, err := l.Account(ctx, accountID); err != nil {
			return err
		}
		if _, err := l.OwnedPlayer(ctx, accountID, ownedPlayerID); err != nil {
			return err
		}
		slots, err := l.SquadSlots(ctx, accountID)
		if err != nil {
			return err
		}

		var taken [SquadSize + 1]bool
		for _, s := range slots {
			if s.OwnedPlayerID == ownedPlayerID {
				return ErrAlreadyInSquad
			}
			if s.Slot >= 1 && s.Slot <= SquadSize {
				taken[s.Slot] = true
			}
		}
		free := 0
		for i := 1; i <= SquadSize; i++ {
			if !taken[i] {
				free = i
				break
			}
		}
		if free == 0 {
			return ErrSquadFull
		}

		if err := l.AddSquadSlot(ctx, accountID, free, ownedPlayerID); err != nil {
			return err
		}
		out = SquadSlot{Slot: free, OwnedPlayerID: ownedPlayerID}
		return nil
	})
	return out, err
}

// RemoveFromSquad frees the slot holding the owned player.
func RemoveFromSquad(ctx context.Context, uow UnitOfWork, accountID, ownedPlayerID int64) error {
	return uow.WithinTx(ctx, func(l Ledger) error {
		if _, err := l.OwnedPlayer(ctx, accountID, ownedPlayerID); err != nil {
			return err
		}
		slots, err := l.SquadSlots(ctx, accountID)
		if err != nil {
			return err
		}
		for _, s := range slots {
			if s.OwnedPlayerID == ownedPlayerID {
				return l.RemoveSquadSlot(ctx, accountID, ownedPlayerID)
			}
		}
		return ErrNotInSquad
	})
}
