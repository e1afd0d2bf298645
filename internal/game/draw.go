package game

import "context"

type DrawResult struct {
	Player    OwnedPlayer  `json:"player"`
	Entry     CatalogEntry `json:"entry"`
	Attempts  int          `json:"attempts"`
	Duplicate bool         `json:"duplicate"`
	CashLeft  int64        `json:"cash_left"`
}

// Draw charges rules.DrawCost and grants a uniformly picked catalog entry.
// A pick the account already owns is rerolled with probability
// rules.DrawRerollChance, up to rules.DrawMaxAttempts picks in total.
func Draw(ctx context.Context, uow UnitOfWork, rng Rand, rules Rules, accountID int64) (DrawResult, error) {
	maxAttempts := rules.DrawMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var res DrawResult
	err := uow.WithinTx(ctx, func(l Ledger) error {
		acc, err := l.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.Cash < rules.DrawCost {
			return Errorf(KindInsufficientFunds, "draw costs %d, have %d", rules.DrawCost, acc.Cash)
		}

		catalog, err := l.Catalog(ctx)
		if err != nil {
			return err
		}
		if len(catalog) == 0 {
			return ErrEmptyCatalog
		}

		var pick CatalogEntry
		var dup bool
		attempts := 0
		for {
			attempts++
			pick = catalog[rng.IntN(len(catalog))]
			dup, err = l.OwnsCatalogEntry(ctx, accountID, pick.ID)
			if err != nil {
				return err
			}
			if !dup || rng.Float64() >= rules.DrawRerollChance {
				break
			}
			if attempts >= maxAttempts {
				return Errorf(KindExhaustedRetries, "no pick accepted after %d attempts", attempts)
			}
		}

		if err := l.SetCash(ctx, accountID, acc.Cash-rules.DrawCost); err != nil {
			return err
		}
		owned, err := l.GrantPlayer(ctx, accountID, pick.ID)
		if err != nil {
			return err
		}

		res = DrawResult{
			Player:    owned,
			Entry:     pick,
			Attempts:  attempts,
			Duplicate: dup,
			CashLeft:  acc.Cash - rules.DrawCost,
		}
		return nil
	})
	if err != nil {
		return DrawResult{}, err
	}
	return res, nil
}
