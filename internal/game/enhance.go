package game

import "context"

type EnhanceResult struct {
	Success  bool        `json:"success"`
	Target   OwnedPlayer `json:"target"`
	Cost     int64       `json:"cost"`
	Chance   float64     `json:"chance"`
	CashLeft int64       `json:"cash_left"`
}

// Enhance consumes materialID to try raising targetID by one level. The
// material is spent and the cost charged whether or not the roll succeeds.
func Enhance(ctx context.Context, uow UnitOfWork, rng Rand, rules Rules, accountID, targetID, materialID int64) (EnhanceResult, error) {
	if targetID == materialID {
		return EnhanceResult{}, Errorf(KindInvalidInput, "target and material must be different players")
	}

	var res EnhanceResult
	err := uow.WithinTx(ctx, func(l Ledger) error {
		acc, err := l.Account(ctx, accountID)
		if err != nil {
			return err
		}
		target, err := l.OwnedPlayer(ctx, accountID, targetID)
		if err != nil {
			return err
		}
		material, err := l.OwnedPlayer(ctx, accountID, materialID)
		if err != nil {
			return err
		}

		if target.Level >= MaxLevel {
			return ErrMaxEnhancement
		}
		if material.CatalogID != target.CatalogID || material.Level != target.Level {
			return ErrMaterialMismatch
		}

		cost := rules.EnhanceCost(target.Level)
		if acc.Cash < cost {
			return Errorf(KindInsufficientFunds, "enhancement costs %d, have %d", cost, acc.Cash)
		}

		chance := rules.EnhanceChance(target.Level)
		success := rng.Float64()*100 < chance

		if err := l.SetCash(ctx, accountID, acc.Cash-cost); err != nil {
			return err
		}
		if err := l.DeleteOwnedPlayer(ctx, material.ID); err != nil {
			return err
		}
		if success {
			target.Level++
			if err := l.SetLevel(ctx, target.ID, target.Level); err != nil {
				return err
			}
		}

		res = EnhanceResult{
			Success:  success,
			Target:   target,
			Cost:     cost,
			Chance:   chance,
			CashLeft: acc.Cash - cost,
		}
		return nil
	})
	if err != nil {
		return EnhanceResult{}, err
	}
	return res, nil
}
