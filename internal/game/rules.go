package game

// Rules holds the tunable economy and matchmaking constants.
type Rules struct {
	StartingCash     int64
	DrawCost         int64
	DrawMaxAttempts  int
	DrawRerollChance float64
	EnhanceBaseCost  int64
	MaxRankGap       int
	CashTopUpLimit   int64
	Ratings          DeltaTable
}

func DefaultRules() Rules {
	return Rules{
		StartingCash:     10000,
		DrawCost:         1000,
		DrawMaxAttempts:  5,
		DrawRerollChance: 0.5,
		EnhanceBaseCost:  1000,
		MaxRankGap:       2,
		CashTopUpLimit:   100000,
		Ratings:          DefaultDeltaTable(),
	}
}

// EnhanceCost doubles with every level already gained.
func (r Rules) EnhanceCost(level int) int64 {
	return r.EnhanceBaseCost << uint(level)
}

// EnhanceChance is the success probability in percent.
func (r Rules) EnhanceChance(level int) float64 {
	return float64(100 - 10*level)
}
