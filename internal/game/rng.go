package game

import "math/rand/v2"

// Rand is the random source used by the simulator, the draw and the
// enhancement roll. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n).
	IntN(n int) int
}

// NewSeeded returns a deterministic PCG-backed source. Two sources built
// from the same seed produce the same sequence.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int    { return rand.IntN(n) }

// Shared returns a source backed by the package-level generator, safe for
// concurrent requests.
func Shared() Rand { return globalRand{} }
