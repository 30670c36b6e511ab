package simulation

import (
	"math/rand/v2"
	"time"
)

// Source is the single randomness capability every draw goes through.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a reproducible source for a non-zero seed and a
// randomly seeded one for zero.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// between draws a whole number in [lo, hi]
func between(rng Source, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// chance is a Bernoulli draw with probability p
func chance(rng Source, p float64) bool {
	return rng.Float64() < p
}

// pick draws uniformly from a non-empty pool
func pick(rng Source, pool []string) string {
	return pool[rng.IntN(len(pool))]
}

// offset returns base shifted by a whole number of minutes in [lo, hi]
func offset(rng Source, base time.Time, lo, hi int) time.Time {
	return base.Add(time.Duration(between(rng, lo, hi)) * time.Minute)
}
