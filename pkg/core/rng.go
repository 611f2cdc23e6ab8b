package core

import "math/rand/v2"

// Rand is the randomness consumed by the effect engine. RNG satisfies it;
// tests substitute fixed sequences.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// IntN returns a uniform value in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Range returns a uniform value in [lo, hi).
func Range(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Symmetric returns a uniform value in [-spread, spread).
func Symmetric(r Rand, spread float64) float64 {
	return (r.Float64()*2 - 1) * spread
}
