// Package randengine is the simulation kernel's sole source of
// randomness: a deterministic generator with an explicit reseed, so two
// runs seeded identically produce bit-identical vehicle trajectories.
package randengine

import "golang.org/x/exp/rand"

// Engine is a linear-congruential-family generator (x/exp/rand's default
// source) wrapped in the three operations the kernel consumes.
type Engine struct {
	rng  *rand.Rand
	seed uint64
}

// New creates an Engine seeded with seed.
func New(seed uint64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Reset reseeds the engine so the sequence that follows is identical to
// the one following New(seed).
func (e *Engine) Reset(seed uint32) {
	e.seed = uint64(seed)
	e.rng.Seed(e.seed)
}

// NextInt returns a uniform value in [0, modulus). modulus <= 0 is a
// programmer precondition violation; it returns 0.
func (e *Engine) NextInt(modulus int) uint32 {
	if modulus <= 0 {
		log.Warnf("randengine: NextInt called with non-positive modulus %d", modulus)
		return 0
	}
	return uint32(e.rng.Intn(modulus))
}

// NextFloat64 returns a uniform value in [0, 1].
func (e *Engine) NextFloat64() float64 {
	return e.rng.Float64()
}

// NormFloat64 returns a standard-normal sample. No package of the kernel
// draws one.
func (e *Engine) NormFloat64() float64 {
	return e.rng.NormFloat64()
}
