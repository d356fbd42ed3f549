package generator

import (
	"svw.info/indices/internal/ports"
	"svw.info/indices/internal/random"
)

// StageGenerator synthesizes stages from one puzzle's random source. When a
// Finder is wired, every synthesized polynomial is solved back and checked
// against the sampled roots.
type StageGenerator struct {
	RNG    ports.RNG
	Finder ports.RootFinder
}

// New wires a generator drawing from rng and self-checking with finder
// (which may be nil).
func New(rng ports.RNG, finder ports.RootFinder) *StageGenerator {
	return &StageGenerator{RNG: rng, Finder: finder}
}

// Seeded returns a factory building one generator per puzzle seed.
func Seeded(finder ports.RootFinder) func(seed int64) ports.StageGenerator {
	return func(seed int64) ports.StageGenerator {
		return New(random.NewSource(seed), finder)
	}
}

// Note: Generate is implemented in stage.go, the draws in sampler.go.
