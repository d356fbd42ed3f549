// Package random provides the seedable uniform generator puzzles draw from.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Source is a deterministic generator for one puzzle instance.
// It is not safe for concurrent use.
type Source struct {
	rng *rand.Rand
}

// NewSource returns a generator seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform integer in [low, high]. It panics if high < low.
func (s *Source) Intn(low, high int) int {
	if high < low {
		panic(fmt.Sprintf("random: empty range [%d, %d]", low, high))
	}
	return low + s.rng.Intn(high-low+1)
}
