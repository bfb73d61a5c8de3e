// Package rand provides the non-cryptographic, seeded randomness used by the
// networking layer for load-spreading decisions such as picking an anchor
// position in a broadcast tree.
//
// Randomness produced here is NOT suitable for any security sensitive purpose.
// It only has to be uniform and cheap. Every Source is safe for concurrent use.
package rand

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// Source provides uniformly distributed random positions.
type Source interface {
	// Uintn returns a random uint strictly less than `n`.
	// `n` has to be a strictly positive integer.
	//
	// It returns:
	//   - (0, exception) if `n==0`
	//   - (random, nil) otherwise
	Uintn(n uint) (uint, error)
}

// LockedSource is a Source backed by a seeded PRNG behind a lock.
type LockedSource struct {
	rng *rand.Rand
}

var _ Source = (*LockedSource)(nil)

// NewSeeded returns a Source whose sequence is fully determined by the seed.
func NewSeeded(seed uint64) *LockedSource {
	src := &rand.LockedSource{}
	src.Seed(seed)
	return &LockedSource{
		rng: rand.New(src),
	}
}

// NewTimeSeeded returns a Source seeded from the wall clock.
func NewTimeSeeded() *LockedSource {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// Uintn returns a random uint strictly less than `n`.
func (s *LockedSource) Uintn(n uint) (uint, error) {
	if n == 0 {
		return 0, fmt.Errorf("n should be strictly positive, got %d", n)
	}
	return uint(s.rng.Uint64n(uint64(n))), nil
}
