// Package rng provides the shared random source. Its full state can be
// captured and restored so that a restored turn replays the same draws.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// seedStream decorrelates the second PCG word from the seed.
const seedStream uint64 = 0x9e3779b97f4a7c15

type Source struct {
	pcg  *rand.PCG
	rand *rand.Rand
}

// New returns a source seeded deterministically from seed.
func New(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed^seedStream)
	return &Source{
		pcg:  pcg,
		rand: rand.New(pcg),
	}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// IntN returns a uniform value in [0, n). It returns 0 when n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rand.IntN(n)
}

// Shuffle performs a uniform permutation of n elements.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	s.rand.Shuffle(n, swap)
}

// State returns an opaque copy of the generator state.
func (s *Source) State() []byte {
	state, err := s.pcg.MarshalBinary()
	if err != nil {
		// PCG marshalling cannot fail
		panic(fmt.Sprintf("failed to marshal random state: %v", err))
	}
	return state
}

// Restore resets the generator to a state returned by State.
func (s *Source) Restore(state []byte) error {
	if err := s.pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("failed to restore random state: %v", err)
	}
	return nil
}
