package id

import (
	"bytes"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Source generates ids and small random numbers.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source. A zero seed means nondeterministic output.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		return &Source{}
	}
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Seeded reports whether the source produces a reproducible sequence.
func (s *Source) Seeded() bool {
	return s.rng != nil
}

// UUID returns a random (version 4) UUID string.
func (s *Source) UUID() string {
	if s.rng == nil {
		return uuid.NewString()
	}

	s.mu.Lock()
	b := make([]byte, 16)
	for i := 0; i < len(b); i += 8 {
		v := s.rng.Uint64()
		for j := 0; j < 8; j++ {
			b[i+j] = byte(v >> (8 * j))
		}
	}
	s.mu.Unlock()

	u, err := uuid.NewRandomFromReader(bytes.NewReader(b))
	if err != nil {
		// 16 bytes are always available; fall back to crypto randomness anyway.
		return uuid.NewString()
	}
	return u.String()
}

// IntRange returns a random integer in [lo, hi].
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	if s.rng == nil {
		return lo + rand.IntN(hi-lo+1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.IntN(hi-lo+1)
}

// UUID returns a random UUID string from crypto randomness.
func UUID() string {
	return uuid.NewString()
}
