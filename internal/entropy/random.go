// Package entropy provides the randomness source behind every stochastic
// branch in the simulation. All tick-time randomness flows through a Source
// so a seeded run replays identically under test.
// See design doc Section 7.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Source yields the random values the motion model, concession rolls and
// prediction sampler consume. Implementations must be safe for use from the
// single simulation goroutine; they are not required to be safe for
// concurrent use.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Range returns a uniform value in [min, max).
	Range(min, max float64) float64
}

// seeded is a deterministic Source backed by math/rand.
type seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a deterministic Source. Two sources created with the
// same seed produce identical streams.
func NewSeeded(seed int64) Source {
	return &seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64() float64 { return s.rng.Float64() }

func (s *seeded) Intn(n int) int { return s.rng.Intn(n) }

func (s *seeded) Range(min, max float64) float64 {
	return min + s.rng.Float64()*(max-min)
}

// system is a non-reproducible Source drawing from crypto/rand. Used when no
// seed is pinned (production runs that should differ between restarts).
type system struct {
	mu sync.Mutex
}

// NewSystem creates a Source backed by the operating system's entropy pool.
func NewSystem() Source {
	return &system{}
}

func (s *system) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cryptoFloat()
}

func (s *system) Intn(n int) int {
	if n <= 0 {
		panic("entropy: Intn with non-positive n")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(cryptoFloat() * float64(n))
}

func (s *system) Range(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + cryptoFloat()*(max-min)
}

// cryptoFloat generates a random float64 in [0, 1) using crypto/rand.
func cryptoFloat() float64 {
	var buf [8]byte
	_, err := crand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
