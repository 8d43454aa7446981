package game

import (
	"math/rand"
	"sync"
)

// Source is the randomness the games draw from. *math/rand.Rand satisfies
// it; tests substitute scripted sources for deterministic outcomes.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a seeded Source safe for concurrent use.
func NewSource(seed int64) Source {
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}
