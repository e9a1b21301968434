package agent

import (
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"maxsum/game"
)

type randomAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns an agent picking either end uniformly, seeded for
// reproducible experiments.
func NewRandom(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) Name() string {
	return Random
}

func (a *randomAgent) FindMove(s game.Session) (game.Choice, error) {
	ends := s.Ends()
	if len(ends) == 0 {
		return game.Choice{}, fmt.Errorf("%s: %w", Random, game.ErrGameOver)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return ends[a.rng.Intn(len(ends))], nil
}
