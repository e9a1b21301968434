package agent

import (
	"fmt"

	"maxsum/game"
)

type greedyAgent struct{}

// NewGreedy returns an agent that always takes the larger end, left on ties.
func NewGreedy() Agent {
	return greedyAgent{}
}

func (greedyAgent) Name() string {
	return Greedy
}

func (greedyAgent) FindMove(s game.Session) (game.Choice, error) {
	ends := s.Ends()
	if len(ends) == 0 {
		return game.Choice{}, fmt.Errorf("%s: %w", Greedy, game.ErrGameOver)
	}
	best := ends[0]
	for _, c := range ends[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	return best, nil
}
