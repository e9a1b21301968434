package agent

import (
	"sync"
	"time"

	"maxsum/game"
	"maxsum/searcher"
)

const (
	mctsGoroutines = 4
	mctsEpisodes   = 2000
)

// Searcher is an Agent that searches before moving and reports the size of
// its last search.
type Searcher interface {
	Agent
	LastSearch() searcher.SearchMetrics
}

type mctsAgent struct {
	mcts *searcher.MCTS

	mu   sync.Mutex
	last searcher.SearchMetrics
}

// NewMCTS returns an agent that searches each move with a fresh Monte Carlo
// tree: a fixed number of episodes, or searchTime per move when positive.
func NewMCTS(seed uint64, searchTime time.Duration) Searcher {
	budget := searcher.WithEpisodes(mctsEpisodes)
	if searchTime > 0 {
		budget = searcher.WithDuration(searchTime)
	}
	return &mctsAgent{mcts: searcher.NewMCTS(mctsGoroutines, budget, searcher.WithSeed(seed))}
}

func (a *mctsAgent) Name() string {
	return MCTS
}

func (a *mctsAgent) FindMove(s game.Session) (game.Choice, error) {
	result, err := a.mcts.Search(s)
	if err != nil {
		return game.Choice{}, err
	}
	a.mu.Lock()
	a.last = result.Metrics
	a.mu.Unlock()
	return result.Choice, nil
}

func (a *mctsAgent) LastSearch() searcher.SearchMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}
