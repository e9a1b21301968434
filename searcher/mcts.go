package searcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"maxsum/game"
)

type Option func(mcts *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search with virtual loss. Each
// search builds a fresh tree from the given session.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	seed       uint64

	mu    sync.Mutex
	calls uint64 // seeds a distinct stream per search
}

// WithDuration bounds each search by wall time. It is ignored when an
// episode budget is also set.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: max(goroutines, 1),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Result is the outcome of one search: the most visited root move, each
// root move's share of the visits and the size of the search.
type Result struct {
	Choice  game.Choice
	Policy  map[game.Side]float64
	Metrics SearchMetrics
}

// Search explores s and returns the most visited root move. A single
// remaining value is returned without searching.
func (m *MCTS) Search(s game.Session) (Result, error) {
	if s.Over() {
		return Result{}, fmt.Errorf("search: %w", game.ErrGameOver)
	}
	ends := s.Ends()
	if len(ends) == 0 {
		return Result{}, fmt.Errorf("search over %v: %w", s.Range, game.ErrRange)
	}
	if len(ends) == 1 {
		return Result{Choice: ends[0], Policy: map[game.Side]float64{ends[0].Side: 1}}, nil
	}

	root, metric := m.search(s)
	move, ok := root.best()
	if !ok {
		return Result{}, fmt.Errorf("search from %v explored no moves", s.Range)
	}
	policy := root.Policy()
	log.Debug().Msgf("search over %v: %d episodes (%d full playouts) in %s, took %d from the %s, policy left %.2f right %.2f",
		s.Range, metric.Episodes, metric.FullPlayouts, metric.Duration, move.Value, move.Side, policy[game.Left], policy[game.Right])
	return Result{Choice: move, Policy: policy, Metrics: metric}, nil
}

// FindMove returns the most visited root move.
func (m *MCTS) FindMove(s game.Session) (game.Choice, error) {
	result, err := m.Search(s)
	if err != nil {
		return game.Choice{}, err
	}
	return result.Choice, nil
}

func (m *MCTS) search(s game.Session) (*decision, SearchMetrics) {
	m.mu.Lock()
	m.calls++
	seed := m.seed + m.calls<<16
	m.mu.Unlock()

	root := newDecision(nil, game.Opponent(s.Player), game.Choice{}, s)
	counter := startCounter()
	if m.episodes > 0 {
		m.iterate(root, s, seed, counter)
	} else {
		m.countdown(root, s, seed, counter)
	}
	return root, counter.complete()
}

func (m *MCTS) iterate(root *decision, s game.Session, seed uint64, counter *searchCounter) {
	task := make(chan any, m.episodes)
	for range m.episodes {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := range m.goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed + uint64(i)))
			for range task {
				counter.addEpisode(simulate(root, s, rng))
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(root *decision, s game.Session, seed uint64, counter *searchCounter) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := range m.goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed + uint64(i)))
			for {
				select {
				case <-done:
					return
				default:
					counter.addEpisode(simulate(root, s, rng))
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// simulate runs one episode and reports whether its rollout played any
// random moves.
func simulate(root *decision, s game.Session, rng *rand.Rand) bool {
	node, state := selectThenExpand(root, s)
	winner, moves := rollout(state, rng)
	backup(node, winner)
	return moves > 0
}

func selectThenExpand(root *decision, s game.Session) (*decision, game.Session) {
	parent := root
	child, state, selected := parent.SelectOrExpand(s)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}

// rollout plays uniformly random ends until the game is over and returns
// the winner, 0 on a tie, and the number of moves played.
func rollout(s game.Session, rng *rand.Rand) (winner, moves int) {
	for !s.Over() {
		ends := s.Ends()
		s = mustApply(s, ends[rng.Intn(len(ends))])
		moves++
	}
	return s.Winner(), moves
}

func backup(node *decision, winner int) {
	for node != nil {
		node = node.Backup(winner)
	}
}
