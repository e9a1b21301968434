package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"maxsum/agent"
	"maxsum/experiments/metrics"
	"maxsum/game"
)

type Option func(e *LocalEngine)

// WithMetrics records per-move timings and search sizes instead of only the
// outcome.
func WithMetrics() Option {
	return func(e *LocalEngine) {
		e.metrics = metrics.NewCollector()
	}
}

// WithSession starts from a game already in progress.
func WithSession(s game.Session) Option {
	return func(e *LocalEngine) {
		e.Session = s
	}
}

type LocalEngine struct {
	Session game.Session
	Agents  [2]agent.Agent // indexed by player - 1
	metrics metrics.Collector
}

func NewLocalEngine(seq game.Sequence, agents [2]agent.Agent, options ...Option) *LocalEngine {
	if agents[0] == nil || agents[1] == nil {
		panic("need an agent for each player")
	}

	e := &LocalEngine{
		Session: game.NewSession(seq),
		Agents:  agents,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until the range is exhausted. Every choice goes
// through Session.Apply, so an agent answering with a value its end does not
// hold aborts the game with an error.
func (e *LocalEngine) Run() (game.Session, metrics.GameMetric, []metrics.MoveMetric, error) {
	log.Info().Msgf("player %d (%s) is starting against %s over %d values",
		e.Session.Player, e.Agents[e.Session.Player-1].Name(), e.Agents[game.Opponent(e.Session.Player)-1].Name(), e.Session.Range.Len())

	e.metrics.Start(e.Session.Player)
	// One value leaves the range per move, so the loop is bounded by its length
	for step := 1; !e.Session.Over(); step++ {
		player := e.Session.Player
		mover := e.Agents[player-1]

		start := time.Now()
		choice, err := mover.FindMove(e.Session)
		elapsed := time.Since(start)
		if err != nil {
			return e.Session, metrics.GameMetric{}, nil, fmt.Errorf("player %d (%s) step %d: %w", player, mover.Name(), step, err)
		}

		next, err := e.Session.Apply(choice)
		if err != nil {
			return e.Session, metrics.GameMetric{}, nil, fmt.Errorf("player %d (%s) step %d: %w", player, mover.Name(), step, err)
		}

		move := metrics.MoveMetric{
			Step:     step,
			Player:   player,
			Agent:    mover.Name(),
			Side:     choice.Side,
			Value:    choice.Value,
			Duration: elapsed,
		}
		if searching, ok := mover.(agent.Searcher); ok {
			search := searching.LastSearch()
			move.Episodes, move.Playouts = search.Episodes, search.FullPlayouts
		}
		e.metrics.AddMove(move)
		log.Debug().Int("step", step).Int("player", player).Str("side", choice.Side.String()).Int("value", choice.Value).Msg("move played")

		e.Session = next
	}

	gameMetric, moveMetrics := e.metrics.Complete(e.Session)
	log.Info().Msgf("game over with scores %d:%d, winner: %d", e.Session.Scores[0], e.Session.Scores[1], e.Session.Winner())
	return e.Session, gameMetric, moveMetrics, nil
}
