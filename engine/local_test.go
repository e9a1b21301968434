package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"maxsum/agent"
	"maxsum/game"
	"maxsum/solver"
)

type cheatingAgent struct{}

func (cheatingAgent) Name() string { return "cheater" }

func (cheatingAgent) FindMove(s game.Session) (game.Choice, error) {
	return game.Choice{Value: 1000, Side: game.Left}, nil
}

func mustSequence(t *testing.T, values ...int) game.Sequence {
	t.Helper()
	seq, err := game.NewSequence(values)
	require.NoError(t, err)
	return seq
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("optimal self-play nets the table root", func(t *testing.T) {
		seq := mustSequence(t, 8, 15, 3, 7, 10, 22, 4)
		table, err := solver.Build(seq, solver.NetAdvantage)
		require.NoError(t, err)
		opt := agent.NewOptimal(table)

		final, gameMetric, moveMetrics, err := NewLocalEngine(seq, [2]agent.Agent{opt, opt}, WithMetrics()).Run()
		require.NoError(t, err)
		require.True(t, final.Over())
		require.Equal(t, table.Root(), final.Score(game.Player1)-final.Score(game.Player2))

		require.Equal(t, seq.Len(), gameMetric.TotalMoves)
		require.Equal(t, game.Player1, gameMetric.StartingPlayer)
		require.Equal(t, final.Scores, gameMetric.Scores)
		require.Equal(t, final.Winner(), gameMetric.Winner)
		require.Len(t, moveMetrics, seq.Len())
		for i, m := range moveMetrics {
			require.Equal(t, i+1, m.Step)
			require.Equal(t, i%2+1, m.Player)
			require.Equal(t, agent.Optimal, m.Agent)
		}
	})

	t.Run("records search sizes for searching agents", func(t *testing.T) {
		seq := mustSequence(t, 5, 100, 1, 2)
		mcts := agent.NewMCTS(1, 0)

		_, _, moveMetrics, err := NewLocalEngine(seq, [2]agent.Agent{mcts, agent.NewGreedy()}, WithMetrics()).Run()
		require.NoError(t, err)
		require.Len(t, moveMetrics, 4)
		for _, m := range moveMetrics {
			if m.Agent == agent.Greedy {
				require.Zero(t, m.Episodes)
				continue
			}
			require.Equal(t, agent.MCTS, m.Agent)
			require.Positive(t, m.Episodes)
			require.LessOrEqual(t, m.Playouts, m.Episodes)
		}
	})

	t.Run("without metrics only the outcome is reported", func(t *testing.T) {
		seq := mustSequence(t, 1, 2, 3, 4)
		greedy := agent.NewGreedy()

		final, gameMetric, moveMetrics, err := NewLocalEngine(seq, [2]agent.Agent{greedy, greedy}).Run()
		require.NoError(t, err)
		require.Equal(t, [2]int{4 + 2, 3 + 1}, final.Scores)
		require.Equal(t, game.Player1, gameMetric.Winner)
		require.Nil(t, moveMetrics)
	})

	t.Run("aborts on a move the range does not allow", func(t *testing.T) {
		seq := mustSequence(t, 1, 2, 3)
		_, _, _, err := NewLocalEngine(seq, [2]agent.Agent{cheatingAgent{}, agent.NewGreedy()}).Run()
		require.ErrorIs(t, err, game.ErrNoMatch)
	})

	t.Run("resumes a game in progress", func(t *testing.T) {
		seq := mustSequence(t, 5, 1, 1, 5)
		s, _, err := game.NewSession(seq).Take(5)
		require.NoError(t, err)

		greedy := agent.NewGreedy()
		final, _, _, err := NewLocalEngine(seq, [2]agent.Agent{greedy, greedy}, WithSession(s)).Run()
		require.NoError(t, err)
		require.Equal(t, [2]int{5 + 1, 5 + 1}, final.Scores)
		require.Equal(t, 0, final.Winner())
	})

	t.Run("panics without both agents", func(t *testing.T) {
		require.Panics(t, func() {
			NewLocalEngine(mustSequence(t, 1), [2]agent.Agent{agent.NewGreedy(), nil})
		})
	})
}
