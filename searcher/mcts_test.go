package searcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"maxsum/game"
)

func TestMCTSFindMove(t *testing.T) {
	// Taking 5 hands the opponent 100; taking 2 leaves 100 for the next turn
	values := []int{5, 100, 1, 2}

	t.Run("sequential search", func(t *testing.T) {
		m := NewMCTS(1, WithEpisodes(2000), WithSeed(1))
		move, err := m.FindMove(session(t, values...))
		require.NoError(t, err)
		require.Equal(t, game.Choice{Value: 2, Side: game.Right}, move)
	})

	t.Run("parallel search", func(t *testing.T) {
		m := NewMCTS(4, WithEpisodes(2000), WithSeed(1))
		move, err := m.FindMove(session(t, values...))
		require.NoError(t, err)
		require.Equal(t, game.Choice{Value: 2, Side: game.Right}, move)
	})

	t.Run("single value", func(t *testing.T) {
		move, err := NewMCTS(1, WithEpisodes(10)).FindMove(session(t, 7))
		require.NoError(t, err)
		require.Equal(t, game.Choice{Value: 7, Side: game.Left}, move)
	})

	t.Run("game over", func(t *testing.T) {
		s, _, err := session(t, 7).Take(7)
		require.NoError(t, err)
		_, err = NewMCTS(1, WithEpisodes(10)).FindMove(s)
		require.ErrorIs(t, err, game.ErrGameOver)
	})
}

func TestMCTSSearch(t *testing.T) {
	t.Run("episodes", func(t *testing.T) {
		m := NewMCTS(2, WithEpisodes(1000))
		result, err := m.Search(session(t, 5, 100, 1, 2))
		require.NoError(t, err)
		require.Equal(t, game.Choice{Value: 2, Side: game.Right}, result.Choice)
		require.Len(t, result.Policy, 2)
		require.InDelta(t, 1.0, result.Policy[game.Left]+result.Policy[game.Right], 1e-9)
		require.Greater(t, result.Policy[game.Right], result.Policy[game.Left])
		require.Equal(t, int64(1000), result.Metrics.Episodes)
		// Once the small tree is fully expanded, episodes end on finished games
		require.Positive(t, result.Metrics.FullPlayouts)
		require.Less(t, result.Metrics.FullPlayouts, result.Metrics.Episodes)
	})

	t.Run("duration", func(t *testing.T) {
		m := NewMCTS(2, WithDuration(20*time.Millisecond))
		result, err := m.Search(session(t, 3, 9, 1, 4))
		require.NoError(t, err)
		require.Positive(t, result.Metrics.Episodes)
		require.GreaterOrEqual(t, result.Metrics.Duration, 20*time.Millisecond)
	})

	t.Run("single value skips the search", func(t *testing.T) {
		result, err := NewMCTS(1, WithEpisodes(10)).Search(session(t, 7))
		require.NoError(t, err)
		require.Equal(t, game.Choice{Value: 7, Side: game.Left}, result.Choice)
		require.Zero(t, result.Metrics.Episodes)
	})

	t.Run("rejects a range outside the sequence", func(t *testing.T) {
		s := session(t, 1, 2)
		s.Range = game.Range{Left: 0, Right: 3}
		_, err := NewMCTS(1, WithEpisodes(10)).Search(s)
		require.ErrorIs(t, err, game.ErrRange)
	})

	t.Run("requires a budget", func(t *testing.T) {
		require.Panics(t, func() { NewMCTS(1) })
	})
}
