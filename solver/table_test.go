package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"maxsum/game"
)

func mustSequence(t *testing.T, values ...int) game.Sequence {
	t.Helper()
	seq, err := game.NewSequence(values)
	require.NoError(t, err)
	return seq
}

func mustBuild(t *testing.T, semantics Semantics, values ...int) *Table {
	t.Helper()
	table, err := Build(mustSequence(t, values...), semantics)
	require.NoError(t, err)
	return table
}

func randomValues(rng *rand.Rand, n int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = rng.Intn(40) - 10
	}
	return values
}

// bestDifference is the exhaustive minimax reference for NetAdvantage.
func bestDifference(values []int, i, j int) int {
	if i > j {
		return 0
	}
	return max(values[i]-bestDifference(values, i+1, j), values[j]-bestDifference(values, i, j-1))
}

func TestBuild(t *testing.T) {
	t.Run("rejects an empty sequence", func(t *testing.T) {
		_, err := Build(game.Sequence{}, NetAdvantage)
		require.ErrorIs(t, err, game.ErrInvalidInput)
	})

	t.Run("rejects unknown semantics", func(t *testing.T) {
		_, err := Build(mustSequence(t, 1, 2), Semantics(7))
		require.ErrorIs(t, err, game.ErrInvalidInput)
	})

	t.Run("net advantage four values", func(t *testing.T) {
		table := mustBuild(t, NetAdvantage, 1, 2, 3, 4)
		expected := map[[2]int]int{
			{0, 0}: 1, {1, 1}: 2, {2, 2}: 3, {3, 3}: 4,
			{0, 1}: 1, {1, 2}: 1, {2, 3}: 1,
			{0, 2}: 2, {1, 3}: 3,
			{0, 3}: 2,
		}
		for ij, want := range expected {
			got, err := table.Value(ij[0], ij[1])
			require.NoError(t, err)
			require.Equal(t, want, got, "entry %v", ij)
		}
		require.Equal(t, 2, table.Root())
	})

	t.Run("own score four values", func(t *testing.T) {
		table := mustBuild(t, OwnScore, 1, 2, 3, 4)
		expected := map[[2]int]int{
			{0, 1}: 2, {1, 2}: 3, {2, 3}: 4,
			{0, 2}: 4, {1, 3}: 6,
			{0, 3}: 6,
		}
		for ij, want := range expected {
			got, err := table.Value(ij[0], ij[1])
			require.NoError(t, err)
			require.Equal(t, want, got, "entry %v", ij)
		}
	})

	t.Run("diagonal holds the values for both semantics", func(t *testing.T) {
		for _, semantics := range []Semantics{NetAdvantage, OwnScore} {
			table := mustBuild(t, semantics, 7, -3, 0, 12)
			for i, v := range []int{7, -3, 0, 12} {
				got, err := table.Value(i, i)
				require.NoError(t, err)
				require.Equal(t, v, got)
			}
		}
	})

	t.Run("net advantage matches exhaustive minimax", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for n := 1; n <= 10; n++ {
			values := randomValues(rng, n)
			table := mustBuild(t, NetAdvantage, values...)
			require.Equal(t, bestDifference(values, 0, n-1), table.Root(), "values %v", values)
		}
	})

	t.Run("reversal mirrors every entry", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for _, semantics := range []Semantics{NetAdvantage, OwnScore} {
			for n := 1; n <= 12; n++ {
				seq := mustSequence(t, randomValues(rng, n)...)
				forward, err := Build(seq, semantics)
				require.NoError(t, err)
				backward, err := Build(seq.Reversed(), semantics)
				require.NoError(t, err)

				for i := 0; i < n; i++ {
					for j := i; j < n; j++ {
						a, err := forward.Value(i, j)
						require.NoError(t, err)
						b, err := backward.Value(n-1-j, n-1-i)
						require.NoError(t, err)
						require.Equal(t, a, b, "%s [%d, %d] of %v", semantics, i, j, seq.Values())
					}
				}
			}
		}
	})
}

func TestTableValue(t *testing.T) {
	table := mustBuild(t, NetAdvantage, 4, 1, 9)

	t.Run("rejects queries outside the triangle", func(t *testing.T) {
		for _, ij := range [][2]int{{-1, 0}, {0, 3}, {2, 1}, {3, 3}} {
			_, err := table.Value(ij[0], ij[1])
			require.ErrorIs(t, err, game.ErrRange, "entry %v", ij)
		}
	})

	t.Run("exposes its inputs", func(t *testing.T) {
		require.Equal(t, 3, table.Len())
		require.Equal(t, NetAdvantage, table.Semantics())
		require.Equal(t, []int{4, 1, 9}, table.Sequence().Values())
	})
}

func TestParseSemantics(t *testing.T) {
	for text, want := range map[string]Semantics{
		"net_advantage": NetAdvantage,
		"net-advantage": NetAdvantage,
		"OWN_SCORE":     OwnScore,
		"own":           OwnScore,
	} {
		got, err := ParseSemantics(text)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseSemantics("minimax")
	require.ErrorIs(t, err, game.ErrInvalidInput)

	var s Semantics
	require.NoError(t, s.UnmarshalText([]byte("own_score")))
	require.Equal(t, OwnScore, s)
}
