// Package generator produces the starting rows for new games.
//
// # Determinism
//
// A Generator created with New(seed) yields the same sequences, in the same
// order, for the same seed. NewSeed draws a fresh seed when none is
// configured.
//
// A Generator is not safe for concurrent use.
package generator

import (
	"encoding/binary"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"maxsum/game"
)

const (
	// DefaultLength is the board length of both front-ends.
	DefaultLength = 14
	// DefaultMaxValue bounds the values of OddSum boards.
	DefaultMaxValue = 99
)

type Generator struct {
	rng *rand.Rand
}

func New(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// NewSeed returns a seed from a cryptographically secure source.
func NewSeed() uint64 {
	return binary.LittleEndian.Uint64(frand.Bytes(8))
}

// Shuffled returns the numbers 1..n in random order.
func (g *Generator) Shuffled(n int) (game.Sequence, error) {
	if n <= 0 {
		return game.Sequence{}, fmt.Errorf("shuffled sequence of length %d: %w", n, game.ErrInvalidInput)
	}
	values := lo.RangeFrom(1, n)
	g.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return game.NewSequence(values)
}

// OddSum draws n values uniformly from [1, maxValue] and redraws the whole row
// until its total is odd, so the game cannot end in a tie. The accepted row
// is shuffled once more before it is returned.
func (g *Generator) OddSum(n, maxValue int) (game.Sequence, error) {
	if n <= 0 || maxValue < 1 {
		return game.Sequence{}, fmt.Errorf("odd-sum sequence of length %d up to %d: %w", n, maxValue, game.ErrInvalidInput)
	}
	// Only ones are available: the total is n and can never become odd
	if maxValue == 1 && n%2 == 0 {
		return game.Sequence{}, fmt.Errorf("odd-sum sequence of %d ones: %w", n, game.ErrInvalidInput)
	}

	values := make([]int, n)
	for {
		for i := range values {
			values[i] = g.rng.Intn(maxValue) + 1
		}
		if lo.Sum(values)%2 == 1 {
			break
		}
	}
	g.rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return game.NewSequence(values)
}
