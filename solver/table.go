package solver

import (
	"fmt"

	"maxsum/game"
)

// Table holds the value of optimal play for every sub-range [i, j] of one
// sequence. It is built once and only read afterwards, so a single Table can
// serve any number of goroutines.
type Table struct {
	seq       game.Sequence
	semantics Semantics
	// rows[i][j-i] is the entry for [i, j]; only the upper triangle exists.
	rows [][]int
}

type recurrence func(t *Table, i, j int) int

// Build fills the table bottom-up by sub-range length. Every entry of length
// l depends only on entries of length l-1 and l-2, so one pass suffices.
func Build(seq game.Sequence, semantics Semantics) (*Table, error) {
	n := seq.Len()
	if n == 0 {
		return nil, fmt.Errorf("build table: empty sequence: %w", game.ErrInvalidInput)
	}

	var fill recurrence
	switch semantics {
	case NetAdvantage:
		fill = netAdvantage
	case OwnScore:
		fill = ownScore
	default:
		return nil, fmt.Errorf("build table: %s: %w", semantics, game.ErrInvalidInput)
	}

	t := &Table{
		seq:       seq,
		semantics: semantics,
		rows:      make([][]int, n),
	}
	// Base case: a single value is simply taken
	for i := range n {
		t.rows[i] = make([]int, n-i)
		t.rows[i][0] = seq.At(i)
	}
	for length := 2; length <= n; length++ {
		for i := 0; i <= n-length; i++ {
			j := i + length - 1
			t.rows[i][j-i] = fill(t, i, j)
		}
	}
	return t, nil
}

func netAdvantage(t *Table, i, j int) int {
	takeLeft := t.seq.At(i) - t.at(i+1, j)
	takeRight := t.seq.At(j) - t.at(i, j-1)
	return max(takeLeft, takeRight)
}

func ownScore(t *Table, i, j int) int {
	takeLeft := t.seq.At(i) + min(t.orZero(i+2, j), t.orZero(i+1, j-1))
	takeRight := t.seq.At(j) + min(t.orZero(i+1, j-1), t.orZero(i, j-2))
	return max(takeLeft, takeRight)
}

func (t *Table) at(i, j int) int {
	return t.rows[i][j-i]
}

// orZero treats an empty sub-range as worth nothing.
func (t *Table) orZero(i, j int) int {
	if i > j {
		return 0
	}
	return t.at(i, j)
}

// Value returns the entry for [i, j].
func (t *Table) Value(i, j int) (int, error) {
	if err := (game.Range{Left: i, Right: j}).Check(t.Len()); err != nil {
		return 0, fmt.Errorf("table value: %w", err)
	}
	return t.at(i, j), nil
}

// Root is the entry for the whole sequence.
func (t *Table) Root() int {
	return t.at(0, t.Len()-1)
}

func (t *Table) Len() int {
	return t.seq.Len()
}

func (t *Table) Semantics() Semantics {
	return t.semantics
}

func (t *Table) Sequence() game.Sequence {
	return t.seq
}
