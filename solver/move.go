package solver

import (
	"fmt"

	"maxsum/game"
)

// Comparison holds the two quantities a move selector weighs for a range.
// Under NetAdvantage they are the mover's net gain for taking each end.
// Under OwnScore they are the successor entries T(l+1, r) and T(l, r-1),
// i.e. what the opponent can still secure after the mover takes the left or
// the right end.
type Comparison struct {
	Left  int
	Right int
}

// Compare evaluates both ends of r. A single-value range compares the value
// against itself.
func (t *Table) Compare(r game.Range) (Comparison, error) {
	if err := r.Check(t.Len()); err != nil {
		return Comparison{}, fmt.Errorf("compare: %w", err)
	}
	l, rt := r.Left, r.Right
	if l == rt {
		v := t.seq.At(l)
		return Comparison{Left: v, Right: v}, nil
	}
	if t.semantics == OwnScore {
		return Comparison{Left: t.at(l+1, rt), Right: t.at(l, rt-1)}, nil
	}
	return Comparison{
		Left:  t.seq.At(l) - t.at(l+1, rt),
		Right: t.seq.At(rt) - t.at(l, rt-1),
	}, nil
}

// Move picks the end the seat to move should take from r.
//
// NetAdvantage takes the end with the larger net gain; equal gains take the
// left end. OwnScore takes the right end only when T(l+1, r) is strictly
// lower than T(l, r-1) and the left end otherwise, so ties also go left.
// A single remaining value is always taken from the left.
func (t *Table) Move(r game.Range) (game.Choice, error) {
	cmp, err := t.Compare(r)
	if err != nil {
		return game.Choice{}, fmt.Errorf("optimal move: %w", err)
	}
	// Both selectors reduce to: right only on a strict win for the right
	// quantity. The quantities differ per semantics, see Compare.
	side := game.Left
	if r.Left != r.Right && cmp.Left < cmp.Right {
		side = game.Right
	}
	return game.Choice{Value: t.seq.At(r.Index(side)), Side: side}, nil
}

// Line plays s out with both seats following the table and returns every
// choice made together with the final session.
func (t *Table) Line(s game.Session) ([]game.Choice, game.Session, error) {
	line := make([]game.Choice, 0, s.Range.Len())
	for !s.Over() {
		c, err := t.Move(s.Range)
		if err != nil {
			return line, s, err
		}
		next, err := s.Apply(c)
		if err != nil {
			return line, s, err
		}
		line = append(line, c)
		s = next
	}
	return line, s, nil
}
