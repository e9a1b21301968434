// Package heuristic implements the parity-sum opponent: a cheap rule that
// prefers values sitting at one index parity. It needs no precomputed table
// and is not optimal.
package heuristic

import (
	"fmt"
	"strings"

	"maxsum/game"
)

// Parity classifies absolute sequence indices.
type Parity int

const (
	Even Parity = iota
	Odd
)

// ParityOf returns the parity of an absolute index.
func ParityOf(index int) Parity {
	return Parity(index & 1)
}

func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// Variant selects when the target parity is decided.
type Variant int

const (
	// PerTurn recomputes the target parity from the remaining range on
	// every move.
	PerTurn Variant = iota
	// Fixed decides the target parity once over the full sequence and
	// reuses it for the rest of the game.
	Fixed
)

func (v Variant) String() string {
	switch v {
	case PerTurn:
		return "per_turn"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

func ParseVariant(text string) (Variant, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "-", "_") {
	case "per_turn", "":
		return PerTurn, nil
	case "fixed":
		return Fixed, nil
	}
	return 0, fmt.Errorf("unknown heuristic variant %q: %w", text, game.ErrInvalidInput)
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Sums splits the remaining values by position relative to the range start:
// Even holds positions 0, 2, 4, ... and Odd holds 1, 3, 5, ...
type Sums struct {
	Even int
	Odd  int
}

// RangeSums totals r by range-relative position parity.
func RangeSums(seq game.Sequence, r game.Range) (Sums, error) {
	if err := r.Check(seq.Len()); err != nil {
		return Sums{}, fmt.Errorf("parity sums: %w", err)
	}
	var s Sums
	for i := r.Left; i <= r.Right; i++ {
		if (i-r.Left)%2 == 0 {
			s.Even += seq.At(i)
		} else {
			s.Odd += seq.At(i)
		}
	}
	return s, nil
}

// TargetParity returns the absolute index parity the heuristic aims for on
// r: the parity of r.Left when the range-relative even positions sum at
// least as high as the odd ones, the other parity otherwise.
func TargetParity(seq game.Sequence, r game.Range) (Parity, error) {
	sums, err := RangeSums(seq, r)
	if err != nil {
		return 0, err
	}
	if sums.Even >= sums.Odd {
		return ParityOf(r.Left), nil
	}
	return ParityOf(r.Left + 1), nil
}

// FixedParity decides the Fixed variant's target once, over the whole
// sequence.
func FixedParity(seq game.Sequence) (Parity, error) {
	if seq.Len() == 0 {
		return 0, fmt.Errorf("fixed parity: empty sequence: %w", game.ErrInvalidInput)
	}
	return TargetParity(seq, seq.Full())
}

// Move picks an end of r. With fixed nil the target parity is recomputed
// from r (PerTurn); otherwise *fixed is used as is (Fixed).
//
// The left end is taken when its index has the target parity, else the
// right end when it does. When neither does, the larger value is taken and
// ties go left.
func Move(seq game.Sequence, r game.Range, fixed *Parity) (game.Choice, error) {
	if err := r.Check(seq.Len()); err != nil {
		return game.Choice{}, fmt.Errorf("heuristic move: %w", err)
	}

	var target Parity
	if fixed != nil {
		target = *fixed
	} else {
		var err error
		if target, err = TargetParity(seq, r); err != nil {
			return game.Choice{}, err
		}
	}

	left := game.Choice{Value: seq.At(r.Left), Side: game.Left}
	right := game.Choice{Value: seq.At(r.Right), Side: game.Right}
	switch {
	case ParityOf(r.Left) == target:
		return left, nil
	case ParityOf(r.Right) == target:
		return right, nil
	case right.Value > left.Value:
		return right, nil
	default:
		return left, nil
	}
}
