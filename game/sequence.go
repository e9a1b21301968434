package game

import "fmt"

// Sequence is the fixed row of values a game is played over. It is never
// modified after construction; accessors hand out copies.
type Sequence struct {
	values []int
}

// NewSequence copies values into a Sequence. An empty sequence has no game
// and is rejected.
func NewSequence(values []int) (Sequence, error) {
	if len(values) == 0 {
		return Sequence{}, fmt.Errorf("new sequence: empty: %w", ErrInvalidInput)
	}
	cp := make([]int, len(values))
	copy(cp, values)
	return Sequence{values: cp}, nil
}

func (s Sequence) Len() int {
	return len(s.values)
}

// At returns the value at absolute index i. Callers validate i against Len.
func (s Sequence) At(i int) int {
	return s.values[i]
}

// Values returns a copy of the whole sequence.
func (s Sequence) Values() []int {
	return s.Slice(s.Full())
}

// Slice returns a copy of the values still available in r.
func (s Sequence) Slice(r Range) []int {
	if r.Empty() {
		return []int{}
	}
	out := make([]int, r.Len())
	copy(out, s.values[r.Left:r.Right+1])
	return out
}

// Reversed returns the sequence read right to left.
func (s Sequence) Reversed() Sequence {
	n := len(s.values)
	out := make([]int, n)
	for i, v := range s.values {
		out[n-1-i] = v
	}
	return Sequence{values: out}
}

// Sum totals every value in the sequence.
func (s Sequence) Sum() int {
	total := 0
	for _, v := range s.values {
		total += v
	}
	return total
}

// Full is the range covering the whole sequence.
func (s Sequence) Full() Range {
	return Range{Left: 0, Right: len(s.values) - 1}
}

// Range is the contiguous block [Left, Right] of absolute indices still on
// the table. Left > Right means nothing is left.
type Range struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Right - r.Left + 1
}

func (r Range) Empty() bool {
	return r.Left > r.Right
}

// Check verifies r is a playable (non-empty) range over a sequence of length n.
func (r Range) Check(n int) error {
	if r.Left < 0 || r.Right >= n || r.Left > r.Right {
		return fmt.Errorf("range [%d, %d] over %d values: %w", r.Left, r.Right, n, ErrRange)
	}
	return nil
}

// Index returns the absolute index at the given end.
func (r Range) Index(side Side) int {
	if side == Right {
		return r.Right
	}
	return r.Left
}

// Shrink drops one position from the given end.
func (r Range) Shrink(side Side) Range {
	if side == Right {
		r.Right--
	} else {
		r.Left++
	}
	return r
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Left, r.Right)
}
