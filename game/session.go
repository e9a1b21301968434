package game

import "fmt"

// Session is the state of one game between turns: the sequence, the range
// still available, both scores and the seat to move. Session is a value;
// operations on it return a new copy and never touch the receiver.
type Session struct {
	Seq    Sequence
	Range  Range
	Scores [2]int // indexed by player - 1
	Player int    // seat to move, Player1 or Player2
}

// NewSession starts a game over the full sequence with Player1 to move.
func NewSession(seq Sequence) Session {
	return Session{
		Seq:    seq,
		Range:  seq.Full(),
		Player: Player1,
	}
}

// Over reports whether every value has been taken.
func (s Session) Over() bool {
	return s.Range.Empty()
}

// Score returns the running total of the given seat.
func (s Session) Score(player int) int {
	return s.Scores[player-1]
}

// Ends returns the two moves available to the mover, left end first. A
// single remaining value is offered once, from the left. A finished game or a
// range outside the sequence offers nothing.
func (s Session) Ends() []Choice {
	if s.Over() || s.Range.Check(s.Seq.Len()) != nil {
		return nil
	}
	left := Choice{Value: s.Seq.At(s.Range.Left), Side: Left}
	if s.Range.Left == s.Range.Right {
		return []Choice{left}
	}
	return []Choice{left, {Value: s.Seq.At(s.Range.Right), Side: Right}}
}

// Apply plays c for the seat to move: the range loses one position on c's
// side, the value is credited to the mover and the turn passes.
func (s Session) Apply(c Choice) (Session, error) {
	if s.Over() {
		return s, fmt.Errorf("apply %s %d: %w", c.Side, c.Value, ErrGameOver)
	}
	if err := s.Range.Check(s.Seq.Len()); err != nil {
		return s, fmt.Errorf("apply: %w", err)
	}
	if c.Side != Left && c.Side != Right {
		return s, fmt.Errorf("apply side %d: %w", int(c.Side), ErrInvalidInput)
	}
	if s.Player != Player1 && s.Player != Player2 {
		return s, fmt.Errorf("apply for player %d: %w", s.Player, ErrInvalidInput)
	}
	if got := s.Seq.At(s.Range.Index(c.Side)); got != c.Value {
		return s, fmt.Errorf("apply %s %d: %s end holds %d: %w", c.Side, c.Value, c.Side, got, ErrNoMatch)
	}

	next := s
	next.Range = s.Range.Shrink(c.Side)
	next.Scores[s.Player-1] += c.Value
	next.Player = Opponent(s.Player)
	return next, nil
}

// Resolve finds the end holding value. When both ends hold it the left end
// wins.
func (s Session) Resolve(value int) (Choice, error) {
	if s.Over() {
		return Choice{}, fmt.Errorf("resolve %d: %w", value, ErrGameOver)
	}
	if err := s.Range.Check(s.Seq.Len()); err != nil {
		return Choice{}, fmt.Errorf("resolve %d: %w", value, err)
	}
	for _, c := range s.Ends() {
		if c.Value == value {
			return c, nil
		}
	}
	return Choice{}, fmt.Errorf("resolve %d in %v: %w", value, s.Range, ErrNoMatch)
}

// Take plays a bare value, resolving its end first.
func (s Session) Take(value int) (Session, Choice, error) {
	c, err := s.Resolve(value)
	if err != nil {
		return s, Choice{}, err
	}
	next, err := s.Apply(c)
	return next, c, err
}

// Winner returns the seat with the higher final score, or 0 on a tie or
// while the game is still running.
func (s Session) Winner() int {
	if !s.Over() {
		return 0
	}
	switch {
	case s.Scores[0] > s.Scores[1]:
		return Player1
	case s.Scores[1] > s.Scores[0]:
		return Player2
	default:
		return 0
	}
}

// Margin is the seat to move's score minus its opponent's.
func (s Session) Margin() int {
	return s.Score(s.Player) - s.Score(Opponent(s.Player))
}
