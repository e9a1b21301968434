package game

import (
	"fmt"
	"strings"
)

// Side names the end of the remaining range a value is taken from.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide accepts "left"/"right" and their first letters, case-insensitively.
func ParseSide(text string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown side %q: %w", text, ErrInvalidInput)
}

func (s Side) MarshalText() ([]byte, error) {
	if s != Left && s != Right {
		return nil, fmt.Errorf("marshal side %d: %w", int(s), ErrInvalidInput)
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Choice is a single move: the value taken and the end it came from.
type Choice struct {
	Value int  `json:"value"`
	Side  Side `json:"side"`
}
