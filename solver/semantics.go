package solver

import (
	"fmt"
	"strings"

	"maxsum/game"
)

// Semantics selects what a table entry means.
type Semantics int

const (
	// NetAdvantage entries hold the best achievable (mover - opponent)
	// difference on a sub-range when both sides maximize their own advantage.
	NetAdvantage Semantics = iota
	// OwnScore entries hold the best achievable mover total on a sub-range
	// against an opponent who answers by minimizing what the mover can still
	// collect two turns later.
	OwnScore
)

func (s Semantics) String() string {
	switch s {
	case NetAdvantage:
		return "net_advantage"
	case OwnScore:
		return "own_score"
	default:
		return fmt.Sprintf("Semantics(%d)", int(s))
	}
}

// ParseSemantics accepts the names printed by String, with dashes or
// underscores.
func ParseSemantics(text string) (Semantics, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "-", "_") {
	case "net_advantage", "net":
		return NetAdvantage, nil
	case "own_score", "own":
		return OwnScore, nil
	}
	return 0, fmt.Errorf("unknown semantics %q: %w", text, game.ErrInvalidInput)
}

func (s Semantics) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Semantics) UnmarshalText(text []byte) error {
	parsed, err := ParseSemantics(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
