package game

import "errors"

var (
	// ErrInvalidInput reports a sequence or parameter that cannot start a game.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRange reports a sub-range query outside the sequence or on a terminal range.
	ErrRange = errors.New("range out of bounds")
	// ErrGameOver reports a move attempted after the range was exhausted.
	ErrGameOver = errors.New("game is over")
	// ErrNoMatch reports a chosen value that is not held by the requested end.
	ErrNoMatch = errors.New("value does not match an end of the range")
)

const (
	Player1 = 1
	Player2 = 2
)

// Opponent returns the other seat of a two-player game.
func Opponent(player int) int {
	return 3 - player
}
