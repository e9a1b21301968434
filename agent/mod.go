package agent

import (
	"maxsum/game"
)

type Agent interface {
	// Name identifies the agent in logs and experiment records
	Name() string
	// FindMove returns the move the agent plays for the seat to move in s
	FindMove(s game.Session) (game.Choice, error)
}
