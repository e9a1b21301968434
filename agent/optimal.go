package agent

import (
	"fmt"

	"maxsum/game"
	"maxsum/solver"
)

type optimalAgent struct {
	table *solver.Table
}

// NewOptimal returns an agent answering from a prebuilt table. The table
// must have been built over the sequence the agent will play on.
func NewOptimal(table *solver.Table) Agent {
	return optimalAgent{table: table}
}

func (a optimalAgent) Name() string {
	if a.table.Semantics() == solver.OwnScore {
		return OptimalOwnScore
	}
	return Optimal
}

func (a optimalAgent) FindMove(s game.Session) (game.Choice, error) {
	if s.Seq.Len() != a.table.Len() {
		return game.Choice{}, fmt.Errorf("%s: table covers %d values, session has %d: %w",
			a.Name(), a.table.Len(), s.Seq.Len(), game.ErrInvalidInput)
	}
	return a.table.Move(s.Range)
}
