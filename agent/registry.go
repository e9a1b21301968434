package agent

import (
	"fmt"
	"time"

	"maxsum/game"
	"maxsum/heuristic"
	"maxsum/solver"
)

const (
	Optimal         = "optimal"
	OptimalOwnScore = "optimal-own"
	Parity          = "parity"
	ParityFixed     = "parity-fixed"
	Greedy          = "greedy"
	Random          = "random"
	MCTS            = "mcts"
)

// Names lists every agent New can build.
var Names = []string{Optimal, OptimalOwnScore, Parity, ParityFixed, Greedy, Random, MCTS}

type Option func(o *options)

type options struct {
	seed       uint64
	semantics  solver.Semantics
	variant    heuristic.Variant
	searchTime time.Duration
	tables     map[solver.Semantics]*solver.Table
}

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithSemantics sets the table semantics used by Opponent.
func WithSemantics(semantics solver.Semantics) Option {
	return func(o *options) {
		o.semantics = semantics
	}
}

// WithVariant sets the heuristic variant used by Opponent.
func WithVariant(variant heuristic.Variant) Option {
	return func(o *options) {
		o.variant = variant
	}
}

// WithSearchTime gives the mcts agent a wall time per move instead of its
// default episode budget.
func WithSearchTime(d time.Duration) Option {
	return func(o *options) {
		o.searchTime = d
	}
}

// WithTable hands a prebuilt table to optimal agents so several agents (or
// games) over the same sequence share it instead of rebuilding.
func WithTable(table *solver.Table) Option {
	return func(o *options) {
		if table == nil {
			return
		}
		if o.tables == nil {
			o.tables = make(map[solver.Semantics]*solver.Table)
		}
		o.tables[table.Semantics()] = table
	}
}

func collect(opts []Option) *options {
	o := &options{}
	for _, option := range opts {
		option(o)
	}
	return o
}

func (o *options) table(seq game.Sequence, semantics solver.Semantics) (*solver.Table, error) {
	if t, ok := o.tables[semantics]; ok {
		return t, nil
	}
	return solver.Build(seq, semantics)
}

// New builds the named agent for a game over seq.
func New(name string, seq game.Sequence, opts ...Option) (Agent, error) {
	o := collect(opts)
	switch name {
	case Optimal, OptimalOwnScore:
		semantics := solver.NetAdvantage
		if name == OptimalOwnScore {
			semantics = solver.OwnScore
		}
		table, err := o.table(seq, semantics)
		if err != nil {
			return nil, fmt.Errorf("new %s agent: %w", name, err)
		}
		return NewOptimal(table), nil
	case Parity:
		return NewParity(seq, heuristic.PerTurn)
	case ParityFixed:
		return NewParity(seq, heuristic.Fixed)
	case Greedy:
		return NewGreedy(), nil
	case Random:
		return NewRandom(o.seed), nil
	case MCTS:
		return NewMCTS(o.seed, o.searchTime), nil
	}
	return nil, fmt.Errorf("unknown agent %q: %w", name, game.ErrInvalidInput)
}

// Opponent returns the computer player facing a human in userSeat: the
// optimal solver when the human moves first, the parity heuristic when the
// computer moves first. WithSemantics and WithVariant pick the flavour.
func Opponent(userSeat int, seq game.Sequence, opts ...Option) (Agent, error) {
	o := collect(opts)
	switch userSeat {
	case game.Player1:
		table, err := o.table(seq, o.semantics)
		if err != nil {
			return nil, fmt.Errorf("opponent: %w", err)
		}
		return NewOptimal(table), nil
	case game.Player2:
		return NewParity(seq, o.variant)
	}
	return nil, fmt.Errorf("opponent for seat %d: %w", userSeat, game.ErrInvalidInput)
}
