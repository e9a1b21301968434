package agent

import (
	"maxsum/game"
	"maxsum/heuristic"
)

type parityAgent struct {
	fixed *heuristic.Parity
}

// NewParity returns the parity heuristic agent. The Fixed variant decides its
// target parity here, once, from the full sequence.
func NewParity(seq game.Sequence, variant heuristic.Variant) (Agent, error) {
	if variant != heuristic.Fixed {
		return parityAgent{}, nil
	}
	p, err := heuristic.FixedParity(seq)
	if err != nil {
		return nil, err
	}
	return parityAgent{fixed: &p}, nil
}

func (a parityAgent) Name() string {
	if a.fixed != nil {
		return ParityFixed
	}
	return Parity
}

func (a parityAgent) FindMove(s game.Session) (game.Choice, error) {
	return heuristic.Move(s.Seq, s.Range, a.fixed)
}
