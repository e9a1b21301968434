package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const Win = 1.0   // Reward for winning outcome
const Loss = -Win // Reward for loss outcome, also applied as the virtual loss
const Tie = 0.0

func ucb1(rewards, visits, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return rewards/visits + math.Sqrt(c2LnN/visits)
}

// reward scores a finished game for the seat that made a node's move.
func reward(winner, player int) float64 {
	switch winner {
	case 0:
		return Tie
	case player:
		return Win
	default:
		return Loss
	}
}
