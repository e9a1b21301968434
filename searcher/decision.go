package searcher

import (
	"math"
	"sync"

	"maxsum/game"
)

// decision is a tree node reached by playing move from its parent's session.
// Its statistics are from the point of view of player, the seat that made
// the move.
type decision struct {
	sync.RWMutex
	parent   *decision
	player   int
	move     game.Choice
	moves    []game.Choice // legal moves from this node, expanded in order
	children []*decision
	rewards  float64
	visits   float64
}

func newDecision(parent *decision, player int, move game.Choice, s game.Session) *decision {
	moves := s.Ends()
	return &decision{
		parent:   parent,
		player:   player,
		move:     move,
		moves:    moves,
		children: make([]*decision, 0, len(moves)),
	}
}

// SelectOrExpand descends one level from d. It expands the next unexplored
// move if any (selected false), else picks the child with the best UCB
// score (selected true). Either child carries a virtual loss until Backup.
// A terminal node returns itself.
func (d *decision) SelectOrExpand(s game.Session) (*decision, game.Session, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.moves) == 0 { // Terminal node
		return d, s, false
	}

	if len(d.children) < len(d.moves) { // Expandable node
		move := d.moves[len(d.children)]
		next := mustApply(s, move)
		child := newDecision(d, s.Player, move, next)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, next, false
	}

	// Fully expanded node
	child := d.children[d.pickChild()]
	child.applyLoss()
	return child, mustApply(s, child.move), true
}

func (d *decision) pickChild() int {
	// Concurrent selections can reach a fully expanded node before any
	// backup has counted a visit on it
	normalizer := CSquared * math.Log(max(d.visits, 1))

	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := child.score(normalizer)
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) score(normalizer float64) float64 {
	d.RLock()
	defer d.RUnlock()

	return ucb1(d.rewards, d.visits, normalizer)
}

// Backup records the outcome of a rollout through d and returns its parent.
func (d *decision) Backup(winner int) *decision {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(winner, d.player)
	d.visits++

	return d.parent
}

func (d *decision) stats() (rewards, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// Policy returns each explored root move's share of the child visits.
func (d *decision) Policy() map[game.Side]float64 {
	d.RLock()
	children := append([]*decision(nil), d.children...)
	d.RUnlock()

	policy := make(map[game.Side]float64, len(children))
	total := 0.0
	for _, child := range children {
		_, visits := child.stats()
		policy[child.move.Side] = visits
		total += visits
	}
	if total == 0 {
		return policy
	}
	for side := range policy {
		policy[side] /= total
	}
	return policy
}

// best returns the most visited child's move, preferring the left end on
// equal visits.
func (d *decision) best() (game.Choice, bool) {
	d.RLock()
	defer d.RUnlock()

	var best *decision
	bestVisits := -1.0
	for _, child := range d.children {
		if _, visits := child.stats(); visits > bestVisits {
			best, bestVisits = child, visits
		}
	}
	if best == nil {
		return game.Choice{}, false
	}
	return best.move, true
}

// Moves come from Session.Ends, so Apply only fails on a corrupted tree.
func mustApply(s game.Session, move game.Choice) game.Session {
	next, err := s.Apply(move)
	if err != nil {
		panic(err)
	}
	return next
}
