package metrics

import (
	"time"

	"maxsum/game"
)

type MoveMetric struct {
	Step     int
	Player   int // Player ID
	Agent    string
	Side     game.Side
	Value    int
	Duration time.Duration // Time the agent took to decide
	Episodes int64         // Search episodes, 0 for agents that do not search
	Playouts int64         // Episodes that rolled out random moves
}

type GameMetric struct {
	StartingPlayer int // Player ID
	Winner         int // Player ID, 0 on a tie
	Scores         [2]int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(startingPlayer int)
	AddMove(move MoveMetric)
	Complete(final game.Session) (GameMetric, []MoveMetric)
}

type collector struct {
	startingPlayer int
	startTime      time.Time
	moves          []MoveMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(startingPlayer int) {
	m.startingPlayer = startingPlayer
	m.startTime = time.Now()
	m.moves = nil
}

func (m *collector) AddMove(move MoveMetric) {
	m.moves = append(m.moves, move)
}

func (m *collector) Complete(final game.Session) (GameMetric, []MoveMetric) {
	end := time.Now()
	return GameMetric{
		StartingPlayer: m.startingPlayer,
		Winner:         final.Winner(),
		Scores:         final.Scores,
		StartTime:      m.startTime,
		EndTime:        end,
		Duration:       end.Sub(m.startTime),
		TotalMoves:     len(m.moves),
	}, m.moves
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(startingPlayer int) {}
func (m *dummyCollector) AddMove(move MoveMetric)  {}
func (m *dummyCollector) Complete(final game.Session) (GameMetric, []MoveMetric) {
	return GameMetric{Winner: final.Winner(), Scores: final.Scores}, nil
}
