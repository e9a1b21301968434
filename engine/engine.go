package engine

import (
	"maxsum/experiments/metrics"
	"maxsum/game"
)

type Engine interface {
	// Run plays a game until every value is taken and returns the final session
	Run() (final game.Session, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
