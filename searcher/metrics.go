package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetrics sizes one search. FullPlayouts counts the episodes whose
// rollout had to play random moves; the rest ended on a finished game
// already in the tree.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Episodes     int64
	FullPlayouts int64
}

// searchCounter is shared by the goroutines of a single search.
type searchCounter struct {
	start    time.Time
	episodes atomic.Int64
	playouts atomic.Int64
}

func startCounter() *searchCounter {
	return &searchCounter{start: time.Now()}
}

func (c *searchCounter) addEpisode(fullPlayout bool) {
	c.episodes.Add(1)
	if fullPlayout {
		c.playouts.Add(1)
	}
}

func (c *searchCounter) complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    c.start,
		Duration:     time.Since(c.start),
		Episodes:     c.episodes.Load(),
		FullPlayouts: c.playouts.Load(),
	}
}
