package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"maxsum/game"
	"maxsum/generator"
	"maxsum/solver"
)

type ThroughputRecord struct {
	Length    int
	Semantics solver.Semantics
	Build     time.Duration // Time to fill the table
	Line      time.Duration // Time to play the whole game from the table
}

// RunThroughput times table construction and a full optimal line for each
// board length, for both semantics. Construction is quadratic in the length.
func RunThroughput(lengths []int, seed uint64) ([]ThroughputRecord, error) {
	log.Info().Msg("starting throughput experiment...")

	gen := generator.New(seed)
	records := []ThroughputRecord{}
	for _, n := range lengths {
		seq, err := gen.OddSum(n, generator.DefaultMaxValue)
		if err != nil {
			return nil, fmt.Errorf("generate sequence of length %d: %w", n, err)
		}
		for _, semantics := range []solver.Semantics{solver.NetAdvantage, solver.OwnScore} {
			start := time.Now()
			table, err := solver.Build(seq, semantics)
			if err != nil {
				return nil, err
			}
			built := time.Since(start)

			start = time.Now()
			if _, _, err := table.Line(game.NewSession(seq)); err != nil {
				return nil, err
			}
			record := ThroughputRecord{Length: n, Semantics: semantics, Build: built, Line: time.Since(start)}
			records = append(records, record)

			log.Info().Msgf("length %d %s: build %s, line %s", n, semantics, record.Build, record.Line)
		}
	}

	log.Info().Msg("completed throughput experiment")
	return records, nil
}
