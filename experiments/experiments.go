package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"maxsum/agent"
	"maxsum/engine"
	"maxsum/experiments/metrics"
	"maxsum/game"
	"maxsum/generator"
	"maxsum/solver"
)

type Config struct {
	Name     string
	Games    int // Sequences per matchup, each played from both seats
	Length   int
	MaxValue int
	Workers  int
	Seed     uint64
	Dir      string // Records are written under Dir unless it is empty

	SearchTime time.Duration // Per mcts move; 0 keeps the episode budget
}

type Matchup struct {
	A metrics.AgentConfig
	B metrics.AgentConfig
}

type Summary struct {
	Matchup
	Games      int
	WinsA      int
	WinsB      int
	Ties       int
	MeanMargin float64 // A's score minus B's, averaged over games
}

var strengthConfigs = []metrics.AgentConfig{
	{ID: 1, Name: agent.Optimal},
	{ID: 2, Name: agent.OptimalOwnScore},
	{ID: 3, Name: agent.Parity},
	{ID: 4, Name: agent.ParityFixed},
	{ID: 5, Name: agent.Greedy},
	{ID: 6, Name: agent.Random, Seed: 1},
	{ID: 7, Name: agent.MCTS, Seed: 1},
}

// StrengthMatchups pairs the optimal solver against every other agent and
// the parity heuristic against the naive baselines.
func StrengthMatchups() []Matchup {
	optimal, parity := strengthConfigs[0], strengthConfigs[2]
	matchUps := []Matchup{}
	for _, config := range strengthConfigs[1:] {
		matchUps = append(matchUps, Matchup{A: optimal, B: config})
	}
	for _, config := range strengthConfigs[3:] {
		matchUps = append(matchUps, Matchup{A: parity, B: config})
	}
	return matchUps
}

type job struct {
	id       int
	matchup  int
	sequence int
	seats    [2]metrics.AgentConfig
}

type result struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
}

// Run plays every matchup over cfg.Games generated sequences, once from each
// seat order, on a pool of cfg.Workers goroutines. Games over the same
// sequence share one solver table per semantics.
func Run(ctx context.Context, cfg Config, matchUps []Matchup) ([]Summary, error) {
	if cfg.Games <= 0 || cfg.Workers <= 0 {
		return nil, fmt.Errorf("experiment %s with %d games on %d workers: %w", cfg.Name, cfg.Games, cfg.Workers, game.ErrInvalidInput)
	}

	log.Info().Msgf("starting %s experiment...", cfg.Name)

	gen := generator.New(cfg.Seed)
	sequences := make([]game.Sequence, cfg.Games)
	shared := make([][]agent.Option, cfg.Games)
	for i := range sequences {
		seq, err := gen.OddSum(cfg.Length, cfg.MaxValue)
		if err != nil {
			return nil, fmt.Errorf("generate sequence %d: %w", i, err)
		}
		sequences[i] = seq
		shared[i] = []agent.Option{agent.WithSearchTime(cfg.SearchTime)}
		for _, semantics := range []solver.Semantics{solver.NetAdvantage, solver.OwnScore} {
			table, err := solver.Build(seq, semantics)
			if err != nil {
				return nil, fmt.Errorf("build table for sequence %d: %w", i, err)
			}
			shared[i] = append(shared[i], agent.WithTable(table))
		}
	}

	jobs := []job{}
	for mi, matchup := range matchUps {
		for si := range sequences {
			for _, seats := range [][2]metrics.AgentConfig{{matchup.A, matchup.B}, {matchup.B, matchup.A}} {
				jobs = append(jobs, job{id: len(jobs) + 1, matchup: mi, sequence: si, seats: seats})
			}
		}
	}

	results := make([]result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := play(j, sequences[j.sequence], shared[j.sequence])
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := summarize(matchUps, jobs, results)
	for _, s := range summaries {
		log.Info().Msgf("%s vs %s: %d-%d with %d ties over %d games, mean margin %.2f",
			s.A.Name, s.B.Name, s.WinsA, s.WinsB, s.Ties, s.Games, s.MeanMargin)
	}
	log.Info().Msgf("completed %s experiment", cfg.Name)

	if cfg.Dir == "" {
		return summaries, nil
	}
	if err := store(cfg, matchUps, results); err != nil {
		return summaries, err
	}
	return summaries, nil
}

func play(j job, seq game.Sequence, shared []agent.Option) (result, error) {
	agents := [2]agent.Agent{}
	for seat, config := range j.seats {
		opts := append([]agent.Option{agent.WithSeed(config.Seed + uint64(j.id))}, shared...)
		a, err := agent.New(config.Name, seq, opts...)
		if err != nil {
			return result{}, err
		}
		agents[seat] = a
	}

	_, gameMetric, moveMetrics, err := engine.NewLocalEngine(seq, agents, engine.WithMetrics()).Run()
	if err != nil {
		return result{}, err
	}
	return result{
		record: metrics.GameRecord{
			ID:         j.id,
			Sequence:   j.sequence,
			Values:     seq.Values(),
			Agent1:     j.seats[0].ID,
			Agent2:     j.seats[1].ID,
			GameMetric: gameMetric,
		},
		moves: moveMetrics,
	}, nil
}

func summarize(matchUps []Matchup, jobs []job, results []result) []Summary {
	summaries := make([]Summary, len(matchUps))
	for mi, matchup := range matchUps {
		played := lo.Filter(results, func(r result, i int) bool {
			return jobs[i].matchup == mi
		})
		// Margin and winner from A's point of view, whichever seat A had
		margins := lo.Map(played, func(r result, _ int) int {
			margin := r.record.Scores[0] - r.record.Scores[1]
			if r.record.Agent1 != matchup.A.ID {
				margin = -margin
			}
			return margin
		})

		s := Summary{Matchup: matchup, Games: len(played)}
		s.WinsA = lo.CountBy(margins, func(m int) bool { return m > 0 })
		s.WinsB = lo.CountBy(margins, func(m int) bool { return m < 0 })
		s.Ties = s.Games - s.WinsA - s.WinsB
		if s.Games > 0 {
			s.MeanMargin = float64(lo.Sum(margins)) / float64(s.Games)
		}
		summaries[mi] = s
	}
	return summaries
}

func store(cfg Config, matchUps []Matchup, results []result) error {
	writer, err := metrics.NewWriter(cfg.Dir, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := lo.UniqBy(lo.FlatMap(matchUps, func(m Matchup, _ int) []metrics.AgentConfig {
		return []metrics.AgentConfig{m.A, m.B}
	}), func(c metrics.AgentConfig) int {
		return c.ID
	})
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	gameRecords := lo.Map(results, func(r result, _ int) metrics.GameRecord {
		return r.record
	})
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	moveRecords := lo.FlatMap(results, func(r result, _ int) []metrics.MoveRecord {
		return lo.Map(r.moves, func(m metrics.MoveMetric, _ int) metrics.MoveRecord {
			return metrics.MoveRecord{Game: r.record.ID, MoveMetric: m}
		})
	})
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}
