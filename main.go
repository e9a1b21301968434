package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"maxsum/agent"
	"maxsum/config"
	"maxsum/engine"
	"maxsum/experiments"
	"maxsum/game"
	"maxsum/gamemaster"
	"maxsum/generator"
	"maxsum/heuristic"
	"maxsum/server"
	"maxsum/solver"
)

const usage = `usage: maxsum <command> [flags]

commands:
  play        play against the computer on the console
  serve       serve the web game API
  experiment  compare agents over generated games
  match       play a local agent against a running server
  solve       print the optimal line for the given numbers`

func main() {
	if len(os.Args) < 2 {
		config.Exitf("%s", usage)
	}
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "play":
		err = runPlay(cfg, args)
	case "serve":
		err = runServe(cfg, args)
	case "experiment":
		err = runExperiment(cfg, args)
	case "match":
		err = runMatch(cfg, args)
	case "solve":
		err = runSolve(cfg, args)
	default:
		config.Exitf("unknown command %q\n%s", cmd, usage)
	}
	if err != nil {
		config.Exitf("%s: %v", cmd, err)
	}
}

// newFlagSet registers the flags every command shares on top of cfg.
func newFlagSet(name string, cfg *config.Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a fresh one")
	fs.StringVar(&cfg.Semantics, "semantics", cfg.Semantics, "solver table semantics (net_advantage, own_score)")
	fs.StringVar(&cfg.Heuristic, "heuristic", cfg.Heuristic, "parity heuristic variant (per_turn, fixed)")
	return fs
}

// setup applies the parsed flags shared by every command.
func setup(cfg *config.Config) (solver.Semantics, heuristic.Variant, error) {
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		return 0, 0, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = generator.NewSeed()
	}
	log.Debug().Msgf("seed %d", cfg.Seed)
	semantics, err := solver.ParseSemantics(cfg.Semantics)
	if err != nil {
		return 0, 0, err
	}
	variant, err := heuristic.ParseVariant(cfg.Heuristic)
	if err != nil {
		return 0, 0, err
	}
	return semantics, variant, nil
}

func runPlay(cfg config.Config, args []string) error {
	fs := newFlagSet("play", &cfg)
	length := fs.Int("length", cfg.Length, "number of values on the board")
	oddSum := fs.Bool("odd-sum", false, "deal values in 1..max with an odd total instead of a permutation of 1..length")
	fs.IntVar(&cfg.MaxValue, "max", cfg.MaxValue, "largest value dealt with -odd-sum")
	fs.Parse(args)
	semantics, variant, err := setup(&cfg)
	if err != nil {
		return err
	}

	gen := generator.New(cfg.Seed)
	var seq game.Sequence
	if *oddSum {
		seq, err = gen.OddSum(*length, cfg.MaxValue)
	} else {
		seq, err = gen.Shuffled(*length)
	}
	if err != nil {
		return err
	}

	console := gamemaster.NewConsole(os.Stdin, os.Stdout, agent.WithSemantics(semantics), agent.WithVariant(variant))
	_, err = console.Run(seq)
	return err
}

func runServe(cfg config.Config, args []string) error {
	fs := newFlagSet("serve", &cfg)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	fs.IntVar(&cfg.Length, "length", cfg.Length, "default board length")
	fs.IntVar(&cfg.MaxValue, "max", cfg.MaxValue, "largest value dealt")
	fs.Parse(args)
	semantics, variant, err := setup(&cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Seed,
		server.WithBoard(cfg.Length, cfg.MaxValue),
		server.WithSemantics(semantics),
		server.WithVariant(variant),
	)
	return srv.ListenAndServe(ctx, cfg.HTTPAddr)
}

func runExperiment(cfg config.Config, args []string) error {
	fs := newFlagSet("experiment", &cfg)
	fs.IntVar(&cfg.ExperimentGames, "games", cfg.ExperimentGames, "sequences per matchup")
	fs.IntVar(&cfg.ExperimentWorkers, "workers", cfg.ExperimentWorkers, "games played in parallel")
	fs.StringVar(&cfg.ExperimentDir, "dir", cfg.ExperimentDir, "output directory, empty to skip writing records")
	fs.IntVar(&cfg.Length, "length", cfg.Length, "board length")
	fs.IntVar(&cfg.MaxValue, "max", cfg.MaxValue, "largest value dealt")
	fs.DurationVar(&cfg.MCTSTime, "mcts-time", cfg.MCTSTime, "search time per mcts move, 0 for a fixed episode budget")
	throughput := fs.Bool("throughput", false, "time table construction instead of playing matchups")
	fs.Parse(args)
	if _, _, err := setup(&cfg); err != nil {
		return err
	}

	if *throughput {
		_, err := experiments.RunThroughput([]int{10, 100, 500, 1000, 2000}, cfg.Seed)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := experiments.Run(ctx, experiments.Config{
		Name:     "strength",
		Games:    cfg.ExperimentGames,
		Length:   cfg.Length,
		MaxValue: cfg.MaxValue,
		Workers:  cfg.ExperimentWorkers,
		Seed:     cfg.Seed,
		Dir:      cfg.ExperimentDir,

		SearchTime: cfg.MCTSTime,
	}, experiments.StrengthMatchups())
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("%-12s vs %-12s  %4d-%-4d ties %-4d mean margin %+.2f\n",
			s.A.Name, s.B.Name, s.WinsA, s.WinsB, s.Ties, s.MeanMargin)
	}
	return nil
}

func runMatch(cfg config.Config, args []string) error {
	fs := newFlagSet("match", &cfg)
	remoteURL := fs.String("remote", "http://localhost"+cfg.HTTPAddr, "server to play against")
	name := fs.String("agent", agent.Optimal, "local agent")
	games := fs.Int("games", 10, "games to play, alternating seats")
	timeout := fs.Duration("timeout", 10*time.Second, "timeout per remote move")
	fs.IntVar(&cfg.Length, "length", cfg.Length, "board length")
	fs.DurationVar(&cfg.MCTSTime, "mcts-time", cfg.MCTSTime, "search time per mcts move, 0 for a fixed episode budget")
	fs.Parse(args)
	// The agent name fixes its own semantics or variant
	if _, _, err := setup(&cfg); err != nil {
		return err
	}

	client := server.NewClient(*remoteURL)
	remote := server.NewRemoteAgent(client, *timeout)
	wins := 0
	for i := range *games {
		seq, err := client.StartGame(context.Background(), cfg.Length)
		if err != nil {
			return err
		}
		local, err := agent.New(*name, seq, agent.WithSeed(cfg.Seed+uint64(i)), agent.WithSearchTime(cfg.MCTSTime))
		if err != nil {
			return err
		}

		agents, localSeat := [2]agent.Agent{local, remote}, game.Player1
		if i%2 == 1 {
			agents, localSeat = [2]agent.Agent{remote, local}, game.Player2
		}
		final, _, _, err := engine.NewLocalEngine(seq, agents).Run()
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		if final.Winner() == localSeat {
			wins++
		}
		fmt.Printf("game %d: %s in seat %d scored %d, remote scored %d\n",
			i+1, local.Name(), localSeat, final.Score(localSeat), final.Score(game.Opponent(localSeat)))
	}
	fmt.Printf("%s won %d of %d games\n", *name, wins, *games)
	return nil
}

func runSolve(cfg config.Config, args []string) error {
	fs := newFlagSet("solve", &cfg)
	fs.Parse(args)
	semantics, _, err := setup(&cfg)
	if err != nil {
		return err
	}

	values := make([]int, 0, fs.NArg())
	for _, arg := range fs.Args() {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("value %q: %w", arg, game.ErrInvalidInput)
		}
		values = append(values, v)
	}
	seq, err := game.NewSequence(values)
	if err != nil {
		return err
	}
	table, err := solver.Build(seq, semantics)
	if err != nil {
		return err
	}
	line, final, err := table.Line(game.NewSession(seq))
	if err != nil {
		return err
	}

	fmt.Printf("%s value: %d\n", semantics, table.Root())
	for i, c := range line {
		fmt.Printf("%2d. player %d takes %d from the %s\n", i+1, i%2+1, c.Value, c.Side)
	}
	fmt.Printf("final scores: %d - %d\n", final.Score(game.Player1), final.Score(game.Player2))
	return nil
}
