package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the settings shared by every subcommand. Flags given on the
// command line override these values.
type Config struct {
	HTTPAddr  string `env:"MAXSUM_HTTP_ADDR" envDefault:":5000"`
	Length    int    `env:"MAXSUM_BOARD_LENGTH" envDefault:"14"`
	MaxValue  int    `env:"MAXSUM_MAX_VALUE" envDefault:"99"`
	Semantics string `env:"MAXSUM_SEMANTICS" envDefault:"net_advantage"`
	Heuristic string `env:"MAXSUM_HEURISTIC" envDefault:"per_turn"`
	Seed      uint64 `env:"MAXSUM_SEED"` // 0 draws a fresh seed
	LogLevel  string `env:"MAXSUM_LOG_LEVEL" envDefault:"info"`

	MCTSTime time.Duration `env:"MAXSUM_MCTS_TIME"` // 0 searches a fixed number of episodes

	ExperimentGames   int    `env:"MAXSUM_EXPERIMENT_GAMES" envDefault:"100"`
	ExperimentWorkers int    `env:"MAXSUM_EXPERIMENT_WORKERS" envDefault:"8"`
	ExperimentDir     string `env:"MAXSUM_EXPERIMENT_DIR" envDefault:"experiments"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file from the working directory and then the
// environment. Variables already set in the environment take precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SetupLogging routes the global logger to a console writer on stderr at the
// given level.
func SetupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
