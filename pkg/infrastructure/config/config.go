// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment holds the process-level settings, sourced from VELOPLAN_
// environment variables and optionally seeded from a .env file for local
// runs. Command-line flags override these.
type Environment struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`

	SolverProvider string        `envconfig:"SOLVER_PROVIDER" default:"highs"`
	SolveTimeLimit time.Duration `envconfig:"SOLVE_TIME_LIMIT" default:"30s"`
	SolveGap       float64       `envconfig:"SOLVE_GAP" default:"0"`
	SweepWorkers   int           `envconfig:"SWEEP_WORKERS" default:"4"`
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Environment, error) {
	_ = godotenv.Load()

	var env Environment
	if err := envconfig.Process("VELOPLAN", &env); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &env, nil
}
