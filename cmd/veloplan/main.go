package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spokeworks/veloplan/pkg/infrastructure/config"
	"github.com/spokeworks/veloplan/pkg/infrastructure/logx"
	"github.com/spokeworks/veloplan/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioFile = flag.String("scenario", "", "Path to scenario YAML file")
		sweepMode    = flag.Bool(
			"sweep",
			false,
			"Run the full weight/price sweep defined in the scenario",
		)
		generatePath = flag.String("generate", "", "Write a scenario file to this path and exit")
		genVariants  = flag.Int(
			"variants",
			0,
			"Number of variants for randomized generation (0 = curated sample)",
		)
		genComponents = flag.Int("components", 0, "Number of components for randomized generation")
		genCoverage   = flag.Float64(
			"coverage",
			1.0,
			"Inventory coverage multiplier for randomized generation",
		)
		genSeed   = flag.Int64("seed", 0, "Random seed for reproducible generation")
		timeLimit = flag.Duration(
			"time-limit",
			0,
			"Solver time limit per scenario (overrides the scenario file)",
		)
		workers = flag.Int(
			"workers",
			0,
			"Concurrent scenario solves during a sweep (overrides the scenario file)",
		)
		outputDir = flag.String("output", "", "Output directory for results (optional)")
		format    = flag.String("format", "text", "Output format: text, json")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	env, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logx.Init(env.LogLevel, env.LogPretty)

	// Interrupts cancel in-flight solves; a sweep still reports the
	// combinations that finished
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := commands.Config{
		ScenarioFile: *scenarioFile,
		TimeLimit:    *timeLimit,
		Workers:      *workers,
		OutputDir:    *outputDir,
		Format:       *format,
		Verbose:      *verbose,
		Help:         *help,
		Env:          *env,
	}

	switch {
	case *generatePath != "":
		err = commands.NewGenerateCommand(commands.GenerateConfig{
			Path:       *generatePath,
			Variants:   *genVariants,
			Components: *genComponents,
			Coverage:   *genCoverage,
			Seed:       *genSeed,
			Verbose:    *verbose,
			Help:       *help,
		}).Execute(ctx)
	case *sweepMode:
		err = commands.NewSweepCommand(cfg).Execute(ctx)
	default:
		err = commands.NewSolveCommand(cfg).Execute(ctx)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
