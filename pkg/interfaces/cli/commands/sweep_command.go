package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spokeworks/veloplan/pkg/application/services/sweep"
	"github.com/spokeworks/veloplan/pkg/interfaces/cli/output"
)

// SweepCommand solves every weight and price combination a scenario defines
type SweepCommand struct {
	config Config
}

// NewSweepCommand creates a new sweep command with the given configuration
func NewSweepCommand(config Config) *SweepCommand {
	return &SweepCommand{
		config: config,
	}
}

// Execute runs the sweep command
func (c *SweepCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := validateConfig(c.config); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		printHeader("Veloplan Scenario Sweep", c.config)
	}

	sc, plannerService, err := buildPlanner(c.config)
	if err != nil {
		return err
	}

	combos := sweep.Combinations(sc.Weights, sc.PriceStdDevs)
	workers := c.workers(sc.Workers)

	if c.config.Verbose {
		fmt.Printf("🔄 Running %d scenario combinations on %d workers...\n", len(combos), workers)
	}

	startTime := time.Now()
	runner := sweep.NewRunner(plannerService, workers)
	report, err := runner.Run(ctx, sweep.Request{
		Combinations: combos,
		Options:      plannerOptions(sc),
		Solve:        solveOptions(c.config, sc),
	})
	sweepTime := time.Since(startTime)

	if report == nil {
		return fmt.Errorf("error running sweep: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Sweep completed in %v: %d of %d combinations solved\n\n",
			sweepTime, report.SolvedCount(), len(report.Entries))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Scenario:  sc.Name,
	}
	if genErr := output.GenerateSweep(report, outputConfig); genErr != nil {
		return fmt.Errorf("error generating output: %w", genErr)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Scenario sweep complete!")
	}

	// A canceled sweep still rendered its partial report above
	return err
}

// workers resolves the worker count: an explicit flag wins, then the
// scenario file, then the environment default
func (c *SweepCommand) workers(scenarioWorkers int) int {
	if c.config.Workers > 0 {
		return c.config.Workers
	}
	if scenarioWorkers > 0 {
		return scenarioWorkers
	}
	return c.config.Env.SweepWorkers
}

// showHelp displays the help message
func (c *SweepCommand) showHelp() {
	fmt.Printf(`Veloplan Scenario Sweep - solve every weight and price combination

USAGE:
    veloplan -scenario <file.yaml> -sweep

The sweep runs the cartesian product of the scenario's weight
configurations and price standard-deviation steps on a bounded worker
pool. Each combination gets one entry in the report, in input order;
per-combination failures are recorded without aborting the sweep.

OPTIONS:
    -scenario <file>    Path to scenario YAML file
    -time-limit <dur>   Solver time limit per scenario, e.g. 30s (overrides the file)
    -workers <n>        Concurrent scenario solves (overrides the file)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json (default: text)
    -verbose            Enable verbose output

EXAMPLES:
    veloplan -scenario spring.yaml -sweep -verbose
    veloplan -scenario spring.yaml -sweep -workers 8 -format json -output results/
`)
}
