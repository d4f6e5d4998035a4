package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spokeworks/veloplan/pkg/application/services/planner"
	"github.com/spokeworks/veloplan/pkg/application/services/pricing"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
	"github.com/spokeworks/veloplan/pkg/infrastructure/config"
	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/scenario"
	"github.com/spokeworks/veloplan/pkg/infrastructure/solver/highs"
	"github.com/spokeworks/veloplan/pkg/interfaces/cli/output"
)

// Config holds configuration shared by the solve and sweep commands
type Config struct {
	ScenarioFile string
	TimeLimit    time.Duration // zero falls back to the scenario file, then the environment
	Workers      int           // zero falls back to the scenario file, then the environment
	OutputDir    string
	Format       string
	Verbose      bool
	Help         bool
	Env          config.Environment
}

// SolveCommand runs one scenario with the file's first weight configuration
type SolveCommand struct {
	config Config
}

// NewSolveCommand creates a new solve command with the given configuration
func NewSolveCommand(config Config) *SolveCommand {
	return &SolveCommand{
		config: config,
	}
}

// Execute runs the solve command
func (c *SolveCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := validateConfig(c.config); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		printHeader("Veloplan Scenario Optimizer", c.config)
	}

	sc, plannerService, err := buildPlanner(c.config)
	if err != nil {
		return err
	}

	if c.config.Verbose && len(sc.Weights) > 1 {
		fmt.Printf("⚡ Scenario defines %d weight configurations; solving the first. Use -sweep to run all.\n\n", len(sc.Weights))
	}

	if c.config.Verbose {
		fmt.Println("🔄 Solving scenario...")
	}

	startTime := time.Now()
	result, err := plannerService.SolveScenario(ctx, planner.Request{
		Weights: sc.Weights[0],
		Options: plannerOptions(sc),
		Solve:   solveOptions(c.config, sc),
	})
	solveTime := time.Since(startTime)

	if err != nil && result == nil {
		return fmt.Errorf("error solving scenario: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Solve completed in %v\n\n", solveTime)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Scenario:  sc.Name,
	}
	if genErr := output.Generate(result, outputConfig); genErr != nil {
		return fmt.Errorf("error generating output: %w", genErr)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Scenario analysis complete!")
	}

	// An infeasible model still rendered a report above; the error keeps
	// the exit code honest
	return err
}

// validateConfig validates the shared command configuration
func validateConfig(config Config) error {
	if config.ScenarioFile == "" {
		return fmt.Errorf("must specify a scenario file with -scenario")
	}
	if config.Format != "text" && config.Format != "json" {
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
	return nil
}

// buildPlanner loads the scenario file and assembles the planning service
// over it
func buildPlanner(config Config) (*scenario.Scenario, *planner.Service, error) {
	if config.Verbose {
		fmt.Println("📂 Loading scenario file...")
	}

	sc, err := scenario.NewLoader().Load(config.ScenarioFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading scenario: %w", err)
	}

	if config.Verbose {
		fmt.Printf("✅ Scenario loaded successfully:\n")
		fmt.Printf("  Components: %d\n", len(sc.Components))
		fmt.Printf("  Variants: %d\n", len(sc.Variants))
		fmt.Printf("  Weight Configurations: %d\n", len(sc.Weights))
		fmt.Println()
	}

	inventory, catalog, pricingRepo, err := sc.Repositories()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading repositories: %w", err)
	}

	backend := highs.NewProviderBackend(config.Env.SolverProvider)
	plannerService := planner.NewService(inventory, catalog, pricing.NewService(pricingRepo), backend)
	return sc, plannerService, nil
}

// plannerOptions carries the scenario's mix constraints into the model
func plannerOptions(sc *scenario.Scenario) planner.Options {
	return planner.Options{
		MaxPremiumShare:  sc.MaxPremiumShare,
		MinStandardShare: sc.MinStandardShare,
	}
}

// solveOptions resolves the solver controls: an explicit flag wins, then
// the scenario file, then the environment default
func solveOptions(config Config, sc *scenario.Scenario) solver.SolveOptions {
	timeLimit := config.TimeLimit
	if timeLimit == 0 {
		timeLimit = sc.TimeLimit
	}
	if timeLimit == 0 {
		timeLimit = config.Env.SolveTimeLimit
	}
	return solver.SolveOptions{
		TimeLimit:   timeLimit,
		GapRelative: config.Env.SolveGap,
	}
}

// printHeader prints the command header information
func printHeader(title string, config Config) {
	fmt.Printf("🚀 %s\n", title)
	fmt.Printf("Scenario file: %s\n", config.ScenarioFile)
	fmt.Printf("Output format: %s\n", config.Format)
	if config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *SolveCommand) showHelp() {
	fmt.Printf(`Veloplan - Bicycle Production Scenario Optimizer

USAGE:
    veloplan -scenario <file.yaml>             # Solve the scenario's first weight configuration
    veloplan -scenario <file.yaml> -sweep      # Solve every weight and price combination
    veloplan -generate <file.yaml>             # Write a sample scenario file

OPTIONS:
    -scenario <file>    Path to scenario YAML file
    -sweep              Run the full weight/price sweep defined in the scenario
    -generate <file>    Write a sample scenario file and exit
    -variants <n>       Randomized generation: variant count (with -generate)
    -components <n>     Randomized generation: component count (with -generate)
    -coverage <f>       Randomized generation: inventory coverage multiplier (default: 1.0)
    -seed <n>           Randomized generation: random seed, 0 picks one from the clock
    -time-limit <dur>   Solver time limit per scenario, e.g. 30s (overrides the file)
    -workers <n>        Concurrent scenario solves during a sweep (overrides the file)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO FILE STRUCTURE:
    name: Spring production run
    components:                    # component inventory
      - id: C_FRAME_AL
        name: Aluminum frame
        available: 25
        unit_cost: "150"
    variants:                      # bicycle variants with BOMs
      - id: V_CITY
        name: City cruiser
        category: city
        bom: {C_FRAME_AL: 1, C_WHEEL_26: 2}
        production_time: 3.0
        base_price: "420"
    pricing:                       # explicit profiles or markup-derived tiers
      markup: 0.25
      profiles:
        V_MTB: {full_price: "650", discount_price: "585"}
    weights:                       # objective weight configurations
      - {profit: 1}
      - {profit: 0.6, inventory_waste: 0.2, production_time: 0.1, premium_mix: 0.1}
    sweep:                         # sensitivity controls
      price_std_devs: [-1, 0, 1]
      max_premium_share: 0.6
    solve:
      time_limit: 30s
      workers: 4

ENVIRONMENT:
    VELOPLAN_LOG_LEVEL          trace, debug, info, warn, error (default: info)
    VELOPLAN_LOG_PRETTY         Console log format instead of JSON (default: false)
    VELOPLAN_SOLVER_PROVIDER    MIP solver provider (default: highs)
    VELOPLAN_SOLVE_TIME_LIMIT   Fallback solver time limit (default: 30s)
    VELOPLAN_SOLVE_GAP          Relative MIP gap tolerance (default: 0)
    VELOPLAN_SWEEP_WORKERS      Fallback sweep worker count (default: 4)

EXAMPLES:
    # Generate a sample scenario, then solve it
    veloplan -generate spring.yaml
    veloplan -scenario spring.yaml -verbose

    # Run the full sweep with 8 workers and JSON output
    veloplan -scenario spring.yaml -sweep -workers 8 -format json -output results/

    # Cap each solve at two minutes
    veloplan -scenario spring.yaml -sweep -time-limit 2m
`)
}
