// Package sweep runs batches of weighted scenarios concurrently and collects
// their results in request order.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/spokeworks/veloplan/pkg/application/dto"
	"github.com/spokeworks/veloplan/pkg/application/services/planner"
	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
	"github.com/spokeworks/veloplan/pkg/infrastructure/logx"
)

// DefaultWorkers bounds scenario concurrency when no worker count is given
const DefaultWorkers = 4

// Combination pairs a weight configuration with a price deviation step
type Combination struct {
	Label       string // optional, derived from the weights when empty
	Weights     entities.WeightConfig
	PriceStdDev float64
}

func (c Combination) label() string {
	if c.Label != "" {
		return c.Label
	}
	if c.PriceStdDev != 0 {
		return fmt.Sprintf("%s sd=%g", c.Weights.Label(), c.PriceStdDev)
	}
	return c.Weights.Label()
}

// Combinations builds the cartesian product of weight configurations and
// price deviation steps, weights-major. Empty stdDevs means base prices only.
func Combinations(weights []entities.WeightConfig, stdDevs []float64) []Combination {
	if len(stdDevs) == 0 {
		stdDevs = []float64{0}
	}
	combos := make([]Combination, 0, len(weights)*len(stdDevs))
	for _, config := range weights {
		for _, stdDev := range stdDevs {
			combos = append(combos, Combination{Weights: config, PriceStdDev: stdDev})
		}
	}
	return combos
}

// WeightGrid builds one weight configuration per point of the cartesian grid
// spanned by the given levels, profit-major. An empty axis contributes a
// single zero level. Grid points that form an invalid configuration, such as
// the all-zero corner, fail the whole grid.
func WeightGrid(profitLevels, wasteLevels, timeLevels, premiumLevels []float64) ([]entities.WeightConfig, error) {
	axis := func(levels []float64) []float64 {
		if len(levels) == 0 {
			return []float64{0}
		}
		return levels
	}

	grid := make([]entities.WeightConfig, 0,
		len(axis(profitLevels))*len(axis(wasteLevels))*len(axis(timeLevels))*len(axis(premiumLevels)))
	for _, profit := range axis(profitLevels) {
		for _, waste := range axis(wasteLevels) {
			for _, prodTime := range axis(timeLevels) {
				for _, premium := range axis(premiumLevels) {
					config, err := entities.NewWeightConfig(profit, waste, prodTime, premium)
					if err != nil {
						return nil, err
					}
					grid = append(grid, *config)
				}
			}
		}
	}
	return grid, nil
}

// Request describes one sweep: the combinations to solve plus the solver
// controls shared by every combination
type Request struct {
	Combinations []Combination
	Options      planner.Options
	Solve        solver.SolveOptions
}

// Runner executes scenario combinations against a shared planner
type Runner struct {
	planner *planner.Service
	workers int
}

// NewRunner creates a sweep runner. A non-positive worker count falls back
// to DefaultWorkers.
func NewRunner(plannerService *planner.Service, workers int) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{planner: plannerService, workers: workers}
}

// Run solves every combination and returns a report with one entry per
// combination, in input order. Individual scenario failures are recorded on
// their entries and never abort the sweep; only a malformed shared catalog
// or an empty request fails the run outright. On cancellation the remaining
// combinations are recorded as canceled and the report is returned together
// with the context error.
func (r *Runner) Run(ctx context.Context, req Request) (*dto.SweepReport, error) {
	if len(req.Combinations) == 0 {
		return nil, fmt.Errorf("sweep has no combinations")
	}

	// The catalog and inventory are shared by every combination, so a
	// malformed catalog is checked once instead of failing each entry.
	if err := r.planner.ValidateInputs(); err != nil {
		return nil, err
	}

	report := &dto.SweepReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Entries:   make([]dto.SweepEntry, len(req.Combinations)),
	}

	logx.Info().
		Str("run_id", report.RunID).
		Int("combinations", len(req.Combinations)).
		Int("workers", r.workers).
		Msg("Starting scenario sweep")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	dispatched := len(req.Combinations)
	for i, combo := range req.Combinations {
		if gctx.Err() != nil {
			dispatched = i
			break
		}
		g.Go(func() error {
			report.Entries[i] = r.runOne(gctx, i, combo, req)
			return nil
		})
	}
	_ = g.Wait()

	// Combinations never dispatched after a cancellation still get their
	// slot in the report
	for i := dispatched; i < len(req.Combinations); i++ {
		report.Entries[i] = canceledEntry(i, req.Combinations[i], ctx.Err())
	}

	report.Duration = time.Since(report.StartedAt)

	logx.Info().
		Str("run_id", report.RunID).
		Int("solved", report.SolvedCount()).
		Dur("duration", report.Duration).
		Msg("Scenario sweep finished")

	return report, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, index int, combo Combination, req Request) dto.SweepEntry {
	if ctx.Err() != nil {
		return canceledEntry(index, combo, ctx.Err())
	}

	entry := dto.SweepEntry{
		Index:       index,
		Label:       combo.label(),
		Weights:     combo.Weights,
		PriceStdDev: combo.PriceStdDev,
	}

	result, err := r.planner.SolveScenario(ctx, planner.Request{
		Weights:     combo.Weights,
		PriceStdDev: combo.PriceStdDev,
		Options:     req.Options,
		Solve:       req.Solve,
	})

	switch {
	case err == nil:
		entry.Status = result.Status
		entry.Result = result
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		entry.Status = entities.StatusCanceled
		entry.Failure = err.Error()
		entry.Err = err
	default:
		entry.Status = entities.StatusFailed
		entry.Failure = err.Error()
		entry.Err = err
		if result != nil {
			// Infeasible scenarios carry a typed result next to the error
			entry.Status = result.Status
			entry.Result = result
		}
	}

	logx.Debug().
		Int("index", index).
		Str("label", entry.Label).
		Str("status", entry.Status.String()).
		Msg("Scenario combination finished")

	return entry
}

func canceledEntry(index int, combo Combination, err error) dto.SweepEntry {
	entry := dto.SweepEntry{
		Index:       index,
		Label:       combo.label(),
		Weights:     combo.Weights,
		PriceStdDev: combo.PriceStdDev,
		Status:      entities.StatusCanceled,
		Err:         err,
	}
	if err != nil {
		entry.Failure = err.Error()
	}
	return entry
}
