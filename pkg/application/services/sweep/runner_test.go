package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/application/services/planner"
	"github.com/spokeworks/veloplan/pkg/application/services/pricing"
	apptesting "github.com/spokeworks/veloplan/pkg/application/services/testing"
	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
)

func testWeights(t *testing.T, profit, waste, prodTime, premium float64) entities.WeightConfig {
	t.Helper()
	config, err := entities.NewWeightConfig(profit, waste, prodTime, premium)
	if err != nil {
		t.Fatalf("Failed to create weights: %v", err)
	}
	return *config
}

func newTestPlanner(t *testing.T, backend solver.Backend) *planner.Service {
	t.Helper()
	inventoryRepo, catalog, pricingRepo := apptesting.BuildTwoVariantTestData()
	return planner.NewService(inventoryRepo, catalog, pricing.NewService(pricingRepo), backend)
}

func TestCombinations(t *testing.T) {
	first := testWeights(t, 1, 0, 0, 0)
	second := testWeights(t, 0, 1, 0, 0)

	combos := Combinations([]entities.WeightConfig{first, second}, []float64{-1, 0, 1})
	if len(combos) != 6 {
		t.Fatalf("Expected 6 combinations, got %d", len(combos))
	}

	// Weights-major: all deviation steps of the first config come first
	for i, want := range []struct {
		weights entities.WeightConfig
		stdDev  float64
	}{
		{first, -1}, {first, 0}, {first, 1},
		{second, -1}, {second, 0}, {second, 1},
	} {
		if combos[i].Weights != want.weights || combos[i].PriceStdDev != want.stdDev {
			t.Errorf("Expected combination %d to be %v at %g, got %v at %g",
				i, want.weights, want.stdDev, combos[i].Weights, combos[i].PriceStdDev)
		}
	}
}

func TestCombinations_DefaultStdDev(t *testing.T) {
	combos := Combinations([]entities.WeightConfig{testWeights(t, 1, 0, 0, 0)}, nil)
	if len(combos) != 1 {
		t.Fatalf("Expected 1 combination, got %d", len(combos))
	}
	if combos[0].PriceStdDev != 0 {
		t.Errorf("Expected base prices by default, got deviation %g", combos[0].PriceStdDev)
	}
}

func TestWeightGrid(t *testing.T) {
	grid, err := WeightGrid([]float64{0.5, 1}, []float64{0, 0.5}, nil, nil)
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	if len(grid) != 4 {
		t.Fatalf("Expected 4 grid points, got %d", len(grid))
	}

	want := []entities.WeightConfig{
		{Profit: 0.5, InventoryWaste: 0},
		{Profit: 0.5, InventoryWaste: 0.5},
		{Profit: 1, InventoryWaste: 0},
		{Profit: 1, InventoryWaste: 0.5},
	}
	for i := range want {
		if grid[i] != want[i] {
			t.Errorf("Expected grid point %d to be %v, got %v", i, want[i], grid[i])
		}
	}
}

func TestWeightGrid_RejectsAllZeroCorner(t *testing.T) {
	_, err := WeightGrid([]float64{0, 1}, nil, nil, nil)
	if err == nil {
		t.Fatal("Expected error for grid containing the all-zero corner")
	}
	var invalidWeight *entities.InvalidWeightError
	if !errors.As(err, &invalidWeight) {
		t.Errorf("Expected InvalidWeightError, got %T", err)
	}
}

func TestRunner_ResultsKeepInputOrder(t *testing.T) {
	service := newTestPlanner(t, &apptesting.ReferenceBackend{Delay: 2 * time.Millisecond})
	runner := NewRunner(service, 4)

	// Alternating objectives with distinct optima make slot mixups visible:
	// profit-heavy builds everything, time-heavy builds nothing
	profitHeavy := testWeights(t, 1, 0, 0, 0)
	timeHeavy := testWeights(t, 0.1, 0, 0.9, 0)

	combos := make([]Combination, 8)
	for i := range combos {
		if i%2 == 0 {
			combos[i] = Combination{Weights: profitHeavy}
		} else {
			combos[i] = Combination{Weights: timeHeavy}
		}
	}

	report, err := runner.Run(context.Background(), Request{Combinations: combos})
	if err != nil {
		t.Fatalf("Failed to run sweep: %v", err)
	}

	if report.RunID == "" {
		t.Error("Expected a run ID")
	}
	if len(report.Entries) != len(combos) {
		t.Fatalf("Expected %d entries, got %d", len(combos), len(report.Entries))
	}
	if report.SolvedCount() != len(combos) {
		t.Fatalf("Expected every entry solved, got %d", report.SolvedCount())
	}

	for i := range report.Entries {
		entry := &report.Entries[i]
		if entry.Index != i {
			t.Errorf("Expected entry %d to keep its index, got %d", i, entry.Index)
		}
		if entry.Weights != combos[i].Weights {
			t.Errorf("Expected entry %d to carry its combination's weights", i)
		}
		if entry.Status != entities.StatusOptimal {
			t.Errorf("Expected entry %d optimal, got %v", i, entry.Status)
		}

		wantBasic, wantCargo := entities.Quantity(4), entities.Quantity(2)
		if i%2 == 1 {
			wantBasic, wantCargo = 0, 0
		}
		if got := entry.Result.Quantities["V_BASIC"]; got != wantBasic {
			t.Errorf("Expected entry %d to build %d V_BASIC, got %d", i, wantBasic, got)
		}
		if got := entry.Result.Quantities["V_CARGO"]; got != wantCargo {
			t.Errorf("Expected entry %d to build %d V_CARGO, got %d", i, wantCargo, got)
		}
	}

	best := report.Best()
	if best == nil {
		t.Fatal("Expected a best entry")
	}
	if !best.Result.TotalProfit.Equal(decimal.NewFromInt(36)) {
		t.Errorf("Expected best profit 36, got %s", best.Result.TotalProfit)
	}
}

func TestRunner_PerCombinationIsolation(t *testing.T) {
	service := newTestPlanner(t, &apptesting.ReferenceBackend{})
	runner := NewRunner(service, 2)

	valid := testWeights(t, 1, 0, 0, 0)
	combos := []Combination{
		{Weights: valid},
		{Weights: valid},
		{Weights: entities.WeightConfig{}}, // all-zero, rejected per entry
		{Weights: valid},
		{Weights: valid},
	}

	report, err := runner.Run(context.Background(), Request{Combinations: combos})
	if err != nil {
		t.Fatalf("Expected per-entry failures to stay on their entries: %v", err)
	}

	if report.SolvedCount() != 4 {
		t.Errorf("Expected 4 solved entries, got %d", report.SolvedCount())
	}

	failed := &report.Entries[2]
	if failed.Status != entities.StatusFailed {
		t.Errorf("Expected failed status for the invalid entry, got %v", failed.Status)
	}
	if failed.Result != nil {
		t.Error("Expected no result on the failed entry")
	}
	if failed.Failure == "" {
		t.Error("Expected a failure message on the failed entry")
	}
	var invalidWeight *entities.InvalidWeightError
	if !errors.As(failed.Err, &invalidWeight) {
		t.Errorf("Expected InvalidWeightError on the failed entry, got %T", failed.Err)
	}

	for _, i := range []int{0, 1, 3, 4} {
		if !report.Entries[i].Solved() {
			t.Errorf("Expected entry %d solved despite the failed neighbor", i)
		}
	}
}

func TestRunner_SharedInputFailureAbortsSweep(t *testing.T) {
	inventoryRepo, catalog, pricingRepo := apptesting.BuildTwoVariantTestData()

	ghost, err := entities.NewVariantDefinition(
		"V_GHOST", "Ghost Build", entities.CategoryBMX,
		map[entities.ComponentID]entities.Quantity{"C_MISSING": 1},
		1.0, decimal.NewFromInt(15), false, 0)
	if err != nil {
		t.Fatalf("Failed to create variant: %v", err)
	}
	if err := catalog.AddVariant(ghost); err != nil {
		t.Fatalf("Failed to add variant: %v", err)
	}

	service := planner.NewService(inventoryRepo, catalog, pricing.NewService(pricingRepo), &apptesting.ReferenceBackend{})
	runner := NewRunner(service, 2)

	report, err := runner.Run(context.Background(), Request{
		Combinations: []Combination{{Weights: testWeights(t, 1, 0, 0, 0)}},
	})
	if err == nil {
		t.Fatal("Expected shared catalog validation to abort the sweep")
	}
	if report != nil {
		t.Error("Expected no report when the shared inputs are invalid")
	}
	var invalidBOM *entities.InvalidBOMError
	if !errors.As(err, &invalidBOM) {
		t.Errorf("Expected InvalidBOMError, got %T", err)
	}
}

// cancelingBackend cancels the sweep from inside its n-th solve. Safe only
// under a single worker, which keeps calls sequential.
type cancelingBackend struct {
	inner  solver.Backend
	cancel context.CancelFunc
	after  int
	calls  int
}

func (b *cancelingBackend) Solve(ctx context.Context, model *solver.Model, opts solver.SolveOptions) (*solver.Solution, error) {
	b.calls++
	if b.calls == b.after {
		b.cancel()
		return nil, ctx.Err()
	}
	return b.inner.Solve(ctx, model, opts)
}

func TestRunner_CancellationMarksRemainingEntries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := &cancelingBackend{
		inner:  &apptesting.ReferenceBackend{},
		cancel: cancel,
		after:  2,
	}
	service := newTestPlanner(t, backend)
	runner := NewRunner(service, 1)

	combos := make([]Combination, 5)
	for i := range combos {
		combos[i] = Combination{Weights: testWeights(t, 1, 0, 0, 0)}
	}

	report, err := runner.Run(ctx, Request{Combinations: combos})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if report == nil {
		t.Fatal("Expected a report alongside the cancellation error")
	}
	if len(report.Entries) != len(combos) {
		t.Fatalf("Expected %d entries, got %d", len(combos), len(report.Entries))
	}

	if report.Entries[0].Status != entities.StatusOptimal {
		t.Errorf("Expected the first entry to finish, got %v", report.Entries[0].Status)
	}
	for i := 1; i < len(combos); i++ {
		entry := &report.Entries[i]
		if entry.Status != entities.StatusCanceled {
			t.Errorf("Expected entry %d canceled, got %v", i, entry.Status)
		}
		if entry.Solved() {
			t.Errorf("Expected entry %d unsolved", i)
		}
		if entry.Index != i {
			t.Errorf("Expected entry %d to keep its index, got %d", i, entry.Index)
		}
	}
	if report.SolvedCount() != 1 {
		t.Errorf("Expected 1 solved entry, got %d", report.SolvedCount())
	}
}
