package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/application/services/planner"
	"github.com/spokeworks/veloplan/pkg/application/services/pricing"
	"github.com/spokeworks/veloplan/pkg/application/services/sweep"
	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
	"github.com/spokeworks/veloplan/pkg/infrastructure/logx"
	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/memory"
	"github.com/spokeworks/veloplan/pkg/infrastructure/solver/highs"
)

func main() {
	ctx := context.Background()
	logx.Init("warn", true)

	// Create repositories
	inventoryRepo := memory.NewInventoryRepository()
	catalog := memory.NewVariantCatalog()
	pricingRepo := memory.NewPricingRepository()

	// Set up a small bike shop
	setupBikeShop(inventoryRepo, catalog, pricingRepo)

	pricingService := pricing.NewService(pricingRepo)
	plannerService := planner.NewService(inventoryRepo, catalog, pricingService, highs.NewBackend())

	fmt.Println("🚀 Planning the spring production run...")
	fmt.Println()

	// Solve one balanced scenario
	result, err := plannerService.SolveScenario(ctx, planner.Request{
		Weights: entities.WeightConfig{
			Profit:         0.6,
			InventoryWaste: 0.2,
			ProductionTime: 0.1,
			PremiumMix:     0.1,
		},
		Options: planner.Options{MaxPremiumShare: 0.6},
		Solve:   solver.SolveOptions{TimeLimit: 10 * time.Second},
	})
	if err != nil {
		fmt.Printf("❌ Solve failed: %v\n", err)
		return
	}

	fmt.Println("📊 Production Plan:")
	for _, id := range sortedVariants(result.Quantities) {
		fmt.Printf("  %s: %d units\n", id, result.Quantities[id])
	}
	fmt.Printf("  Total Profit: %s\n", result.TotalProfit.StringFixed(2))
	fmt.Printf("  Production Time: %.1f h\n", result.TotalTime)
	fmt.Printf("  Premium Share: %.0f%%\n", result.PremiumFraction*100)
	if len(result.BindingComponents) > 0 {
		fmt.Printf("  Binding Components: %v\n", result.BindingComponents)
	}
	fmt.Println()

	// Show how expected prices move when demand shifts between tiers
	fmt.Println("📈 Price sensitivity for the mountain bike:")
	steps := []float64{-2, -1, 0, 1, 2}
	step := 0
	for profile, sweepErr := range pricingService.SensitivitySweep("V_MTB", steps) {
		if sweepErr != nil {
			fmt.Printf("  %+g sd: %v\n", steps[step], sweepErr)
		} else {
			fmt.Printf("  %+g sd: expected price %s\n", steps[step], profile.WASP().StringFixed(2))
		}
		step++
	}
	fmt.Println()

	// Sweep a weight grid across price deviations
	fmt.Println("🔄 Sweeping weight configurations...")
	grid, err := sweep.WeightGrid(
		[]float64{0.5, 1.0},
		[]float64{0, 0.25},
		[]float64{0, 0.25},
		nil,
	)
	if err != nil {
		fmt.Printf("❌ Weight grid failed: %v\n", err)
		return
	}

	runner := sweep.NewRunner(plannerService, 4)
	report, err := runner.Run(ctx, sweep.Request{
		Combinations: sweep.Combinations(grid, []float64{-1, 0, 1}),
		Options:      planner.Options{MaxPremiumShare: 0.6},
		Solve:        solver.SolveOptions{TimeLimit: 10 * time.Second},
	})
	if err != nil {
		fmt.Printf("❌ Sweep failed: %v\n", err)
		return
	}

	fmt.Printf("  Solved %d of %d combinations in %v\n",
		report.SolvedCount(), len(report.Entries), report.Duration.Round(time.Millisecond))
	if best := report.Best(); best != nil {
		fmt.Printf("  Best combination: %s\n", best.Label)
		fmt.Printf("  Best profit: %s\n", best.Result.TotalProfit.StringFixed(2))
	}
	fmt.Println()

	fmt.Println("✅ Scenario analysis complete!")
}

func setupBikeShop(
	inventoryRepo *memory.InventoryRepository,
	catalog *memory.VariantCatalog,
	pricingRepo *memory.PricingRepository,
) {
	// Component inventory
	addComponent(inventoryRepo, "C_FRAME_AL", "Aluminum frame", 25, 150)
	addComponent(inventoryRepo, "C_WHEEL_26", "26 inch wheel", 60, 35)
	addComponent(inventoryRepo, "C_WHEEL_700", "700c road wheel", 40, 45)
	addComponent(inventoryRepo, "C_BRAKE_DISC", "Disc brake set", 30, 55)
	addComponent(inventoryRepo, "C_DRIVE_1X", "1x12 drivetrain", 20, 210)
	addComponent(inventoryRepo, "C_BAR_FLAT", "Flat handlebar", 70, 15)

	// Variant catalog
	addVariant(catalog, variantSpec{
		id:       "V_MTB",
		name:     "Trail mountain bike",
		category: entities.CategoryMountain,
		bom: map[entities.ComponentID]entities.Quantity{
			"C_FRAME_AL":   1,
			"C_WHEEL_26":   2,
			"C_BRAKE_DISC": 1,
			"C_DRIVE_1X":   1,
			"C_BAR_FLAT":   1,
		},
		productionTime: 4.5,
		premium:        true,
	})
	addVariant(catalog, variantSpec{
		id:       "V_CITY",
		name:     "City cruiser",
		category: entities.CategoryCity,
		bom: map[entities.ComponentID]entities.Quantity{
			"C_FRAME_AL":  1,
			"C_WHEEL_700": 2,
			"C_BAR_FLAT":  1,
		},
		productionTime: 3.0,
	})
	addVariant(catalog, variantSpec{
		id:       "V_GRAVEL",
		name:     "Gravel crossover",
		category: entities.CategoryCrossover,
		bom: map[entities.ComponentID]entities.Quantity{
			"C_FRAME_AL":   1,
			"C_WHEEL_700":  2,
			"C_BRAKE_DISC": 1,
			"C_DRIVE_1X":   1,
			"C_BAR_FLAT":   1,
		},
		productionTime: 5.0,
		premium:        true,
	})

	// Pricing: one explicit two-tier profile, the rest cost-plus
	mtbProfile, err := entities.NewPricingProfile(
		decimal.NewFromInt(650), decimal.NewFromInt(585),
		0.3, 0.7,
		0.05, 0.1,
	)
	if err != nil {
		panic(err)
	}
	addProfile(pricingRepo, "V_MTB", mtbProfile)
	addProfile(pricingRepo, "V_CITY", tierPricing(255, 0.45))
	addProfile(pricingRepo, "V_GRAVEL", tierPricing(530, 0.3))
}

type variantSpec struct {
	id             entities.VariantID
	name           string
	category       entities.VariantCategory
	bom            map[entities.ComponentID]entities.Quantity
	productionTime float64
	premium        bool
}

func addComponent(repo *memory.InventoryRepository, id entities.ComponentID, name string, available entities.Quantity, cost int64) {
	component, err := entities.NewComponent(id, name, available, decimal.NewFromInt(cost))
	if err != nil {
		panic(err)
	}
	if err := repo.AddComponent(component); err != nil {
		panic(err)
	}
}

func addVariant(catalog *memory.VariantCatalog, spec variantSpec) {
	variant, err := entities.NewVariantDefinition(
		spec.id, spec.name, spec.category,
		spec.bom, spec.productionTime,
		decimal.Zero, spec.premium, 0,
	)
	if err != nil {
		panic(err)
	}
	if err := catalog.AddVariant(variant); err != nil {
		panic(err)
	}
}

func addProfile(repo *memory.PricingRepository, id entities.VariantID, profile *entities.PricingProfile) {
	if err := repo.AddProfile(id, profile); err != nil {
		panic(err)
	}
}

func tierPricing(cost int64, markup float64) *entities.PricingProfile {
	profile, err := entities.NewTierPricing(decimal.NewFromInt(cost), markup)
	if err != nil {
		panic(err)
	}
	return profile
}

func sortedVariants(quantities map[entities.VariantID]entities.Quantity) []entities.VariantID {
	ids := make([]entities.VariantID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
