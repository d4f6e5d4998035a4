package testing

import (
	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/memory"
)

// mustCreateComponent is a helper for tests - panics on validation error
func mustCreateComponent(
	id, name string,
	available int64,
	unitCost string,
) *entities.Component {
	component, err := entities.NewComponent(
		entities.ComponentID(id),
		name,
		entities.Quantity(available),
		decimal.RequireFromString(unitCost),
	)
	if err != nil {
		panic(err)
	}
	return component
}

// mustCreateVariant is a helper for tests - panics on validation error
func mustCreateVariant(
	id, name string,
	category entities.VariantCategory,
	bom map[string]int64,
	productionTime float64,
	basePrice string,
	premium bool,
	maxUnits int64,
) *entities.VariantDefinition {
	converted := make(map[entities.ComponentID]entities.Quantity, len(bom))
	for componentID, quantity := range bom {
		converted[entities.ComponentID(componentID)] = entities.Quantity(quantity)
	}
	variant, err := entities.NewVariantDefinition(
		entities.VariantID(id),
		name,
		category,
		converted,
		productionTime,
		decimal.RequireFromString(basePrice),
		premium,
		entities.Quantity(maxUnits),
	)
	if err != nil {
		panic(err)
	}
	return variant
}

// mustCreateProfile is a helper for tests - panics on validation error
func mustCreateProfile(
	fullPrice, discountPrice string,
	fullProbability, discountProbability float64,
) *entities.PricingProfile {
	profile, err := entities.NewPricingProfile(
		decimal.RequireFromString(fullPrice),
		decimal.RequireFromString(discountPrice),
		fullProbability,
		discountProbability,
		entities.DefaultSpread,
		entities.DefaultSpread,
	)
	if err != nil {
		panic(err)
	}
	return profile
}

// BuildTwoVariantTestData builds a minimal two-variant scenario with a
// known profit optimum. Both variants price deterministically (full and
// discount tier equal), so unit margins are exactly 5 for V_BASIC and 8
// for V_CARGO. Tube stock binds the two variants together; rack stock
// caps V_CARGO at 2 units. Maximizing profit alone yields 4 basic and 2
// cargo bikes for a total of 36.
func BuildTwoVariantTestData() (*memory.InventoryRepository, *memory.VariantCatalog, *memory.PricingRepository) {
	inventoryRepo := memory.NewInventoryRepository()
	catalog := memory.NewVariantCatalog()
	pricingRepo := memory.NewPricingRepository()

	components := []*entities.Component{
		mustCreateComponent("C_TUBE", "Steel Tube Set", 10, "10"),
		mustCreateComponent("C_RACK", "Cargo Rack", 4, "5"),
	}
	if err := inventoryRepo.LoadComponents(components); err != nil {
		panic(err)
	}

	variants := []*entities.VariantDefinition{
		mustCreateVariant("V_BASIC", "Basic City Bike", entities.CategoryCity,
			map[string]int64{"C_TUBE": 2}, 1.0, "25", false, 0),
		mustCreateVariant("V_CARGO", "Cargo City Bike", entities.CategoryCity,
			map[string]int64{"C_TUBE": 1, "C_RACK": 2}, 1.5, "28", false, 0),
	}
	if err := catalog.LoadVariants(variants); err != nil {
		panic(err)
	}

	profiles := map[entities.VariantID]*entities.PricingProfile{
		"V_BASIC": mustCreateProfile("25", "25", 0.3, 0.7),
		"V_CARGO": mustCreateProfile("28", "28", 0.3, 0.7),
	}
	if err := pricingRepo.LoadProfiles(profiles); err != nil {
		panic(err)
	}

	return inventoryRepo, catalog, pricingRepo
}

// BuildBikeShopTestData builds a workshop-sized scenario: ten component
// stocks shared across four variants, one per category, with the mountain
// and crossover builds flagged premium. Pricing profiles use the standard
// markup tiers over component cost.
func BuildBikeShopTestData() (*memory.InventoryRepository, *memory.VariantCatalog, *memory.PricingRepository) {
	inventoryRepo := memory.NewInventoryRepository()
	catalog := memory.NewVariantCatalog()
	pricingRepo := memory.NewPricingRepository()

	components := []*entities.Component{
		mustCreateComponent("C_FRAME_AL", "Aluminum Frame", 25, "150"),
		mustCreateComponent("C_FRAME_CR", "Carbon Frame", 8, "400"),
		mustCreateComponent("C_WHEEL_26", "26in Wheel", 60, "35"),
		mustCreateComponent("C_WHEEL_700", "700c Wheel", 40, "45"),
		mustCreateComponent("C_BRAKE_DISC", "Disc Brake Set", 30, "55"),
		mustCreateComponent("C_BRAKE_RIM", "Rim Brake Set", 50, "20"),
		mustCreateComponent("C_DRIVE_1X", "1x11 Drivetrain", 20, "210"),
		mustCreateComponent("C_DRIVE_3X", "3x7 Drivetrain", 45, "90"),
		mustCreateComponent("C_BAR_FLAT", "Flat Handlebar", 70, "15"),
		mustCreateComponent("C_BAR_BMX", "BMX Handlebar", 25, "18"),
	}
	if err := inventoryRepo.LoadComponents(components); err != nil {
		panic(err)
	}

	variants := []*entities.VariantDefinition{
		mustCreateVariant("V_MTB", "Trail Mountain Bike", entities.CategoryMountain,
			map[string]int64{
				"C_FRAME_AL": 1, "C_WHEEL_26": 2, "C_BRAKE_DISC": 1,
				"C_DRIVE_1X": 1, "C_BAR_FLAT": 1,
			}, 4.5, "620", true, 0),
		mustCreateVariant("V_CITY", "City Commuter", entities.CategoryCity,
			map[string]int64{
				"C_FRAME_AL": 1, "C_WHEEL_700": 2, "C_BRAKE_RIM": 1,
				"C_DRIVE_3X": 1, "C_BAR_FLAT": 1,
			}, 3.0, "450", false, 0),
		mustCreateVariant("V_BMX", "Street BMX", entities.CategoryBMX,
			map[string]int64{
				"C_FRAME_AL": 1, "C_WHEEL_26": 2, "C_BRAKE_RIM": 1, "C_BAR_BMX": 1,
			}, 2.0, "320", false, 0),
		mustCreateVariant("V_GRAVEL", "Gravel Crossover", entities.CategoryCrossover,
			map[string]int64{
				"C_FRAME_CR": 1, "C_WHEEL_700": 2, "C_BRAKE_DISC": 1,
				"C_DRIVE_1X": 1, "C_BAR_FLAT": 1,
			}, 5.0, "980", true, 0),
	}
	if err := catalog.LoadVariants(variants); err != nil {
		panic(err)
	}

	profiles := make(map[entities.VariantID]*entities.PricingProfile, len(variants))
	for _, variant := range variants {
		cost := decimal.Zero
		for componentID, quantity := range variant.BOM {
			component, err := inventoryRepo.GetComponent(componentID)
			if err != nil {
				panic(err)
			}
			cost = cost.Add(component.UnitCost.Mul(decimal.NewFromInt(int64(quantity))))
		}
		profile, err := entities.NewTierPricing(cost, entities.DefaultMarkup)
		if err != nil {
			panic(err)
		}
		profiles[variant.ID] = profile
	}
	if err := pricingRepo.LoadProfiles(profiles); err != nil {
		panic(err)
	}

	return inventoryRepo, catalog, pricingRepo
}
