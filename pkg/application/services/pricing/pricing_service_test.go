package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := memory.NewPricingRepository()

	profile, err := entities.NewPricingProfile(
		decimal.NewFromInt(200), decimal.NewFromInt(180), 0.25, 0.75, 0.05, 0.1)
	if err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	if err := repo.AddProfile("V_MTB", profile); err != nil {
		t.Fatalf("Failed to add profile: %v", err)
	}

	// Loaded unvalidated so service-level probability checks can be observed
	if err := repo.AddProfile("V_BAD", &entities.PricingProfile{
		FullPrice:           decimal.NewFromInt(100),
		DiscountPrice:       decimal.NewFromInt(90),
		FullProbability:     0.4,
		DiscountProbability: 0.4,
	}); err != nil {
		t.Fatalf("Failed to add profile: %v", err)
	}

	return NewService(repo)
}

func TestService_WASP(t *testing.T) {
	service := newTestService(t)

	// 200*0.25 + 180*0.75 = 185
	wasp, err := service.WASP("V_MTB")
	if err != nil {
		t.Fatalf("Failed to compute WASP: %v", err)
	}
	if !wasp.Equal(decimal.NewFromInt(185)) {
		t.Errorf("Expected WASP 185, got %s", wasp)
	}

	if _, err := service.WASP("V_GHOST"); err == nil {
		t.Error("Expected error for variant without a profile")
	}
}

func TestService_WASP_InvalidProbabilities(t *testing.T) {
	service := newTestService(t)

	_, err := service.WASP("V_BAD")
	if err == nil {
		t.Fatal("Expected error for probabilities summing to 0.8")
	}

	var invalidProbability *entities.InvalidProbabilityError
	if !errors.As(err, &invalidProbability) {
		t.Errorf("Expected InvalidProbabilityError, got %T", err)
	}
}

func TestService_ProfilesAt(t *testing.T) {
	service := newTestService(t)

	variant, err := entities.NewVariantDefinition(
		"V_MTB", "Trail Mountain Bike", entities.CategoryMountain,
		map[entities.ComponentID]entities.Quantity{"C_FRAME": 1},
		4.5, decimal.NewFromInt(600), true, 0)
	if err != nil {
		t.Fatalf("Failed to create variant: %v", err)
	}

	profiles, err := service.ProfilesAt([]*entities.VariantDefinition{variant}, 0)
	if err != nil {
		t.Fatalf("Failed to derive profiles: %v", err)
	}
	profile, ok := profiles["V_MTB"]
	if !ok {
		t.Fatal("Expected a derived profile for V_MTB")
	}
	if profile.FullProbability != 0.25 || profile.DiscountProbability != 0.75 {
		t.Errorf("Expected base probabilities at stdDev 0, got %g/%g",
			profile.FullProbability, profile.DiscountProbability)
	}
}

func TestService_SensitivitySweep(t *testing.T) {
	service := newTestService(t)

	stdDevs := []float64{-1, 0, 1}

	var profiles []*entities.PricingProfile
	for profile, err := range service.SensitivitySweep("V_MTB", stdDevs) {
		if err != nil {
			t.Fatalf("Unexpected sweep error: %v", err)
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) != len(stdDevs) {
		t.Fatalf("Expected %d profiles, got %d", len(stdDevs), len(profiles))
	}
	if profiles[1].FullProbability != 0.25 {
		t.Errorf("Expected base probability at stdDev 0, got %g", profiles[1].FullProbability)
	}
	for i, profile := range profiles {
		sum := profile.FullProbability + profile.DiscountProbability
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Expected probabilities at step %d to sum to 1, got %g", i, sum)
		}
	}
}

func TestService_SensitivitySweep_EmptyInput(t *testing.T) {
	service := newTestService(t)

	for profile, err := range service.SensitivitySweep("V_MTB", nil) {
		t.Fatalf("Expected no steps for empty input, got %v (err %v)", profile, err)
	}
}

func TestService_SensitivitySweep_RepeatedStep(t *testing.T) {
	service := newTestService(t)

	var profiles []*entities.PricingProfile
	for profile, err := range service.SensitivitySweep("V_MTB", []float64{0.5, 0.5}) {
		if err != nil {
			t.Fatalf("Unexpected sweep error: %v", err)
		}
		profiles = append(profiles, profile)
	}

	if len(profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].FullProbability != profiles[1].FullProbability {
		t.Errorf("Expected identical probabilities for the repeated step, got %g and %g",
			profiles[0].FullProbability, profiles[1].FullProbability)
	}
	if !profiles[0].FullPrice.Equal(profiles[1].FullPrice) {
		t.Errorf("Expected identical prices for the repeated step, got %s and %s",
			profiles[0].FullPrice, profiles[1].FullPrice)
	}
}

func TestService_SensitivitySweep_Restartable(t *testing.T) {
	service := newTestService(t)

	sweep := service.SensitivitySweep("V_MTB", []float64{-1, 0, 1})

	// First pass stops early
	count := 0
	for _, err := range sweep {
		if err != nil {
			t.Fatalf("Unexpected sweep error: %v", err)
		}
		count++
		break
	}
	if count != 1 {
		t.Fatalf("Expected a single step before break, got %d", count)
	}

	// Second pass sees the full sequence again
	count = 0
	for _, err := range sweep {
		if err != nil {
			t.Fatalf("Unexpected sweep error: %v", err)
		}
		count++
	}
	if count != 3 {
		t.Errorf("Expected 3 steps on restart, got %d", count)
	}
}

func TestService_SensitivitySweep_CollapsedStep(t *testing.T) {
	service := newTestService(t)

	// At stdDev -10 both adjusted tiers clamp to zero
	var errs []error
	var steps int
	for _, err := range service.SensitivitySweep("V_MTB", []float64{-10, 0}) {
		errs = append(errs, err)
		steps++
	}

	if steps != 2 {
		t.Fatalf("Expected 2 steps, got %d", steps)
	}
	if errs[0] == nil {
		t.Error("Expected error for the collapsed step")
	}
	if errs[1] != nil {
		t.Errorf("Expected the following step to still derive: %v", errs[1])
	}
}
