package memory

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

func mustProfile(t *testing.T, fullPrice, discountPrice int64) *entities.PricingProfile {
	t.Helper()
	profile, err := entities.NewPricingProfile(
		decimal.NewFromInt(fullPrice), decimal.NewFromInt(discountPrice),
		entities.DefaultFullProbability, entities.DefaultDiscountProbability,
		entities.DefaultSpread, entities.DefaultSpread)
	if err != nil {
		t.Fatalf("Failed to create pricing profile: %v", err)
	}
	return profile
}

func TestPricingRepository_LoadAndGet(t *testing.T) {
	repo := NewPricingRepository()

	profiles := map[entities.VariantID]*entities.PricingProfile{
		"V_MTB":  mustProfile(t, 800, 720),
		"V_CITY": mustProfile(t, 600, 540),
	}
	if err := repo.LoadProfiles(profiles); err != nil {
		t.Fatalf("Failed to load profiles: %v", err)
	}

	profile, err := repo.GetProfile("V_MTB")
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}
	if !profile.FullPrice.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected full price 800, got %s", profile.FullPrice)
	}
}

func TestPricingRepository_GetProfile_NotFound(t *testing.T) {
	repo := NewPricingRepository()

	_, err := repo.GetProfile("V_GHOST")
	if err == nil {
		t.Fatal("Expected error for missing profile, got none")
	}
	if !strings.Contains(err.Error(), "pricing profile not found") {
		t.Errorf("Expected error message to contain 'pricing profile not found', got: %v", err)
	}
}

func TestPricingRepository_AddProfile_Duplicate(t *testing.T) {
	repo := NewPricingRepository()

	if err := repo.AddProfile("V_MTB", mustProfile(t, 800, 720)); err != nil {
		t.Fatalf("Failed to add profile: %v", err)
	}

	err := repo.AddProfile("V_MTB", mustProfile(t, 900, 810))
	if err == nil {
		t.Fatal("Expected error when adding duplicate profile, got none")
	}
	if !strings.Contains(err.Error(), "duplicate pricing profile") {
		t.Errorf("Expected error message to contain 'duplicate pricing profile', got: %v", err)
	}
}
