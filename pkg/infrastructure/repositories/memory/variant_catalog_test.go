package memory

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

func mustVariant(t *testing.T, id entities.VariantID, category entities.VariantCategory) *entities.VariantDefinition {
	t.Helper()
	variant, err := entities.NewVariantDefinition(
		id, string(id), category,
		map[entities.ComponentID]entities.Quantity{"C_FRAME": 1},
		1.5, decimal.NewFromInt(500), false, 0)
	if err != nil {
		t.Fatalf("Failed to create variant %s: %v", id, err)
	}
	return variant
}

func TestVariantCatalog_LoadAndGet(t *testing.T) {
	catalog := NewVariantCatalog()

	variants := []*entities.VariantDefinition{
		mustVariant(t, "V_MTB", entities.CategoryMountain),
		mustVariant(t, "V_CITY", entities.CategoryCity),
	}
	if err := catalog.LoadVariants(variants); err != nil {
		t.Fatalf("Failed to load variants: %v", err)
	}

	mtb, err := catalog.GetVariant("V_MTB")
	if err != nil {
		t.Fatalf("Failed to get variant: %v", err)
	}
	if mtb.Category != entities.CategoryMountain {
		t.Errorf("Expected mountain category, got %v", mtb.Category)
	}
}

func TestVariantCatalog_GetVariant_NotFound(t *testing.T) {
	catalog := NewVariantCatalog()

	_, err := catalog.GetVariant("V_GHOST")
	if err == nil {
		t.Fatal("Expected error for unknown variant, got none")
	}
	if !strings.Contains(err.Error(), "variant not found") {
		t.Errorf("Expected error message to contain 'variant not found', got: %v", err)
	}
}

func TestVariantCatalog_LoadVariants_Duplicate(t *testing.T) {
	catalog := NewVariantCatalog()

	variants := []*entities.VariantDefinition{
		mustVariant(t, "V_MTB", entities.CategoryMountain),
		mustVariant(t, "V_MTB", entities.CategoryBMX),
	}

	err := catalog.LoadVariants(variants)
	if err == nil {
		t.Fatal("Expected error when loading duplicate variant IDs, got none")
	}
	if !strings.Contains(err.Error(), "duplicate variant ID") {
		t.Errorf("Expected error message to contain 'duplicate variant ID', got: %v", err)
	}
}

func TestVariantCatalog_GetAllVariants_Sorted(t *testing.T) {
	catalog := NewVariantCatalog()

	variants := []*entities.VariantDefinition{
		mustVariant(t, "V_MTB", entities.CategoryMountain),
		mustVariant(t, "V_BMX", entities.CategoryBMX),
		mustVariant(t, "V_CITY", entities.CategoryCity),
	}
	if err := catalog.LoadVariants(variants); err != nil {
		t.Fatalf("Failed to load variants: %v", err)
	}

	all, err := catalog.GetAllVariants()
	if err != nil {
		t.Fatalf("Failed to get all variants: %v", err)
	}

	wantOrder := []entities.VariantID{"V_BMX", "V_CITY", "V_MTB"}
	if len(all) != len(wantOrder) {
		t.Fatalf("Expected %d variants, got %d", len(wantOrder), len(all))
	}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("Expected variant %s at index %d, got %s", want, i, all[i].ID)
		}
	}
}
