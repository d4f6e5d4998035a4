package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

func TestVariantCost(t *testing.T) {
	inventory := testInventory(t)

	// 2 * 150 + 1 * 40 = 340
	variant := mustVariant(t, "V_TANDEM", entities.CategoryCity,
		map[entities.ComponentID]entities.Quantity{"C_FRAME": 2, "C_WHEEL": 1})

	cost, err := VariantCost(variant, inventory)
	if err != nil {
		t.Fatalf("Expected costing to succeed: %v", err)
	}
	if !cost.Equal(decimal.NewFromInt(340)) {
		t.Errorf("Expected cost 340, got %s", cost)
	}
}

func TestVariantCost_UnknownComponent(t *testing.T) {
	inventory := testInventory(t)

	variant := mustVariant(t, "V_BROKEN", entities.CategoryBMX,
		map[entities.ComponentID]entities.Quantity{"C_NOWHERE": 1})

	if _, err := VariantCost(variant, inventory); err == nil {
		t.Error("Expected error for unknown component")
	}
}
