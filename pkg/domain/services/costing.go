package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// VariantCost sums component unit costs over a variant's bill of materials
func VariantCost(
	variant *entities.VariantDefinition,
	inventory repositories.InventoryRepository,
) (decimal.Decimal, error) {
	cost := decimal.Zero
	for _, componentID := range variant.Components() {
		component, err := inventory.GetComponent(componentID)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to cost variant %s: %w", variant.ID, err)
		}
		quantity := decimal.NewFromInt(int64(variant.BOM[componentID]))
		cost = cost.Add(component.UnitCost.Mul(quantity))
	}
	return cost, nil
}
