package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// VariantID uniquely identifies a bicycle variant in the catalog
type VariantID string

// VariantCategory classifies a variant as one of the base bicycle types
// or as a crossover drawing components from multiple base types.
type VariantCategory int

const (
	CategoryMountain VariantCategory = iota
	CategoryCity
	CategoryBMX
	CategoryCrossover
)

func (c VariantCategory) String() string {
	switch c {
	case CategoryMountain:
		return "Mountain"
	case CategoryCity:
		return "City"
	case CategoryBMX:
		return "BMX"
	case CategoryCrossover:
		return "Crossover"
	default:
		return "Unknown"
	}
}

// ParseVariantCategory converts a category name into a VariantCategory
func ParseVariantCategory(s string) (VariantCategory, error) {
	switch s {
	case "Mountain", "mountain":
		return CategoryMountain, nil
	case "City", "city":
		return CategoryCity, nil
	case "BMX", "bmx":
		return CategoryBMX, nil
	case "Crossover", "crossover":
		return CategoryCrossover, nil
	default:
		return 0, fmt.Errorf("unknown variant category: %s", s)
	}
}

// VariantDefinition describes one producible bicycle variant and its
// bill of materials. Crossover variants are ordinary entries whose BOMs
// overlap the base types; contention for shared components is resolved
// by the inventory constraints during formulation, never by the catalog.
type VariantDefinition struct {
	ID             VariantID
	Name           string
	Category       VariantCategory
	BOM            map[ComponentID]Quantity
	ProductionTime float64 // assembly hours per unit
	BasePrice      decimal.Decimal
	Premium        bool
	MaxUnits       Quantity // optional production cap, 0 means uncapped
}

// NewVariantDefinition creates a new variant definition with validation
func NewVariantDefinition(
	id VariantID,
	name string,
	category VariantCategory,
	bom map[ComponentID]Quantity,
	productionTime float64,
	basePrice decimal.Decimal,
	premium bool,
	maxUnits Quantity,
) (*VariantDefinition, error) {
	if id == "" {
		return nil, fmt.Errorf("variant ID cannot be empty")
	}
	if len(bom) == 0 {
		return nil, fmt.Errorf("variant %s must have at least one BOM entry", id)
	}
	for componentID, qty := range bom {
		if componentID == "" {
			return nil, fmt.Errorf("variant %s has a BOM entry with an empty component ID", id)
		}
		if qty <= 0 {
			return nil, fmt.Errorf("variant %s requires a positive quantity of %s, got %d", id, componentID, qty)
		}
	}
	if productionTime < 0 {
		return nil, fmt.Errorf("production time cannot be negative, got %g", productionTime)
	}
	if basePrice.IsNegative() {
		return nil, fmt.Errorf("base price cannot be negative, got %s", basePrice)
	}
	if maxUnits < 0 {
		return nil, fmt.Errorf("max units cannot be negative, got %d", maxUnits)
	}

	bomCopy := make(map[ComponentID]Quantity, len(bom))
	for componentID, qty := range bom {
		bomCopy[componentID] = qty
	}

	return &VariantDefinition{
		ID:             id,
		Name:           name,
		Category:       category,
		BOM:            bomCopy,
		ProductionTime: productionTime,
		BasePrice:      basePrice,
		Premium:        premium,
		MaxUnits:       maxUnits,
	}, nil
}

// Components returns the BOM's component identifiers in sorted order
func (v *VariantDefinition) Components() []ComponentID {
	ids := make([]ComponentID, 0, len(v.BOM))
	for componentID := range v.BOM {
		ids = append(ids, componentID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InvalidBOMError reports a BOM entry that references a component
// missing from inventory.
type InvalidBOMError struct {
	VariantID   VariantID
	ComponentID ComponentID
	Err         error
}

func (e *InvalidBOMError) Error() string {
	return fmt.Sprintf("variant %s has an invalid BOM entry for %s: %v", e.VariantID, e.ComponentID, e.Err)
}

func (e *InvalidBOMError) Unwrap() error {
	return e.Err
}
