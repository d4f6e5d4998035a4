package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ComponentID uniquely identifies a component in inventory
type ComponentID string

// Quantity represents a discrete count of components or assembled units
type Quantity int64

// Component represents one component type held in inventory. Available
// stock is a hard upper bound for the optimizer: formulations read it as
// a constraint bound and never mutate it.
type Component struct {
	ID        ComponentID
	Name      string
	Available Quantity
	UnitCost  decimal.Decimal
}

// NewComponent creates a new component with validation
func NewComponent(id ComponentID, name string, available Quantity, unitCost decimal.Decimal) (*Component, error) {
	if id == "" {
		return nil, fmt.Errorf("component ID cannot be empty")
	}
	if available < 0 {
		return nil, fmt.Errorf("available quantity cannot be negative, got %d", available)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("unit cost cannot be negative, got %s", unitCost)
	}

	return &Component{
		ID:        id,
		Name:      name,
		Available: available,
		UnitCost:  unitCost,
	}, nil
}

// UnknownComponentError reports a reference to a component identifier
// that does not exist in inventory.
type UnknownComponentError struct {
	ComponentID ComponentID
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component: %s", e.ComponentID)
}
