package repositories

import "github.com/spokeworks/veloplan/pkg/domain/entities"

// InventoryRepository provides access to component stock data.
// Implementations are read-only from the solver's perspective: nothing
// in a solve mutates availability.
type InventoryRepository interface {
	GetComponent(id entities.ComponentID) (*entities.Component, error)
	GetAllComponents() ([]*entities.Component, error)
	LoadComponents(components []*entities.Component) error
}
