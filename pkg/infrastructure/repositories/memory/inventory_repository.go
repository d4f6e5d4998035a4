package memory

import (
	"fmt"
	"sort"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// InventoryRepository provides in-memory component stock storage. Stock is
// loaded once up front; solves only ever read it.
type InventoryRepository struct {
	components map[entities.ComponentID]*entities.Component
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		components: make(map[entities.ComponentID]*entities.Component),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadComponents loads components into the repository
func (r *InventoryRepository) LoadComponents(components []*entities.Component) error {
	for _, component := range components {
		if err := r.AddComponent(component); err != nil {
			return err
		}
	}
	return nil
}

// AddComponent adds a single component to the repository
func (r *InventoryRepository) AddComponent(component *entities.Component) error {
	if _, exists := r.components[component.ID]; exists {
		return fmt.Errorf("duplicate component ID: %s", component.ID)
	}
	r.components[component.ID] = component
	return nil
}

// GetComponent returns the component for an ID
func (r *InventoryRepository) GetComponent(id entities.ComponentID) (*entities.Component, error) {
	component, exists := r.components[id]
	if !exists {
		return nil, &entities.UnknownComponentError{ComponentID: id}
	}
	return component, nil
}

// GetAllComponents returns all components sorted by ID
func (r *InventoryRepository) GetAllComponents() ([]*entities.Component, error) {
	components := make([]*entities.Component, 0, len(r.components))
	for _, component := range r.components {
		components = append(components, component)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].ID < components[j].ID
	})
	return components, nil
}
