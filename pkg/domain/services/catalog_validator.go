package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// CatalogValidator cross-checks variant definitions against the component
// inventory before any solve runs
type CatalogValidator struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// ValidationResult collects every malformed BOM entry found in a catalog
type ValidationResult struct {
	Errors []error
}

// Valid reports whether the catalog passed validation
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err joins every validation error into one, or nil when the catalog is
// valid. The joined error still matches each entry under errors.As.
func (r *ValidationResult) Err() error {
	return errors.Join(r.Errors...)
}

// ValidateCatalog checks that every BOM entry of every variant references a
// known component with a positive quantity. Malformed entries are collected
// so callers can report all of them at once; infrastructure failures abort
// validation immediately.
func (v *CatalogValidator) ValidateCatalog(
	variants []*entities.VariantDefinition,
	inventory repositories.InventoryRepository,
) (*ValidationResult, error) {
	result := &ValidationResult{Errors: make([]error, 0)}

	sorted := make([]*entities.VariantDefinition, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, variant := range sorted {
		for _, componentID := range variant.Components() {
			if quantity := variant.BOM[componentID]; quantity <= 0 {
				result.Errors = append(result.Errors, &entities.InvalidBOMError{
					VariantID:   variant.ID,
					ComponentID: componentID,
					Err:         fmt.Errorf("quantity must be positive, got %d", quantity),
				})
				continue
			}

			if _, err := inventory.GetComponent(componentID); err != nil {
				var unknown *entities.UnknownComponentError
				if !errors.As(err, &unknown) {
					return nil, fmt.Errorf("failed to look up component %s: %w", componentID, err)
				}
				result.Errors = append(result.Errors, &entities.InvalidBOMError{
					VariantID:   variant.ID,
					ComponentID: componentID,
					Err:         err,
				})
			}
		}
	}

	return result, nil
}
