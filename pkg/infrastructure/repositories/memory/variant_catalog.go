package memory

import (
	"fmt"
	"sort"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// VariantCatalog provides in-memory variant definition storage
type VariantCatalog struct {
	variants map[entities.VariantID]*entities.VariantDefinition
}

// NewVariantCatalog creates a new in-memory variant catalog
func NewVariantCatalog() *VariantCatalog {
	return &VariantCatalog{
		variants: make(map[entities.VariantID]*entities.VariantDefinition),
	}
}

// Verify interface compliance
var _ repositories.VariantCatalog = (*VariantCatalog)(nil)

// LoadVariants loads variant definitions into the catalog
func (c *VariantCatalog) LoadVariants(variants []*entities.VariantDefinition) error {
	for _, variant := range variants {
		if err := c.AddVariant(variant); err != nil {
			return err
		}
	}
	return nil
}

// AddVariant adds a single variant definition to the catalog
func (c *VariantCatalog) AddVariant(variant *entities.VariantDefinition) error {
	if _, exists := c.variants[variant.ID]; exists {
		return fmt.Errorf("duplicate variant ID: %s", variant.ID)
	}
	c.variants[variant.ID] = variant
	return nil
}

// GetVariant returns the variant definition for an ID
func (c *VariantCatalog) GetVariant(id entities.VariantID) (*entities.VariantDefinition, error) {
	variant, exists := c.variants[id]
	if !exists {
		return nil, fmt.Errorf("variant not found: %s", id)
	}
	return variant, nil
}

// GetAllVariants returns all variant definitions sorted by ID
func (c *VariantCatalog) GetAllVariants() ([]*entities.VariantDefinition, error) {
	variants := make([]*entities.VariantDefinition, 0, len(c.variants))
	for _, variant := range c.variants {
		variants = append(variants, variant)
	}
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].ID < variants[j].ID
	})
	return variants, nil
}
