package repositories

import "github.com/spokeworks/veloplan/pkg/domain/entities"

// VariantCatalog provides access to bicycle variant definitions
type VariantCatalog interface {
	GetVariant(id entities.VariantID) (*entities.VariantDefinition, error)
	GetAllVariants() ([]*entities.VariantDefinition, error)
	LoadVariants(variants []*entities.VariantDefinition) error
}
