package memory

import (
	"fmt"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// PricingRepository provides in-memory pricing profile storage keyed by
// variant
type PricingRepository struct {
	profiles map[entities.VariantID]*entities.PricingProfile
}

// NewPricingRepository creates a new in-memory pricing repository
func NewPricingRepository() *PricingRepository {
	return &PricingRepository{
		profiles: make(map[entities.VariantID]*entities.PricingProfile),
	}
}

// Verify interface compliance
var _ repositories.PricingRepository = (*PricingRepository)(nil)

// LoadProfiles loads pricing profiles into the repository
func (r *PricingRepository) LoadProfiles(profiles map[entities.VariantID]*entities.PricingProfile) error {
	for id, profile := range profiles {
		if err := r.AddProfile(id, profile); err != nil {
			return err
		}
	}
	return nil
}

// AddProfile adds a single pricing profile to the repository
func (r *PricingRepository) AddProfile(id entities.VariantID, profile *entities.PricingProfile) error {
	if _, exists := r.profiles[id]; exists {
		return fmt.Errorf("duplicate pricing profile for variant: %s", id)
	}
	r.profiles[id] = profile
	return nil
}

// GetProfile returns the pricing profile for a variant
func (r *PricingRepository) GetProfile(id entities.VariantID) (*entities.PricingProfile, error) {
	profile, exists := r.profiles[id]
	if !exists {
		return nil, fmt.Errorf("pricing profile not found for variant: %s", id)
	}
	return profile, nil
}
