package repositories

import "github.com/spokeworks/veloplan/pkg/domain/entities"

// PricingRepository provides access to per-variant pricing profiles
type PricingRepository interface {
	GetProfile(id entities.VariantID) (*entities.PricingProfile, error)
	LoadProfiles(profiles map[entities.VariantID]*entities.PricingProfile) error
}
