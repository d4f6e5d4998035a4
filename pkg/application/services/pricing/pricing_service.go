// Package pricing answers expected-price questions for variants: weighted
// average selling prices and probability profiles derived for price
// sensitivity analysis.
package pricing

import (
	"iter"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
)

// Service computes prices from the pricing catalog
type Service struct {
	pricing repositories.PricingRepository
}

// NewService creates a pricing service over the given catalog
func NewService(pricing repositories.PricingRepository) *Service {
	return &Service{pricing: pricing}
}

// WASP returns the weighted average selling price for a variant. Tier
// probabilities are validated on every call.
func (s *Service) WASP(id entities.VariantID) (decimal.Decimal, error) {
	profile, err := s.profile(id)
	if err != nil {
		return decimal.Zero, err
	}
	return profile.WASP(), nil
}

// ProfileAt returns the variant's profile with tier probabilities shifted
// by the given standard-deviation multiple and renormalized
func (s *Service) ProfileAt(id entities.VariantID, stdDev float64) (*entities.PricingProfile, error) {
	profile, err := s.profile(id)
	if err != nil {
		return nil, err
	}
	return profile.ProfileAt(stdDev)
}

// ProfilesAt derives the profile of every given variant at one
// standard-deviation multiple
func (s *Service) ProfilesAt(
	variants []*entities.VariantDefinition,
	stdDev float64,
) (map[entities.VariantID]*entities.PricingProfile, error) {
	profiles := make(map[entities.VariantID]*entities.PricingProfile, len(variants))
	for _, variant := range variants {
		profile, err := s.ProfileAt(variant.ID, stdDev)
		if err != nil {
			return nil, err
		}
		profiles[variant.ID] = profile
	}
	return profiles, nil
}

// SensitivitySweep lazily yields one derived profile per standard-deviation
// step, paired with the error for steps whose probabilities collapse. The
// sequence is finite, never blocks, and can be ranged over any number of
// times.
func (s *Service) SensitivitySweep(
	id entities.VariantID,
	stdDevs []float64,
) iter.Seq2[*entities.PricingProfile, error] {
	return func(yield func(*entities.PricingProfile, error) bool) {
		for _, stdDev := range stdDevs {
			if !yield(s.ProfileAt(id, stdDev)) {
				return
			}
		}
	}
}

func (s *Service) profile(id entities.VariantID) (*entities.PricingProfile, error) {
	profile, err := s.pricing.GetProfile(id)
	if err != nil {
		return nil, err
	}
	if err := profile.ValidateProbabilities(); err != nil {
		return nil, err
	}
	return profile, nil
}
