package entities

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ProbabilityTolerance is the allowed deviation of a profile's tier
// probability sum from 1.
const ProbabilityTolerance = 1e-6

// Default tier parameters for markup-derived pricing.
const (
	DefaultMarkup              = 0.2
	DefaultDiscountFactor      = 0.9
	DefaultFullProbability     = 0.3
	DefaultDiscountProbability = 0.7
	DefaultSpread              = 0.05
)

// PricingProfile models the tiered sales outcome for one variant: a
// full-price sale or a discounted sale, each with an occurrence
// probability. The two probabilities must sum to 1 within
// ProbabilityTolerance. The spread fields parameterize sensitivity
// analysis: ProfileAt derives a profile whose tier probabilities are
// shifted by a standard-deviation multiple of their spread before
// renormalization.
type PricingProfile struct {
	FullPrice           decimal.Decimal
	DiscountPrice       decimal.Decimal
	FullProbability     float64
	DiscountProbability float64
	FullSpread          float64
	DiscountSpread      float64
}

// NewPricingProfile creates a new pricing profile with validation
func NewPricingProfile(
	fullPrice, discountPrice decimal.Decimal,
	fullProbability, discountProbability float64,
	fullSpread, discountSpread float64,
) (*PricingProfile, error) {
	if fullPrice.IsNegative() {
		return nil, fmt.Errorf("full price cannot be negative, got %s", fullPrice)
	}
	if discountPrice.IsNegative() {
		return nil, fmt.Errorf("discount price cannot be negative, got %s", discountPrice)
	}
	if fullSpread < 0 {
		return nil, fmt.Errorf("full spread cannot be negative, got %g", fullSpread)
	}
	if discountSpread < 0 {
		return nil, fmt.Errorf("discount spread cannot be negative, got %g", discountSpread)
	}

	profile := &PricingProfile{
		FullPrice:           fullPrice,
		DiscountPrice:       discountPrice,
		FullProbability:     fullProbability,
		DiscountProbability: discountProbability,
		FullSpread:          fullSpread,
		DiscountSpread:      discountSpread,
	}
	if err := profile.ValidateProbabilities(); err != nil {
		return nil, err
	}
	return profile, nil
}

// NewTierPricing derives a profile from component cost using the
// standard markup and discount tiers. A markup of 0.2 prices the full
// tier 20% above cost; the discount tier sells at 90% of full price.
func NewTierPricing(cost decimal.Decimal, markup float64) (*PricingProfile, error) {
	if cost.IsNegative() {
		return nil, fmt.Errorf("cost cannot be negative, got %s", cost)
	}
	if markup < 0 {
		return nil, fmt.Errorf("markup cannot be negative, got %g", markup)
	}

	fullPrice := cost.Mul(decimal.NewFromFloat(1 + markup))
	discountPrice := fullPrice.Mul(decimal.NewFromFloat(DefaultDiscountFactor))
	return NewPricingProfile(
		fullPrice,
		discountPrice,
		DefaultFullProbability,
		DefaultDiscountProbability,
		DefaultSpread,
		DefaultSpread,
	)
}

// ValidateProbabilities checks that the tier probabilities form a valid
// distribution summing to 1 within ProbabilityTolerance.
func (p *PricingProfile) ValidateProbabilities() error {
	if p.FullProbability < 0 || p.FullProbability > 1 || math.IsNaN(p.FullProbability) {
		return &InvalidProbabilityError{
			Reason: "full-price probability must be within [0, 1]",
			Sum:    p.FullProbability,
		}
	}
	if p.DiscountProbability < 0 || p.DiscountProbability > 1 || math.IsNaN(p.DiscountProbability) {
		return &InvalidProbabilityError{
			Reason: "discount probability must be within [0, 1]",
			Sum:    p.DiscountProbability,
		}
	}
	sum := p.FullProbability + p.DiscountProbability
	if math.Abs(sum-1) > ProbabilityTolerance {
		return &InvalidProbabilityError{
			Reason: "tier probabilities must sum to 1",
			Sum:    sum,
		}
	}
	return nil
}

// WASP returns the weighted average selling price across both tiers:
// full_price*p_full + discount_price*p_discount.
func (p *PricingProfile) WASP() decimal.Decimal {
	full := p.FullPrice.Mul(decimal.NewFromFloat(p.FullProbability))
	discounted := p.DiscountPrice.Mul(decimal.NewFromFloat(p.DiscountProbability))
	return full.Add(discounted)
}

// ProfileAt returns a copy of the profile with tier probabilities
// regenerated at the given standard-deviation multiple: each tier
// probability becomes max(0, base + stdDev*spread) and the pair is
// renormalized to sum to 1. ProfileAt(0) reproduces the base
// probabilities. The derivation is a pure function of the receiver and
// the argument.
func (p *PricingProfile) ProfileAt(stdDev float64) (*PricingProfile, error) {
	adjustedFull := p.FullProbability + stdDev*p.FullSpread
	if adjustedFull < 0 {
		adjustedFull = 0
	}
	adjustedDiscount := p.DiscountProbability + stdDev*p.DiscountSpread
	if adjustedDiscount < 0 {
		adjustedDiscount = 0
	}

	total := adjustedFull + adjustedDiscount
	if total <= 0 || math.IsNaN(total) {
		return nil, &InvalidProbabilityError{
			Reason: fmt.Sprintf("adjusted tier probabilities collapsed to zero at stdDev %g", stdDev),
			Sum:    total,
		}
	}

	derived := *p
	derived.FullProbability = adjustedFull / total
	derived.DiscountProbability = adjustedDiscount / total
	return &derived, nil
}

// InvalidProbabilityError reports tier probabilities that do not form a
// valid sales distribution.
type InvalidProbabilityError struct {
	Reason string
	Sum    float64
}

func (e *InvalidProbabilityError) Error() string {
	return fmt.Sprintf("%s (got %g)", e.Reason, e.Sum)
}
