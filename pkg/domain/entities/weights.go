package entities

import (
	"fmt"
	"math"
)

// WeightConfig holds the scalarization coefficients for the four
// objective terms. All coefficients must be non-negative and at least
// one must be positive. Profit and PremiumMix reward their terms (a
// positive PremiumMix pushes toward a larger premium share);
// InventoryWaste and ProductionTime penalize theirs. Fields are exported
// so sweep requests can carry configurations that validation then
// rejects per combination.
type WeightConfig struct {
	Profit         float64 `json:"profit" yaml:"profit"`
	InventoryWaste float64 `json:"inventory_waste" yaml:"inventory_waste"`
	ProductionTime float64 `json:"production_time" yaml:"production_time"`
	PremiumMix     float64 `json:"premium_mix" yaml:"premium_mix"`
}

// NewWeightConfig creates a new weight configuration with validation
func NewWeightConfig(profit, inventoryWaste, productionTime, premiumMix float64) (*WeightConfig, error) {
	w := &WeightConfig{
		Profit:         profit,
		InventoryWaste: inventoryWaste,
		ProductionTime: productionTime,
		PremiumMix:     premiumMix,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks that every coefficient is non-negative and finite and
// that the configuration is not degenerate (all coefficients zero).
func (w *WeightConfig) Validate() error {
	coefficients := []struct {
		name  string
		value float64
	}{
		{"profit", w.Profit},
		{"inventory_waste", w.InventoryWaste},
		{"production_time", w.ProductionTime},
		{"premium_mix", w.PremiumMix},
	}
	for _, c := range coefficients {
		if c.value < 0 || math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &InvalidWeightError{
				Weight: c.name,
				Reason: fmt.Sprintf("must be non-negative and finite, got %g", c.value),
			}
		}
	}
	if w.Sum() == 0 {
		return &InvalidWeightError{Reason: "at least one weight must be positive"}
	}
	return nil
}

// Sum returns the total of all four coefficients
func (w *WeightConfig) Sum() float64 {
	return w.Profit + w.InventoryWaste + w.ProductionTime + w.PremiumMix
}

// Normalized returns a copy scaled so the coefficients sum to 1. Only
// the relative magnitudes of the weights determine trade-offs.
func (w *WeightConfig) Normalized() WeightConfig {
	sum := w.Sum()
	if sum == 0 {
		return *w
	}
	return WeightConfig{
		Profit:         w.Profit / sum,
		InventoryWaste: w.InventoryWaste / sum,
		ProductionTime: w.ProductionTime / sum,
		PremiumMix:     w.PremiumMix / sum,
	}
}

// Label renders a compact tag for reports
func (w *WeightConfig) Label() string {
	return fmt.Sprintf("p=%g w=%g t=%g m=%g", w.Profit, w.InventoryWaste, w.ProductionTime, w.PremiumMix)
}

// InvalidWeightError reports a weight configuration that cannot drive
// the objective.
type InvalidWeightError struct {
	Weight string
	Reason string
}

func (e *InvalidWeightError) Error() string {
	if e.Weight != "" {
		return fmt.Sprintf("invalid weight %s: %s", e.Weight, e.Reason)
	}
	return fmt.Sprintf("invalid weight configuration: %s", e.Reason)
}
