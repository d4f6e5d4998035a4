// Package scenario loads complete planning scenarios from YAML files:
// component inventory, variant catalog, pricing, weight configurations,
// and sweep controls in one document.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/services"
	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/memory"
)

// Scenario is the validated, entity-level form of a scenario file
type Scenario struct {
	Name       string
	Components []*entities.Component
	Variants   []*entities.VariantDefinition
	Profiles   map[entities.VariantID]*entities.PricingProfile
	Weights    []entities.WeightConfig

	PriceStdDevs     []float64
	MaxPremiumShare  float64
	MinStandardShare float64

	TimeLimit time.Duration
	Workers   int
}

// Repositories materializes fresh in-memory repositories loaded with the
// scenario's data
func (s *Scenario) Repositories() (*memory.InventoryRepository, *memory.VariantCatalog, *memory.PricingRepository, error) {
	inventory := memory.NewInventoryRepository()
	if err := inventory.LoadComponents(s.Components); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load components: %w", err)
	}
	catalog := memory.NewVariantCatalog()
	if err := catalog.LoadVariants(s.Variants); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load variants: %w", err)
	}
	pricing := memory.NewPricingRepository()
	if err := pricing.LoadProfiles(s.Profiles); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load pricing profiles: %w", err)
	}
	return inventory, catalog, pricing, nil
}

// File schema. Prices are decimal strings; yaml also accepts bare numbers
// for them.
type document struct {
	Name       string                  `yaml:"name"`
	Components []componentEntry        `yaml:"components"`
	Variants   []variantEntry          `yaml:"variants"`
	Pricing    pricingSection          `yaml:"pricing"`
	Weights    []entities.WeightConfig `yaml:"weights"`
	Sweep      sweepSection            `yaml:"sweep"`
	Solve      solveSection            `yaml:"solve"`
}

type componentEntry struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Available int64  `yaml:"available"`
	UnitCost  string `yaml:"unit_cost"`
}

type variantEntry struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name"`
	Category       string           `yaml:"category"`
	BOM            map[string]int64 `yaml:"bom"`
	ProductionTime float64          `yaml:"production_time"`
	BasePrice      string           `yaml:"base_price"`
	Premium        bool             `yaml:"premium"`
	MaxUnits       int64            `yaml:"max_units"`
}

type pricingSection struct {
	Markup   float64                 `yaml:"markup"`
	Profiles map[string]profileEntry `yaml:"profiles"`
}

type profileEntry struct {
	FullPrice           string  `yaml:"full_price"`
	DiscountPrice       string  `yaml:"discount_price"`
	FullProbability     float64 `yaml:"full_probability"`
	DiscountProbability float64 `yaml:"discount_probability"`
	FullSpread          float64 `yaml:"full_spread"`
	DiscountSpread      float64 `yaml:"discount_spread"`
}

type sweepSection struct {
	PriceStdDevs     []float64 `yaml:"price_std_devs"`
	MaxPremiumShare  float64   `yaml:"max_premium_share"`
	MinStandardShare float64   `yaml:"min_standard_share"`
}

type solveSection struct {
	TimeLimit string `yaml:"time_limit"`
	Workers   int    `yaml:"workers"`
}

// Loader reads scenario files
type Loader struct{}

// NewLoader creates a new scenario loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and validates a scenario file. Unknown keys are rejected.
// Variants without an explicit pricing profile get one derived from their
// base price, or from component cost and the scenario markup when no base
// price is set.
func (l *Loader) Load(filename string) (*Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", filename, err)
	}
	return l.Parse(data)
}

// Parse validates a scenario document held in memory
func (l *Loader) Parse(data []byte) (*Scenario, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	if len(doc.Components) == 0 {
		return nil, fmt.Errorf("scenario must define at least one component")
	}
	if len(doc.Variants) == 0 {
		return nil, fmt.Errorf("scenario must define at least one variant")
	}
	if len(doc.Weights) == 0 {
		return nil, fmt.Errorf("scenario must define at least one weight configuration")
	}

	scenario := &Scenario{
		Name:             doc.Name,
		PriceStdDevs:     doc.Sweep.PriceStdDevs,
		MaxPremiumShare:  doc.Sweep.MaxPremiumShare,
		MinStandardShare: doc.Sweep.MinStandardShare,
		Workers:          doc.Solve.Workers,
	}

	for i, entry := range doc.Components {
		component, err := parseComponent(entry)
		if err != nil {
			return nil, fmt.Errorf("component %d (%s): %w", i+1, entry.ID, err)
		}
		scenario.Components = append(scenario.Components, component)
	}

	for i, entry := range doc.Variants {
		variant, err := parseVariant(entry)
		if err != nil {
			return nil, fmt.Errorf("variant %d (%s): %w", i+1, entry.ID, err)
		}
		scenario.Variants = append(scenario.Variants, variant)
	}

	for i, config := range doc.Weights {
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("weight configuration %d: %w", i+1, err)
		}
		scenario.Weights = append(scenario.Weights, config)
	}

	profiles, err := buildProfiles(doc, scenario)
	if err != nil {
		return nil, err
	}
	scenario.Profiles = profiles

	if doc.Solve.TimeLimit != "" {
		limit, err := time.ParseDuration(doc.Solve.TimeLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid solve time_limit %q: %w", doc.Solve.TimeLimit, err)
		}
		scenario.TimeLimit = limit
	}

	return scenario, nil
}

func parseComponent(entry componentEntry) (*entities.Component, error) {
	cost, err := parsePrice(entry.UnitCost)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_cost %q", entry.UnitCost)
	}
	return entities.NewComponent(
		entities.ComponentID(entry.ID), entry.Name, entities.Quantity(entry.Available), cost)
}

func parseVariant(entry variantEntry) (*entities.VariantDefinition, error) {
	category, err := entities.ParseVariantCategory(entry.Category)
	if err != nil {
		return nil, err
	}

	basePrice, err := parsePrice(entry.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid base_price %q", entry.BasePrice)
	}

	bom := make(map[entities.ComponentID]entities.Quantity, len(entry.BOM))
	for componentID, quantity := range entry.BOM {
		bom[entities.ComponentID(componentID)] = entities.Quantity(quantity)
	}

	return entities.NewVariantDefinition(
		entities.VariantID(entry.ID),
		entry.Name,
		category,
		bom,
		entry.ProductionTime,
		basePrice,
		entry.Premium,
		entities.Quantity(entry.MaxUnits),
	)
}

// buildProfiles pairs every variant with a pricing profile: explicit
// profiles win, then base-price tiers, then markup over component cost.
func buildProfiles(doc document, scenario *Scenario) (map[entities.VariantID]*entities.PricingProfile, error) {
	markup := doc.Pricing.Markup
	if markup == 0 {
		markup = entities.DefaultMarkup
	}

	// The markup fallback costs each BOM against the scenario's own
	// components; an unknown reference is a typed BOM error, never a
	// zero-cost profile.
	inventory := memory.NewInventoryRepository()
	if err := inventory.LoadComponents(scenario.Components); err != nil {
		return nil, fmt.Errorf("failed to load components: %w", err)
	}

	profiles := make(map[entities.VariantID]*entities.PricingProfile, len(scenario.Variants))
	for _, variant := range scenario.Variants {
		if entry, ok := doc.Pricing.Profiles[string(variant.ID)]; ok {
			profile, err := parseProfile(entry)
			if err != nil {
				return nil, fmt.Errorf("pricing profile for %s: %w", variant.ID, err)
			}
			profiles[variant.ID] = profile
			continue
		}

		profile, err := deriveProfile(variant, inventory, markup)
		if err != nil {
			return nil, err
		}
		profiles[variant.ID] = profile
	}

	for id := range doc.Pricing.Profiles {
		if _, ok := profiles[entities.VariantID(id)]; !ok {
			return nil, fmt.Errorf("pricing profile for unknown variant: %s", id)
		}
	}

	return profiles, nil
}

func parseProfile(entry profileEntry) (*entities.PricingProfile, error) {
	fullPrice, err := parsePrice(entry.FullPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid full_price %q", entry.FullPrice)
	}
	discountPrice, err := parsePrice(entry.DiscountPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid discount_price %q", entry.DiscountPrice)
	}
	return entities.NewPricingProfile(
		fullPrice, discountPrice,
		entry.FullProbability, entry.DiscountProbability,
		entry.FullSpread, entry.DiscountSpread,
	)
}

func deriveProfile(
	variant *entities.VariantDefinition,
	inventory *memory.InventoryRepository,
	markup float64,
) (*entities.PricingProfile, error) {
	if variant.BasePrice.IsPositive() {
		discount := variant.BasePrice.Mul(decimal.NewFromFloat(entities.DefaultDiscountFactor))
		return entities.NewPricingProfile(
			variant.BasePrice, discount,
			entities.DefaultFullProbability, entities.DefaultDiscountProbability,
			entities.DefaultSpread, entities.DefaultSpread,
		)
	}

	cost, err := services.VariantCost(variant, inventory)
	if err != nil {
		var unknown *entities.UnknownComponentError
		if errors.As(err, &unknown) {
			return nil, &entities.InvalidBOMError{
				VariantID:   variant.ID,
				ComponentID: unknown.ComponentID,
				Err:         unknown,
			}
		}
		return nil, err
	}
	return entities.NewTierPricing(cost, markup)
}

// parsePrice reads a decimal money value. Empty means zero.
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
