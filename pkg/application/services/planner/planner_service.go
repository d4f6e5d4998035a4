package planner

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/application/dto"
	"github.com/spokeworks/veloplan/pkg/application/services/pricing"
	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/repositories"
	"github.com/spokeworks/veloplan/pkg/domain/services"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
)

// Request describes one scenario solve
type Request struct {
	Weights     entities.WeightConfig
	PriceStdDev float64
	Options     Options
	Solve       solver.SolveOptions
}

// Service builds and solves production scenarios against a fixed inventory
// and catalog
type Service struct {
	inventory repositories.InventoryRepository
	catalog   repositories.VariantCatalog
	pricing   *pricing.Service
	backend   solver.Backend
	validator *services.CatalogValidator
}

// NewService creates a planner over the given data sources and backend
func NewService(
	inventory repositories.InventoryRepository,
	catalog repositories.VariantCatalog,
	pricingService *pricing.Service,
	backend solver.Backend,
) *Service {
	return &Service{
		inventory: inventory,
		catalog:   catalog,
		pricing:   pricingService,
		backend:   backend,
		validator: services.NewCatalogValidator(),
	}
}

// inputs reads the shared catalog and inventory and cross-validates them
func (s *Service) inputs() ([]*entities.VariantDefinition, []*entities.Component, error) {
	variants, err := s.catalog.GetAllVariants()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read variant catalog: %w", err)
	}
	components, err := s.inventory.GetAllComponents()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read component inventory: %w", err)
	}

	validation, err := s.validator.ValidateCatalog(variants, s.inventory)
	if err != nil {
		return nil, nil, err
	}
	if !validation.Valid() {
		return nil, nil, validation.Err()
	}
	return variants, components, nil
}

// ValidateInputs cross-checks the catalog against the inventory without
// solving anything. Sweeps call this once before dispatching scenarios.
func (s *Service) ValidateInputs() error {
	_, _, err := s.inputs()
	return err
}

// SolveScenario validates the scenario, builds its model, and solves it.
// Inventory and catalog are only read. An infeasible model returns both a
// result carrying the infeasible status and the typed error.
func (s *Service) SolveScenario(ctx context.Context, req Request) (*dto.ScenarioResult, error) {
	if err := req.Weights.Validate(); err != nil {
		return nil, err
	}

	variants, components, err := s.inputs()
	if err != nil {
		return nil, err
	}

	profiles, err := s.pricing.ProfilesAt(variants, req.PriceStdDev)
	if err != nil {
		return nil, err
	}

	formulation, err := BuildModel(variants, components, profiles, req.Weights, req.Options)
	if err != nil {
		return nil, err
	}

	solution, err := s.backend.Solve(ctx, formulation.Model, req.Solve)
	if err != nil {
		var infeasible *solver.InfeasibleModelError
		if errors.As(err, &infeasible) {
			return infeasibleResult(formulation), err
		}
		return nil, err
	}

	return decode(formulation, solution), nil
}

// decode turns raw variable values back into a production plan. Money
// figures are recomputed in decimals from the rounded unit counts, never
// read off the float objective.
func decode(f *Formulation, solution *solver.Solution) *dto.ScenarioResult {
	result := &dto.ScenarioResult{
		Quantities:    make(map[entities.VariantID]entities.Quantity, len(f.Variants)),
		LeftoverUnits: make(map[entities.ComponentID]entities.Quantity, len(f.Components)),
		TotalProfit:   decimal.Zero,
		LeftoverValue: decimal.Zero,
		Status:        solution.Status,
		Runtime:       solution.Runtime,
	}

	var totalUnits, premiumUnits entities.Quantity
	for _, variant := range f.Variants {
		value := solution.Values[f.VariantVars[variant.ID]]
		produced := entities.Quantity(math.Round(value))
		result.Quantities[variant.ID] = produced

		count := decimal.NewFromInt(int64(produced))
		result.TotalProfit = result.TotalProfit.Add(f.Margins[variant.ID].Mul(count))
		result.TotalTime += variant.ProductionTime * float64(produced)
		totalUnits += produced
		if variant.Premium {
			premiumUnits += produced
		}
	}
	if totalUnits > 0 {
		result.PremiumFraction = float64(premiumUnits) / float64(totalUnits)
	}

	for _, component := range f.Components {
		value := solution.Values[f.LeftoverVars[component.ID]]
		leftover := entities.Quantity(math.Round(value))
		result.LeftoverUnits[component.ID] = leftover
		result.LeftoverValue = result.LeftoverValue.Add(
			component.UnitCost.Mul(decimal.NewFromInt(int64(leftover))))
		if leftover == 0 && component.Available > 0 {
			result.BindingComponents = append(result.BindingComponents, component.ID)
		}
	}

	result.Objective = breakdown(f, result)
	return result
}

// breakdown recomputes each goal's contribution to the weighted objective
// from the decoded plan
func breakdown(f *Formulation, result *dto.ScenarioResult) dto.ObjectiveBreakdown {
	var b dto.ObjectiveBreakdown
	for _, variant := range f.Variants {
		produced := float64(result.Quantities[variant.ID])
		b.Profit += f.Weights.Profit * f.Margins[variant.ID].InexactFloat64() * produced
		b.Time -= f.Weights.ProductionTime * variant.ProductionTime * produced
		if variant.Premium {
			b.Premium += f.Weights.PremiumMix * produced
		}
	}
	for _, component := range f.Components {
		b.Waste -= f.Weights.InventoryWaste * float64(result.LeftoverUnits[component.ID])
	}
	b.Total = b.Profit + b.Waste + b.Time + b.Premium
	return b
}

// infeasibleResult builds the empty plan reported alongside an
// InfeasibleModelError
func infeasibleResult(f *Formulation) *dto.ScenarioResult {
	result := &dto.ScenarioResult{
		Quantities:    make(map[entities.VariantID]entities.Quantity, len(f.Variants)),
		LeftoverUnits: make(map[entities.ComponentID]entities.Quantity, len(f.Components)),
		TotalProfit:   decimal.Zero,
		LeftoverValue: decimal.Zero,
		Status:        entities.StatusInfeasible,
	}
	for _, variant := range f.Variants {
		result.Quantities[variant.ID] = 0
	}
	return result
}
