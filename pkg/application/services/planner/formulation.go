// Package planner turns a scenario (inventory, catalog, pricing, weights)
// into a mixed integer program, hands it to a solving backend, and decodes
// the solution into a production plan.
package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
	"github.com/spokeworks/veloplan/pkg/domain/solver"
)

// Options are the optional business rules of a single scenario. Zero
// values disable a rule.
type Options struct {
	// MaxPremiumShare caps premium units at this fraction of total units
	MaxPremiumShare float64
	// MinStandardShare forces non-premium units to at least this fraction
	// of total units
	MinStandardShare float64
}

func (o Options) validate() error {
	if o.MaxPremiumShare < 0 || o.MaxPremiumShare > 1 {
		return fmt.Errorf("premium share cap must be within [0, 1], got %g", o.MaxPremiumShare)
	}
	if o.MinStandardShare < 0 || o.MinStandardShare > 1 {
		return fmt.Errorf("standard share floor must be within [0, 1], got %g", o.MinStandardShare)
	}
	return nil
}

// Formulation is a deterministic translation of one scenario into a MIP
// model, along with everything needed to decode its solution: variable
// index maps, normalized weights, and per-variant money figures.
type Formulation struct {
	Model        *solver.Model
	Variants     []*entities.VariantDefinition
	Components   []*entities.Component
	VariantVars  map[entities.VariantID]int
	LeftoverVars map[entities.ComponentID]int
	Weights      entities.WeightConfig
	Margins      map[entities.VariantID]decimal.Decimal
	Costs        map[entities.VariantID]decimal.Decimal
}

// BuildModel translates a scenario into a MIP. One integer variable per
// variant counts produced units; one continuous variable per component
// carries leftover stock, pinned by that component's stock balance row.
// Building the same scenario twice yields an identical model.
func BuildModel(
	variants []*entities.VariantDefinition,
	components []*entities.Component,
	profiles map[entities.VariantID]*entities.PricingProfile,
	weights entities.WeightConfig,
	opts Options,
) (*Formulation, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("variant catalog is empty")
	}

	sortedVariants := make([]*entities.VariantDefinition, len(variants))
	copy(sortedVariants, variants)
	sort.Slice(sortedVariants, func(i, j int) bool { return sortedVariants[i].ID < sortedVariants[j].ID })

	sortedComponents := make([]*entities.Component, len(components))
	copy(sortedComponents, components)
	sort.Slice(sortedComponents, func(i, j int) bool { return sortedComponents[i].ID < sortedComponents[j].ID })

	available := make(map[entities.ComponentID]entities.Quantity, len(sortedComponents))
	unitCosts := make(map[entities.ComponentID]decimal.Decimal, len(sortedComponents))
	for _, component := range sortedComponents {
		available[component.ID] = component.Available
		unitCosts[component.ID] = component.UnitCost
	}

	f := &Formulation{
		Model:        &solver.Model{},
		Variants:     sortedVariants,
		Components:   sortedComponents,
		VariantVars:  make(map[entities.VariantID]int, len(sortedVariants)),
		LeftoverVars: make(map[entities.ComponentID]int, len(sortedComponents)),
		Weights:      weights.Normalized(),
		Margins:      make(map[entities.VariantID]decimal.Decimal, len(sortedVariants)),
		Costs:        make(map[entities.VariantID]decimal.Decimal, len(sortedVariants)),
	}

	for _, variant := range sortedVariants {
		profile, ok := profiles[variant.ID]
		if !ok {
			return nil, fmt.Errorf("missing pricing profile for variant %s", variant.ID)
		}

		upper, err := productionBound(variant, available)
		if err != nil {
			return nil, err
		}

		cost := decimal.Zero
		for _, componentID := range variant.Components() {
			quantity := decimal.NewFromInt(int64(variant.BOM[componentID]))
			cost = cost.Add(unitCosts[componentID].Mul(quantity))
		}
		f.Costs[variant.ID] = cost
		f.Margins[variant.ID] = profile.WASP().Sub(cost)
		f.VariantVars[variant.ID] = f.Model.AddVariable(solver.Variable{
			Name:  "produce_" + string(variant.ID),
			Kind:  solver.Integer,
			Lower: 0,
			Upper: float64(upper),
		})
	}

	for _, component := range sortedComponents {
		f.LeftoverVars[component.ID] = f.Model.AddVariable(solver.Variable{
			Name:  "leftover_" + string(component.ID),
			Kind:  solver.Continuous,
			Lower: 0,
			Upper: float64(component.Available),
		})
	}

	// Stock balance: consumption plus leftover equals availability, for
	// every component including ones no variant consumes
	for _, component := range sortedComponents {
		row := solver.Constraint{
			Name:  "stock_" + string(component.ID),
			Sense: solver.Equal,
			RHS:   float64(component.Available),
		}
		for _, variant := range sortedVariants {
			if required, uses := variant.BOM[component.ID]; uses {
				row.Terms = append(row.Terms, solver.Term{
					Var:  f.VariantVars[variant.ID],
					Coef: float64(required),
				})
			}
		}
		row.Terms = append(row.Terms, solver.Term{
			Var:  f.LeftoverVars[component.ID],
			Coef: 1,
		})
		f.Model.AddConstraint(row)
	}

	if opts.MaxPremiumShare > 0 {
		f.Model.AddConstraint(shareRow(
			"premium_share_max", sortedVariants, f.VariantVars, opts.MaxPremiumShare, true))
	}
	if opts.MinStandardShare > 0 {
		f.Model.AddConstraint(shareRow(
			"standard_share_min", sortedVariants, f.VariantVars, opts.MinStandardShare, false))
	}

	f.Model.Objective.Maximize = true
	for _, variant := range sortedVariants {
		coef := f.Weights.Profit*f.Margins[variant.ID].InexactFloat64() -
			f.Weights.ProductionTime*variant.ProductionTime
		if variant.Premium {
			coef += f.Weights.PremiumMix
		}
		f.Model.Objective.Terms = append(f.Model.Objective.Terms, solver.Term{
			Var:  f.VariantVars[variant.ID],
			Coef: coef,
		})
	}
	if f.Weights.InventoryWaste > 0 {
		for _, component := range sortedComponents {
			f.Model.Objective.Terms = append(f.Model.Objective.Terms, solver.Term{
				Var:  f.LeftoverVars[component.ID],
				Coef: -f.Weights.InventoryWaste,
			})
		}
	}

	return f, nil
}

// productionBound computes the integer upper bound for a variant: its unit
// cap when set, tightened by what the component stocks can support.
func productionBound(
	variant *entities.VariantDefinition,
	available map[entities.ComponentID]entities.Quantity,
) (entities.Quantity, error) {
	if len(variant.BOM) == 0 {
		return 0, fmt.Errorf("variant %s has no BOM entries", variant.ID)
	}

	implied := entities.Quantity(math.MaxInt64)
	for componentID, required := range variant.BOM {
		if required <= 0 {
			return 0, &entities.InvalidBOMError{
				VariantID:   variant.ID,
				ComponentID: componentID,
				Err:         fmt.Errorf("quantity must be positive, got %d", required),
			}
		}
		stock, ok := available[componentID]
		if !ok {
			return 0, &entities.InvalidBOMError{
				VariantID:   variant.ID,
				ComponentID: componentID,
				Err:         &entities.UnknownComponentError{ComponentID: componentID},
			}
		}
		if supported := stock / required; supported < implied {
			implied = supported
		}
	}
	if variant.MaxUnits > 0 && variant.MaxUnits < implied {
		return variant.MaxUnits, nil
	}
	return implied, nil
}

// shareRow builds a unit-share quota as a linear row. For a premium cap s:
// premium units <= s * total units. For a standard floor s: standard units
// >= s * total units, negated into a less-or-equal row.
func shareRow(
	name string,
	variants []*entities.VariantDefinition,
	variantVars map[entities.VariantID]int,
	share float64,
	premiumCap bool,
) solver.Constraint {
	row := solver.Constraint{Name: name, Sense: solver.LessOrEqual, RHS: 0}
	for _, variant := range variants {
		var coef float64
		switch {
		case premiumCap && variant.Premium:
			coef = 1 - share
		case premiumCap:
			coef = -share
		case variant.Premium:
			coef = share
		default:
			coef = share - 1
		}
		row.Terms = append(row.Terms, solver.Term{Var: variantVars[variant.ID], Coef: coef})
	}
	return row
}
