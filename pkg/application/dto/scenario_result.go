package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

// ScenarioResult contains the decoded outcome of a single scenario solve
type ScenarioResult struct {
	Quantities      map[entities.VariantID]entities.Quantity  `json:"quantities"`
	TotalProfit     decimal.Decimal                           `json:"total_profit"`
	LeftoverUnits   map[entities.ComponentID]entities.Quantity `json:"leftover_units"`
	LeftoverValue   decimal.Decimal                           `json:"leftover_value"`
	TotalTime       float64                                   `json:"total_time"`
	PremiumFraction float64                                   `json:"premium_fraction"`
	Status          entities.SolveStatus                      `json:"status"`
	Objective       ObjectiveBreakdown                        `json:"objective"`
	// BindingComponents lists components whose stock was fully consumed
	BindingComponents []entities.ComponentID `json:"binding_components"`
	Runtime           time.Duration          `json:"runtime"`
}

// ObjectiveBreakdown decomposes the weighted objective value by goal
type ObjectiveBreakdown struct {
	Profit  float64 `json:"profit"`
	Waste   float64 `json:"waste"`
	Time    float64 `json:"time"`
	Premium float64 `json:"premium"`
	Total   float64 `json:"total"`
}

// SweepEntry is one combination's slot in a sweep report. Entries keep the
// position of their combination in the requested input order. A failed
// combination carries a failure marker instead of a result.
type SweepEntry struct {
	Index       int                  `json:"index"`
	Label       string               `json:"label"`
	Weights     entities.WeightConfig `json:"weights"`
	PriceStdDev float64              `json:"price_std_dev"`
	Status      entities.SolveStatus `json:"status"`
	Result      *ScenarioResult      `json:"result,omitempty"`
	Failure     string               `json:"failure,omitempty"`
	Err         error                `json:"-"`
}

// Solved reports whether the entry carries a usable production plan
func (e *SweepEntry) Solved() bool {
	return e.Result != nil && e.Status.Solved()
}

// SweepReport is the ordered output of a full scenario sweep. Entries appear
// in the exact order the combinations were requested.
type SweepReport struct {
	RunID     string       `json:"run_id"`
	StartedAt time.Time    `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Entries   []SweepEntry `json:"entries"`
}

// SolvedCount returns how many entries carry a usable plan
func (r *SweepReport) SolvedCount() int {
	count := 0
	for i := range r.Entries {
		if r.Entries[i].Solved() {
			count++
		}
	}
	return count
}

// Best returns the solved entry with the highest total profit, or nil when
// nothing solved
func (r *SweepReport) Best() *SweepEntry {
	var best *SweepEntry
	for i := range r.Entries {
		entry := &r.Entries[i]
		if !entry.Solved() {
			continue
		}
		if best == nil || entry.Result.TotalProfit.GreaterThan(best.Result.TotalProfit) {
			best = entry
		}
	}
	return best
}
