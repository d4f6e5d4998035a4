package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spokeworks/veloplan/pkg/application/dto"
	"github.com/spokeworks/veloplan/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	Scenario  string
}

// Generate renders a single scenario result in the specified format
func Generate(result *dto.ScenarioResult, config Config) error {
	switch config.Format {
	case "text":
		return generateResultText(result, config)
	case "json":
		return generateJSON(result, "scenario_results.json", config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateSweep renders a sweep report in the specified format
func GenerateSweep(report *dto.SweepReport, config Config) error {
	switch config.Format {
	case "text":
		return generateSweepText(report, config)
	case "json":
		return generateJSON(report, "sweep_results.json", config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateResultText creates human-readable output for one solved scenario
func generateResultText(result *dto.ScenarioResult, config Config) error {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Scenario Results\n")
	fmt.Fprintf(&b, "===================\n\n")

	if config.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", config.Scenario)
	}
	fmt.Fprintf(&b, "Status: %s\n", result.Status.String())
	fmt.Fprintf(&b, "Solve Time: %v\n\n", result.Runtime.Round(time.Millisecond))

	writePlan(&b, result)

	fmt.Print(b.String())
	return saveText(b.String(), "scenario_results.txt", config)
}

// generateSweepText creates human-readable output for a full sweep
func generateSweepText(report *dto.SweepReport, config Config) error {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Scenario Sweep Results\n")
	fmt.Fprintf(&b, "=========================\n\n")

	if config.Scenario != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", config.Scenario)
	}
	fmt.Fprintf(&b, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(&b, "Combinations: %d (%d solved)\n", len(report.Entries), report.SolvedCount())
	fmt.Fprintf(&b, "Duration: %v\n\n", report.Duration.Round(time.Millisecond))

	fmt.Fprintf(&b, "📈 Combinations:\n")
	fmt.Fprintf(&b, "%-4s %-28s %-12s %12s %10s %9s %12s\n",
		"#", "Label", "Status", "Profit", "Time (h)", "Premium", "Leftover")
	fmt.Fprintf(&b, "%-4s %-28s %-12s %12s %10s %9s %12s\n",
		"----", "----------------------------", "------------", "------------", "----------", "---------", "------------")

	for i := range report.Entries {
		entry := &report.Entries[i]
		if entry.Solved() {
			fmt.Fprintf(&b, "%-4d %-28s %-12s %12s %10.1f %8.0f%% %12s\n",
				entry.Index,
				entry.Label,
				entry.Status.String(),
				entry.Result.TotalProfit.StringFixed(2),
				entry.Result.TotalTime,
				entry.Result.PremiumFraction*100,
				entry.Result.LeftoverValue.StringFixed(2))
			continue
		}
		fmt.Fprintf(&b, "%-4d %-28s %-12s %12s %10s %9s %12s\n",
			entry.Index, entry.Label, entry.Status.String(), "-", "-", "-", "-")
	}
	fmt.Fprintln(&b)

	if best := report.Best(); best != nil {
		fmt.Fprintf(&b, "🎯 Best combination: #%d %s\n\n", best.Index, best.Label)
		writePlan(&b, best.Result)
	}

	writeFailures(&b, report)

	fmt.Print(b.String())
	return saveText(b.String(), "sweep_results.txt", config)
}

// writePlan renders one production plan: totals, the per-variant plan,
// nonzero leftovers, and the objective breakdown
func writePlan(b *strings.Builder, result *dto.ScenarioResult) {
	fmt.Fprintf(b, "Total Profit: %s\n", result.TotalProfit.StringFixed(2))
	fmt.Fprintf(b, "Production Time: %.1f h\n", result.TotalTime)
	fmt.Fprintf(b, "Premium Share: %.0f%%\n", result.PremiumFraction*100)
	fmt.Fprintf(b, "Leftover Value: %s\n\n", result.LeftoverValue.StringFixed(2))

	if len(result.Quantities) > 0 {
		fmt.Fprintf(b, "📋 Production Plan:\n")
		fmt.Fprintf(b, "%-15s %8s\n", "Variant", "Units")
		fmt.Fprintf(b, "%-15s %8s\n", "---------------", "--------")
		for _, id := range sortedVariantIDs(result.Quantities) {
			fmt.Fprintf(b, "%-15s %8d\n", id, result.Quantities[id])
		}
		fmt.Fprintln(b)
	}

	if leftovers := leftoverComponentIDs(result.LeftoverUnits); len(leftovers) > 0 {
		fmt.Fprintf(b, "📦 Leftover Components:\n")
		fmt.Fprintf(b, "%-15s %8s\n", "Component", "Units")
		fmt.Fprintf(b, "%-15s %8s\n", "---------------", "--------")
		for _, id := range leftovers {
			fmt.Fprintf(b, "%-15s %8d\n", id, result.LeftoverUnits[id])
		}
		fmt.Fprintln(b)
	}

	if len(result.BindingComponents) > 0 {
		ids := make([]string, len(result.BindingComponents))
		for i, id := range result.BindingComponents {
			ids[i] = string(id)
		}
		fmt.Fprintf(b, "Binding components: %s\n\n", strings.Join(ids, ", "))
	}

	fmt.Fprintf(b, "Objective: profit=%.2f waste=%.2f time=%.2f premium=%.2f total=%.2f\n\n",
		result.Objective.Profit,
		result.Objective.Waste,
		result.Objective.Time,
		result.Objective.Premium,
		result.Objective.Total)
}

// writeFailures lists every entry that carries a failure marker
func writeFailures(b *strings.Builder, report *dto.SweepReport) {
	failed := make([]*dto.SweepEntry, 0)
	for i := range report.Entries {
		if report.Entries[i].Failure != "" {
			failed = append(failed, &report.Entries[i])
		}
	}
	if len(failed) == 0 {
		return
	}

	fmt.Fprintf(b, "⚠️  Failures:\n")
	for _, entry := range failed {
		fmt.Fprintf(b, "  #%d %s: %s\n", entry.Index, entry.Label, entry.Failure)
	}
	fmt.Fprintln(b)
}

// generateJSON marshals the value and prints it, or saves it under the
// output directory when one is configured
func generateJSON(v any, filename string, config Config) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 JSON results saved to: %s\n", path)
	}
	return nil
}

// saveText writes already-rendered text under the output directory when one
// is configured
func saveText(text, filename string, config Config) error {
	if config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}

	if config.Verbose {
		fmt.Printf("💾 Results saved to: %s\n", path)
	}
	return nil
}

func sortedVariantIDs(quantities map[entities.VariantID]entities.Quantity) []entities.VariantID {
	ids := make([]entities.VariantID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func leftoverComponentIDs(leftovers map[entities.ComponentID]entities.Quantity) []entities.ComponentID {
	ids := make([]entities.ComponentID, 0, len(leftovers))
	for id, units := range leftovers {
		if units > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
