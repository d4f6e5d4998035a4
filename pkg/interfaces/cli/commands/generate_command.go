package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spokeworks/veloplan/pkg/infrastructure/repositories/scenario"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Path       string  // Output path for the scenario YAML file
	Variants   int     // Number of variants to generate (0 = write the curated sample)
	Components int     // Number of components to generate
	Coverage   float64 // Inventory multiplier (e.g. 0.5 = scarce, 4.0 = plentiful)
	Seed       int64   // Random seed for reproducible generation
	Verbose    bool    // Verbose output
	Help       bool    // Show help
}

// GenerateCommand writes scenario files: a curated sample by default, or a
// randomized scenario when variant and component counts are given
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	if config.Coverage == 0 {
		config.Coverage = 1.0
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(config.Seed)),
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.showHelp()
		return nil
	}

	if cmd.config.Path == "" {
		return fmt.Errorf("must specify an output path with -generate")
	}

	if cmd.config.Variants == 0 && cmd.config.Components == 0 {
		if cmd.config.Verbose {
			fmt.Printf("📝 Writing sample scenario to %s\n", cmd.config.Path)
		}
		if err := scenario.WriteSample(cmd.config.Path); err != nil {
			return fmt.Errorf("failed to write sample scenario: %w", err)
		}
		if cmd.config.Verbose {
			fmt.Println("✅ Sample scenario written")
		}
		return nil
	}

	if cmd.config.Variants <= 0 || cmd.config.Components <= 0 {
		return fmt.Errorf("randomized generation needs both -variants and -components above zero")
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating scenario with %d variants, %d components, %.1fx inventory coverage\n",
			cmd.config.Variants, cmd.config.Components, cmd.config.Coverage)
		fmt.Printf("📁 Output file: %s\n", cmd.config.Path)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	components := cmd.generateComponents()
	variants := cmd.generateVariants(components)
	document := cmd.renderScenario(components, variants)

	if err := os.WriteFile(cmd.config.Path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write scenario file %s: %w", cmd.config.Path, err)
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.Path)
	}

	return nil
}

// componentSpec is one generated inventory line
type componentSpec struct {
	id        string
	name      string
	available int
	unitCost  int
}

// variantSpec is one generated variant line. The BOM is kept as ordered
// pairs so a fixed seed always renders the same file.
type variantSpec struct {
	id             string
	name           string
	category       string
	bom            []bomPair
	productionTime float64
	basePrice      int // 0 means derive the price from component cost
	premium        bool
	maxUnits       int
}

type bomPair struct {
	component string
	quantity  int
}

// componentClasses drive generated part names and cost ranges
var componentClasses = []struct {
	class   string
	minCost int
	maxCost int
}{
	{"Frame", 120, 450},
	{"Fork", 60, 220},
	{"Wheel", 30, 110},
	{"Tire", 12, 45},
	{"Drivetrain", 80, 320},
	{"Brake", 25, 95},
	{"Handlebar", 15, 60},
	{"Saddle", 18, 75},
	{"Seatpost", 10, 40},
	{"Shifter", 20, 85},
}

var componentMaterials = []string{"Aluminum", "Carbon", "Steel", "Titanium", "Alloy"}

var variantLines = []string{"Trail", "Sport", "Urban", "Tour", "Race", "Cargo", "Comfort", "Gravel", "Junior", "Metro"}

var variantCategories = []struct {
	key     string
	display string
}{
	{"mountain", "Mountain"},
	{"city", "City"},
	{"bmx", "BMX"},
	{"crossover", "Crossover"},
}

// generateComponents creates the component inventory
func (cmd *GenerateCommand) generateComponents() []componentSpec {
	components := make([]componentSpec, 0, cmd.config.Components)
	for i := 0; i < cmd.config.Components; i++ {
		class := componentClasses[i%len(componentClasses)]
		material := componentMaterials[cmd.rand.Intn(len(componentMaterials))]

		// 10-50 units at 1x coverage
		available := int(float64(10+cmd.rand.Intn(41)) * cmd.config.Coverage)
		if available < 0 {
			available = 0
		}

		components = append(components, componentSpec{
			id:        fmt.Sprintf("C_%s_%02d", strings.ToUpper(class.class), i+1),
			name:      fmt.Sprintf("%s %s", material, class.class),
			available: available,
			unitCost:  class.minCost + cmd.rand.Intn(class.maxCost-class.minCost+1),
		})
	}
	return components
}

// generateVariants creates the variant catalog. Every BOM references only
// generated components.
func (cmd *GenerateCommand) generateVariants(components []componentSpec) []variantSpec {
	variants := make([]variantSpec, 0, cmd.config.Variants)
	for i := 0; i < cmd.config.Variants; i++ {
		line := variantLines[i%len(variantLines)]
		category := variantCategories[cmd.rand.Intn(len(variantCategories))]

		// 2-5 distinct components per BOM, capped by the inventory size
		bomSize := 2 + cmd.rand.Intn(4)
		if bomSize > len(components) {
			bomSize = len(components)
		}
		picked := cmd.rand.Perm(len(components))[:bomSize]

		bom := make([]bomPair, 0, bomSize)
		for _, index := range picked {
			bom = append(bom, bomPair{
				component: components[index].id,
				quantity:  1 + cmd.rand.Intn(2),
			})
		}

		variant := variantSpec{
			id:             fmt.Sprintf("V_%s_%02d", strings.ToUpper(line), i+1),
			name:           fmt.Sprintf("%s %s", line, category.display),
			category:       category.key,
			bom:            bom,
			productionTime: 1.5 + cmd.rand.Float64()*4.5,
			premium:        cmd.rand.Float64() < 0.3,
		}

		// Half the variants carry a list price; the rest are priced from
		// component cost and the scenario markup
		if cmd.rand.Float64() < 0.5 {
			variant.basePrice = 300 + cmd.rand.Intn(900)
		}
		if cmd.rand.Float64() < 0.25 {
			variant.maxUnits = 10 + cmd.rand.Intn(30)
		}

		variants = append(variants, variant)
	}
	return variants
}

// renderScenario formats the generated data as a scenario YAML document
func (cmd *GenerateCommand) renderScenario(components []componentSpec, variants []variantSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Generated scenario: %d variants, %d components, seed %d\n",
		len(variants), len(components), cmd.config.Seed)
	fmt.Fprintf(&b, "name: Generated production run\n\n")

	fmt.Fprintf(&b, "components:\n")
	for _, c := range components {
		fmt.Fprintf(&b, "  - id: %s\n", c.id)
		fmt.Fprintf(&b, "    name: %s\n", c.name)
		fmt.Fprintf(&b, "    available: %d\n", c.available)
		fmt.Fprintf(&b, "    unit_cost: \"%d\"\n", c.unitCost)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "variants:\n")
	for _, v := range variants {
		fmt.Fprintf(&b, "  - id: %s\n", v.id)
		fmt.Fprintf(&b, "    name: %s\n", v.name)
		fmt.Fprintf(&b, "    category: %s\n", v.category)
		fmt.Fprintf(&b, "    bom:\n")
		for _, line := range v.bom {
			fmt.Fprintf(&b, "      %s: %d\n", line.component, line.quantity)
		}
		fmt.Fprintf(&b, "    production_time: %.1f\n", v.productionTime)
		if v.basePrice > 0 {
			fmt.Fprintf(&b, "    base_price: \"%d\"\n", v.basePrice)
		}
		if v.premium {
			fmt.Fprintf(&b, "    premium: true\n")
		}
		if v.maxUnits > 0 {
			fmt.Fprintf(&b, "    max_units: %d\n", v.maxUnits)
		}
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "pricing:\n")
	fmt.Fprintf(&b, "  markup: %.2f\n", 0.15+cmd.rand.Float64()*0.25)
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "weights:\n")
	fmt.Fprintf(&b, "  - {profit: 1}\n")
	fmt.Fprintf(&b, "  - {profit: 0.6, inventory_waste: 0.2, production_time: 0.1, premium_mix: 0.1}\n")
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "sweep:\n")
	fmt.Fprintf(&b, "  price_std_devs: [-1, 0, 1]\n")
	fmt.Fprintf(&b, "  max_premium_share: 0.6\n")
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "solve:\n")
	fmt.Fprintf(&b, "  time_limit: 30s\n")
	fmt.Fprintf(&b, "  workers: 4\n")

	return b.String()
}

// showHelp displays the help message
func (cmd *GenerateCommand) showHelp() {
	fmt.Printf(`Veloplan Scenario Generator - write scenario files for the optimizer

USAGE:
    veloplan -generate <file.yaml>                          # Curated sample scenario
    veloplan -generate <file.yaml> -variants 8 -components 20   # Randomized scenario

OPTIONS:
    -generate <file>    Output path for the scenario YAML file
    -variants <n>       Number of variants to generate (0 = curated sample)
    -components <n>     Number of components to generate
    -coverage <x>       Inventory multiplier (default: 1.0)
    -seed <n>           Random seed for reproducible generation (default: time-based)
    -verbose            Enable verbose output

EXAMPLES:
    # Write the curated sample and solve it
    veloplan -generate spring.yaml
    veloplan -scenario spring.yaml -verbose

    # A large reproducible scenario for benchmarking sweeps
    veloplan -generate big.yaml -variants 40 -components 60 -seed 7
    veloplan -scenario big.yaml -sweep -workers 8

    # Scarce inventory stresses the mix constraints
    veloplan -generate tight.yaml -variants 10 -components 12 -coverage 0.4
`)
}
