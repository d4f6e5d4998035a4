package scenario

import (
	"fmt"
	"os"
)

const sampleScenario = `# veloplan scenario
#
# Prices and costs are decimal strings. Variants without a pricing profile
# get one derived from base_price, or from component cost plus the markup
# when no base_price is set (markup defaults to 0.2).
name: Spring production run

components:
  - id: C_FRAME_AL
    name: Aluminum Frame
    available: 25
    unit_cost: "150"
  - id: C_FRAME_CR
    name: Chromoly Frame
    available: 8
    unit_cost: "400"
  - id: C_WHEEL_26
    name: 26in Wheel
    available: 60
    unit_cost: "35"
  - id: C_WHEEL_700
    name: 700c Wheel
    available: 40
    unit_cost: "45"
  - id: C_BRAKE_DISC
    name: Disc Brake Set
    available: 30
    unit_cost: "55"
  - id: C_DRIVE_1X
    name: 1x Drivetrain
    available: 20
    unit_cost: "210"
  - id: C_DRIVE_3X
    name: 3x Drivetrain
    available: 45
    unit_cost: "90"
  - id: C_BAR_FLAT
    name: Flat Handlebar
    available: 70
    unit_cost: "15"

variants:
  - id: V_MTB
    name: Trail Mountain Bike
    category: mountain
    premium: true
    production_time: 4.5
    bom:
      C_FRAME_AL: 1
      C_WHEEL_26: 2
      C_BRAKE_DISC: 1
      C_DRIVE_1X: 1
      C_BAR_FLAT: 1
  - id: V_CITY
    name: City Commuter
    category: city
    production_time: 3.0
    base_price: "420"
    max_units: 30
    bom:
      C_FRAME_AL: 1
      C_WHEEL_700: 2
      C_DRIVE_3X: 1
      C_BAR_FLAT: 1
  - id: V_GRAVEL
    name: Gravel Crossover
    category: crossover
    premium: true
    production_time: 5.0
    bom:
      C_FRAME_CR: 1
      C_WHEEL_700: 2
      C_BRAKE_DISC: 1
      C_DRIVE_1X: 1
      C_BAR_FLAT: 1

pricing:
  markup: 0.25
  profiles:
    V_MTB:
      full_price: "650"
      discount_price: "585"
      full_probability: 0.3
      discount_probability: 0.7
      full_spread: 0.05
      discount_spread: 0.1

weights:
  - profit: 1
  - profit: 0.6
    inventory_waste: 0.2
    production_time: 0.1
    premium_mix: 0.1

sweep:
  price_std_devs: [-1, 0, 1]
  max_premium_share: 0.6

solve:
  time_limit: 30s
  workers: 4
`

// WriteSample writes a worked sample scenario to the given path
func WriteSample(filename string) error {
	if err := os.WriteFile(filename, []byte(sampleScenario), 0o644); err != nil {
		return fmt.Errorf("failed to write sample scenario %s: %w", filename, err)
	}
	return nil
}
