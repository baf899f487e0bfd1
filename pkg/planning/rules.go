// Package planning sizes plant deployments against territorial targets.
package planning

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPlant is returned when a plant has no usable area or energy.
var ErrInvalidPlant = errors.New("plant area and energy must be positive")

// Sizer is a plant with a land footprint and a yearly production.
// *plant.PV and *plant.ST satisfy it.
type Sizer interface {
	Area() float64
	AnnualEnergy() float64
}

// Rules are the planning targets of an administrative unit.
type Rules struct {
	// AreaTarget is the maximum area to be exploited, in m².
	AreaTarget float64 `json:"area_target" yaml:"area_target"`

	// EnergyTarget is the production goal, in kWh/year.
	EnergyTarget float64 `json:"energy_target" yaml:"energy_target"`

	// AreaAvailable is the total exploitable area.
	AreaAvailable float64 `json:"area_available" yaml:"area_available"`

	// EnergyAvailable is the total energy resource.
	EnergyAvailable float64 `json:"energy_available" yaml:"energy_available"`
}

// NPlants returns how many plants fit both targets: the smaller of
// ⌊AreaTarget / area⌋ and ⌊EnergyTarget / energy⌋.
func (r Rules) NPlants(p Sizer) (int, error) {
	return r.NPlantsFor(p.Area(), p.AnnualEnergy())
}

// NPlantsFor is NPlants for a plant given by its area and yearly energy.
func (r Rules) NPlantsFor(area, energy float64) (int, error) {
	if area <= 0 || energy <= 0 {
		return 0, fmt.Errorf("%w (area %g, energy %g)", ErrInvalidPlant, area, energy)
	}

	byArea := math.Floor(r.AreaTarget / area)
	byEnergy := math.Floor(r.EnergyTarget / energy)

	return int(math.Min(byArea, byEnergy)), nil
}

// Valid reports whether both targets are within what is available.
func (r Rules) Valid() bool {
	return r.AreaTarget <= r.AreaAvailable && r.EnergyTarget <= r.EnergyAvailable
}
