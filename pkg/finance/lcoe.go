// Package finance computes the economic indicators of a plant.
package finance

import (
	"errors"
	"fmt"
	"math"
)

// DefaultDiscountRate is used when callers have no specific rate.
const DefaultDiscountRate = 0.03

// ErrInvalidInput is wrapped by every validation error of this package.
var ErrInvalidInput = errors.New("invalid financial input")

// Financial describes the cost side of a plant.
type Financial struct {
	// InvestmentCost is the up-front cost in €.
	InvestmentCost float64 `json:"investment_cost" yaml:"investment_cost"`

	// YearlyCost is the yearly outflow in €.
	YearlyCost float64 `json:"yearly_cost" yaml:"yearly_cost"`

	// PlantLife in years.
	PlantLife int `json:"plant_life" yaml:"plant_life"`
}

// New validates and returns a Financial.
func New(investmentCost, yearlyCost float64, plantLife int) (*Financial, error) {
	f := &Financial{
		InvestmentCost: investmentCost,
		YearlyCost:     yearlyCost,
		PlantLife:      plantLife,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks that costs are non-negative and the life is positive.
func (f *Financial) Validate() error {
	if f.InvestmentCost < 0 || math.IsNaN(f.InvestmentCost) {
		return fmt.Errorf("%w: investment cost must be >= 0 (got %g)", ErrInvalidInput, f.InvestmentCost)
	}
	if f.YearlyCost < 0 || math.IsNaN(f.YearlyCost) {
		return fmt.Errorf("%w: yearly cost must be >= 0 (got %g)", ErrInvalidInput, f.YearlyCost)
	}
	if f.PlantLife < 1 {
		return fmt.Errorf("%w: plant life must be >= 1 year (got %d)", ErrInvalidInput, f.PlantLife)
	}
	return nil
}

// LCOE returns the levelized cost of energy in €/kWh for a yearly
// production in kWh and a discount rate:
//
//	(I + Σ C·(1+r)^-i) / Σ E·(1+r)^-i,  i = 1..life
func (f *Financial) LCOE(energyProduction, rate float64) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if energyProduction <= 0 {
		return 0, fmt.Errorf("%w: energy production must be > 0 (got %g)", ErrInvalidInput, energyProduction)
	}
	if rate <= -1 {
		return 0, fmt.Errorf("%w: discount rate must be > -1 (got %g)", ErrInvalidInput, rate)
	}

	costs := f.InvestmentCost
	for i := 1; i <= f.PlantLife; i++ {
		costs += f.YearlyCost * math.Pow(1+rate, float64(-i))
	}

	var energy float64
	for i := 1; i <= f.PlantLife; i++ {
		energy += energyProduction * math.Pow(1+rate, float64(-i))
	}

	return costs / energy, nil
}
