package plant

import (
	"context"
	"fmt"
	"net/url"
)

// STConfig describes a solar-thermal plant.
type STConfig struct {
	ID  string  `yaml:"id"`
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`

	// Area is the collector surface in m².
	Area       float64 `yaml:"area"`
	Efficiency float64 `yaml:"efficiency"`
}

// DefaultSTConfig returns a collector with 90% efficiency and no area.
func DefaultSTConfig() STConfig {
	return STConfig{Efficiency: 0.9}
}

// ST is a solar-thermal plant. Its profile is derived from the raw PV
// irradiance of a 1 kW reference system.
type ST struct {
	Plant

	Surface float64
}

// NewST validates cfg and builds the plant.
func NewST(cfg STConfig) (*ST, error) {
	s := &ST{
		Plant: Plant{
			ID:         cfg.ID,
			Efficiency: cfg.Efficiency,
		},
		Surface: cfg.Area,
	}
	s.SetLocation(cfg.Lat, cfg.Lon)

	if cfg.Area <= 0 {
		return nil, &ConfigurationError{Field: "area", Reason: "must be positive"}
	}
	if err := validateEfficiency(cfg.Efficiency); err != nil {
		return nil, err
	}

	return s, nil
}

// Kind implements Model.
func (s *ST) Kind() Kind { return KindST }

// Base implements Model.
func (s *ST) Base() *Plant { return &s.Plant }

// Area returns the collector surface in m².
func (s *ST) Area() float64 {
	return s.Surface
}

// ComputeEnergy returns the yearly production in kWh for a mean irradiation
// in kWh/m² per year.
func (s *ST) ComputeEnergy(irradiation float64) float64 {
	return irradiation * s.Surface * s.Efficiency
}

// Params implements Model. Raw output is always requested.
func (s *ST) Params(opts ProfileOptions) url.Values {
	opts.Raw = true
	v := baseParams(&s.Plant, opts)
	v.Set("date_from", DefaultDateFrom)
	v.Set("date_to", DefaultDateTo)
	v.Set("dataset", DefaultDataset)
	v.Set("capacity", "1")
	v.Set("system_loss", formatFloat(systemLoss(s.Efficiency)))
	v.Set("tracking", "0")
	v.Set("tilt", "30")
	v.Set("azim", "180")
	return v
}

// Profile implements Model. Output is (direct + diffuse irradiance) × area.
func (s *ST) Profile(ctx context.Context, g Getter, opts ProfileOptions) (*Profile, error) {
	profile, err := fetchProfile(ctx, g, KindST, s.ID, opts.Endpoint("data/pv"), s.Params(opts))
	if err != nil {
		return nil, err
	}

	for i := range profile.Records {
		rec := &profile.Records[i]
		direct, okDirect := rec.lookup(directColumns)
		diffuse, okDiffuse := rec.lookup(diffuseColumns)
		if !okDirect || !okDiffuse {
			return nil, fmt.Errorf("st profile for %q: record %s lacks irradiance columns", s.ID, rec.Time.Format("2006-01-02 15:04"))
		}
		rec.Output = (direct + diffuse) * s.Surface
	}

	return profile, nil
}
