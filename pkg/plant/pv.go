package plant

import (
	"context"
	"math"
	"net/url"
	"time"
)

// PVConfig describes a photovoltaic plant.
type PVConfig struct {
	ID  string  `yaml:"id"`
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`

	// KPV is the module efficiency at standard test conditions in kW/m².
	KPV float64 `yaml:"k_pv"`

	DateFrom   string  `yaml:"date_from"`
	DateTo     string  `yaml:"date_to"`
	Dataset    string  `yaml:"dataset"`
	PeakPower  float64 `yaml:"peak_power"`
	Efficiency float64 `yaml:"efficiency"`

	// Tracking is 0 (fixed), 1 (single axis) or 2 (dual axis).
	Tracking int     `yaml:"tracking"`
	Tilt     float64 `yaml:"tilt"`
	Azim     float64 `yaml:"azim"`
}

// DefaultPVConfig returns a 3 kW fixed south-facing plant. KPV has no
// default and must be set.
func DefaultPVConfig() PVConfig {
	return PVConfig{
		DateFrom:   DefaultDateFrom,
		DateTo:     DefaultDateTo,
		Dataset:    DefaultDataset,
		PeakPower:  3,
		Efficiency: 0.75,
		Tracking:   0,
		Tilt:       30,
		Azim:       180,
	}
}

// PV is a photovoltaic plant.
type PV struct {
	Plant

	KPV      float64
	DateFrom string
	DateTo   string
	Dataset  string
	Tracking int
	Tilt     float64
	Azim     float64
}

// NewPV validates cfg and builds the plant.
func NewPV(cfg PVConfig) (*PV, error) {
	p := &PV{
		Plant: Plant{
			ID:         cfg.ID,
			PeakPower:  cfg.PeakPower,
			Efficiency: cfg.Efficiency,
		},
		KPV:      cfg.KPV,
		DateFrom: cfg.DateFrom,
		DateTo:   cfg.DateTo,
		Dataset:  cfg.Dataset,
		Tracking: cfg.Tracking,
		Tilt:     cfg.Tilt,
		Azim:     cfg.Azim,
	}
	p.SetLocation(cfg.Lat, cfg.Lon)

	if cfg.KPV <= 0 {
		return nil, &ConfigurationError{Field: "k_pv", Reason: "must be positive"}
	}
	if err := p.Plant.validate(); err != nil {
		return nil, err
	}
	if cfg.Tracking < 0 || cfg.Tracking > 2 {
		return nil, &ConfigurationError{Field: "tracking", Reason: "must be 0, 1 or 2"}
	}
	if err := validateDates(cfg.DateFrom, cfg.DateTo); err != nil {
		return nil, err
	}
	if cfg.Dataset == "" {
		return nil, &ConfigurationError{Field: "dataset", Reason: "must not be empty"}
	}

	return p, nil
}

// Kind implements Model.
func (p *PV) Kind() Kind { return KindPV }

// Base implements Model.
func (p *PV) Base() *Plant { return &p.Plant }

// Area returns the panel surface in m².
func (p *PV) Area() float64 {
	return p.PeakPower / p.KPV
}

// ComputeEnergy returns the yearly production in kWh for a mean irradiation
// in kWh/m² per year.
func (p *PV) ComputeEnergy(irradiation float64) float64 {
	return irradiation * p.PeakPower * p.Efficiency
}

// Params implements Model.
func (p *PV) Params(opts ProfileOptions) url.Values {
	v := baseParams(&p.Plant, opts)
	v.Set("date_from", p.DateFrom)
	v.Set("date_to", p.DateTo)
	v.Set("dataset", p.Dataset)
	v.Set("capacity", formatFloat(p.PeakPower))
	v.Set("system_loss", formatFloat(systemLoss(p.Efficiency)))
	v.Set("tracking", formatFloat(float64(p.Tracking)))
	v.Set("tilt", formatFloat(p.Tilt))
	v.Set("azim", formatFloat(p.Azim))
	return v
}

// Profile implements Model.
func (p *PV) Profile(ctx context.Context, g Getter, opts ProfileOptions) (*Profile, error) {
	return fetchProfile(ctx, g, KindPV, p.ID, opts.Endpoint("data/pv"), p.Params(opts))
}

// systemLoss converts an efficiency into the API's loss percentage, rounded
// to 6 decimals so that 0.9 gives 10 rather than 9.999999999999998.
func systemLoss(efficiency float64) float64 {
	return math.Round(100*(1-efficiency)*1e6) / 1e6
}

func validateDates(from, to string) error {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return &ConfigurationError{Field: "date_from", Reason: "must be YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return &ConfigurationError{Field: "date_to", Reason: "must be YYYY-MM-DD"}
	}
	if end.Before(start) {
		return &ConfigurationError{Field: "date_to", Reason: "must not be before date_from"}
	}
	return nil
}
