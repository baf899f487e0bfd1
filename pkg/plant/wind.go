package plant

import (
	"context"
	"math"
	"net/url"
)

// WindConfig describes a wind plant.
type WindConfig struct {
	ID         string  `yaml:"id"`
	Lat        float64 `yaml:"lat"`
	Lon        float64 `yaml:"lon"`
	DateFrom   string  `yaml:"date_from"`
	DateTo     string  `yaml:"date_to"`
	Dataset    string  `yaml:"dataset"`
	PeakPower  float64 `yaml:"peak_power"`
	Efficiency float64 `yaml:"efficiency"`

	// SweptArea of the rotor in m².
	SweptArea float64 `yaml:"swept_area"`

	// Height of the hub in m. Zero omits it from requests.
	Height float64 `yaml:"height"`

	// Model is the turbine name as known to renewables.ninja,
	// e.g. "Enercon E48 800". Empty omits it from requests.
	Model string `yaml:"model"`
}

// DefaultWindConfig returns a 3 kW plant with 40% efficiency.
func DefaultWindConfig() WindConfig {
	return WindConfig{
		DateFrom:   DefaultDateFrom,
		DateTo:     DefaultDateTo,
		Dataset:    DefaultDataset,
		PeakPower:  3,
		Efficiency: 0.4,
	}
}

// WindOptions are the physical constants of ComputeEnergy.
type WindOptions struct {
	// Rho is the air density in kg/m³.
	Rho float64

	// WorkingHours per year.
	WorkingHours float64

	// Conv converts Wh to the output unit; 1/1000 gives kWh.
	Conv float64
}

// DefaultWindOptions returns sea-level air density, 1700 hours and kWh.
func DefaultWindOptions() WindOptions {
	return WindOptions{
		Rho:          1.225,
		WorkingHours: 1700,
		Conv:         1.0 / 1000,
	}
}

// Wind is a wind plant.
type Wind struct {
	Plant

	DateFrom  string
	DateTo    string
	Dataset   string
	SweptArea float64
	Height    float64
	Model     string
}

// NewWind validates cfg and builds the plant.
func NewWind(cfg WindConfig) (*Wind, error) {
	w := &Wind{
		Plant: Plant{
			ID:         cfg.ID,
			PeakPower:  cfg.PeakPower,
			Efficiency: cfg.Efficiency,
		},
		DateFrom:  cfg.DateFrom,
		DateTo:    cfg.DateTo,
		Dataset:   cfg.Dataset,
		SweptArea: cfg.SweptArea,
		Height:    cfg.Height,
		Model:     cfg.Model,
	}
	w.SetLocation(cfg.Lat, cfg.Lon)

	if err := w.Plant.validate(); err != nil {
		return nil, err
	}
	if cfg.SweptArea < 0 {
		return nil, &ConfigurationError{Field: "swept_area", Reason: "must not be negative"}
	}
	if cfg.Height < 0 {
		return nil, &ConfigurationError{Field: "height", Reason: "must not be negative"}
	}
	if err := validateDates(cfg.DateFrom, cfg.DateTo); err != nil {
		return nil, err
	}
	if cfg.Dataset == "" {
		return nil, &ConfigurationError{Field: "dataset", Reason: "must not be empty"}
	}

	return w, nil
}

// Kind implements Model.
func (w *Wind) Kind() Kind { return KindWind }

// Base implements Model.
func (w *Wind) Base() *Plant { return &w.Plant }

// ComputeEnergy returns the yearly production for a mean wind speed in m/s.
func (w *Wind) ComputeEnergy(speed float64, opts WindOptions) (float64, error) {
	if w.SweptArea <= 0 {
		return 0, &ConfigurationError{Field: "swept_area", Reason: "is required to compute energy"}
	}
	power := 0.5 * w.Efficiency * opts.Rho * w.SweptArea * math.Pow(speed, 3)
	return power * opts.WorkingHours * opts.Conv, nil
}

// Params implements Model.
func (w *Wind) Params(opts ProfileOptions) url.Values {
	v := baseParams(&w.Plant, opts)
	v.Set("date_from", w.DateFrom)
	v.Set("date_to", w.DateTo)
	v.Set("dataset", w.Dataset)
	v.Set("capacity", formatFloat(w.PeakPower))
	if w.Height > 0 {
		v.Set("height", formatFloat(w.Height))
	}
	if w.Model != "" {
		v.Set("turbine", w.Model)
	}
	return v
}

// Profile implements Model.
func (w *Wind) Profile(ctx context.Context, g Getter, opts ProfileOptions) (*Profile, error) {
	return fetchProfile(ctx, g, KindWind, w.ID, opts.Endpoint("data/wind"), w.Params(opts))
}
