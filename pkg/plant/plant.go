// Package plant models renewable-energy plants (photovoltaic, wind and
// solar-thermal) and fetches their hourly production profiles from
// renewables.ninja.
//
// Coordinates are snapped to the 0.5° grid on construction so that nearby
// plants share cached profiles.
package plant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/renewables-client/pkg/geo"
)

// DefaultBaseURL is the renewables.ninja API root.
const DefaultBaseURL = "https://www.renewables.ninja/api/"

// Default request values shared by every plant kind.
const (
	DefaultDateFrom = "2014-01-01"
	DefaultDateTo   = "2014-12-31"
	DefaultDataset  = "merra2"
)

// Kind names a plant type.
type Kind string

const (
	KindPV   Kind = "pv"
	KindWind Kind = "wind"
	KindST   Kind = "st"
)

// Getter is the fetcher contract used to download profiles. *client.Client
// satisfies it.
type Getter interface {
	Get(ctx context.Context, rawURL string, params url.Values) (string, error)
}

// ProfileOptions tunes a profile request.
type ProfileOptions struct {
	// Raw asks for the raw irradiance or wind speed columns as well.
	Raw bool

	// Mean aggregates the profile ("day" or "month"). Empty means hourly.
	Mean string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string
}

// Endpoint joins path onto the base URL, adding the separating slash when
// the base lacks one.
func (o ProfileOptions) Endpoint(path string) string {
	base := o.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + path
}

// Model is implemented by every plant kind.
type Model interface {
	Kind() Kind
	Base() *Plant
	Params(opts ProfileOptions) url.Values
	Profile(ctx context.Context, g Getter, opts ProfileOptions) (*Profile, error)
}

// Plant holds the attributes shared by every plant kind.
type Plant struct {
	ID  string  `json:"id" yaml:"id"`
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`

	// PeakPower in kW.
	PeakPower float64 `json:"peak_power" yaml:"peak_power"`

	// Efficiency is a fraction in (0, 1].
	Efficiency float64 `json:"efficiency" yaml:"efficiency"`

	// EnergyProduction in kWh/year, when known.
	EnergyProduction float64 `json:"energy_production,omitempty" yaml:"energy_production,omitempty"`
}

// SetLocation stores lat/lon snapped to the default grid.
func (p *Plant) SetLocation(lat, lon float64) {
	rounded := geo.Round(lat, lon)
	p.Lat, p.Lon = rounded[0], rounded[1]
}

// WorkingHours returns the equivalent full-load hours per year.
func (p *Plant) WorkingHours() (float64, error) {
	if p.PeakPower == 0 {
		return 0, &ConfigurationError{Field: "peak_power", Reason: "must not be zero to compute working hours"}
	}
	return p.EnergyProduction / p.PeakPower, nil
}

// AnnualEnergy returns EnergyProduction.
func (p *Plant) AnnualEnergy() float64 {
	return p.EnergyProduction
}

func (p *Plant) validate() error {
	if p.PeakPower <= 0 {
		return &ConfigurationError{Field: "peak_power", Reason: "must be positive"}
	}
	return validateEfficiency(p.Efficiency)
}

func validateEfficiency(eff float64) error {
	if eff <= 0 || eff > 1 {
		return &ConfigurationError{Field: "efficiency", Reason: fmt.Sprintf("must be in (0, 1], got %g", eff)}
	}
	return nil
}

// baseParams returns the query parameters every request carries.
func baseParams(p *Plant, opts ProfileOptions) url.Values {
	v := url.Values{}
	v.Set("lat", formatFloat(p.Lat))
	v.Set("lon", formatFloat(p.Lon))
	v.Set("format", "json")
	v.Set("metadata", "false")
	v.Set("raw", strconv.FormatBool(opts.Raw))
	if opts.Mean != "" {
		v.Set("mean", opts.Mean)
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fetchProfile(ctx context.Context, g Getter, kind Kind, id, rawURL string, params url.Values) (*Profile, error) {
	body, err := g.Get(ctx, rawURL, params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s profile for %q: %w", kind, id, err)
	}

	profile, err := ParseProfile(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s profile for %q: %w", kind, id, err)
	}
	return profile, nil
}
