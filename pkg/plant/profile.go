package plant

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// ColumnElectricity is the output column of PV and wind profiles.
const ColumnElectricity = "electricity"

// Column aliases for raw irradiance. Older answers use the short names.
var (
	directColumns  = []string{"irradiance_direct", "direct"}
	diffuseColumns = []string{"irradiance_diffuse", "diffuse"}
)

var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Record is one row of a profile.
type Record struct {
	Time   time.Time          `json:"time" yaml:"time"`
	Output float64            `json:"output" yaml:"output"`
	Values map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// Profile is a time-ordered production series.
type Profile struct {
	Records []Record `json:"records" yaml:"records"`
}

// ParseProfile decodes a renewables.ninja JSON answer. Both the bare
// timestamp-keyed object (metadata=false) and the {"data": ...} envelope
// are accepted. Output is set from the electricity column when present.
func ParseProfile(body string) (*Profile, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	rows := top
	if data, ok := top["data"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("decode profile data: %w", err)
		}
		rows = inner
	}

	profile := &Profile{Records: make([]Record, 0, len(rows))}
	for key, raw := range rows {
		ts, err := parseTimestamp(key)
		if err != nil {
			return nil, err
		}

		var cols map[string]any
		if err := json.Unmarshal(raw, &cols); err != nil {
			return nil, fmt.Errorf("decode row %s: %w", key, err)
		}

		rec := Record{Time: ts, Values: make(map[string]float64, len(cols))}
		for name, v := range cols {
			if f, ok := v.(float64); ok {
				rec.Values[name] = f
			}
		}
		rec.Output = rec.Values[ColumnElectricity]

		profile.Records = append(profile.Records, rec)
	}

	sort.Slice(profile.Records, func(i, j int) bool {
		return profile.Records[i].Time.Before(profile.Records[j].Time)
	})

	return profile, nil
}

func parseTimestamp(key string) (time.Time, error) {
	if ms, err := strconv.ParseInt(key, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, key); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", key)
}

// Len returns the number of records.
func (p *Profile) Len() int {
	return len(p.Records)
}

// Total returns the sum of Output.
func (p *Profile) Total() float64 {
	var sum float64
	for _, r := range p.Records {
		sum += r.Output
	}
	return sum
}

// Mean returns the average Output, or 0 for an empty profile.
func (p *Profile) Mean() float64 {
	if len(p.Records) == 0 {
		return 0
	}
	return p.Total() / float64(len(p.Records))
}

// Min returns the smallest Output, or 0 for an empty profile.
func (p *Profile) Min() float64 {
	if len(p.Records) == 0 {
		return 0
	}
	m := math.Inf(1)
	for _, r := range p.Records {
		m = math.Min(m, r.Output)
	}
	return m
}

// Max returns the largest Output, or 0 for an empty profile.
func (p *Profile) Max() float64 {
	if len(p.Records) == 0 {
		return 0
	}
	m := math.Inf(-1)
	for _, r := range p.Records {
		m = math.Max(m, r.Output)
	}
	return m
}

// Column returns the named column for every record; missing values are 0.
func (p *Profile) Column(name string) []float64 {
	out := make([]float64, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.Values[name]
	}
	return out
}

// lookup returns the first present column among names.
func (r Record) lookup(names []string) (float64, bool) {
	for _, n := range names {
		if v, ok := r.Values[n]; ok {
			return v, true
		}
	}
	return 0, false
}
