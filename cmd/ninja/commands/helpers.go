package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Sternrassler/renewables-client/pkg/plant"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

const timeLayout = "2006-01-02 15:04"

// render writes v as JSON or YAML, or fills and renders a table for the
// table format.
func render(w io.Writer, format string, v any, fill func(*tablewriter.Table) error) error {
	switch format {
	case OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()
	default:
		table := tablewriter.NewWriter(w)
		if err := fill(table); err != nil {
			return err
		}
		return table.Render()
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// profileReport is the printable summary of one profile.
type profileReport struct {
	ID      string        `json:"id" yaml:"id"`
	Kind    plant.Kind    `json:"kind" yaml:"kind"`
	Records int           `json:"records" yaml:"records"`
	Total   float64       `json:"total" yaml:"total"`
	Mean    float64       `json:"mean" yaml:"mean"`
	Min     float64       `json:"min" yaml:"min"`
	Max     float64       `json:"max" yaml:"max"`
	Series  []seriesPoint `json:"series,omitempty" yaml:"series,omitempty"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`

	// AnnualEnergy is the estimated yearly production in kWh, if known.
	AnnualEnergy float64 `json:"annual_energy,omitempty" yaml:"annual_energy,omitempty"`
}

type seriesPoint struct {
	Time   time.Time `json:"time" yaml:"time"`
	Output float64   `json:"output" yaml:"output"`
}

func newProfileReport(m plant.Model, p *plant.Profile, withSeries bool) profileReport {
	r := profileReport{
		ID:   m.Base().ID,
		Kind: m.Kind(),
	}
	if p == nil {
		return r
	}

	r.Records = p.Len()
	r.Total = p.Total()
	r.Mean = p.Mean()
	r.Min = p.Min()
	r.Max = p.Max()

	if withSeries {
		r.Series = make([]seriesPoint, len(p.Records))
		for i, rec := range p.Records {
			r.Series[i] = seriesPoint{Time: rec.Time, Output: rec.Output}
		}
	}
	return r
}
