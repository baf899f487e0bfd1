package plant

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fleet is a set of plants loaded from a YAML file:
//
//	plants:
//	  - id: roof
//	    kind: pv
//	    lat: 45.44
//	    lon: 11.13
//	    k_pv: 0.15
//	  - id: ridge
//	    kind: wind
//	    lat: 46.1
//	    lon: 11.2
//	    height: 50
//	    model: Enercon E48 800
//
// Fields left out take the kind's defaults. Unknown fields are rejected.
type Fleet struct {
	Plants []Model
}

type fleetFile struct {
	Plants []yaml.Node `yaml:"plants"`
}

type pvEntry struct {
	Kind     Kind `yaml:"kind"`
	PVConfig `yaml:",inline"`
}

type windEntry struct {
	Kind       Kind `yaml:"kind"`
	WindConfig `yaml:",inline"`
}

type stEntry struct {
	Kind     Kind `yaml:"kind"`
	STConfig `yaml:",inline"`
}

// LoadFleetFile reads a fleet from path.
func LoadFleetFile(path string) (*Fleet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fleet file: %w", err)
	}
	defer f.Close()

	return LoadFleet(f)
}

// LoadFleet reads a fleet from r.
func LoadFleet(r io.Reader) (*Fleet, error) {
	var file fleetFile
	if err := strictDecode(r, &file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigurationError{Field: "plants", Reason: "fleet file is empty"}
		}
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if len(file.Plants) == 0 {
		return nil, &ConfigurationError{Field: "plants", Reason: "must list at least one plant"}
	}

	fleet := &Fleet{Plants: make([]Model, 0, len(file.Plants))}
	seen := make(map[string]bool, len(file.Plants))

	for i := range file.Plants {
		model, err := decodePlant(&file.Plants[i], i)
		if err != nil {
			return nil, err
		}

		id := model.Base().ID
		if seen[id] {
			return nil, &ConfigurationError{Field: fmt.Sprintf("plants[%d].id", i), Reason: fmt.Sprintf("duplicates %q", id)}
		}
		seen[id] = true

		fleet.Plants = append(fleet.Plants, model)
	}

	return fleet, nil
}

func decodePlant(node *yaml.Node, index int) (Model, error) {
	field := fmt.Sprintf("plants[%d]", index)

	var head struct {
		Kind Kind   `yaml:"kind"`
		ID   string `yaml:"id"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, &ConfigurationError{Field: field, Reason: err.Error()}
	}

	raw, err := yaml.Marshal(node)
	if err != nil {
		return nil, &ConfigurationError{Field: field, Reason: err.Error()}
	}

	defaultID := head.ID
	if defaultID == "" {
		defaultID = fmt.Sprintf("%s-%d", head.Kind, index+1)
	}

	var model Model
	switch head.Kind {
	case KindPV:
		entry := pvEntry{PVConfig: DefaultPVConfig()}
		if err := strictDecode(bytes.NewReader(raw), &entry); err != nil {
			return nil, &ConfigurationError{Field: field, Reason: err.Error()}
		}
		entry.ID = defaultID
		model, err = NewPV(entry.PVConfig)
	case KindWind:
		entry := windEntry{WindConfig: DefaultWindConfig()}
		if err := strictDecode(bytes.NewReader(raw), &entry); err != nil {
			return nil, &ConfigurationError{Field: field, Reason: err.Error()}
		}
		entry.ID = defaultID
		model, err = NewWind(entry.WindConfig)
	case KindST:
		entry := stEntry{STConfig: DefaultSTConfig()}
		if err := strictDecode(bytes.NewReader(raw), &entry); err != nil {
			return nil, &ConfigurationError{Field: field, Reason: err.Error()}
		}
		entry.ID = defaultID
		model, err = NewST(entry.STConfig)
	case "":
		return nil, &ConfigurationError{Field: field + ".kind", Reason: "is required"}
	default:
		return nil, &ConfigurationError{Field: field + ".kind", Reason: fmt.Sprintf("unknown kind %q (want pv, wind or st)", head.Kind)}
	}

	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil, &ConfigurationError{Field: field + "." + cfgErr.Field, Reason: cfgErr.Reason}
		}
		return nil, err
	}
	return model, nil
}

func strictDecode(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(out)
}
