package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSchema is the YAML layout of a catalog override file.
type FileSchema struct {
	Phases []PhaseFile `yaml:"phases"`
}

// PhaseFile is one phase entry in a catalog file.
type PhaseFile struct {
	ID                  string           `yaml:"id"`
	Name                string           `yaml:"name"`
	Trade               string           `yaml:"trade"`
	DurationDays        int              `yaml:"duration_days"`
	Preparatory         bool             `yaml:"preparatory,omitempty"`
	SupplierLeadDays    int              `yaml:"supplier_lead_days,omitempty"`
	FabricationLeadDays int              `yaml:"fabrication_lead_days,omitempty"`
	ContactLeadDays     int              `yaml:"contact_lead_days,omitempty"`
	MinDelay            *MinDelayFile    `yaml:"min_delay,omitempty"`
	Measurement         *MeasurementFile `yaml:"measurement,omitempty"`
}

type MinDelayFile struct {
	After string `yaml:"after"`
	Days  int    `yaml:"days"`
}

type MeasurementFile struct {
	After string `yaml:"after"`
	Notes string `yaml:"notes,omitempty"`
}

// LoadFile reads and validates a YAML catalog file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a YAML catalog document from r.
func Decode(r io.Reader) (*Catalog, error) {
	var schema FileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(schema.Phases) == 0 {
		return nil, fmt.Errorf("catalog declares no phases")
	}
	return New(schema.toPhases())
}

// Encode writes c as a YAML catalog document.
func Encode(w io.Writer, c *Catalog) error {
	schema := FileSchema{Phases: make([]PhaseFile, 0, c.Len())}
	for _, p := range c.Phases() {
		pf := PhaseFile{
			ID:                  p.ID,
			Name:                p.Name,
			Trade:               p.Trade,
			DurationDays:        p.DurationDays,
			Preparatory:         p.Preparatory,
			SupplierLeadDays:    p.SupplierLeadDays,
			FabricationLeadDays: p.FabricationLeadDays,
			ContactLeadDays:     p.ContactLeadDays,
		}
		if p.MinDelay != nil {
			pf.MinDelay = &MinDelayFile{After: p.MinDelay.AfterPhaseID, Days: p.MinDelay.Days}
		}
		if p.Measurement != nil {
			pf.Measurement = &MeasurementFile{After: p.Measurement.AfterPhaseID, Notes: p.Measurement.Notes}
		}
		schema.Phases = append(schema.Phases, pf)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return enc.Close()
}

func (s FileSchema) toPhases() []Phase {
	phases := make([]Phase, 0, len(s.Phases))
	for _, pf := range s.Phases {
		p := Phase{
			ID:                  pf.ID,
			Name:                pf.Name,
			Trade:               pf.Trade,
			DurationDays:        pf.DurationDays,
			Preparatory:         pf.Preparatory,
			SupplierLeadDays:    pf.SupplierLeadDays,
			FabricationLeadDays: pf.FabricationLeadDays,
			ContactLeadDays:     pf.ContactLeadDays,
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if pf.MinDelay != nil {
			p.MinDelay = &MinDelay{AfterPhaseID: pf.MinDelay.After, Days: pf.MinDelay.Days}
		}
		if pf.Measurement != nil {
			p.Measurement = &Measurement{AfterPhaseID: pf.Measurement.After, Notes: pf.Measurement.Notes}
		}
		phases = append(phases, p)
	}
	return phases
}
