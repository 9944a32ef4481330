// Package catalog holds the ordered list of construction phases the schedule
// generator walks. A Catalog is validated once at construction and never
// changes afterwards.
package catalog

import (
	"errors"

	"github.com/alexanderramin/chantier/internal/domain"
)

// MinDelay forces a phase to start at least Days calendar days after the end
// of AfterPhaseID (concrete cure time and similar physical constraints).
type MinDelay struct {
	AfterPhaseID string
	Days         int
}

// Measurement requires an on-site measurement once AfterPhaseID completes.
type Measurement struct {
	AfterPhaseID string
	Notes        string
}

// Phase is one static phase definition.
type Phase struct {
	ID                  string
	Name                string
	Trade               string
	DurationDays        int
	Preparatory         bool
	SupplierLeadDays    int
	FabricationLeadDays int
	ContactLeadDays     int
	MinDelay            *MinDelay
	Measurement         *Measurement
}

// Catalog is an immutable, ordered, validated set of phases indexed by ID.
type Catalog struct {
	phases []Phase
	index  map[string]int
}

// New validates phases and returns a Catalog. All integrity problems are
// reported together, each wrapping domain.ErrValidation.
func New(phases []Phase) (*Catalog, error) {
	c := &Catalog{
		phases: make([]Phase, len(phases)),
		index:  make(map[string]int, len(phases)),
	}
	for i, p := range phases {
		c.phases[i] = clonePhase(p)
	}
	if errs := c.validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(phases []Phase) *Catalog {
	c, err := New(phases)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() []error {
	var errs []error
	for i, p := range c.phases {
		if p.ID == "" {
			errs = append(errs, domain.Invalidf("phase at position %d has no id", i))
			continue
		}
		if _, dup := c.index[p.ID]; dup {
			errs = append(errs, domain.Invalidf("phase %q is declared twice", p.ID))
			continue
		}
		c.index[p.ID] = i

		if p.Trade == "" {
			errs = append(errs, domain.Invalidf("phase %q has no trade", p.ID))
		}
		if p.DurationDays <= 0 {
			errs = append(errs, domain.Invalidf("phase %q has duration %d, must be positive", p.ID, p.DurationDays))
		}
		if p.SupplierLeadDays < 0 || p.FabricationLeadDays < 0 || p.ContactLeadDays < 0 {
			errs = append(errs, domain.Invalidf("phase %q has a negative lead time", p.ID))
		}
		if p.MinDelay != nil {
			if p.MinDelay.Days < 0 {
				errs = append(errs, domain.Invalidf("phase %q has negative minimum delay %d", p.ID, p.MinDelay.Days))
			}
			errs = append(errs, c.checkEarlierRef(p.ID, "minimum delay", p.MinDelay.AfterPhaseID, i)...)
		}
		if p.Measurement != nil {
			errs = append(errs, c.checkEarlierRef(p.ID, "measurement", p.Measurement.AfterPhaseID, i)...)
		}
	}
	return errs
}

// checkEarlierRef relies on the index containing only phases before pos.
func (c *Catalog) checkEarlierRef(phaseID, what, ref string, pos int) []error {
	if ref == "" {
		return []error{domain.Invalidf("phase %q: %s has no referenced phase", phaseID, what)}
	}
	j, ok := c.index[ref]
	if !ok {
		return []error{domain.Invalidf("phase %q: %s references %q, which is unknown or not earlier in the catalog", phaseID, what, ref)}
	}
	if j >= pos {
		return []error{domain.Invalidf("phase %q: %s must reference an earlier phase, got %q", phaseID, what, ref)}
	}
	return nil
}

// Len returns the number of phases.
func (c *Catalog) Len() int {
	return len(c.phases)
}

// Phases returns a copy of the phases in catalog order.
func (c *Catalog) Phases() []Phase {
	out := make([]Phase, len(c.phases))
	for i, p := range c.phases {
		out[i] = clonePhase(p)
	}
	return out
}

// At returns the phase at position i.
func (c *Catalog) At(i int) Phase {
	return clonePhase(c.phases[i])
}

// Get returns the phase with the given ID.
func (c *Catalog) Get(id string) (Phase, bool) {
	i, ok := c.index[id]
	if !ok {
		return Phase{}, false
	}
	return clonePhase(c.phases[i]), true
}

// IndexOf returns the catalog position of id, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Trade returns the trade category of a phase, or "" if unknown.
func (c *Catalog) Trade(id string) string {
	if i, ok := c.index[id]; ok {
		return c.phases[i].Trade
	}
	return ""
}

// Trades returns the distinct trades in catalog order.
func (c *Catalog) Trades() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.phases {
		if !seen[p.Trade] {
			seen[p.Trade] = true
			out = append(out, p.Trade)
		}
	}
	return out
}

func clonePhase(p Phase) Phase {
	if p.MinDelay != nil {
		md := *p.MinDelay
		p.MinDelay = &md
	}
	if p.Measurement != nil {
		m := *p.Measurement
		p.Measurement = &m
	}
	return p
}
