package scheduler

import (
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// GenerateInput describes one forward scheduling pass.
type GenerateInput struct {
	ProjectID   string
	TargetStart time.Time
	// StartIndex is the catalog position to resume from; earlier phases are
	// left out of the plan.
	StartIndex int
	Today      time.Time
	// Existing entries supply locked dates and minimum-delay references for
	// phases before StartIndex.
	Existing []domain.ScheduleEntry
	Now      time.Time
}

// Plan is the result of a forward pass, in catalog order.
type Plan struct {
	Entries    []domain.ScheduleEntry
	PrepFinish time.Time
	Anchor     time.Time
	Warnings   []domain.Warning
}

// ResolveStartIndex maps an optional phase ID to a catalog position.
func ResolveStartIndex(cat *catalog.Catalog, phaseID string) (int, error) {
	if phaseID == "" {
		return 0, nil
	}
	i := cat.IndexOf(phaseID)
	if i < 0 {
		return 0, domain.Invalidf("unknown phase %q", phaseID)
	}
	return i, nil
}

// Generate schedules every phase from in.StartIndex onwards.
//
// Preparatory phases run back to back from Today, or the Monday after when
// Today falls on a weekend. The feasibility check then
// fixes the construction anchor, and construction phases run back to back from
// it, each starting the business day after its predecessor ends unless a
// minimum delay pushes it later. Durations count business days.
func Generate(cat *catalog.Catalog, in GenerateInput) (*Plan, error) {
	if in.StartIndex < 0 || in.StartIndex >= cat.Len() {
		return nil, domain.Invalidf("start index %d outside catalog of %d phases", in.StartIndex, cat.Len())
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	today := calendar.Truncate(in.Today)
	pl := newPlacer(in.ProjectID, in.Existing, now)

	var prep, build []catalog.Phase
	for i := in.StartIndex; i < cat.Len(); i++ {
		ph := cat.At(i)
		if ph.Preparatory {
			prep = append(prep, ph)
		} else {
			build = append(build, ph)
		}
	}

	plan := &Plan{Entries: make([]domain.ScheduleEntry, 0, len(prep)+len(build))}

	prepFinish, err := plan.sequence(pl, prep, today)
	if err != nil {
		return nil, err
	}
	if prepFinish == nil {
		plan.PrepFinish = today
	} else {
		plan.PrepFinish = *prepFinish
	}

	feas := CheckFeasibility(plan.PrepFinish, in.TargetStart)
	plan.Anchor = feas.Anchor
	if feas.Warning != nil {
		plan.Warnings = append(plan.Warnings, *feas.Warning)
	}

	if _, err := plan.sequence(pl, build, feas.Anchor); err != nil {
		return nil, err
	}
	return plan, nil
}

// sequence places phases back to back starting at first and returns the last
// end date, or nil when phases is empty.
func (plan *Plan) sequence(pl *placer, phases []catalog.Phase, first time.Time) (*time.Time, error) {
	var prevEnd *time.Time
	for _, ph := range phases {
		candidate := first
		if prevEnd != nil {
			candidate = calendar.AddBusinessDays(*prevEnd, 1)
		}
		entry, warn, err := pl.place(ph, candidate)
		if err != nil {
			return nil, err
		}
		if warn != nil {
			plan.Warnings = append(plan.Warnings, *warn)
		}
		plan.Entries = append(plan.Entries, entry)
		prevEnd = entry.EndDate
	}
	return prevEnd, nil
}
