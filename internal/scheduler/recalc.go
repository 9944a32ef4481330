package scheduler

import (
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// Edit is a user change to one phase. At least one field must be set.
type Edit struct {
	PhaseID   string
	NewStart  *time.Time
	NewEnd    *time.Time
	SetManual *bool
}

// Recalculation is the schedule after an edit has been propagated.
type Recalculation struct {
	Entries  []domain.ScheduleEntry
	Changed  []string
	Warnings []domain.Warning
}

// Recalculate applies edit to its phase verbatim, then recomputes every later
// phase of the same group (preparatory or construction) with the forward-pass
// rules. When a preparatory edit leaves no room before construction, the
// construction group is placed again from the earliest feasible start.
// Manual entries are never moved: a mismatch is reported as a
// locked_phase_conflict warning and the locked dates become the basis for the
// phases after it. Completed entries are kept as they are.
func Recalculate(cat *catalog.Catalog, entries []domain.ScheduleEntry, edit Edit, now time.Time) (*Recalculation, error) {
	if edit.NewStart == nil && edit.NewEnd == nil && edit.SetManual == nil {
		return nil, domain.Invalidf("edit of phase %q changes nothing", edit.PhaseID)
	}
	ph, ok := cat.Get(edit.PhaseID)
	if !ok {
		return nil, domain.Invalidf("unknown phase %q", edit.PhaseID)
	}

	sorted := SortByCatalog(cat, domain.CloneEntries(entries))
	pos := -1
	for i := range sorted {
		if sorted[i].PhaseID == edit.PhaseID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, domain.Invalidf("no schedule entry for phase %q", edit.PhaseID)
	}

	before := domain.CloneEntries(sorted)
	if err := applyEdit(&sorted[pos], edit, now); err != nil {
		return nil, err
	}

	out := &Recalculation{}
	projectID := sorted[pos].ProjectID
	pl := newPlacer(projectID, sorted, now)

	prevEnd := sorted[pos].EndDate
	for i := pos + 1; i < len(sorted); i++ {
		q, known := cat.Get(sorted[i].PhaseID)
		if !known || q.Preparatory != ph.Preparatory {
			continue
		}
		if prevEnd == nil {
			break
		}
		placed, warn, err := pl.place(q, calendar.AddBusinessDays(*prevEnd, 1))
		if err != nil {
			return nil, err
		}
		if warn != nil {
			out.Warnings = append(out.Warnings, *warn)
		}
		sorted[i] = placed
		prevEnd = placed.EndDate
	}

	if ph.Preparatory {
		if w := preparationOverrun(cat, sorted); w != nil {
			out.Warnings = append(out.Warnings, *w)
			warns, err := resequenceConstruction(cat, sorted, pl, w.ConflictingDate)
			if err != nil {
				return nil, err
			}
			out.Warnings = append(out.Warnings, warns...)
		}
	}

	for i := range sorted {
		if entryChanged(before[i], sorted[i]) {
			out.Changed = append(out.Changed, sorted[i].PhaseID)
		}
	}
	out.Entries = sorted
	return out, nil
}

func applyEdit(e *domain.ScheduleEntry, edit Edit, now time.Time) error {
	e.SetManual(domain.BoolFromPtrWithDefault(e.Manual, edit.SetManual), now)
	if edit.NewStart == nil && edit.NewEnd == nil {
		return nil
	}

	var start, end time.Time
	switch {
	case edit.NewStart != nil && edit.NewEnd != nil:
		start, end = calendar.Truncate(*edit.NewStart), calendar.Truncate(*edit.NewEnd)
	case edit.NewStart != nil:
		start = calendar.Truncate(*edit.NewStart)
		end = calendar.AddBusinessDays(start, e.DurationDays())
	default:
		end = calendar.Truncate(*edit.NewEnd)
		if e.StartDate != nil {
			start = *e.StartDate
		} else {
			start = calendar.SubtractBusinessDays(end, e.DurationDays())
		}
	}
	if end.Before(start) {
		return domain.Invalidf("phase %q would end %s before it starts %s",
			e.PhaseID, calendar.Format(end), calendar.Format(start))
	}

	if edit.NewEnd != nil {
		if span := calendar.BusinessDaysBetween(start, end); span > 0 {
			e.ActualDays = &span
		}
	}
	e.SetDates(start, end, now)
	return nil
}

// resequenceConstruction places the construction phases again from the
// earliest feasible start. Locked and completed phases hold their dates.
func resequenceConstruction(cat *catalog.Catalog, sorted []domain.ScheduleEntry, pl *placer, from time.Time) ([]domain.Warning, error) {
	var warns []domain.Warning
	next := from
	for i := range sorted {
		q, known := cat.Get(sorted[i].PhaseID)
		if !known || q.Preparatory {
			continue
		}
		placed, warn, err := pl.place(q, next)
		if err != nil {
			return nil, err
		}
		if warn != nil {
			warns = append(warns, *warn)
		}
		sorted[i] = placed
		next = calendar.AddBusinessDays(*placed.EndDate, 1)
	}
	return warns, nil
}

// preparationOverrun reports when the last preparatory phase now finishes too
// late for the stored start of the first construction phase.
func preparationOverrun(cat *catalog.Catalog, sorted []domain.ScheduleEntry) *domain.Warning {
	var lastPrepEnd *time.Time
	var firstBuild *domain.ScheduleEntry
	for i := range sorted {
		ph, ok := cat.Get(sorted[i].PhaseID)
		if !ok || !sorted[i].HasDates() {
			continue
		}
		if ph.Preparatory {
			lastPrepEnd = sorted[i].EndDate
		} else if firstBuild == nil {
			firstBuild = &sorted[i]
		}
	}
	if lastPrepEnd == nil || firstBuild == nil {
		return nil
	}
	feas := CheckFeasibility(*lastPrepEnd, *firstBuild.StartDate)
	if feas.Warning == nil {
		return nil
	}
	return &domain.Warning{
		Kind:            domain.WarnPreparationOverrun,
		PhaseID:         firstBuild.PhaseID,
		OriginalDate:    *firstBuild.StartDate,
		ConflictingDate: feas.EarliestStart,
		DelayDays:       feas.Warning.DelayDays,
	}
}

func entryChanged(a, b domain.ScheduleEntry) bool {
	return !domain.SameDate(a.StartDate, b.StartDate) ||
		!domain.SameDate(a.EndDate, b.EndDate) ||
		a.Manual != b.Manual ||
		domain.IntFromPtrWithDefault(-1, a.ActualDays) != domain.IntFromPtrWithDefault(-1, b.ActualDays)
}
