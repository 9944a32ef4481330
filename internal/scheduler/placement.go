package scheduler

import (
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/domain"
)

// placer applies the shared dependency rules to one phase at a time. It is used
// by both the forward pass and incremental recalculation so the two can never
// disagree about where a phase belongs.
type placer struct {
	projectID string
	existing  map[string]domain.ScheduleEntry
	// ends holds the latest known end date per phase, used to resolve
	// minimum-delay references.
	ends map[string]time.Time
	now  time.Time
}

func newPlacer(projectID string, existing []domain.ScheduleEntry, now time.Time) *placer {
	p := &placer{
		projectID: projectID,
		existing:  make(map[string]domain.ScheduleEntry, len(existing)),
		ends:      make(map[string]time.Time, len(existing)),
		now:       now,
	}
	for _, e := range existing {
		p.existing[e.PhaseID] = e.Clone()
		if e.EndDate != nil {
			p.ends[e.PhaseID] = *e.EndDate
		}
	}
	return p
}

// earliestStart pushes candidate forward to honour the phase's minimum delay.
// A delay landing on a weekend moves to the following Monday.
func (pl *placer) earliestStart(ph catalog.Phase, candidate time.Time) time.Time {
	start := calendar.NextBusinessDay(candidate)
	if ph.MinDelay == nil {
		return start
	}
	refEnd, ok := pl.ends[ph.MinDelay.AfterPhaseID]
	if !ok {
		return start
	}
	constrained := calendar.NextBusinessDay(calendar.AddDays(refEnd, ph.MinDelay.Days))
	if constrained.After(start) {
		return constrained
	}
	return start
}

// place computes the phase's dates from candidate. Fixed entries (manual or
// completed) keep their stored dates; a manual entry whose computed dates
// differ yields a locked_phase_conflict warning.
func (pl *placer) place(ph catalog.Phase, candidate time.Time) (domain.ScheduleEntry, *domain.Warning, error) {
	entry, found := pl.existing[ph.ID]
	if !found {
		entry = domain.ScheduleEntry{
			ProjectID: pl.projectID,
			PhaseID:   ph.ID,
			Status:    domain.StatusScheduled,
			CreatedAt: pl.now,
		}
	}
	entry.ProjectID = pl.projectID
	entry.EstimatedDays = ph.DurationDays

	duration := entry.DurationDays()
	if duration <= 0 {
		return domain.ScheduleEntry{}, nil, domain.Invalidf("phase %q has duration %d, must be positive", ph.ID, duration)
	}

	start := pl.earliestStart(ph, candidate)
	end := calendar.AddBusinessDays(start, duration)

	if found && entry.IsFixed() && entry.HasDates() {
		var warn *domain.Warning
		if entry.Manual && (!entry.StartDate.Equal(start) || !entry.EndDate.Equal(end)) {
			warn = &domain.Warning{
				Kind:            domain.WarnLockedPhaseConflict,
				PhaseID:         ph.ID,
				OriginalDate:    *entry.StartDate,
				ConflictingDate: start,
				DelayDays:       calendar.DaysBetween(*entry.StartDate, start),
			}
		}
		pl.record(entry)
		return entry, warn, nil
	}

	if !entry.HasDates() || !entry.StartDate.Equal(start) || !entry.EndDate.Equal(end) {
		entry.SetDates(start, end, pl.now)
	}
	pl.record(entry)
	return entry, nil, nil
}

func (pl *placer) record(e domain.ScheduleEntry) {
	pl.existing[e.PhaseID] = e
	if e.EndDate != nil {
		pl.ends[e.PhaseID] = *e.EndDate
	}
}
