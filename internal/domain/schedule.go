package domain

import (
	"fmt"
	"time"
)

// ScheduleEntry is one phase of one project's schedule. (ProjectID, PhaseID)
// is unique. Manual marks dates the user committed to; recalculation must
// never move them.
type ScheduleEntry struct {
	ID            string
	ProjectID     string
	PhaseID       string
	StartDate     *time.Time
	EndDate       *time.Time
	EstimatedDays int
	ActualDays    *int
	Manual        bool
	Status        EntryStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key returns the composite identity of the entry.
func (e *ScheduleEntry) Key() string {
	return e.ProjectID + "/" + e.PhaseID
}

// DurationDays returns the business-day duration used for scheduling:
// the actual override when present, otherwise the estimate.
func (e *ScheduleEntry) DurationDays() int {
	return IntFromPtrWithDefault(e.EstimatedDays, e.ActualDays)
}

// HasDates reports whether both dates have been computed.
func (e *ScheduleEntry) HasDates() bool {
	return e.StartDate != nil && e.EndDate != nil
}

// Contains reports whether day falls inside [StartDate, EndDate].
func (e *ScheduleEntry) Contains(day time.Time) bool {
	if !e.HasDates() {
		return false
	}
	return !day.Before(*e.StartDate) && !day.After(*e.EndDate)
}

// IsFixed reports whether recalculation must treat the entry's dates as given.
func (e *ScheduleEntry) IsFixed() bool {
	return e.Manual || e.Status == StatusCompleted
}

// SetDates replaces both dates.
func (e *ScheduleEntry) SetDates(start, end time.Time, now time.Time) {
	e.StartDate = &start
	e.EndDate = &end
	e.UpdatedAt = now
}

// MarkInProgress transitions a scheduled entry to in_progress.
// Idempotent if already in progress. Fails for completed entries.
func (e *ScheduleEntry) MarkInProgress(now time.Time) error {
	switch e.Status {
	case StatusInProgress:
		return nil
	case StatusCompleted:
		return fmt.Errorf("cannot start phase %s: already completed", e.PhaseID)
	}
	e.Status = StatusInProgress
	e.UpdatedAt = now
	return nil
}

// MarkCompleted transitions the entry to completed. Allowed from scheduled
// (every sub-task finished at once) and in_progress. Idempotent.
func (e *ScheduleEntry) MarkCompleted(now time.Time) error {
	if e.Status == StatusCompleted {
		return nil
	}
	if !e.HasDates() {
		return fmt.Errorf("cannot complete phase %s: not scheduled yet", e.PhaseID)
	}
	e.Status = StatusCompleted
	e.UpdatedAt = now
	return nil
}

// Reopen moves a completed entry back to scheduled.
func (e *ScheduleEntry) Reopen(now time.Time) error {
	if e.Status != StatusCompleted {
		return fmt.Errorf("cannot reopen phase %s with status %s", e.PhaseID, e.Status)
	}
	e.Status = StatusScheduled
	e.UpdatedAt = now
	return nil
}

// SetManual flips the lock flag. It never touches dates.
func (e *ScheduleEntry) SetManual(locked bool, now time.Time) bool {
	if e.Manual == locked {
		return false
	}
	e.Manual = locked
	e.UpdatedAt = now
	return true
}

// Clone returns a deep copy so pure computations never alias caller state.
func (e ScheduleEntry) Clone() ScheduleEntry {
	c := e
	if e.StartDate != nil {
		c.StartDate = TimePtr(*e.StartDate)
	}
	if e.EndDate != nil {
		c.EndDate = TimePtr(*e.EndDate)
	}
	if e.ActualDays != nil {
		v := *e.ActualDays
		c.ActualDays = &v
	}
	return c
}

// CloneEntries deep-copies a slice of entries.
func CloneEntries(entries []ScheduleEntry) []ScheduleEntry {
	out := make([]ScheduleEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
