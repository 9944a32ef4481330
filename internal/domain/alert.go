package domain

import "time"

// Alert is a reminder derived from a schedule entry's dates. At most one
// non-dismissed alert exists per (ScheduleEntryID, Type).
type Alert struct {
	ID              string
	ScheduleEntryID string
	ProjectID       string
	PhaseID         string
	Type            AlertType
	Date            time.Time
	Message         string
	Dismissed       bool
	CreatedAt       time.Time
}

// PairKey identifies the (entry, type) pair used for de-duplication. Alerts
// derived from entries that were never persisted fall back to the phase.
func (a *Alert) PairKey() string {
	entry := a.ScheduleEntryID
	if entry == "" {
		entry = a.ProjectID + "/" + a.PhaseID
	}
	return entry + "|" + string(a.Type)
}
