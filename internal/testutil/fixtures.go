package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithTargetStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetStartDate = d
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

// now returns the current UTC time truncated to the second, matching the
// RFC3339 precision used in storage.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	ts := now()
	p := &domain.Project{
		ID:              uuid.New().String(),
		ShortID:         defaultShortID(name),
		Name:            name,
		TargetStartDate: calendar.Truncate(ts.AddDate(0, 6, 0)),
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ScheduleEntry options
type EntryOption func(*domain.ScheduleEntry)

func WithDates(start, end time.Time) EntryOption {
	return func(e *domain.ScheduleEntry) {
		e.StartDate = &start
		e.EndDate = &end
	}
}

func WithManual() EntryOption {
	return func(e *domain.ScheduleEntry) {
		e.Manual = true
	}
}

func WithEntryStatus(s domain.EntryStatus) EntryOption {
	return func(e *domain.ScheduleEntry) {
		e.Status = s
	}
}

func WithActualDays(d int) EntryOption {
	return func(e *domain.ScheduleEntry) {
		e.ActualDays = &d
	}
}

func WithEstimatedDays(d int) EntryOption {
	return func(e *domain.ScheduleEntry) {
		e.EstimatedDays = d
	}
}

func NewTestEntry(projectID, phaseID string, opts ...EntryOption) *domain.ScheduleEntry {
	ts := now()
	e := &domain.ScheduleEntry{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		PhaseID:       phaseID,
		EstimatedDays: 5,
		Status:        domain.StatusScheduled,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Alert options
type AlertOption func(*domain.Alert)

func WithDismissed() AlertOption {
	return func(a *domain.Alert) {
		a.Dismissed = true
	}
}

func WithMessage(msg string) AlertOption {
	return func(a *domain.Alert) {
		a.Message = msg
	}
}

func NewTestAlert(entry *domain.ScheduleEntry, typ domain.AlertType, date time.Time, opts ...AlertOption) *domain.Alert {
	a := &domain.Alert{
		ID:              uuid.New().String(),
		ScheduleEntryID: entry.ID,
		ProjectID:       entry.ProjectID,
		PhaseID:         entry.PhaseID,
		Type:            typ,
		Date:            date,
		Message:         string(typ) + " for " + entry.PhaseID,
		CreatedAt:       now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
