package app

import (
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

type GenerateRequest struct {
	ProjectID string
	// TargetStart overrides the project's stored target when set.
	TargetStart *time.Time
	// StartPhaseID regenerates from this phase onward; empty means the whole
	// catalog.
	StartPhaseID string
	Today        *time.Time
}

func NewGenerateRequest(projectID string) GenerateRequest {
	return GenerateRequest{ProjectID: projectID}
}

type GenerateResponse struct {
	ProjectID  string
	Entries    []domain.ScheduleEntry
	Anchor     time.Time
	PrepFinish time.Time
	Warnings   []domain.Warning
	Digest     string
	Version    int
	// Unchanged is set when the stored schedule already matched and nothing
	// was written.
	Unchanged bool
}

type EditRequest struct {
	ProjectID string
	PhaseID   string
	NewStart  *time.Time
	NewEnd    *time.Time
	SetManual *bool
}

type RecalcResponse struct {
	ProjectID string
	Entries   []domain.ScheduleEntry
	Changed   []string
	Warnings  []domain.Warning
	Version   int
}

type EmitAlertsResponse struct {
	ProjectID string
	Created   []domain.Alert
	Updated   []domain.Alert
	// Alerts is every active alert after the merge, ordered by date.
	Alerts []domain.Alert
}

type ConflictReport struct {
	ProjectID string
	Conflicts []domain.Conflict
}

type ScheduleErrorCode string

const (
	ScheduleErrValidation ScheduleErrorCode = "VALIDATION"
	ScheduleErrNotFound   ScheduleErrorCode = "NOT_FOUND"
	ScheduleErrConflict   ScheduleErrorCode = "CONFLICT"
	ScheduleErrInternal   ScheduleErrorCode = "INTERNAL_ERROR"
)

type ScheduleError struct {
	Code    ScheduleErrorCode
	Message string
	Err     error
}

func (e *ScheduleError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *ScheduleError) Unwrap() error {
	return e.Err
}
