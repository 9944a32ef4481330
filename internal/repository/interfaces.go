package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	// UpdateScheduleState records a committed schedule write. It fails with
	// ErrStaleVersion unless the stored version equals expectedVersion, and
	// returns the new version.
	UpdateScheduleState(ctx context.Context, id string, expectedVersion int, effectiveStart *time.Time, digest string, now time.Time) (int, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleRepo interface {
	// UpsertBatch inserts entries or, for existing (project, phase) pairs,
	// refreshes their dates and estimate. Status, lock flag and actual
	// duration of existing rows are left alone.
	UpsertBatch(ctx context.Context, entries []domain.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*domain.ScheduleEntry, error)
	GetByPhase(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error)
	Update(ctx context.Context, e *domain.ScheduleEntry) error
	SetManual(ctx context.Context, id string, manual bool, now time.Time) error
}

type AlertRepo interface {
	Create(ctx context.Context, a *domain.Alert) error
	GetByID(ctx context.Context, id string) (*domain.Alert, error)
	ListByProject(ctx context.Context, projectID string, includeDismissed bool) ([]domain.Alert, error)
	// UpdateSchedule moves an alert to a new date and message.
	UpdateSchedule(ctx context.Context, id string, date time.Time, message string) error
	Dismiss(ctx context.Context, id string) error
}
