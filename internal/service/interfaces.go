package service

import (
	"context"
	"time"

	"github.com/alexanderramin/chantier/internal/contract"
	"github.com/alexanderramin/chantier/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	// Resolve finds a project by ID or short ID.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type ScheduleService interface {
	Generate(ctx context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error)
	RecalculateFromEdit(ctx context.Context, req contract.EditRequest) (*contract.RecalcResponse, error)
	DetectConflicts(ctx context.Context, projectID string) (*contract.ConflictReport, error)
	EmitAlerts(ctx context.Context, projectID string, today time.Time) (*contract.EmitAlertsResponse, error)
	ToggleManualLock(ctx context.Context, projectID, phaseID string, locked bool) (*domain.ScheduleEntry, error)

	List(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error)
	MarkInProgress(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error)
	MarkCompleted(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error)
	Reopen(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error)

	ListAlerts(ctx context.Context, projectID string, includeDismissed bool) ([]domain.Alert, error)
	DismissAlert(ctx context.Context, alertID string) error
}
