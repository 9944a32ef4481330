package app

import (
	"context"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

type GenerateScheduleUseCase interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type RecalculateScheduleUseCase interface {
	RecalculateFromEdit(ctx context.Context, req EditRequest) (*RecalcResponse, error)
}

type DetectConflictsUseCase interface {
	DetectConflicts(ctx context.Context, projectID string) (*ConflictReport, error)
}

type EmitAlertsUseCase interface {
	EmitAlerts(ctx context.Context, projectID string, today time.Time) (*EmitAlertsResponse, error)
}

type ToggleManualLockUseCase interface {
	ToggleManualLock(ctx context.Context, projectID, phaseID string, locked bool) (*domain.ScheduleEntry, error)
}
