package contract

import "github.com/alexanderramin/chantier/internal/app"

type GenerateRequest = app.GenerateRequest

func NewGenerateRequest(projectID string) GenerateRequest {
	return app.NewGenerateRequest(projectID)
}

type GenerateResponse = app.GenerateResponse

type EditRequest = app.EditRequest

type RecalcResponse = app.RecalcResponse

type EmitAlertsResponse = app.EmitAlertsResponse

type ConflictReport = app.ConflictReport

type ScheduleErrorCode = app.ScheduleErrorCode

const (
	ScheduleErrValidation ScheduleErrorCode = app.ScheduleErrValidation
	ScheduleErrNotFound   ScheduleErrorCode = app.ScheduleErrNotFound
	ScheduleErrConflict   ScheduleErrorCode = app.ScheduleErrConflict
	ScheduleErrInternal   ScheduleErrorCode = app.ScheduleErrInternal
)

type ScheduleError = app.ScheduleError
