package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chantier/internal/contract"
)

type fakeGenerate struct {
	calls []contract.GenerateRequest
	err   error
}

func (f *fakeGenerate) Generate(_ context.Context, req contract.GenerateRequest) (*contract.GenerateResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &contract.GenerateResponse{ProjectID: req.ProjectID, Version: 9, Unchanged: true}, nil
}

func TestGenerateUseCase_OverrideTakesPrecedence(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	fake := &fakeGenerate{}
	app.Generate = fake

	out, err := executeCmd(t, app, "schedule", "generate", "MAISON01", "--from", "toiture", "--target", "2025-09-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule unchanged (v9)")

	require.Len(t, fake.calls, 1)
	assert.Equal(t, "toiture", fake.calls[0].StartPhaseID)
	require.NotNil(t, fake.calls[0].TargetStart)
	assert.Equal(t, "2025-09-01", fake.calls[0].TargetStart.Format("2006-01-02"))
}

func TestGenerateUseCase_ErrorPropagates(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	app.Generate = &fakeGenerate{err: &contract.ScheduleError{Code: contract.ScheduleErrConflict, Message: "busy"}}

	_, err := executeCmd(t, app, "schedule", "generate", "MAISON01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFLICT: busy")
}

func TestUseCaseAccessors_FallBackToScheduleService(t *testing.T) {
	app := testApp(t)

	assert.Equal(t, app.Schedules, app.generateUseCase())
	assert.Equal(t, app.Schedules, app.recalculateUseCase())
	assert.Equal(t, app.Schedules, app.conflictsUseCase())
	assert.Equal(t, app.Schedules, app.emitAlertsUseCase())
	assert.Equal(t, app.Schedules, app.manualLockUseCase())
}
