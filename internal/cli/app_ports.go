package cli

import "github.com/alexanderramin/chantier/internal/app"

func (a *App) generateUseCase() app.GenerateScheduleUseCase {
	if a.Generate != nil {
		return a.Generate
	}
	return a.Schedules
}

func (a *App) recalculateUseCase() app.RecalculateScheduleUseCase {
	if a.Recalculate != nil {
		return a.Recalculate
	}
	return a.Schedules
}

func (a *App) conflictsUseCase() app.DetectConflictsUseCase {
	if a.Conflicts != nil {
		return a.Conflicts
	}
	return a.Schedules
}

func (a *App) emitAlertsUseCase() app.EmitAlertsUseCase {
	if a.Alerts != nil {
		return a.Alerts
	}
	return a.Schedules
}

func (a *App) manualLockUseCase() app.ToggleManualLockUseCase {
	if a.ManualLock != nil {
		return a.ManualLock
	}
	return a.Schedules
}
