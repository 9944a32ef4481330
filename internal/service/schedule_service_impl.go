package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/contract"
	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/lock"
	"github.com/alexanderramin/chantier/internal/notify"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/alexanderramin/chantier/internal/scheduler"
)

type scheduleService struct {
	catalog   *catalog.Catalog
	projects  repository.ProjectRepo
	schedules repository.ScheduleRepo
	alerts    repository.AlertRepo
	uow       db.UnitOfWork

	locker    lock.Locker
	publisher notify.Publisher
	logger    *zap.Logger
	clock     func() time.Time
	observer  UseCaseObserver
}

// ScheduleOption configures optional collaborators of the schedule service.
type ScheduleOption func(*scheduleService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) ScheduleOption {
	return func(s *scheduleService) { s.clock = clock }
}

// WithLocker replaces the in-process project lock.
func WithLocker(l lock.Locker) ScheduleOption {
	return func(s *scheduleService) { s.locker = l }
}

// WithPublisher sends created and rescheduled alerts after each commit.
func WithPublisher(p notify.Publisher) ScheduleOption {
	return func(s *scheduleService) { s.publisher = p }
}

func WithLogger(l *zap.Logger) ScheduleOption {
	return func(s *scheduleService) { s.logger = l }
}

func WithObservers(observers ...UseCaseObserver) ScheduleOption {
	return func(s *scheduleService) { s.observer = useCaseObserverOrNoop(observers) }
}

func NewScheduleService(
	cat *catalog.Catalog,
	projects repository.ProjectRepo,
	schedules repository.ScheduleRepo,
	alerts repository.AlertRepo,
	uow db.UnitOfWork,
	opts ...ScheduleOption,
) ScheduleService {
	s := &scheduleService{
		catalog:   cat,
		projects:  projects,
		schedules: schedules,
		alerts:    alerts,
		uow:       uow,
		locker:    lock.NewLocal(),
		logger:    zap.NewNop(),
		clock:     func() time.Time { return time.Now().UTC() },
		observer:  NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *scheduleService) now() time.Time {
	return s.clock().UTC().Truncate(time.Second)
}

// finish classifies the error and reports the use case. It runs deferred with
// a pointer to the caller's named error.
func (s *scheduleService) finish(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	*errp = toScheduleError(*errp)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *errp == nil,
		Err:       *errp,
		Fields:    fields,
	})
}

func (s *scheduleService) Generate(ctx context.Context, req contract.GenerateRequest) (resp *contract.GenerateResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ProjectID, "start_phase": req.StartPhaseID}
	defer s.finish(ctx, "generate-schedule", startedAt, fields, &err)

	startIndex, err := scheduler.ResolveStartIndex(s.catalog, req.StartPhaseID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	today := calendar.Truncate(now)
	if req.Today != nil {
		today = calendar.Truncate(*req.Today)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		project, err := txProjects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		target := project.TargetStartDate
		if req.TargetStart != nil {
			target = calendar.Truncate(*req.TargetStart)
		}

		existing, err := txSchedules.ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}

		plan, err := scheduler.Generate(s.catalog, scheduler.GenerateInput{
			ProjectID:   project.ID,
			TargetStart: target,
			StartIndex:  startIndex,
			Today:       today,
			Existing:    existing,
			Now:         now,
		})
		if err != nil {
			return err
		}
		for i := range plan.Entries {
			if plan.Entries[i].ID == "" {
				plan.Entries[i].ID = uuid.New().String()
			}
		}

		full := scheduler.SortByCatalog(s.catalog, mergeByPhase(existing, plan.Entries))
		digest, err := scheduler.Fingerprint(full)
		if err != nil {
			return err
		}

		resp = &contract.GenerateResponse{
			ProjectID:  project.ID,
			Entries:    full,
			Anchor:     plan.Anchor,
			PrepFinish: plan.PrepFinish,
			Warnings:   plan.Warnings,
			Digest:     digest,
			Version:    project.ScheduleVersion,
		}

		if project.ScheduleMatches(digest, plan.Anchor) {
			resp.Unchanged = true
			return nil
		}

		if err := txSchedules.UpsertBatch(ctx, plan.Entries); err != nil {
			return err
		}
		anchor := plan.Anchor
		resp.Version, err = s.commitScheduleState(ctx, txProjects, project, &anchor, digest, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["entries"] = len(resp.Entries)
	fields["unchanged"] = resp.Unchanged
	fields["version"] = resp.Version
	fields[fieldWarningKinds] = warningKinds(resp.Warnings)
	return resp, nil
}

func (s *scheduleService) RecalculateFromEdit(ctx context.Context, req contract.EditRequest) (resp *contract.RecalcResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ProjectID, "phase_id": req.PhaseID}
	defer s.finish(ctx, "recalculate-schedule", startedAt, fields, &err)

	if req.PhaseID == "" {
		return nil, domain.Invalidf("phase is required")
	}

	unlock, err := s.locker.Lock(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		project, err := txProjects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return err
		}
		entries, err := txSchedules.ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}

		rec, err := scheduler.Recalculate(s.catalog, entries, scheduler.Edit{
			PhaseID:   req.PhaseID,
			NewStart:  req.NewStart,
			NewEnd:    req.NewEnd,
			SetManual: req.SetManual,
		}, now)
		if err != nil {
			return err
		}

		byPhase := make(map[string]*domain.ScheduleEntry, len(rec.Entries))
		for i := range rec.Entries {
			byPhase[rec.Entries[i].PhaseID] = &rec.Entries[i]
		}
		for _, phaseID := range rec.Changed {
			if err := txSchedules.Update(ctx, byPhase[phaseID]); err != nil {
				return err
			}
		}

		resp = &contract.RecalcResponse{
			ProjectID: project.ID,
			Entries:   rec.Entries,
			Changed:   rec.Changed,
			Warnings:  rec.Warnings,
			Version:   project.ScheduleVersion,
		}
		if len(rec.Changed) == 0 {
			return nil
		}

		digest, err := scheduler.Fingerprint(rec.Entries)
		if err != nil {
			return err
		}
		effective := constructionStart(s.catalog, rec.Entries)
		if effective == nil {
			effective = project.EffectiveStartDate
		}
		resp.Version, err = s.commitScheduleState(ctx, txProjects, project, effective, digest, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields["changed"] = len(resp.Changed)
	fields["version"] = resp.Version
	fields[fieldWarningKinds] = warningKinds(resp.Warnings)
	return resp, nil
}

func (s *scheduleService) DetectConflicts(ctx context.Context, projectID string) (report *contract.ConflictReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID}
	defer s.finish(ctx, "detect-conflicts", startedAt, fields, &err)

	entries, err := s.listEntries(ctx, projectID)
	if err != nil {
		return nil, err
	}

	report = &contract.ConflictReport{
		ProjectID: projectID,
		Conflicts: scheduler.DetectConflicts(s.catalog, entries),
	}
	fields[fieldConflictDays] = len(report.Conflicts)
	return report, nil
}

func (s *scheduleService) EmitAlerts(ctx context.Context, projectID string, today time.Time) (resp *contract.EmitAlertsResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID}
	defer s.finish(ctx, "emit-alerts", startedAt, fields, &err)

	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	if today.IsZero() {
		today = now
	}
	today = calendar.Truncate(today)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)
		txAlerts := repository.NewSQLiteAlertRepo(tx)

		if _, err := txProjects.GetByID(ctx, projectID); err != nil {
			return err
		}
		entries, err := txSchedules.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		existing, err := txAlerts.ListByProject(ctx, projectID, true)
		if err != nil {
			return err
		}

		create, update := scheduler.MergeAlerts(existing, scheduler.DeriveAlerts(s.catalog, entries, today))
		for i := range create {
			create[i].ID = uuid.New().String()
			create[i].CreatedAt = now
			if err := txAlerts.Create(ctx, &create[i]); err != nil {
				return err
			}
		}
		for _, a := range update {
			if err := txAlerts.UpdateSchedule(ctx, a.ID, a.Date, a.Message); err != nil {
				return err
			}
		}

		active, err := txAlerts.ListByProject(ctx, projectID, false)
		if err != nil {
			return err
		}
		scheduler.SortAlerts(active)

		resp = &contract.EmitAlertsResponse{
			ProjectID: projectID,
			Created:   create,
			Updated:   update,
			Alerts:    active,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, projectID, resp.Created, resp.Updated)

	fields["created"] = len(resp.Created)
	fields["updated"] = len(resp.Updated)
	fields[fieldAlertTypes] = alertTypes(resp.Created, resp.Updated)
	return resp, nil
}

// publish runs after commit. Delivery failures are logged, never returned:
// the alerts are already stored and the next emit will not resend them.
func (s *scheduleService) publish(ctx context.Context, projectID string, groups ...[]domain.Alert) {
	if s.publisher == nil {
		return
	}
	var out []domain.Alert
	for _, g := range groups {
		out = append(out, g...)
	}
	if len(out) == 0 {
		return
	}
	if err := s.publisher.PublishAlerts(ctx, out); err != nil {
		s.logger.Warn("publishing alerts failed",
			zap.String("project_id", projectID),
			zap.Int("alerts", len(out)),
			zap.Error(err),
		)
	}
}

func (s *scheduleService) ToggleManualLock(ctx context.Context, projectID, phaseID string, locked bool) (entry *domain.ScheduleEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "phase_id": phaseID, "locked": locked}
	defer s.finish(ctx, "toggle-manual-lock", startedAt, fields, &err)

	return s.mutateEntry(ctx, projectID, phaseID, func(e *domain.ScheduleEntry, now time.Time) error {
		e.SetManual(locked, now)
		return nil
	})
}

func (s *scheduleService) MarkInProgress(ctx context.Context, projectID, phaseID string) (entry *domain.ScheduleEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "phase_id": phaseID}
	defer s.finish(ctx, "mark-in-progress", startedAt, fields, &err)

	return s.mutateEntry(ctx, projectID, phaseID, func(e *domain.ScheduleEntry, now time.Time) error {
		return validation(e.MarkInProgress(now))
	})
}

func (s *scheduleService) MarkCompleted(ctx context.Context, projectID, phaseID string) (entry *domain.ScheduleEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "phase_id": phaseID}
	defer s.finish(ctx, "mark-completed", startedAt, fields, &err)

	return s.mutateEntry(ctx, projectID, phaseID, func(e *domain.ScheduleEntry, now time.Time) error {
		return validation(e.MarkCompleted(now))
	})
}

func (s *scheduleService) Reopen(ctx context.Context, projectID, phaseID string) (entry *domain.ScheduleEntry, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": projectID, "phase_id": phaseID}
	defer s.finish(ctx, "reopen-phase", startedAt, fields, &err)

	return s.mutateEntry(ctx, projectID, phaseID, func(e *domain.ScheduleEntry, now time.Time) error {
		return validation(e.Reopen(now))
	})
}

// mutateEntry applies fn to one entry and stores it when the lock flag or
// status changed. Dates are never touched and nothing is recalculated.
func (s *scheduleService) mutateEntry(ctx context.Context, projectID, phaseID string, fn func(e *domain.ScheduleEntry, now time.Time) error) (*domain.ScheduleEntry, error) {
	unlock, err := s.locker.Lock(ctx, projectID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	var entry *domain.ScheduleEntry
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txSchedules := repository.NewSQLiteScheduleRepo(tx)

		project, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		entry, err = txSchedules.GetByPhase(ctx, projectID, phaseID)
		if err != nil {
			return err
		}

		manual, status := entry.Manual, entry.Status
		if err := fn(entry, now); err != nil {
			return err
		}
		switch {
		case entry.Status != status:
			err = txSchedules.Update(ctx, entry)
		case entry.Manual != manual:
			err = txSchedules.SetManual(ctx, entry.ID, entry.Manual, now)
		default:
			return nil
		}
		if err != nil {
			return err
		}

		all, err := txSchedules.ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		digest, err := scheduler.Fingerprint(scheduler.SortByCatalog(s.catalog, all))
		if err != nil {
			return err
		}
		_, err = s.commitScheduleState(ctx, txProjects, project, project.EffectiveStartDate, digest, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// commitScheduleState bumps the project's schedule version. A version that
// moved since project was read means another writer got in first.
func (s *scheduleService) commitScheduleState(ctx context.Context, projects repository.ProjectRepo, project *domain.Project, effective *time.Time, digest string, now time.Time) (int, error) {
	version, err := projects.UpdateScheduleState(ctx, project.ID, project.ScheduleVersion, effective, digest, now)
	if errors.Is(err, repository.ErrStaleVersion) {
		return 0, fmt.Errorf("%w: %v", ErrConcurrentModification, err)
	}
	return version, err
}

func (s *scheduleService) List(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	entries, err := s.listEntries(ctx, projectID)
	return entries, toScheduleError(err)
}

func (s *scheduleService) listEntries(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	entries, err := s.schedules.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return scheduler.SortByCatalog(s.catalog, entries), nil
}

func (s *scheduleService) ListAlerts(ctx context.Context, projectID string, includeDismissed bool) ([]domain.Alert, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, toScheduleError(err)
	}
	alerts, err := s.alerts.ListByProject(ctx, projectID, includeDismissed)
	if err != nil {
		return nil, toScheduleError(err)
	}
	scheduler.SortAlerts(alerts)
	return alerts, nil
}

func (s *scheduleService) DismissAlert(ctx context.Context, alertID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"alert_id": alertID}
	defer s.finish(ctx, "dismiss-alert", startedAt, fields, &err)

	return s.alerts.Dismiss(ctx, alertID)
}
