package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/metrics"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// MultiObserver forwards every event to each observer in order.
type MultiObserver []UseCaseObserver

func (m MultiObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range m {
		if obs != nil {
			obs.ObserveUseCase(ctx, event)
		}
	}
}

type logUseCaseObserver struct {
	logger *zap.Logger
}

// NewLogUseCaseObserver writes service use-case events to logger.
func NewLogUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 3+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		o.logger.Error("service_use_case", append(fields, zap.Error(event.Err))...)
		return
	}
	o.logger.Info("service_use_case", fields...)
}

type metricsUseCaseObserver struct {
	metrics *metrics.Metrics
}

// NewMetricsUseCaseObserver records use-case counts and durations, plus the
// warning, conflict and alert fields the schedule use cases report.
func NewMetricsUseCaseObserver(m *metrics.Metrics) UseCaseObserver {
	if m == nil {
		return NoopUseCaseObserver{}
	}
	return &metricsUseCaseObserver{metrics: m}
}

func (o *metricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.metrics.RecordUseCase(event.Name, event.Success, event.Duration)
	if kinds, ok := event.Fields[fieldWarningKinds].([]domain.WarningKind); ok {
		o.metrics.RecordWarnings(kinds)
	}
	if types, ok := event.Fields[fieldAlertTypes].([]domain.AlertType); ok {
		o.metrics.RecordAlerts(types)
	}
	if days, ok := event.Fields[fieldConflictDays].(int); ok {
		o.metrics.ConflictDays.Set(float64(days))
	}
}

const (
	fieldWarningKinds = "warning_kinds"
	fieldAlertTypes   = "alert_types"
	fieldConflictDays = "conflict_days"
)

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var active MultiObserver
	for _, obs := range observers {
		if obs != nil {
			active = append(active, obs)
		}
	}
	switch len(active) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return active[0]
	}
	return active
}

func warningKinds(warnings []domain.Warning) []domain.WarningKind {
	kinds := make([]domain.WarningKind, len(warnings))
	for i, w := range warnings {
		kinds[i] = w.Kind
	}
	return kinds
}

func alertTypes(alerts ...[]domain.Alert) []domain.AlertType {
	var types []domain.AlertType
	for _, group := range alerts {
		for _, a := range group {
			types = append(types, a.Type)
		}
	}
	return types
}
