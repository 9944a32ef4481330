// Package notify announces newly scheduled alerts to other systems.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/domain"
)

// AlertEvent is the wire form of a created or rescheduled alert.
type AlertEvent struct {
	AlertID   string `json:"alert_id"`
	ProjectID string `json:"project_id"`
	EntryID   string `json:"schedule_entry_id"`
	PhaseID   string `json:"phase_id"`
	Type      string `json:"alert_type"`
	Date      string `json:"alert_date"`
	Message   string `json:"message"`
}

// NewAlertEvent converts an alert to its wire form.
func NewAlertEvent(a domain.Alert) AlertEvent {
	return AlertEvent{
		AlertID:   a.ID,
		ProjectID: a.ProjectID,
		EntryID:   a.ScheduleEntryID,
		PhaseID:   a.PhaseID,
		Type:      string(a.Type),
		Date:      calendar.Format(a.Date),
		Message:   a.Message,
	}
}

// RoutingKey returns the topic routing key for an alert type.
func RoutingKey(t domain.AlertType) string {
	return "alert." + string(t)
}

// Publisher delivers alert events. Implementations must be safe to call after
// the database transaction that produced the alerts has committed.
type Publisher interface {
	PublishAlerts(ctx context.Context, alerts []domain.Alert) error
}

// LogPublisher writes events to the logger instead of a broker.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) PublishAlerts(_ context.Context, alerts []domain.Alert) error {
	for _, a := range alerts {
		ev := NewAlertEvent(a)
		p.logger.Info("alert scheduled",
			zap.String("routing_key", RoutingKey(a.Type)),
			zap.String("project_id", ev.ProjectID),
			zap.String("phase_id", ev.PhaseID),
			zap.String("alert_date", ev.Date),
		)
	}
	return nil
}
