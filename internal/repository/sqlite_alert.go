package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/chantier/internal/db"
	"github.com/alexanderramin/chantier/internal/domain"
)

// SQLiteAlertRepo implements AlertRepo using a SQLite database.
type SQLiteAlertRepo struct {
	db db.DBTX
}

// NewSQLiteAlertRepo creates a new SQLiteAlertRepo.
func NewSQLiteAlertRepo(conn db.DBTX) *SQLiteAlertRepo {
	return &SQLiteAlertRepo{db: conn}
}

const alertColumns = `id, schedule_entry_id, project_id, phase_id, alert_type, alert_date,
	message, is_dismissed, created_at`

// Create inserts an alert. A second active alert for the same entry and type
// is rejected by the uq_alerts_active_pair index.
func (r *SQLiteAlertRepo) Create(ctx context.Context, a *domain.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ScheduleEntryID,
		a.ProjectID,
		a.PhaseID,
		string(a.Type),
		a.Date.Format(dateLayout),
		a.Message,
		boolToInt(a.Dismissed),
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting %s alert for %s: %w", a.Type, a.PhaseID, err)
	}
	return nil
}

func (r *SQLiteAlertRepo) GetByID(ctx context.Context, id string) (*domain.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`
	return scanAlert(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteAlertRepo) ListByProject(ctx context.Context, projectID string, includeDismissed bool) ([]domain.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE project_id = ?`
	if !includeDismissed {
		query += ` AND is_dismissed = 0`
	}
	query += ` ORDER BY alert_date, alert_type, phase_id`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alerts: %w", err)
	}
	return alerts, nil
}

func (r *SQLiteAlertRepo) UpdateSchedule(ctx context.Context, id string, date time.Time, message string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET alert_date = ?, message = ? WHERE id = ?`,
		date.Format(dateLayout), message, id)
	if err != nil {
		return fmt.Errorf("updating alert: %w", err)
	}
	return expectOneRow(res, "alert")
}

func (r *SQLiteAlertRepo) Dismiss(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE alerts SET is_dismissed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("dismissing alert: %w", err)
	}
	return expectOneRow(res, "alert")
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var a domain.Alert
	var typ, dateStr, createdAtStr string
	var dismissed int

	err := row.Scan(
		&a.ID, &a.ScheduleEntryID, &a.ProjectID, &a.PhaseID,
		&typ, &dateStr, &a.Message, &dismissed, &createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning alert: %w", err)
	}

	a.Type = domain.AlertType(typ)
	a.Dismissed = intToBool(dismissed)
	if a.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parsing alert_date: %w", err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &a, nil
}
