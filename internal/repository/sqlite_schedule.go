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

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

const entryColumns = `id, project_id, phase_id, start_date, end_date, estimated_days,
	actual_days, is_manual, status, created_at, updated_at`

func (r *SQLiteScheduleRepo) UpsertBatch(ctx context.Context, entries []domain.ScheduleEntry) error {
	query := `INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, phase_id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			estimated_days = excluded.estimated_days,
			updated_at = excluded.updated_at`
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			return fmt.Errorf("upserting schedule entry %s: missing id", e.Key())
		}
		_, err := r.db.ExecContext(ctx, query,
			e.ID,
			e.ProjectID,
			e.PhaseID,
			nullableTimeToString(e.StartDate, dateLayout),
			nullableTimeToString(e.EndDate, dateLayout),
			e.EstimatedDays,
			nullableIntToValue(e.ActualDays),
			boolToInt(e.Manual),
			string(e.Status),
			e.CreatedAt.Format(time.RFC3339),
			e.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("upserting schedule entry %s: %w", e.Key(), err)
		}
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE id = ?`
	return scanEntry(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteScheduleRepo) GetByPhase(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE project_id = ? AND phase_id = ?`
	return scanEntry(r.db.QueryRowContext(ctx, query, projectID, phaseID))
}

// ListByProject returns the project's entries ordered by start date. Callers
// needing catalog order sort the result themselves.
func (r *SQLiteScheduleRepo) ListByProject(ctx context.Context, projectID string) ([]domain.ScheduleEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE project_id = ?
		ORDER BY start_date IS NULL, start_date, phase_id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, e *domain.ScheduleEntry) error {
	query := `UPDATE schedule_entries
		SET start_date = ?, end_date = ?, estimated_days = ?, actual_days = ?,
			is_manual = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(e.StartDate, dateLayout),
		nullableTimeToString(e.EndDate, dateLayout),
		e.EstimatedDays,
		nullableIntToValue(e.ActualDays),
		boolToInt(e.Manual),
		string(e.Status),
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule entry %s: %w", e.Key(), err)
	}
	return expectOneRow(res, "schedule entry")
}

func (r *SQLiteScheduleRepo) SetManual(ctx context.Context, id string, manual bool, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_entries SET is_manual = ?, updated_at = ? WHERE id = ?`,
		boolToInt(manual), now.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("setting manual flag: %w", err)
	}
	return expectOneRow(res, "schedule entry")
}

func scanEntry(row rowScanner) (*domain.ScheduleEntry, error) {
	var e domain.ScheduleEntry
	var startStr, endStr sql.NullString
	var actual sql.NullInt64
	var manual int
	var status, createdAtStr, updatedAtStr string

	err := row.Scan(
		&e.ID, &e.ProjectID, &e.PhaseID,
		&startStr, &endStr,
		&e.EstimatedDays, &actual,
		&manual, &status,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning schedule entry: %w", err)
	}

	e.StartDate = parseNullableTime(startStr, dateLayout)
	e.EndDate = parseNullableTime(endStr, dateLayout)
	e.ActualDays = nullableInt(actual)
	e.Manual = intToBool(manual)
	e.Status = domain.EntryStatus(status)
	e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
