package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema. Every statement is idempotent, so it runs on
// each OpenDB.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                   TEXT PRIMARY KEY,
		short_id             TEXT NOT NULL,
		name                 TEXT NOT NULL,
		target_start_date    TEXT NOT NULL,
		effective_start_date TEXT,
		schedule_version     INTEGER NOT NULL DEFAULT 0,
		schedule_digest      TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase_id       TEXT NOT NULL,
		start_date     TEXT,
		end_date       TEXT,
		estimated_days INTEGER NOT NULL CHECK(estimated_days > 0),
		actual_days    INTEGER CHECK(actual_days IS NULL OR actual_days > 0),
		is_manual      INTEGER NOT NULL DEFAULT 0,
		status         TEXT NOT NULL DEFAULT 'scheduled'
		               CHECK(status IN ('scheduled','in_progress','completed')),
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE(project_id, phase_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_schedule_entries_project ON schedule_entries(project_id)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id                TEXT PRIMARY KEY,
		schedule_entry_id TEXT NOT NULL REFERENCES schedule_entries(id) ON DELETE CASCADE,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase_id          TEXT NOT NULL,
		alert_type        TEXT NOT NULL
		                  CHECK(alert_type IN ('supplier_call','fabrication_start','measurement','contact_subcontractor')),
		alert_date        TEXT NOT NULL,
		message           TEXT NOT NULL DEFAULT '',
		is_dismissed      INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_alerts_project ON alerts(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_date ON alerts(alert_date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_alerts_active_pair
		ON alerts(schedule_entry_id, alert_type) WHERE is_dismissed = 0`,
}
