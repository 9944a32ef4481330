package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; it should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "schedule_entries", "alerts"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_ProjectColumnsAndDefaults(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`SELECT name FROM pragma_table_info('projects') ORDER BY cid`)
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{
		"id", "short_id", "name", "target_start_date", "effective_start_date",
		"schedule_version", "schedule_digest", "created_at", "updated_at",
	}, cols)

	insertProject(t, db, "p1", "MAI01")
	var effective sql.NullString
	var version int
	var digest string
	require.NoError(t, db.QueryRow(`SELECT effective_start_date, schedule_version, schedule_digest FROM projects WHERE id = 'p1'`).
		Scan(&effective, &version, &digest))
	assert.False(t, effective.Valid, "never generated")
	assert.Zero(t, version)
	assert.Empty(t, digest)
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_schedule_entries_project",
		"idx_alerts_project",
		"idx_alerts_date",
		"uq_alerts_active_pair",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func insertProject(t *testing.T, db *sql.DB, id, shortID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, target_start_date, created_at, updated_at)
		VALUES (?, ?, 'Maison', '2025-02-01', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id, shortID)
	require.NoError(t, err)
}

func insertEntry(t *testing.T, db *sql.DB, id, projectID, phaseID string) error {
	t.Helper()
	_, err := db.Exec(`INSERT INTO schedule_entries (id, project_id, phase_id, estimated_days, created_at, updated_at)
		VALUES (?, ?, ?, 5, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`, id, projectID, phaseID)
	return err
}

func TestMigrate_EntryPhaseUniquePerProject(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MAI01")

	require.NoError(t, insertEntry(t, db, "e1", "p1", "toiture"))
	err := insertEntry(t, db, "e2", "p1", "toiture")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestMigrate_ActiveAlertPairUnique(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MAI01")
	require.NoError(t, insertEntry(t, db, "e1", "p1", "toiture"))

	insert := func(id string, dismissed int) error {
		_, err := db.Exec(`INSERT INTO alerts (id, schedule_entry_id, project_id, phase_id, alert_type, alert_date, is_dismissed, created_at)
			VALUES (?, 'e1', 'p1', 'toiture', 'supplier_call', '2025-05-01', ?, '2025-01-01T00:00:00Z')`, id, dismissed)
		return err
	}

	require.NoError(t, insert("a1", 1))
	require.NoError(t, insert("a2", 0))
	require.NoError(t, insert("a3", 1), "dismissed alerts do not count towards the pair")
	assert.Error(t, insert("a4", 0))
}

func TestMigrate_CascadeOnProjectDelete(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MAI01")
	require.NoError(t, insertEntry(t, db, "e1", "p1", "toiture"))

	_, err := db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schedule_entries`).Scan(&n))
	assert.Equal(t, 0, n)
}
