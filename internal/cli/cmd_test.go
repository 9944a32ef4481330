package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/contract"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/repository"
	"github.com/alexanderramin/chantier/internal/service"
	"github.com/alexanderramin/chantier/internal/testutil"
)

var cliNow = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	projRepo := repository.NewSQLiteProjectRepo(database)
	schedRepo := repository.NewSQLiteScheduleRepo(database)
	alertRepo := repository.NewSQLiteAlertRepo(database)
	clock := func() time.Time { return cliNow }

	return &App{
		Projects: service.NewProjectService(projRepo),
		Schedules: service.NewScheduleService(catalog.Default(), projRepo, schedRepo, alertRepo,
			testutil.NewTestUoW(database), service.WithClock(clock)),
		Catalog: catalog.Default(),
		Now:     clock,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// seedProject creates MAISON01 targeting 2025-02-01 through the CLI.
func seedProject(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "project", "add", "--id", "maison01", "--name", "Maison", "--target", "2025-02-01")
	require.NoError(t, err)
}

func seedSchedule(t *testing.T, app *App) {
	t.Helper()
	seedProject(t, app)
	_, err := executeCmd(t, app, "schedule", "generate", "MAISON01", "--today", "2025-01-06")
	require.NoError(t, err)
}

// --- root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "chantier")
	assert.Contains(t, output, "schedule")
}

// --- project ---

func TestProjectAddCmd_RequiresFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--name", "Maison")
	assert.Error(t, err)
}

func TestProjectAddCmd_InvalidTarget(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "MAISON01", "--name", "Maison", "--target", "01/02/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target start")
}

func TestProjectAddCmd_InvalidShortID(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--id", "M1", "--name", "Maison", "--target", "2025-02-01")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectListCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")

	seedProject(t, app)
	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "MAISON01")
	assert.Contains(t, out, "not generated")
}

func TestProjectInspectCmd_AfterGenerate(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "project", "inspect", "maison01")
	require.NoError(t, err)
	assert.Contains(t, out, "Maison")
	assert.Contains(t, out, "PROGRESS")
	assert.Contains(t, out, fmt.Sprintf("0/%d", catalog.Default().Len()))
}

func TestProjectRemoveCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "project", "remove", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed project")

	_, err = executeCmd(t, app, "schedule", "show", "MAISON01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project not found")
}

// --- schedule ---

func TestScheduleGenerateCmd_ReanchorsAndWarns(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "schedule", "generate", "MAISON01", "--today", "2025-01-06")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated schedule v1")
	assert.Contains(t, out, "Fri Apr 11, 2025")
	assert.Contains(t, out, "Structure et charpente")
	assert.Contains(t, out, "WARNINGS")
	assert.Contains(t, out, "cannot be met")
}

func TestScheduleGenerateCmd_SecondRunIsUnchanged(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "schedule", "generate", "MAISON01", "--today", "2025-01-06")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule unchanged (v1)")
}

func TestScheduleGenerateCmd_BadFlags(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "schedule", "generate", "MAISON01", "--target", "soon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--target")

	_, err = executeCmd(t, app, "schedule", "generate", "MAISON01", "--from", "chapelle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown phase")
}

func TestScheduleShowCmd(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "schedule", "show", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "schedule generate")

	_, err = executeCmd(t, app, "schedule", "generate", "MAISON01", "--today", "2025-01-06")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "schedule", "show", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "Inspection finale")
	assert.Contains(t, out, "Thu May 22, 2025")
}

func TestScheduleEditCmd_ReflowsLaterPhases(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "schedule", "edit", "MAISON01", "excavation-fondation", "--end", "2025-05-08")
	require.NoError(t, err)
	assert.Contains(t, out, "Schedule v2")
	assert.Contains(t, out, "Thu May 29, 2025")
}

func TestScheduleEditCmd_NothingToEditWhenNotInteractive(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	_, err := executeCmd(t, app, "schedule", "edit", "MAISON01", "toiture")
	assert.ErrorIs(t, err, errNothingToEdit)
}

func TestScheduleEditCmd_ByPosition(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	_, err := executeCmd(t, app, "schedule", "edit", "MAISON01", "8", "--lock")
	require.NoError(t, err)

	entries, err := app.Schedules.List(context.Background(), projectID(t, app))
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, e.PhaseID == "toiture", e.Manual, e.PhaseID)
	}
}

func TestScheduleLockUnlockCmd(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "schedule", "lock", "MAISON01", "toiture")
	require.NoError(t, err)
	assert.Contains(t, out, "Locked Toiture")

	out, err = executeCmd(t, app, "schedule", "show", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "🔒")

	out, err = executeCmd(t, app, "schedule", "unlock", "MAISON01", "toiture")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlocked Toiture")
}

func TestScheduleConflictsCmd_SequentialScheduleHasNone(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "schedule", "conflicts", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "No trade conflicts")
}

// --- phase ---

func TestPhaseCmds_Lifecycle(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "phase", "start", "MAISON01", "planification")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")

	out, err = executeCmd(t, app, "phase", "complete", "MAISON01", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")

	_, err = executeCmd(t, app, "phase", "start", "MAISON01", "planification")
	require.Error(t, err)

	out, err = executeCmd(t, app, "phase", "reopen", "MAISON01", "planification")
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled")
}

func TestPhaseCmd_BeforeGenerate(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	_, err := executeCmd(t, app, "phase", "start", "MAISON01", "toiture")
	assert.Error(t, err)
}

// --- alerts ---

func TestAlertsCmds_EmitListDismiss(t *testing.T) {
	app := testApp(t)
	seedSchedule(t, app)

	out, err := executeCmd(t, app, "alerts", "emit", "MAISON01", "--today", "2025-01-06")
	require.NoError(t, err)
	assert.NotContains(t, out, "0 new")
	assert.Contains(t, out, "supplier_call")

	out, err = executeCmd(t, app, "alerts", "emit", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "0 new, 0 rescheduled")

	alerts, err := app.Schedules.ListAlerts(context.Background(), projectID(t, app), false)
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	out, err = executeCmd(t, app, "alerts", "dismiss", "MAISON01", alerts[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Dismissed alert "+alerts[0].ID)

	out, err = executeCmd(t, app, "alerts", "list", "MAISON01", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "(dismissed)")
}

func TestAlertsListCmd_Empty(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)

	out, err := executeCmd(t, app, "alerts", "list", "MAISON01")
	require.NoError(t, err)
	assert.Contains(t, out, "No alerts.")
}

// --- catalog ---

func TestCatalogListCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "structure-charpente")
}

func TestCatalogValidateCmd(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "catalog", "validate")
	assert.Error(t, err, "--file is required")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, catalog.Encode(f, catalog.Default()))
	require.NoError(t, f.Close())

	out, err := executeCmd(t, app, "catalog", "validate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("%d phases", catalog.Default().Len()))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("phases:\n  - id: a\n    name: A\n    trade: x\n    duration_days: -1\n"), 0o644))
	_, err = executeCmd(t, app, "catalog", "validate", "--file", bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogExportCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "catalog", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "structure-charpente")
}

// --- helpers ---

func TestResolvePhaseID(t *testing.T) {
	cat := catalog.Default()

	id, err := resolvePhaseID(cat, "7")
	require.NoError(t, err)
	assert.Equal(t, "structure-charpente", id)

	id, err = resolvePhaseID(cat, "toiture")
	require.NoError(t, err)
	assert.Equal(t, "toiture", id)

	_, err = resolvePhaseID(cat, "0")
	assert.Error(t, err)
	_, err = resolvePhaseID(cat, "chapelle")
	assert.Error(t, err)
}

func TestResolveAlertID(t *testing.T) {
	alerts := []domain.Alert{{ID: "abc111"}, {ID: "abc222"}}

	id, err := resolveAlertID(alerts, "abc2")
	require.NoError(t, err)
	assert.Equal(t, "abc222", id)

	_, err = resolveAlertID(alerts, "abc")
	assert.ErrorContains(t, err, "ambiguous")
	_, err = resolveAlertID(alerts, "zzz")
	assert.ErrorContains(t, err, "not found")
}

func TestResolveProjectID_ByNameShortIDOrPrefix(t *testing.T) {
	app := testApp(t)
	seedProject(t, app)
	ctx := context.Background()

	byShort, err := resolveProjectID(ctx, app, "maison01")
	require.NoError(t, err)
	byName, err := resolveProjectID(ctx, app, " MAISON ")
	require.NoError(t, err)
	assert.Equal(t, byShort, byName)

	byPrefix, err := resolveProjectID(ctx, app, byShort[:6])
	require.NoError(t, err)
	assert.Equal(t, byShort, byPrefix)

	_, err = resolveProjectID(ctx, app, "chalet")
	assert.ErrorContains(t, err, "project not found")
	_, err = resolveProjectID(ctx, app, "")
	assert.ErrorContains(t, err, "required")
}

func TestApplyEditForm(t *testing.T) {
	req := contract.EditRequest{ProjectID: "p", PhaseID: "toiture"}
	require.NoError(t, applyEditForm(&req, editFormValues{Start: "2025-06-02"}, false))
	require.NotNil(t, req.NewStart)
	assert.Equal(t, 2, req.NewStart.Day())
	assert.Nil(t, req.NewEnd)
	assert.Nil(t, req.SetManual, "unchanged lock is not sent")

	req = contract.EditRequest{ProjectID: "p", PhaseID: "toiture"}
	require.NoError(t, applyEditForm(&req, editFormValues{Lock: false}, true))
	require.NotNil(t, req.SetManual)
	assert.False(t, *req.SetManual)

	req = contract.EditRequest{ProjectID: "p", PhaseID: "toiture"}
	assert.ErrorIs(t, applyEditForm(&req, editFormValues{Lock: true}, true), errNothingToEdit)
}

func TestValidateOptionalDate(t *testing.T) {
	assert.NoError(t, validateOptionalDate(""))
	assert.NoError(t, validateOptionalDate("2025-06-30"))
	assert.Error(t, validateOptionalDate("30/06/2025"))
}

func TestEditPhaseForm_Builds(t *testing.T) {
	var v editFormValues
	assert.NotNil(t, editPhaseForm("Toiture", "2025-06-02", "2025-06-12", &v))
}

func projectID(t *testing.T, app *App) string {
	t.Helper()
	p, err := app.Projects.Resolve(context.Background(), "MAISON01")
	require.NoError(t, err)
	return p.ID
}
