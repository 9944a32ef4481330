package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/catalog"
	"github.com/alexanderramin/chantier/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Schedules service.ScheduleService
	Catalog   *catalog.Catalog

	// Optional narrow use-case overrides. Nil falls back to Schedules.
	Generate    app.GenerateScheduleUseCase
	Recalculate app.RecalculateScheduleUseCase
	Conflicts   app.DetectConflictsUseCase
	Alerts      app.EmitAlertsUseCase
	ManualLock  app.ToggleManualLockUseCase

	// IsInteractive reports whether forms may be shown. Nil means never.
	IsInteractive func() bool
	// Now is the wall clock used for "today" in alert emission and
	// relative dates. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "chantier" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "chantier",
		Short:         "Construction schedule generator for self-built houses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newScheduleCmd(app),
		newPhaseCmd(app),
		newAlertsCmd(app),
		newCatalogCmd(app),
	)

	return root
}
