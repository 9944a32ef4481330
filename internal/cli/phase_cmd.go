package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/domain"
)

type phaseTransition func(ctx context.Context, projectID, phaseID string) (*domain.ScheduleEntry, error)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Track progress of individual phases",
	}

	cmd.AddCommand(
		newPhaseTransitionCmd(app, "start", "Mark a phase as in progress", app.Schedules.MarkInProgress),
		newPhaseTransitionCmd(app, "complete", "Mark a phase as completed", app.Schedules.MarkCompleted),
		newPhaseTransitionCmd(app, "reopen", "Move a completed phase back to scheduled", app.Schedules.Reopen),
	)

	return cmd
}

func newPhaseTransitionCmd(app *App, use, short string, transition phaseTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PROJECT PHASE",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phaseID, err := resolvePhaseID(app.Catalog, args[1])
			if err != nil {
				return err
			}
			entry, err := transition(ctx, projectID, phaseID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", phaseLabel(app, entry.PhaseID), formatter.EntryStatusPill(entry.Status))
			return nil
		},
	}
}
