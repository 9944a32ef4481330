package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
	"github.com/alexanderramin/chantier/internal/contract"
	"github.com/alexanderramin/chantier/internal/domain"
)

var errNothingToEdit = errors.New("nothing to edit: pass --start, --end or --lock")

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, inspect and edit project schedules",
	}

	cmd.AddCommand(
		newScheduleGenerateCmd(app),
		newScheduleShowCmd(app),
		newScheduleEditCmd(app),
		newScheduleLockCmd(app, true),
		newScheduleLockCmd(app, false),
		newScheduleConflictsCmd(app),
	)

	return cmd
}

func newScheduleGenerateCmd(app *App) *cobra.Command {
	var target, from, today string

	cmd := &cobra.Command{
		Use:   "generate PROJECT",
		Short: "Compute phase dates from the target start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			req := contract.NewGenerateRequest(projectID)
			if req.TargetStart, err = parseOptionalDate("target", target); err != nil {
				return err
			}
			if req.Today, err = parseOptionalDate("today", today); err != nil {
				return err
			}
			if from != "" {
				if req.StartPhaseID, err = resolvePhaseID(app.Catalog, from); err != nil {
					return err
				}
			}

			resp, err := app.generateUseCase().Generate(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Unchanged {
				fmt.Fprintf(out, "Schedule unchanged (v%d)\n", resp.Version)
			} else {
				fmt.Fprintf(out, "Generated schedule v%d: construction starts %s\n",
					resp.Version, formatter.ShortDate(&resp.Anchor))
			}
			fmt.Fprintf(out, "%s\n", formatter.FormatSchedule(app.Catalog, resp.Entries))
			printWarnings(out, app, resp.Warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Override the project's target start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "", "Regenerate from this phase onward (ID or position)")
	cmd.Flags().StringVar(&today, "today", "", "Reference day for preparation (YYYY-MM-DD, default today)")

	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show the stored schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Schedules.List(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatSchedule(app.Catalog, entries))
			return nil
		},
	}
}

func newScheduleEditCmd(app *App) *cobra.Command {
	var start, end string
	var lock bool

	cmd := &cobra.Command{
		Use:   "edit PROJECT PHASE",
		Short: "Move a phase and reflow the phases after it",
		Long: "Move a phase and reflow the phases after it.\n\n" +
			"Without --start, --end or --lock an interactive form is shown when the terminal allows it.",
		Args: cobra.ExactArgs(2),
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

			req := contract.EditRequest{ProjectID: projectID, PhaseID: phaseID}
			if req.NewStart, err = parseOptionalDate("start", start); err != nil {
				return err
			}
			if req.NewEnd, err = parseOptionalDate("end", end); err != nil {
				return err
			}
			if cmd.Flags().Changed("lock") {
				req.SetManual = domain.BoolPtr(lock)
			}

			if req.NewStart == nil && req.NewEnd == nil && req.SetManual == nil {
				if !app.interactive() {
					return errNothingToEdit
				}
				if err := fillEditFromForm(ctx, app, &req); err != nil {
					return err
				}
			}

			resp, err := app.recalculateUseCase().RecalculateFromEdit(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schedule v%d: %d phase(s) moved\n", resp.Version, len(resp.Changed))
			fmt.Fprintf(out, "%s\n", formatter.FormatSchedule(app.Catalog, resp.Entries))
			printWarnings(out, app, resp.Warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&lock, "lock", false, "Lock (true) or unlock (false) the phase dates")

	return cmd
}

// fillEditFromForm asks for the edit interactively, prefilled with the
// current entry.
func fillEditFromForm(ctx context.Context, app *App, req *contract.EditRequest) error {
	entries, err := app.Schedules.List(ctx, req.ProjectID)
	if err != nil {
		return err
	}
	var current *domain.ScheduleEntry
	for i := range entries {
		if entries[i].PhaseID == req.PhaseID {
			current = &entries[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("phase %s has no schedule entry; run 'chantier schedule generate' first", req.PhaseID)
	}

	var curStart, curEnd string
	if current.StartDate != nil {
		curStart = calendar.Format(*current.StartDate)
	}
	if current.EndDate != nil {
		curEnd = calendar.Format(*current.EndDate)
	}
	ph, _ := app.Catalog.Get(req.PhaseID)

	values := editFormValues{Lock: current.Manual}
	if err := editPhaseForm(ph.Name, curStart, curEnd, &values).Run(); err != nil {
		return err
	}
	return applyEditForm(req, values, current.Manual)
}

// applyEditForm copies form answers into req. The lock flag is only sent
// when it differs from the current state.
func applyEditForm(req *contract.EditRequest, v editFormValues, currentlyLocked bool) error {
	var err error
	if req.NewStart, err = parseOptionalDate("start", v.Start); err != nil {
		return err
	}
	if req.NewEnd, err = parseOptionalDate("end", v.End); err != nil {
		return err
	}
	if v.Lock != currentlyLocked {
		req.SetManual = domain.BoolPtr(v.Lock)
	}
	if req.NewStart == nil && req.NewEnd == nil && req.SetManual == nil {
		return errNothingToEdit
	}
	return nil
}

func newScheduleLockCmd(app *App, locked bool) *cobra.Command {
	use, short, verb := "lock", "Pin a phase to its current dates", "Locked"
	if !locked {
		use, short, verb = "unlock", "Let recalculation move a phase again", "Unlocked"
	}

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
			entry, err := app.manualLockUseCase().ToggleManualLock(ctx, projectID, phaseID, locked)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s → %s)\n", verb, phaseLabel(app, entry.PhaseID),
				formatter.ShortDate(entry.StartDate), formatter.ShortDate(entry.EndDate))
			return nil
		},
	}
}

func newScheduleConflictsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts PROJECT",
		Short: "List days on which several trades are booked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			report, err := app.conflictsUseCase().DetectConflicts(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatConflicts(report.Conflicts))
			return nil
		},
	}
}

func printWarnings(w io.Writer, app *App, warnings []domain.Warning) {
	if s := formatter.FormatWarnings(app.Catalog, warnings); s != "" {
		fmt.Fprint(w, "\n"+s)
	}
}

func phaseLabel(app *App, phaseID string) string {
	if ph, ok := app.Catalog.Get(phaseID); ok {
		return ph.Name
	}
	return phaseID
}
