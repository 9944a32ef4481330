package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/chantier/internal/calendar"
	"github.com/alexanderramin/chantier/internal/cli/formatter"
)

func newAlertsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Supplier, fabrication, measurement and subcontractor reminders",
	}

	cmd.AddCommand(
		newAlertsEmitCmd(app),
		newAlertsListCmd(app),
		newAlertsDismissCmd(app),
	)

	return cmd
}

func newAlertsEmitCmd(app *App) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "emit PROJECT",
		Short: "Derive reminders from the schedule and store new or moved ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			day := calendar.Truncate(app.now())
			if d, err := parseOptionalDate("today", today); err != nil {
				return err
			} else if d != nil {
				day = *d
			}

			resp, err := app.emitAlertsUseCase().EmitAlerts(ctx, projectID, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d new, %d rescheduled\n", len(resp.Created), len(resp.Updated))
			fmt.Fprintf(out, "%s\n", formatter.FormatAlerts(app.Catalog, resp.Alerts))
			return nil
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "Reference day (YYYY-MM-DD, default today)")

	return cmd
}

func newAlertsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List stored alerts ordered by date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			alerts, err := app.Schedules.ListAlerts(ctx, projectID, all)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", formatter.FormatAlerts(app.Catalog, alerts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include dismissed alerts")

	return cmd
}

func newAlertsDismissCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss PROJECT ALERT",
		Short: "Dismiss an alert by ID or ID prefix",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			alerts, err := app.Schedules.ListAlerts(ctx, projectID, false)
			if err != nil {
				return err
			}
			alertID, err := resolveAlertID(alerts, args[1])
			if err != nil {
				return err
			}
			if err := app.Schedules.DismissAlert(ctx, alertID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed alert %s\n", alertID)
			return nil
		},
	}
}
