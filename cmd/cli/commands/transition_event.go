package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// TransitionEventCmd creates the transitionEvent command
func TransitionEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transitionEvent <event_id> <status>",
		Short: "Advance an event (in_progress/completed/cancelled/postponed/scheduled)",
		Long: `Advance an event through its forward-only status machine. Cancelling an
event releases every resource booked for it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := services.TransitionEvent(app.Ctx, app.Database, app.Logger,
				args[0], model.EventStatus(args[1]), time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Event %s is now %s\n", ev.ID, ev.Status)
			if ev.ActualStart != nil {
				fmt.Printf("Actual start: %s\n", ev.ActualStart.Format(time.RFC3339))
			}
			if ev.ActualEnd != nil {
				fmt.Printf("Actual end:   %s\n", ev.ActualEnd.Format(time.RFC3339))
			}
			return nil
		},
	}
}

// DeleteEventCmd creates the deleteEvent command
func DeleteEventCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteEvent <event_id>",
		Short: "Delete an event that is not in progress or completed, releasing its resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteEvent(app.Ctx, app.Database, app.Logger, args[0], time.Now()); err != nil {
				return err
			}

			fmt.Printf("\n✓ Event %s deleted\n", args[0])
			return nil
		},
	}
}

// RecordIncidentCmd creates the recordIncident command
func RecordIncidentCmd(app *AppContext) *cobra.Command {
	var severity string

	cmd := &cobra.Command{
		Use:   "recordIncident <event_id> <note>",
		Short: "Append an incident note to an in-progress event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RecordIncident(app.Ctx, app.Database, app.Logger,
				args[0], severity, args[1], time.Now()); err != nil {
				return err
			}

			fmt.Printf("\n✓ Incident recorded on event %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&severity, "severity", "info", "Incident severity")

	return cmd
}
