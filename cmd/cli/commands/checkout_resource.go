package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// CheckoutResourceCmd creates the checkoutResource command
func CheckoutResourceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkoutResource <resource_id> <event_id> <start> <end>",
		Short: "Book a specific resource for an event's window (RFC3339 times)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(args[2], args[3])
			if err != nil {
				return err
			}

			entry, err := services.CheckoutResource(app.Ctx, app.Database, app.Logger,
				args[0], args[1], window, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Resource checked out\n\n")
			fmt.Printf("Booking ID: %s\n", entry.ID)
			fmt.Printf("Window:     %s - %s\n", entry.Window.Start, entry.Window.End)
			return nil
		},
	}
}

// CheckinResourceCmd creates the checkinResource command
func CheckinResourceCmd(app *AppContext) *cobra.Command {
	var (
		condition string
		issues    []string
	)

	cmd := &cobra.Command{
		Use:   "checkinResource <resource_id> <event_id>",
		Short: "Return a resource after an event, recording condition and issues",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := services.CheckinResource(app.Ctx, app.Database, app.Logger,
				args[0], args[1], condition, issues, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Resource checked in\n\n")
			fmt.Printf("Resource:     %s\n", resource.ID)
			fmt.Printf("Availability: %s\n", resource.Availability)
			if len(issues) > 0 {
				fmt.Printf("Issues:       %d recorded (resource sent to maintenance)\n", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "", "Condition note recorded on the booking")
	cmd.Flags().StringArrayVar(&issues, "issue", nil, "Issue found on return (repeatable; any issue routes the resource to maintenance)")

	return cmd
}
