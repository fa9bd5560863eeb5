package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// ScheduleEventCmd creates the scheduleEvent command
func ScheduleEventCmd(app *AppContext) *cobra.Command {
	var (
		override     bool
		locationName string
		address      string
		lat, lon     float64
	)

	cmd := &cobra.Command{
		Use:   "scheduleEvent <request_id> <start> <end>",
		Short: "Schedule an event from an approved coverage request (RFC3339 times)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(args[1], args[2])
			if err != nil {
				return err
			}

			location := model.Location{Name: locationName, Address: address}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				location.Coordinates = &model.GeoPoint{Lat: lat, Lon: lon}
			}

			ev, set, err := services.ScheduleEvent(app.Ctx, app.Database, app.Detector, app.Logger,
				services.ScheduleEventParams{
					RequestID:         args[0],
					Window:            window,
					Location:          location,
					OverrideConflicts: override,
				})
			if err != nil {
				return err
			}

			if ev == nil {
				fmt.Printf("\n✗ Scheduling blocked by conflicts (re-run with --override to force):\n\n")
				printConflicts(set)
				return nil
			}

			fmt.Printf("\n✓ Event scheduled\n\n")
			fmt.Printf("Event ID: %s\n", ev.ID)
			fmt.Printf("Window:   %s - %s\n", ev.Window.Start, ev.Window.End)
			if !set.Empty() {
				fmt.Printf("\nConflicts overridden:\n")
				printConflicts(set)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&override, "override", false, "Schedule even when conflicts are reported")
	cmd.Flags().StringVar(&locationName, "location", "", "Location name")
	cmd.Flags().StringVar(&address, "address", "", "Location address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")

	return cmd
}

// RescheduleEventCmd creates the rescheduleEvent command
func RescheduleEventCmd(app *AppContext) *cobra.Command {
	var (
		revision int64
		override bool
	)

	cmd := &cobra.Command{
		Use:   "rescheduleEvent <event_id> <start> <end>",
		Short: "Move an event to a new window (RFC3339 times)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(args[1], args[2])
			if err != nil {
				return err
			}

			ev, set, err := services.RescheduleEvent(app.Ctx, app.Database, app.Detector, app.Logger,
				services.RescheduleEventParams{
					EventID:           args[0],
					NewWindow:         window,
					SeenRevision:      revision,
					OverrideConflicts: override,
				})
			if err != nil {
				return err
			}

			if ev == nil {
				fmt.Printf("\n✗ Reschedule blocked by conflicts (re-run with --override to force):\n\n")
				printConflicts(set)
				return nil
			}

			fmt.Printf("\n✓ Event rescheduled\n\n")
			fmt.Printf("Event ID: %s\n", ev.ID)
			fmt.Printf("Window:   %s - %s\n", ev.Window.Start, ev.Window.End)
			fmt.Printf("Revision: %d\n", ev.Revision)
			return nil
		},
	}

	cmd.Flags().Int64Var(&revision, "revision", 0, "Event revision the caller last read (required)")
	cmd.Flags().BoolVar(&override, "override", false, "Reschedule even when conflicts are reported")
	cmd.MarkFlagRequired("revision")

	return cmd
}
