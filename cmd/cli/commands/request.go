package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// CreateRequestCmd creates the createRequest command
func CreateRequestCmd(app *AppContext) *cobra.Command {
	var (
		category     string
		priority     string
		locationName string
		address      string
		lat, lon     float64
		requesterID  string
		department   string
		slaDeadline  string
	)

	cmd := &cobra.Command{
		Use:   "createRequest <title> <start> <end>",
		Short: "Create a draft coverage request (RFC3339 times)",
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

			var deadline *time.Time
			if slaDeadline != "" {
				d, err := time.Parse(time.RFC3339, slaDeadline)
				if err != nil {
					return fmt.Errorf("invalid SLA deadline %q (want RFC3339): %w", slaDeadline, err)
				}
				deadline = &d
			}

			req, err := services.CreateRequest(app.Ctx, app.Database, app.Logger, services.CreateRequestParams{
				Title:       args[0],
				Category:    category,
				Priority:    model.Priority(priority),
				Window:      window,
				Location:    location,
				RequesterID: requesterID,
				Department:  department,
				SLADeadline: deadline,
			}, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Coverage request created\n\n")
			fmt.Printf("Request ID: %s\n", req.ID)
			fmt.Printf("Status:     %s\n", req.Status)
			fmt.Printf("Priority:   %s\n", req.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Coverage category")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (low/medium/high/urgent)")
	cmd.Flags().StringVar(&locationName, "location", "", "Location name")
	cmd.Flags().StringVar(&address, "address", "", "Location address")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringVar(&requesterID, "requester", "", "Requester user ID")
	cmd.Flags().StringVar(&department, "department", "", "Owning department")
	cmd.Flags().StringVar(&slaDeadline, "sla", "", "SLA deadline (RFC3339)")

	return cmd
}

// TransitionRequestCmd creates the transitionRequest command
func TransitionRequestCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transitionRequest <request_id> <status>",
		Short: "Move a coverage request through its review lifecycle",
		Long: `Move a coverage request to a new review status. Permitted moves:
draft -> pending_approval/archived, pending_approval -> approved/rejected/pending_revision,
pending_revision -> pending_approval/archived, approved/scheduled/rejected -> archived.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := services.TransitionRequest(app.Ctx, app.Database, app.Logger,
				args[0], model.RequestStatus(args[1]))
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Request %s is now %s\n", req.ID, req.Status)
			return nil
		},
	}
}
