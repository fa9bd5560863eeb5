package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// AddResourceCmd creates the addResource command
func AddResourceCmd(app *AppContext) *cobra.Command {
	var (
		name            string
		lat, lon        float64
		lastMaintenance string
	)

	cmd := &cobra.Command{
		Use:   "addResource <type> <subtype>",
		Short: "Register a resource in the pool (type: personnel/equipment/vehicle)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceType := model.ResourceType(args[0])
			switch resourceType {
			case model.ResourcePersonnel, model.ResourceEquipment, model.ResourceVehicle:
			default:
				return fmt.Errorf("unknown resource type %q", args[0])
			}

			resource := &model.Resource{
				ID:           uuid.NewString(),
				Name:         name,
				Type:         resourceType,
				Subtype:      args[1],
				Availability: model.AvailabilityAvailable,
			}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				resource.Location = &model.GeoPoint{Lat: lat, Lon: lon}
			}
			if lastMaintenance != "" {
				m, err := time.Parse(time.RFC3339, lastMaintenance)
				if err != nil {
					return fmt.Errorf("invalid maintenance time %q (want RFC3339): %w", lastMaintenance, err)
				}
				resource.LastMaintenance = &m
			}

			if err := app.Database.InsertResource(app.Ctx, resource); err != nil {
				return fmt.Errorf("failed to insert resource: %w", err)
			}

			fmt.Printf("\n✓ Resource registered\n\n")
			fmt.Printf("Resource ID: %s\n", resource.ID)
			fmt.Printf("Category:    %s\n", resource.Category())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Current latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Current longitude")
	cmd.Flags().StringVar(&lastMaintenance, "last-maintenance", "", "Last maintenance time (RFC3339)")

	return cmd
}

// ListResourcesCmd creates the listResources command
func ListResourcesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listResources <category>",
		Short: "List resources in an allocation category with their bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := app.Database.ListResourcesByCategory(app.Ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list resources: %w", err)
			}

			fmt.Printf("\nFound %d resource(s) in category %s:\n\n", len(resources), args[0])
			for _, r := range resources {
				fmt.Printf("- %s %s (%s) - %s, %d booking(s)\n",
					r.ID, r.Name, r.Type, r.Availability, len(r.Bookings))
			}
			return nil
		},
	}
}
