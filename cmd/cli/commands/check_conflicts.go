package commands

import (
	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// CheckConflictsCmd creates the checkConflicts command
func CheckConflictsCmd(app *AppContext) *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "checkConflicts <start> <end>",
		Short: "Report events colliding with a proposed window (RFC3339 times)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(args[0], args[1])
			if err != nil {
				return err
			}

			var location *model.GeoPoint
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lon") {
				location = &model.GeoPoint{Lat: lat, Lon: lon}
			}

			set, err := services.CheckConflicts(app.Ctx, app.Detector, app.Logger, window, location)
			if err != nil {
				return err
			}

			printConflicts(set)
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the proposed location")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the proposed location")

	return cmd
}
