package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/allocator"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// AllocateResourcesCmd creates the allocateResources command
func AllocateResourcesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "allocateResources <event_id> <category=count>...",
		Short: "Book the best available resources for an event's window",
		Long: `Match a requirement manifest against the resource pool and book the
top-scoring candidates for the event's window, e.g.:

  allocateResources ev-1 cameraman=2 van=1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			requirements := allocator.Requirements{}
			for _, arg := range args[1:] {
				category, countStr, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("requirement %q must look like category=count", arg)
				}
				count, err := strconv.Atoi(countStr)
				if err != nil {
					return fmt.Errorf("requirement %q: count must be a number: %w", arg, err)
				}
				requirements[category] += count
			}

			result, err := services.AllocateResources(app.Ctx, app.Database, app.Cfg.Weights(),
				app.Logger, args[0], requirements, time.Now())
			if err != nil {
				return err
			}

			if result.Complete() {
				fmt.Printf("\n✓ All requirements satisfied\n\n")
			} else {
				fmt.Printf("\n⚠ Partial allocation\n\n")
			}
			for category, ids := range result.Granted {
				fmt.Printf("  %s: %s\n", category, strings.Join(ids, ", "))
			}
			for category, missing := range result.Shortfall {
				fmt.Printf("  %s: %d unit(s) unfilled\n", category, missing)
			}
			return nil
		},
	}
}

// ReleaseResourcesCmd creates the releaseResources command
func ReleaseResourcesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "releaseResources <event_id>",
		Short: "Release every resource booked for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			released, err := services.ReleaseResources(app.Ctx, app.Database, app.Logger, args[0], time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Released %d resource(s) from event %s\n", released, args[0])
			return nil
		},
	}
}
