package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/services"
)

// AddAssignmentCmd creates the addAssignment command
func AddAssignmentCmd(app *AppContext) *cobra.Command {
	var department string

	cmd := &cobra.Command{
		Use:   "addAssignment <event_id> <personnel_id> <role> <start> <end>",
		Short: "Assign personnel to an event (RFC3339 times)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseWindow(args[3], args[4])
			if err != nil {
				return err
			}

			// the event must exist before work is assigned against it
			if _, err := app.Database.GetEvent(app.Ctx, args[0]); err != nil {
				return fmt.Errorf("failed to load event: %w", err)
			}

			assignment := &model.Assignment{
				ID:          uuid.NewString(),
				EventID:     args[0],
				PersonnelID: args[1],
				Role:        args[2],
				Window:      window,
				Status:      model.AssignmentAssigned,
				Department:  department,
			}
			if err := app.Database.InsertAssignment(app.Ctx, assignment); err != nil {
				return fmt.Errorf("failed to insert assignment: %w", err)
			}

			fmt.Printf("\n✓ Assignment created\n\n")
			fmt.Printf("Assignment ID: %s\n", assignment.ID)
			fmt.Printf("Role:          %s\n", assignment.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&department, "department", "", "Owning department")

	return cmd
}

// TransitionAssignmentCmd creates the transitionAssignment command
func TransitionAssignmentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transitionAssignment <assignment_id> <status>",
		Short: "Advance an assignment (accepted/in_progress/completed/declined/cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignment, err := services.TransitionAssignment(app.Ctx, app.Database, app.Logger,
				args[0], model.AssignmentStatus(args[1]), time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Assignment %s is now %s\n", assignment.ID, assignment.Status)
			return nil
		},
	}
}
