package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/escalation"
)

// EscalationPassCmd creates the escalationPass command
func EscalationPassCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "escalationPass",
		Short: "Run one escalation pass over all overdue items and stale drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Engine.RunPass(app.Ctx, time.Now())
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}
}

func printReport(report *escalation.Report) {
	fmt.Printf("\n✓ Pass complete: %d escalated, %d reminded, %d archived, %d failed\n\n",
		len(report.Escalated), len(report.Reminders), len(report.Archived), len(report.Failures))

	for _, e := range report.Escalated {
		fmt.Printf("  ↑ %s %s -> tier %d (%d recipient(s))\n", e.Kind, e.ItemID, e.Tier, e.Recipients)
	}
	for _, r := range report.Reminders {
		fmt.Printf("  ✉ draft %s reminded (owner %s)\n", r.ItemID, r.OwnerID)
	}
	for _, id := range report.Archived {
		fmt.Printf("  ▤ draft %s archived\n", id)
	}
	for _, f := range report.Failures {
		fmt.Printf("  ✗ %s %s: %s\n", f.Kind, f.ItemID, f.Err)
	}
}
