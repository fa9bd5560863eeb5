package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Gebrish-A/amc-scheduling/cmd/cli/commands"
)

var (
	configPath string
	useMemory  bool
	verbose    bool
)

func main() {
	app := &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "coverage",
		Short: "AMC coverage scheduling CLI - Schedule events and allocate resources",
		Long: `A CLI tool for managing media coverage: request intake and review,
conflict-checked event scheduling, scored resource allocation, and
overdue-work escalation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init(configPath, useMemory, verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: coverage_scheduler.yaml in cwd or home)")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "Use the in-memory store instead of postgres")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.CreateRequestCmd(app))
	rootCmd.AddCommand(commands.TransitionRequestCmd(app))
	rootCmd.AddCommand(commands.CheckConflictsCmd(app))
	rootCmd.AddCommand(commands.ScheduleEventCmd(app))
	rootCmd.AddCommand(commands.RescheduleEventCmd(app))
	rootCmd.AddCommand(commands.AllocateResourcesCmd(app))
	rootCmd.AddCommand(commands.ReleaseResourcesCmd(app))
	rootCmd.AddCommand(commands.AddResourceCmd(app))
	rootCmd.AddCommand(commands.ListResourcesCmd(app))
	rootCmd.AddCommand(commands.CheckoutResourceCmd(app))
	rootCmd.AddCommand(commands.CheckinResourceCmd(app))
	rootCmd.AddCommand(commands.AddAssignmentCmd(app))
	rootCmd.AddCommand(commands.TransitionAssignmentCmd(app))
	rootCmd.AddCommand(commands.TransitionEventCmd(app))
	rootCmd.AddCommand(commands.DeleteEventCmd(app))
	rootCmd.AddCommand(commands.RecordIncidentCmd(app))
	rootCmd.AddCommand(commands.EscalationPassCmd(app))
	rootCmd.AddCommand(commands.DaemonCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
