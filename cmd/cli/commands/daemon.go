package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/escalation"
)

// DaemonCmd creates the daemon command. It keeps the three periodic passes
// (escalation sweep, stale-draft reminders, stale-draft archival) running on
// their configured cadences until interrupted.
func DaemonCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the periodic escalation and sweep passes until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.Logger.Info("Daemon starting",
				zap.String("sla_cadence", app.Cfg.SLACadence()),
				zap.String("reminder_cadence", app.Cfg.ReminderCadence()),
				zap.String("stale_sweep_cadence", app.Cfg.StaleSweepCadence()))

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return runCadence(ctx, app.Logger, "escalation", app.Cfg.SLACadence(), app.Engine.RunEscalationSweep)
			})
			g.Go(func() error {
				return runCadence(ctx, app.Logger, "reminder", app.Cfg.ReminderCadence(), app.Engine.RunReminderSweep)
			})
			g.Go(func() error {
				return runCadence(ctx, app.Logger, "stale-draft", app.Cfg.StaleSweepCadence(), app.Engine.RunStaleDraftSweep)
			})

			err := g.Wait()
			if errors.Is(err, context.Canceled) {
				app.Logger.Info("Daemon stopped")
				return nil
			}
			return err
		},
	}
}

// runCadence fires pass at every occurrence of the recurrence rule. Pass
// failures are logged and the loop keeps going; only context cancellation or
// a bad rule ends it.
func runCadence(ctx context.Context, logger *zap.Logger, name, cadence string, pass func(context.Context, time.Time) (*escalation.Report, error)) error {
	rule, err := rrule.StrToRRule(cadence)
	if err != nil {
		return fmt.Errorf("invalid %s cadence %q: %w", name, cadence, err)
	}
	rule.DTStart(time.Now().UTC())

	for {
		next := rule.After(time.Now().UTC(), false)
		if next.IsZero() {
			logger.Warn("Cadence has no further occurrences, stopping pass",
				zap.String("pass", name), zap.String("cadence", cadence))
			return nil
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		logger.Debug("Running scheduled pass", zap.String("pass", name))
		if _, err := pass(ctx, time.Now()); err != nil {
			logger.Error("Scheduled pass failed", zap.String("pass", name), zap.Error(err))
		}
	}
}
