package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/internal/config"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/conflict"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/escalation"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
	"github.com/Gebrish-A/amc-scheduling/pkg/notify"
	"github.com/Gebrish-A/amc-scheduling/pkg/postgres"
	"github.com/Gebrish-A/amc-scheduling/pkg/utils/logging"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg        *config.Config
	Database   db.Database
	Detector   *conflict.Detector
	Dispatcher *notify.Dispatcher
	Directory  notify.Directory
	Engine     *escalation.Engine
	Logger     *zap.Logger
	Ctx        context.Context

	pg *postgres.DB
}

// Init sets up logger, config, store, and the collaborators built on them.
// With useMemory, or when no database URL is configured, the in-memory store
// backs everything.
func (a *AppContext) Init(configPath string, useMemory, verbose bool) error {
	a.Ctx = context.Background()

	logger, err := logging.InitLogger("cli", verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.Logger = logger

	if configPath != "" {
		a.Cfg, err = config.LoadFromPath(configPath)
	} else {
		a.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded")

	if useMemory || a.Cfg.DatabaseURL == "" {
		logger.Info("Using in-memory store")
		a.Database = db.NewMemoryStore()
	} else {
		logger.Info("Connecting to database")
		a.pg, err = postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := a.pg.RunMigrations(a.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		a.Database = a.pg
	}

	a.Detector = conflict.NewDetector(a.Database, a.Cfg.ConflictRadiusKm, a.Cfg.ResultLimit)
	a.Dispatcher = notify.NewDispatcher(&notify.LogNotifier{Logger: logger}, a.Cfg.NotifyRatePerMinute, logger)
	a.Directory = &notify.RosterDirectory{Roster: a.Cfg.Roster}
	a.Engine = escalation.NewEngine(a.Database, a.Directory, a.Dispatcher,
		a.Cfg.Ladder(), a.Cfg.StaleDraftAge(), a.Cfg.Escalation.ScanLimit, logger)

	return nil
}

// Close releases the database pool and flushes the logger
func (a *AppContext) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
	if a.Logger != nil {
		a.Logger.Sync()
	}
}

// parseWindow parses two RFC3339 timestamps into a validated time window
func parseWindow(startStr, endStr string) (model.TimeWindow, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return model.TimeWindow{}, fmt.Errorf("invalid start time %q (want RFC3339): %w", startStr, err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return model.TimeWindow{}, fmt.Errorf("invalid end time %q (want RFC3339): %w", endStr, err)
	}
	w := model.TimeWindow{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return model.TimeWindow{}, err
	}
	return w, nil
}

// printConflicts renders a conflict set for the terminal
func printConflicts(set *conflict.Set) {
	if set == nil || set.Empty() {
		fmt.Println("No conflicts found.")
		return
	}

	if len(set.Temporal) > 0 {
		fmt.Printf("Temporal conflicts (%d):\n", len(set.Temporal))
		for _, ev := range set.Temporal {
			fmt.Printf("  - %s %q [%s - %s]\n", ev.ID, ev.Title,
				ev.Window.Start.Format(time.RFC3339), ev.Window.End.Format(time.RFC3339))
		}
	}
	if len(set.Spatial) > 0 {
		fmt.Printf("Spatial conflicts (%d):\n", len(set.Spatial))
		for _, sc := range set.Spatial {
			fmt.Printf("  - %s %q at %.2f km\n", sc.Event.ID, sc.Event.Title, sc.DistanceKm)
		}
	}
}
