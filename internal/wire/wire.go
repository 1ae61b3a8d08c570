// Package wire provides dependency injection for the milestones application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log/slog"
	"sync"

	"github.com/example/milestones/internal/adapters/annotations"
	cliadapter "github.com/example/milestones/internal/adapters/cli"
	"github.com/example/milestones/internal/adapters/filesystem"
	"github.com/example/milestones/internal/adapters/jira"
	"github.com/example/milestones/internal/adapters/pmcs"
	"github.com/example/milestones/internal/adapters/sqlite"
	"github.com/example/milestones/internal/app"
	"github.com/example/milestones/internal/config"
	"github.com/example/milestones/internal/db"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/ports/secondary"
)

var (
	cfg    = config.Default()
	logger = slog.Default()

	scheduleService    primary.ScheduleService
	trackerSyncService primary.TrackerSyncService
	archiveService     primary.ArchiveService
	once               sync.Once
)

// Configure sets the configuration and logger services are built with.
// It must be called before the first service is requested.
func Configure(c *config.Config, l *slog.Logger) {
	if c != nil {
		cfg = c
	}
	if l != nil {
		logger = l
	}
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// File-backed adapters (secondary ports)
	records := pmcs.NewReader(logger)
	directory := filesystem.NewSnapshotDirectory(cfg.DataDir, records)
	store := annotations.NewStore(logger)

	// The archive is optional: reports work without it.
	var (
		archive    secondary.SnapshotArchive
		ledger     secondary.SyncLedger
		archiveRes secondary.SnapshotResolver
	)
	if cfg.ArchiveDB != "" {
		db.SetPath(cfg.ArchiveDB)
	}
	database, err := db.GetDB()
	if err != nil {
		logger.Warn("snapshot archive unavailable", "error", err)
	} else {
		repo := sqlite.NewSnapshotArchiveRepository(database)
		archive, archiveRes = repo, repo
		ledger = sqlite.NewSyncLedgerRepository(database)
	}

	var tracker secondary.Tracker
	if cfg.HasTrackerCredentials() {
		client, err := jira.NewClient(jira.ClientConfig{
			BaseURL:  cfg.JiraURL,
			User:     cfg.JiraUser,
			Password: cfg.JiraPassword,
			Token:    cfg.JiraToken,
			Logger:   logger,
		})
		if err != nil {
			logger.Warn("tracker unavailable", "error", err)
		} else {
			tracker = client
		}
	}

	// Create services (primary ports implementation)
	scheduleService = app.NewScheduleService(records, store, directory, directory, archiveRes, logger)
	trackerSyncService = app.NewTrackerSyncService(tracker, ledger, logger)
	archiveService = app.NewArchiveService(records, directory, archive, logger)
}

// MilestoneAdapterWithOutput returns a new MilestoneAdapter writing to the given output.
// Each call creates a new adapter (adapters are stateless translators).
func MilestoneAdapterWithOutput(out io.Writer) *cliadapter.MilestoneAdapter {
	once.Do(initServices)
	return cliadapter.NewMilestoneAdapter(scheduleService, out)
}

// TrackerAdapterWithOutput returns a new TrackerAdapter writing to the given output.
func TrackerAdapterWithOutput(out io.Writer) *cliadapter.TrackerAdapter {
	once.Do(initServices)
	return cliadapter.NewTrackerAdapter(trackerSyncService, out)
}

// ArchiveAdapterWithOutput returns a new ArchiveAdapter writing to the given output.
func ArchiveAdapterWithOutput(out io.Writer) *cliadapter.ArchiveAdapter {
	once.Do(initServices)
	return cliadapter.NewArchiveAdapter(archiveService, out)
}
