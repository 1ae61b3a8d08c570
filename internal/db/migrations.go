package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_snapshot_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_tracker_syncs_table",
		Up:      migrationV2,
	},
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// RunMigrations executes all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the snapshot archive
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			period TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			record_count INTEGER NOT NULL DEFAULT 0,
			imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS snapshot_records (
			period TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT,
			task_type TEXT,
			wbs TEXT,
			status TEXT,
			baseline_date TEXT,
			start_date TEXT,
			forecast_date TEXT,
			actual_date TEXT,
			PRIMARY KEY (period, code),
			FOREIGN KEY (period) REFERENCES snapshots(period) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_snapshot_records_code ON snapshot_records(code);
	`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot tables: %w", err)
	}
	return nil
}

// migrationV2 adds the tracker sync ledger
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS tracker_syncs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			milestone_code TEXT NOT NULL,
			issue_key TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('milestone', 'testplan')),
			previous_due TEXT,
			due TEXT NOT NULL,
			dry_run INTEGER NOT NULL DEFAULT 0,
			synced_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tracker_syncs_code ON tracker_syncs(milestone_code);
	`)
	if err != nil {
		return fmt.Errorf("failed to create tracker_syncs table: %w", err)
	}
	return nil
}
