package db

import "database/sql"

// SchemaSQL is the complete schema for a fresh archive.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests load it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository that references a missing column fails at test time.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Snapshots (one imported extract per month)
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

-- Tracker syncs (ledger of due dates pushed to the issue tracker)
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
`

// InitSchema creates the database schema
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations(db)
	}

	// Fresh install - create the current schema directly
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	// Mark all migrations as applied for fresh installs
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
