// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/milestones/internal/db"
	"github.com/example/milestones/internal/models"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// A second pooled connection would see a different in-memory database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// sampleRecords returns a small extract: one open milestone, one completed
// milestone and one task.
func sampleRecords() []models.TaskRecord {
	return []models.TaskRecord{
		{
			Code: "DM-1", Name: "Alert production", TaskType: "Finish Milestone", WBS: "02C.03",
			Status: models.StatusNotStarted, Baseline: date(2024, 1, 15), Forecast: date(2024, 3, 20),
		},
		{
			Code: "DM-2", Name: "Data release", TaskType: "Finish Milestone", WBS: "02C.04",
			Status: models.StatusCompleted, Baseline: date(2023, 11, 1), Actual: date(2023, 11, 3),
		},
		{
			Code: "T-100", Name: "Write pipeline", TaskType: "Task Dependent", WBS: "02C.03",
			Start: date(2023, 6, 1),
		},
	}
}
