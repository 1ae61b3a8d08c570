package secondary

import (
	"context"

	"github.com/example/milestones/internal/models"
)

// SnapshotArchive defines the secondary port for the sqlite snapshot archive.
// An archive can serve as a SnapshotResolver.
type SnapshotArchive interface {
	SnapshotResolver

	// Import stores the records of one period, replacing any earlier import
	// of the same period.
	Import(ctx context.Context, snapshot *SnapshotRecord, records []models.TaskRecord) error

	// List retrieves the imported snapshots, newest first.
	List(ctx context.Context) ([]*SnapshotRecord, error)

	// Records retrieves the stored records of one period.
	Records(ctx context.Context, period models.Period) ([]models.TaskRecord, error)

	// Delete removes a period and its records.
	Delete(ctx context.Context, period models.Period) error
}

// SnapshotRecord represents an imported snapshot as stored in persistence.
type SnapshotRecord struct {
	Period      string // YYYYMM
	Source      string // path of the imported extract
	RecordCount int
	ImportedAt  string
}

// SyncLedger defines the secondary port for the tracker sync history.
type SyncLedger interface {
	// Record appends one sync entry.
	Record(ctx context.Context, entry *SyncRecord) error

	// List retrieves sync entries matching the given filters, newest first.
	List(ctx context.Context, filters SyncFilters) ([]*SyncRecord, error)
}

// Sync kinds.
const (
	SyncKindMilestone = "milestone"
	SyncKindTestPlan  = "testplan"
)

// SyncRecord represents a pushed due date as stored in persistence.
type SyncRecord struct {
	ID            int64
	MilestoneCode string
	IssueKey      string
	Kind          string // "milestone" or "testplan"
	PreviousDue   string // "" when the issue had no due date
	Due           string
	DryRun        bool
	SyncedAt      string
}

// SyncFilters contains filter options for querying the sync ledger.
type SyncFilters struct {
	MilestoneCode string
	IssueKey      string
	Limit         int
}
