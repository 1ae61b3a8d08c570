package primary

import (
	"context"
	"time"

	"github.com/example/milestones/internal/core/collection"
)

// TrackerSyncService defines the primary port for pushing due dates to the
// issue tracker.
type TrackerSyncService interface {
	// Sync pushes each linked milestone's due date. The collection is only read.
	Sync(ctx context.Context, c collection.Reader, req SyncRequest) (*SyncReport, error)

	// History lists earlier syncs, newest first.
	History(ctx context.Context, filters SyncHistoryFilters) ([]*SyncEntry, error)
}

// SyncRequest contains parameters for a sync run.
type SyncRequest struct {
	DryRun bool
}

// SyncAction is one planned or applied due-date update.
type SyncAction struct {
	MilestoneCode string
	IssueKey      string
	Kind          string // "milestone" or "testplan"
	PreviousDue   *time.Time
	Due           time.Time
	Changed       bool // tracker value differed
	Applied       bool // written to the tracker
}

// SyncReport contains the result of a sync run.
type SyncReport struct {
	Actions  []SyncAction
	Warnings []string
}

// SyncHistoryFilters contains filter options for sync history.
type SyncHistoryFilters struct {
	MilestoneCode string
	IssueKey      string
	Limit         int
}

// SyncEntry is one recorded sync.
type SyncEntry struct {
	MilestoneCode string
	IssueKey      string
	Kind          string
	PreviousDue   string
	Due           string
	DryRun        bool
	SyncedAt      string
}
