package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/milestones/internal/ports/secondary"
)

// SyncLedgerRepository implements secondary.SyncLedger with SQLite.
type SyncLedgerRepository struct {
	db *sql.DB
}

// NewSyncLedgerRepository creates a new SQLite sync ledger.
func NewSyncLedgerRepository(db *sql.DB) *SyncLedgerRepository {
	return &SyncLedgerRepository{db: db}
}

// Record appends one sync entry.
func (r *SyncLedgerRepository) Record(ctx context.Context, entry *secondary.SyncRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tracker_syncs (milestone_code, issue_key, kind, previous_due, due, dry_run)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.MilestoneCode, entry.IssueKey, entry.Kind, nullString(entry.PreviousDue), entry.Due, entry.DryRun,
	)
	if err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read sync id: %w", err)
	}
	entry.ID = id

	return nil
}

// List retrieves sync entries matching the given filters, newest first.
func (r *SyncLedgerRepository) List(ctx context.Context, filters secondary.SyncFilters) ([]*secondary.SyncRecord, error) {
	query := `SELECT id, milestone_code, issue_key, kind, previous_due, due, dry_run, synced_at
		FROM tracker_syncs WHERE 1=1`
	args := []any{}

	if filters.MilestoneCode != "" {
		query += " AND milestone_code = ?"
		args = append(args, filters.MilestoneCode)
	}
	if filters.IssueKey != "" {
		query += " AND issue_key = ?"
		args = append(args, filters.IssueKey)
	}

	query += " ORDER BY id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncs: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.SyncRecord
	for rows.Next() {
		var (
			previousDue sql.NullString
			syncedAt    time.Time
		)
		entry := &secondary.SyncRecord{}
		err := rows.Scan(&entry.ID, &entry.MilestoneCode, &entry.IssueKey, &entry.Kind,
			&previousDue, &entry.Due, &entry.DryRun, &syncedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync: %w", err)
		}

		entry.PreviousDue = previousDue.String
		entry.SyncedAt = syncedAt.Format(time.RFC3339)

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Ensure SyncLedgerRepository implements the interface.
var _ secondary.SyncLedger = (*SyncLedgerRepository)(nil)
