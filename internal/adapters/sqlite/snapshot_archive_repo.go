// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

// SnapshotArchiveRepository implements secondary.SnapshotArchive with SQLite.
type SnapshotArchiveRepository struct {
	db *sql.DB
}

// NewSnapshotArchiveRepository creates a new SQLite snapshot archive.
func NewSnapshotArchiveRepository(db *sql.DB) *SnapshotArchiveRepository {
	return &SnapshotArchiveRepository{db: db}
}

// Import stores the records of one period, replacing any earlier import.
func (r *SnapshotArchiveRepository) Import(ctx context.Context, snapshot *secondary.SnapshotRecord, records []models.TaskRecord) error {
	if _, err := models.ParsePeriod(snapshot.Period); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_records WHERE period = ?", snapshot.Period); err != nil {
		return fmt.Errorf("failed to clear snapshot records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE period = ?", snapshot.Period); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshots (period, source, record_count) VALUES (?, ?, ?)",
		snapshot.Period, snapshot.Source, len(records),
	)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO snapshot_records
		(period, code, name, task_type, wbs, status, baseline_date, start_date, forecast_date, actual_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			snapshot.Period, rec.Code, nullString(rec.Name), nullString(rec.TaskType),
			nullString(rec.WBS), nullString(rec.Status),
			nullDate(rec.Baseline), nullDate(rec.Start), nullDate(rec.Forecast), nullDate(rec.Actual),
		)
		if err != nil {
			return fmt.Errorf("failed to store record %s: %w", rec.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot %s: %w", snapshot.Period, err)
	}
	snapshot.RecordCount = len(records)
	return nil
}

// List retrieves the imported snapshots, newest first.
func (r *SnapshotArchiveRepository) List(ctx context.Context) ([]*secondary.SnapshotRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT period, source, record_count, imported_at FROM snapshots ORDER BY period DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*secondary.SnapshotRecord
	for rows.Next() {
		var importedAt time.Time
		record := &secondary.SnapshotRecord{}
		if err := rows.Scan(&record.Period, &record.Source, &record.RecordCount, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		record.ImportedAt = importedAt.Format(time.RFC3339)
		snapshots = append(snapshots, record)
	}

	return snapshots, rows.Err()
}

// Records retrieves the stored records of one period.
func (r *SnapshotArchiveRepository) Records(ctx context.Context, period models.Period) ([]models.TaskRecord, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM snapshots WHERE period = ?", period.String(),
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", period, forecast.ErrSnapshotNotFound)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT code, name, task_type, wbs, status, baseline_date, start_date, forecast_date, actual_date
		FROM snapshot_records WHERE period = ? ORDER BY code ASC`,
		period.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", period, err)
	}
	defer rows.Close()

	var records []models.TaskRecord
	for rows.Next() {
		var name, taskType, wbs, status sql.NullString
		var baseline, start, forecastDate, actual sql.NullString
		rec := models.TaskRecord{}
		err := rows.Scan(&rec.Code, &name, &taskType, &wbs, &status, &baseline, &start, &forecastDate, &actual)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot record: %w", err)
		}

		rec.Name = name.String
		rec.TaskType = taskType.String
		rec.WBS = wbs.String
		rec.Status = status.String
		if rec.Baseline, err = parseNullDate(baseline); err != nil {
			return nil, err
		}
		if rec.Start, err = parseNullDate(start); err != nil {
			return nil, err
		}
		if rec.Forecast, err = parseNullDate(forecastDate); err != nil {
			return nil, err
		}
		if rec.Actual, err = parseNullDate(actual); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Resolve returns the archived snapshot monthsBack months before ref.
func (r *SnapshotArchiveRepository) Resolve(ctx context.Context, ref models.Period, monthsBack int) ([]models.TaskRecord, models.Period, error) {
	want := ref.AddMonths(-monthsBack)
	records, err := r.Records(ctx, want)
	if err != nil {
		return nil, models.Period{}, err
	}
	return records, want, nil
}

// Delete removes a period and its records.
func (r *SnapshotArchiveRepository) Delete(ctx context.Context, period models.Period) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM snapshot_records WHERE period = ?", period.String()); err != nil {
		return fmt.Errorf("failed to delete snapshot records: %w", err)
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE period = ?", period.String())
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("snapshot %s: %w", period, forecast.ErrSnapshotNotFound)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(models.DateLayout), Valid: true}
}

func parseNullDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", s.String, err)
	}
	return &t, nil
}

// Ensure SnapshotArchiveRepository implements the interface.
var _ secondary.SnapshotArchive = (*SnapshotArchiveRepository)(nil)
