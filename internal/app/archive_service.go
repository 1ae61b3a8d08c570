package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/ports/secondary"
)

var errArchiveUnavailable = errors.New("snapshot archive unavailable")

// ArchiveServiceImpl implements the ArchiveService interface.
type ArchiveServiceImpl struct {
	records secondary.TaskRecordSource
	lister  secondary.SnapshotLister
	archive secondary.SnapshotArchive
	logger  *slog.Logger
	now     func() time.Time
}

// NewArchiveService creates a new ArchiveService with injected dependencies.
func NewArchiveService(records secondary.TaskRecordSource, lister secondary.SnapshotLister, archive secondary.SnapshotArchive, logger *slog.Logger) *ArchiveServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveServiceImpl{
		records: records,
		lister:  lister,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// ImportSnapshot reads an extract and stores it under its period.
func (s *ArchiveServiceImpl) ImportSnapshot(ctx context.Context, req primary.ImportSnapshotRequest) (*primary.Snapshot, error) {
	if s.archive == nil {
		return nil, errArchiveUnavailable
	}

	var period models.Period
	if req.Period != "" {
		p, err := models.ParsePeriod(req.Period)
		if err != nil {
			return nil, fmt.Errorf("invalid period: %w", err)
		}
		period = p
	} else {
		p, ok := s.lister.PeriodOf(req.Path)
		if !ok {
			return nil, fmt.Errorf("cannot derive period from %s; pass it explicitly", req.Path)
		}
		period = p
	}

	records, err := s.records.LoadRecords(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load extract: %w", err)
	}

	record := &secondary.SnapshotRecord{
		Period:      period.String(),
		Source:      req.Path,
		RecordCount: len(records),
		ImportedAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.archive.Import(ctx, record, records); err != nil {
		return nil, fmt.Errorf("failed to import snapshot %s: %w", period, err)
	}
	s.logger.Info("imported snapshot", "period", record.Period, "records", record.RecordCount)

	return recordToSnapshot(record), nil
}

// ListSnapshots lists the archived periods.
func (s *ArchiveServiceImpl) ListSnapshots(ctx context.Context) ([]*primary.Snapshot, error) {
	if s.archive == nil {
		return nil, errArchiveUnavailable
	}
	records, err := s.archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshots := make([]*primary.Snapshot, len(records))
	for i, r := range records {
		snapshots[i] = recordToSnapshot(r)
	}
	return snapshots, nil
}

func recordToSnapshot(r *secondary.SnapshotRecord) *primary.Snapshot {
	return &primary.Snapshot{
		Period:      r.Period,
		Source:      r.Source,
		RecordCount: r.RecordCount,
		ImportedAt:  r.ImportedAt,
	}
}

// Ensure ArchiveServiceImpl implements the interface
var _ primary.ArchiveService = (*ArchiveServiceImpl)(nil)
