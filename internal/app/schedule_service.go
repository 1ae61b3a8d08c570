package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/ports/primary"
	"github.com/example/milestones/internal/ports/secondary"
)

// ScheduleServiceImpl implements the ScheduleService interface.
type ScheduleServiceImpl struct {
	records     secondary.TaskRecordSource
	annotations secondary.AnnotationSource
	lister      secondary.SnapshotLister
	history     map[string]secondary.SnapshotResolver
	logger      *slog.Logger
}

// NewScheduleService creates a new ScheduleService with injected dependencies.
// archive may be nil, in which case archive-backed history is rejected.
func NewScheduleService(
	records secondary.TaskRecordSource,
	annotations secondary.AnnotationSource,
	lister secondary.SnapshotLister,
	directory secondary.SnapshotResolver,
	archive secondary.SnapshotResolver,
	logger *slog.Logger,
) *ScheduleServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	history := map[string]secondary.SnapshotResolver{primary.HistoryDirectory: directory}
	if archive != nil {
		history[primary.HistoryArchive] = archive
	}
	return &ScheduleServiceImpl{
		records:     records,
		annotations: annotations,
		lister:      lister,
		history:     history,
		logger:      logger,
	}
}

// Load reads, reconciles and derives the milestone collection.
func (s *ScheduleServiceImpl) Load(ctx context.Context, req primary.LoadRequest) (*primary.LoadResult, error) {
	result := &primary.LoadResult{ExtractPath: req.ExtractPath}

	if result.ExtractPath == "" {
		path, period, err := s.lister.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to locate latest extract: %w", err)
		}
		result.ExtractPath = path
		result.Snapshot = period
	} else if period, ok := s.lister.PeriodOf(result.ExtractPath); ok {
		result.Snapshot = period
	}

	records, err := s.records.LoadRecords(ctx, result.ExtractPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load extract: %w", err)
	}

	var annotations reconcile.Annotations
	if req.AnnotationPath != "" {
		annotations, err = s.annotations.LoadAnnotations(ctx, req.AnnotationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load annotations: %w", err)
		}
	}

	c, err := reconcile.Reconcile(records, annotations, reconcile.Options{
		IncludeTasks: req.IncludeTasks,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile %s: %w", result.ExtractPath, err)
	}
	result.Collection = c
	s.logger.Info("loaded milestones", "extract", result.ExtractPath, "count", c.Len(), "notices", len(c.Notices()))

	if req.Forecast == nil {
		return result, nil
	}
	if result.Snapshot.IsZero() {
		return nil, fmt.Errorf("cannot derive prior forecasts: %s does not name its period", result.ExtractPath)
	}

	history := req.Forecast.History
	if history == "" {
		history = primary.HistoryDirectory
	}
	resolver, ok := s.history[history]
	if !ok {
		return nil, fmt.Errorf("snapshot history %q is not available", history)
	}

	passes := []struct {
		months int
		slot   forecast.Slot
	}{
		{1, forecast.Prior},
		{req.Forecast.MonthsBack, forecast.TwoPrior},
	}
	for _, p := range passes {
		r, err := forecast.AttachPriorForecast(ctx, c, resolver, result.Snapshot, p.months, p.slot, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", p.slot, err)
		}
		result.Forecasts = append(result.Forecasts, r)
	}

	return result, nil
}

// Ensure ScheduleServiceImpl implements the interface
var _ primary.ScheduleService = (*ScheduleServiceImpl)(nil)
