// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/models"
)

// TaskRecordSource defines the secondary port for reading a schedule extract.
type TaskRecordSource interface {
	// LoadRecords parses every record of the extract at path. A missing or
	// unreadable file is a *reconcile.SourceUnavailableError.
	LoadRecords(ctx context.Context, path string) ([]models.TaskRecord, error)
}

// AnnotationSource defines the secondary port for the local annotation file.
type AnnotationSource interface {
	// LoadAnnotations decodes the annotation file at path into raw entries
	// keyed by milestone code.
	LoadAnnotations(ctx context.Context, path string) (reconcile.Annotations, error)
}

// SnapshotResolver defines the secondary port for locating historical
// extracts by month.
type SnapshotResolver interface {
	// Resolve returns the records of the snapshot monthsBack calendar months
	// before ref, and the period actually loaded. It returns an error
	// wrapping forecast.ErrSnapshotNotFound when there is none.
	Resolve(ctx context.Context, ref models.Period, monthsBack int) ([]models.TaskRecord, models.Period, error)
}

// SnapshotLister defines the secondary port for enumerating the extracts
// held in a data directory.
type SnapshotLister interface {
	// Latest returns the path and period of the newest extract.
	Latest(ctx context.Context) (string, models.Period, error)

	// Periods returns every available period, oldest first.
	Periods(ctx context.Context) ([]models.Period, error)

	// PeriodOf derives the period from an extract path, if it follows the
	// YYYYMM-ME naming.
	PeriodOf(path string) (models.Period, bool)
}
