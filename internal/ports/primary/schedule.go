// Package primary defines the primary ports (driving adapters) for the application.
package primary

import (
	"context"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/models"
)

// ScheduleService defines the primary port for building the reconciled
// milestone collection.
type ScheduleService interface {
	// Load reads the extract and annotations, reconciles them, and runs the
	// requested forecast derivations.
	Load(ctx context.Context, req LoadRequest) (*LoadResult, error)
}

// History sources for forecast derivation.
const (
	HistoryDirectory = "dir"
	HistoryArchive   = "archive"
)

// LoadRequest contains parameters for loading a collection.
type LoadRequest struct {
	ExtractPath    string // "" selects the newest extract in the data directory
	AnnotationPath string
	IncludeTasks   bool
	Forecast       *ForecastRequest // nil skips derivation
}

// ForecastRequest selects the prior-forecast passes. The Prior slot always
// looks one month back; the TwoPrior slot looks MonthsBack months back.
type ForecastRequest struct {
	History    string // "dir" (default) or "archive"
	MonthsBack int
}

// LoadResult contains the reconciled collection and provenance.
type LoadResult struct {
	Collection  *collection.Collection
	ExtractPath string
	Snapshot    models.Period // zero when the extract name carries no period
	Forecasts   []forecast.Result
}
