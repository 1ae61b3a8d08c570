// Package forecast attaches prior-period forecast dates to a reconciled
// collection by cross-referencing earlier snapshots of the extract.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/milestones/internal/core/collection"
	"github.com/example/milestones/internal/models"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidMonths    = errors.New("months back must be positive")
)

// Resolver loads the snapshot monthsBack months before ref. It returns
// ErrSnapshotNotFound (possibly wrapped) when no such snapshot exists.
type Resolver interface {
	Resolve(ctx context.Context, ref models.Period, monthsBack int) ([]models.TaskRecord, models.Period, error)
}

// Slot selects which derived field a pass fills.
type Slot int

const (
	// Prior fills PriorForecastDue.
	Prior Slot = iota
	// TwoPrior fills TwoPriorForecastDue.
	TwoPrior
)

func (s Slot) String() string {
	if s == TwoPrior {
		return "two_prior_forecast_due"
	}
	return "prior_forecast_due"
}

func (s Slot) set(ms *models.Milestone, t *time.Time) {
	if s == TwoPrior {
		ms.TwoPriorForecastDue = t
		return
	}
	ms.PriorForecastDue = t
}

// SnapshotUnavailableWarning reports a missing historical snapshot. It is
// never fatal: the derived fields fall back to the current forecast.
type SnapshotUnavailableWarning struct {
	Ref        models.Period
	MonthsBack int
	Want       models.Period
	Err        error
}

func (w *SnapshotUnavailableWarning) Error() string {
	return fmt.Sprintf("no snapshot %d month(s) before %s (wanted %s): %v", w.MonthsBack, w.Ref, w.Want, w.Err)
}

func (w *SnapshotUnavailableWarning) Unwrap() error { return w.Err }

// Result summarises one derivation pass.
type Result struct {
	Slot     Slot
	Snapshot models.Period
	Matched  int
	FellBack int
	Warning  *SnapshotUnavailableWarning
}

// AttachPriorForecast fills the slot of every milestone from the snapshot
// monthsBack months before ref. Milestones absent from the snapshot take
// their own current forecast. Repeated calls with the same inputs yield the
// same values.
func AttachPriorForecast(ctx context.Context, c *collection.Collection, resolver Resolver, ref models.Period, monthsBack int, slot Slot, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	result := Result{Slot: slot}
	if monthsBack <= 0 {
		return result, fmt.Errorf("%w: got %d", ErrInvalidMonths, monthsBack)
	}

	records, period, err := resolver.Resolve(ctx, ref, monthsBack)
	if errors.Is(err, ErrSnapshotNotFound) {
		result.Warning = &SnapshotUnavailableWarning{
			Ref:        ref,
			MonthsBack: monthsBack,
			Want:       ref.AddMonths(-monthsBack),
			Err:        err,
		}
		logger.Warn("snapshot unavailable; assuming no forecast change",
			"ref", ref.String(),
			"months_back", monthsBack,
			"want", result.Warning.Want.String(),
			"slot", slot.String(),
		)
		records = nil
	} else if err != nil {
		return result, fmt.Errorf("failed to resolve snapshot %d month(s) before %s: %w", monthsBack, ref, err)
	} else {
		result.Snapshot = period
		logger.Info("loaded forecast snapshot", "period", period.String(), "records", len(records), "slot", slot.String())
	}

	prior := make(map[string]*time.Time, len(records))
	for _, r := range records {
		if d := r.ForecastDate(); d != nil {
			v := *d
			prior[r.Code] = &v
		}
	}

	for _, ms := range c.All() {
		if d, ok := prior[ms.Code]; ok {
			v := *d
			slot.set(ms, &v)
			result.Matched++
			continue
		}
		slot.set(ms, fallback(ms))
		result.FellBack++
	}
	return result, nil
}

func fallback(ms *models.Milestone) *time.Time {
	if ms.ForecastDue == nil {
		return nil
	}
	v := *ms.ForecastDue
	return &v
}
