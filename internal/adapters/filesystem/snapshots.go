// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/example/milestones/internal/adapters/pmcs"
	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

// SnapshotDirectory resolves monthly extracts held as YYYYMM-ME.csv[.zst]
// files in one directory.
type SnapshotDirectory struct {
	dir    string
	source secondary.TaskRecordSource
}

// NewSnapshotDirectory creates a resolver over dir that parses files with source.
func NewSnapshotDirectory(dir string, source secondary.TaskRecordSource) *SnapshotDirectory {
	return &SnapshotDirectory{dir: dir, source: source}
}

// Dir returns the directory being served.
func (d *SnapshotDirectory) Dir() string {
	return d.dir
}

// files maps each period to its extract path. A plain CSV wins over a
// compressed one for the same month.
func (d *SnapshotDirectory) files() (map[models.Period]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, &reconcile.SourceUnavailableError{Path: d.dir, Err: err}
	}

	out := make(map[models.Period]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p, ok := pmcs.PeriodFromFilename(e.Name())
		if !ok {
			continue
		}
		if existing, seen := out[p]; seen && !pmcs.IsCompressed(existing) {
			continue
		}
		out[p] = filepath.Join(d.dir, e.Name())
	}
	return out, nil
}

// Periods returns every available period, oldest first.
func (d *SnapshotDirectory) Periods(ctx context.Context) ([]models.Period, error) {
	files, err := d.files()
	if err != nil {
		return nil, err
	}

	periods := make([]models.Period, 0, len(files))
	for p := range files {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].String() < periods[j].String()
	})
	return periods, nil
}

// Latest returns the path and period of the newest extract.
func (d *SnapshotDirectory) Latest(ctx context.Context) (string, models.Period, error) {
	files, err := d.files()
	if err != nil {
		return "", models.Period{}, err
	}

	var (
		latest models.Period
		path   string
	)
	for p, f := range files {
		if path == "" || p.String() > latest.String() {
			latest, path = p, f
		}
	}
	if path == "" {
		return "", models.Period{}, &reconcile.SourceUnavailableError{
			Path: d.dir,
			Err:  fmt.Errorf("no ??????-ME.csv extracts found"),
		}
	}
	return path, latest, nil
}

// PeriodOf derives the period from an extract path.
func (d *SnapshotDirectory) PeriodOf(path string) (models.Period, bool) {
	return pmcs.PeriodFromFilename(path)
}

// Resolve loads the extract monthsBack calendar months before ref.
func (d *SnapshotDirectory) Resolve(ctx context.Context, ref models.Period, monthsBack int) ([]models.TaskRecord, models.Period, error) {
	want := ref.AddMonths(-monthsBack)

	files, err := d.files()
	if err != nil {
		return nil, models.Period{}, err
	}
	path, ok := files[want]
	if !ok {
		return nil, models.Period{}, fmt.Errorf("%s in %s: %w", pmcs.SnapshotFilename(want), d.dir, forecast.ErrSnapshotNotFound)
	}

	records, err := d.source.LoadRecords(ctx, path)
	if err != nil {
		return nil, models.Period{}, err
	}
	return records, want, nil
}

// Ensure SnapshotDirectory implements the interfaces.
var (
	_ secondary.SnapshotResolver = (*SnapshotDirectory)(nil)
	_ secondary.SnapshotLister   = (*SnapshotDirectory)(nil)
)
