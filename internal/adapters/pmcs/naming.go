package pmcs

import (
	"path/filepath"
	"regexp"

	"github.com/example/milestones/internal/models"
)

// Extracts are named YYYYMM-ME.csv (forecast) and may carry a .zst suffix.
var snapshotPattern = regexp.MustCompile(`^(\d{6})-ME\.csv(\.zst)?$`)

// SnapshotFilename returns the uncompressed file name for a period.
func SnapshotFilename(p models.Period) string {
	return p.String() + "-ME.csv"
}

// PeriodFromFilename extracts the period from an extract path.
func PeriodFromFilename(path string) (models.Period, bool) {
	m := snapshotPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return models.Period{}, false
	}
	p, err := models.ParsePeriod(m[1])
	if err != nil {
		return models.Period{}, false
	}
	return p, true
}

// IsCompressed reports whether an extract path names a zstd file.
func IsCompressed(path string) bool {
	m := snapshotPattern.FindStringSubmatch(filepath.Base(path))
	return m != nil && m[2] != ""
}
