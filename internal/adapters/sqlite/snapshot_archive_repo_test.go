package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/milestones/internal/adapters/sqlite"
	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

func importSample(t *testing.T, repo *sqlite.SnapshotArchiveRepository, period string) {
	t.Helper()
	err := repo.Import(context.Background(), &secondary.SnapshotRecord{
		Period: period,
		Source: "data/pmcs/" + period + "-ME.csv",
	}, sampleRecords())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
}

func TestSnapshotArchiveRepository_ImportAndRecords(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))
	ctx := context.Background()

	importSample(t, repo, "202402")

	records, err := repo.Records(ctx, models.Period{Year: 2024, Month: time.February})
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	byCode := make(map[string]models.TaskRecord)
	for _, r := range records {
		byCode[r.Code] = r
	}

	dm1 := byCode["DM-1"]
	if dm1.Name != "Alert production" || dm1.WBS != "02C.03" {
		t.Errorf("DM-1 = %+v", dm1)
	}
	if dm1.Forecast == nil || !dm1.Forecast.Equal(*date(2024, 3, 20)) {
		t.Errorf("DM-1 forecast = %v, want 2024-03-20", dm1.Forecast)
	}
	if dm1.Actual != nil {
		t.Errorf("DM-1 actual = %v, want nil", dm1.Actual)
	}
	if !byCode["DM-2"].IsCompleted() {
		t.Error("DM-2 should round-trip as completed")
	}
	if byCode["T-100"].Baseline != nil {
		t.Error("T-100 baseline should be nil")
	}
}

func TestSnapshotArchiveRepository_ImportReplaces(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))
	ctx := context.Background()

	importSample(t, repo, "202402")
	err := repo.Import(ctx, &secondary.SnapshotRecord{Period: "202402", Source: "again.csv"}, sampleRecords()[:1])
	if err != nil {
		t.Fatalf("second Import failed: %v", err)
	}

	records, err := repo.Records(ctx, models.Period{Year: 2024, Month: time.February})
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record after re-import, got %d", len(records))
	}

	snapshots, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Source != "again.csv" || snapshots[0].RecordCount != 1 {
		t.Errorf("List = %+v", snapshots)
	}
}

func TestSnapshotArchiveRepository_ImportInvalidPeriod(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))

	err := repo.Import(context.Background(), &secondary.SnapshotRecord{Period: "2024-02"}, sampleRecords())
	if err == nil {
		t.Fatal("expected error for malformed period")
	}
}

func TestSnapshotArchiveRepository_ListNewestFirst(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))

	importSample(t, repo, "202312")
	importSample(t, repo, "202402")
	importSample(t, repo, "202401")

	snapshots, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"202402", "202401", "202312"}
	if len(snapshots) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(snapshots))
	}
	for i, p := range want {
		if snapshots[i].Period != p {
			t.Errorf("snapshots[%d] = %s, want %s", i, snapshots[i].Period, p)
		}
	}
}

func TestSnapshotArchiveRepository_Resolve(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))
	ctx := context.Background()
	importSample(t, repo, "202312")

	ref := models.Period{Year: 2024, Month: time.March}

	tests := []struct {
		name       string
		monthsBack int
		wantErr    bool
	}{
		{name: "across year boundary", monthsBack: 3},
		{name: "missing month", monthsBack: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, period, err := repo.Resolve(ctx, ref, tt.monthsBack)
			if tt.wantErr {
				if !errors.Is(err, forecast.ErrSnapshotNotFound) {
					t.Errorf("expected ErrSnapshotNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if period.String() != "202312" {
				t.Errorf("period = %s, want 202312", period)
			}
			if len(records) != 3 {
				t.Errorf("expected 3 records, got %d", len(records))
			}
		})
	}
}

func TestSnapshotArchiveRepository_Delete(t *testing.T) {
	repo := sqlite.NewSnapshotArchiveRepository(setupTestDB(t))
	ctx := context.Background()
	period := models.Period{Year: 2024, Month: time.February}

	importSample(t, repo, "202402")
	if err := repo.Delete(ctx, period); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.Records(ctx, period); !errors.Is(err, forecast.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, period); err == nil {
		t.Error("expected error deleting a missing snapshot")
	}
}
