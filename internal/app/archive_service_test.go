package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/primary"
)

func newTestArchiveService() (*ArchiveServiceImpl, *mockSnapshotArchive) {
	records := &mockRecordSource{extracts: map[string][]models.TaskRecord{
		marchExtract: marchRecords(),
		loosePath:    marchRecords()[:1],
	}}
	lister := &mockSnapshotLister{periods: map[string]models.Period{marchExtract: march}}
	archive := newMockSnapshotArchive()
	service := NewArchiveService(records, lister, archive, quietLogger)
	service.now = func() time.Time { return time.Date(2024, 4, 2, 8, 30, 0, 0, time.UTC) }
	return service, archive
}

func TestArchiveService_ImportSnapshot(t *testing.T) {
	service, archive := newTestArchiveService()

	snapshot, err := service.ImportSnapshot(context.Background(), primary.ImportSnapshotRequest{Path: marchExtract})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot.Period != "202403" || snapshot.RecordCount != 3 {
		t.Errorf("snapshot = %+v", snapshot)
	}
	if snapshot.ImportedAt != "2024-04-02T08:30:00Z" {
		t.Errorf("ImportedAt = %s", snapshot.ImportedAt)
	}

	records, err := archive.Records(context.Background(), march)
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("archived %d records, want 3", len(records))
	}
}

func TestArchiveService_ImportExplicitPeriod(t *testing.T) {
	service, archive := newTestArchiveService()

	snapshot, err := service.ImportSnapshot(context.Background(), primary.ImportSnapshotRequest{Path: loosePath, Period: "202312"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if snapshot.Period != "202312" || snapshot.Source != loosePath {
		t.Errorf("snapshot = %+v", snapshot)
	}
	if _, ok := archive.snapshots["202312"]; !ok {
		t.Error("snapshot not stored under explicit period")
	}
}

func TestArchiveService_ImportErrors(t *testing.T) {
	tests := []struct {
		name string
		req  primary.ImportSnapshotRequest
		is   error
	}{
		{name: "period not derivable", req: primary.ImportSnapshotRequest{Path: loosePath}},
		{name: "bad explicit period", req: primary.ImportSnapshotRequest{Path: loosePath, Period: "2023-12"}},
		{name: "missing file", req: primary.ImportSnapshotRequest{Path: "data/202401-ME.csv", Period: "202401"}, is: reconcile.ErrSourceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, archive := newTestArchiveService()
			_, err := service.ImportSnapshot(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
			if len(archive.snapshots) != 0 {
				t.Error("nothing should be archived on error")
			}
		})
	}
}

func TestArchiveService_ListSnapshots(t *testing.T) {
	service, _ := newTestArchiveService()

	if _, err := service.ImportSnapshot(context.Background(), primary.ImportSnapshotRequest{Path: marchExtract}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	snapshots, err := service.ListSnapshots(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Period != "202403" || snapshots[0].Source != marchExtract {
		t.Errorf("unexpected snapshots %+v", snapshots)
	}
}

func TestArchiveService_NoArchive(t *testing.T) {
	service := NewArchiveService(&mockRecordSource{}, &mockSnapshotLister{}, nil, quietLogger)

	if _, err := service.ImportSnapshot(context.Background(), primary.ImportSnapshotRequest{Path: marchExtract}); !errors.Is(err, errArchiveUnavailable) {
		t.Errorf("expected errArchiveUnavailable, got %v", err)
	}
	if _, err := service.ListSnapshots(context.Background()); !errors.Is(err, errArchiveUnavailable) {
		t.Errorf("expected errArchiveUnavailable, got %v", err)
	}
}
