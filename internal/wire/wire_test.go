package wire

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/milestones/internal/config"
	"github.com/example/milestones/internal/db"
)

func TestAdaptersShareConfiguredServices(t *testing.T) {
	dir := t.TempDir()
	c := config.Default()
	c.DataDir = dir
	c.ArchiveDB = filepath.Join(dir, "archive.db")
	Configure(c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { db.Close() })

	var out bytes.Buffer
	if MilestoneAdapterWithOutput(&out) == nil {
		t.Fatal("expected a milestone adapter")
	}
	if TrackerAdapterWithOutput(&out) == nil {
		t.Fatal("expected a tracker adapter")
	}
	if ArchiveAdapterWithOutput(&out) == nil {
		t.Fatal("expected an archive adapter")
	}

	if scheduleService == nil || trackerSyncService == nil || archiveService == nil {
		t.Fatal("expected every service to be initialized")
	}

	path, err := db.GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath failed: %v", err)
	}
	if path != c.ArchiveDB {
		t.Errorf("archive path = %q, want %q", path, c.ArchiveDB)
	}
}
