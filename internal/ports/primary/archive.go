package primary

import "context"

// ArchiveService defines the primary port for the snapshot archive.
type ArchiveService interface {
	// ImportSnapshot stores an extract's records under its period.
	ImportSnapshot(ctx context.Context, req ImportSnapshotRequest) (*Snapshot, error)

	// ListSnapshots lists the archived periods, newest first.
	ListSnapshots(ctx context.Context) ([]*Snapshot, error)
}

// ImportSnapshotRequest contains parameters for importing an extract.
type ImportSnapshotRequest struct {
	Path   string
	Period string // YYYYMM; "" derives it from the file name
}

// Snapshot is one archived extract.
type Snapshot struct {
	Period      string
	Source      string
	RecordCount int
	ImportedAt  string
}
