package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/example/milestones/internal/core/forecast"
	"github.com/example/milestones/internal/core/reconcile"
	"github.com/example/milestones/internal/models"
	"github.com/example/milestones/internal/ports/secondary"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockRecordSource implements secondary.TaskRecordSource for testing.
type mockRecordSource struct {
	extracts map[string][]models.TaskRecord
	loaded   []string
}

func (m *mockRecordSource) LoadRecords(ctx context.Context, path string) ([]models.TaskRecord, error) {
	m.loaded = append(m.loaded, path)
	records, ok := m.extracts[path]
	if !ok {
		return nil, &reconcile.SourceUnavailableError{Path: path, Err: errors.New("no such file")}
	}
	return records, nil
}

// mockAnnotationSource implements secondary.AnnotationSource for testing.
type mockAnnotationSource struct {
	annotations reconcile.Annotations
	err         error
	calls       int
}

func (m *mockAnnotationSource) LoadAnnotations(ctx context.Context, path string) (reconcile.Annotations, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.annotations, nil
}

// mockSnapshotLister implements secondary.SnapshotLister for testing.
type mockSnapshotLister struct {
	latestPath   string
	latestPeriod models.Period
	latestErr    error
	periods      map[string]models.Period
}

func (m *mockSnapshotLister) Latest(ctx context.Context) (string, models.Period, error) {
	if m.latestErr != nil {
		return "", models.Period{}, m.latestErr
	}
	return m.latestPath, m.latestPeriod, nil
}

func (m *mockSnapshotLister) Periods(ctx context.Context) ([]models.Period, error) {
	var out []models.Period
	for _, p := range m.periods {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockSnapshotLister) PeriodOf(path string) (models.Period, bool) {
	p, ok := m.periods[path]
	return p, ok
}

// mockResolver implements secondary.SnapshotResolver for testing.
type mockResolver struct {
	snapshots map[models.Period][]models.TaskRecord
	requested []int
}

func (m *mockResolver) Resolve(ctx context.Context, ref models.Period, monthsBack int) ([]models.TaskRecord, models.Period, error) {
	m.requested = append(m.requested, monthsBack)
	want := ref.AddMonths(-monthsBack)
	records, ok := m.snapshots[want]
	if !ok {
		return nil, models.Period{}, fmt.Errorf("%s: %w", want, forecast.ErrSnapshotNotFound)
	}
	return records, want, nil
}

// mockTracker implements secondary.Tracker for testing.
type mockTracker struct {
	due      map[string]*time.Time
	comments map[string][]string
	getErr   error
	setErr   error
	sets     int
}

func newMockTracker() *mockTracker {
	return &mockTracker{
		due:      make(map[string]*time.Time),
		comments: make(map[string][]string),
	}
}

func (m *mockTracker) GetDueDate(ctx context.Context, issueKey string) (*time.Time, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.due[issueKey], nil
}

func (m *mockTracker) SetDueDate(ctx context.Context, issueKey string, due time.Time) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.due[issueKey] = &due
	return nil
}

func (m *mockTracker) AddComment(ctx context.Context, issueKey, body string) error {
	m.comments[issueKey] = append(m.comments[issueKey], body)
	return nil
}

// mockSyncLedger implements secondary.SyncLedger for testing.
type mockSyncLedger struct {
	entries   []*secondary.SyncRecord
	recordErr error
}

func (m *mockSyncLedger) Record(ctx context.Context, entry *secondary.SyncRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockSyncLedger) List(ctx context.Context, filters secondary.SyncFilters) ([]*secondary.SyncRecord, error) {
	var result []*secondary.SyncRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.MilestoneCode != "" && e.MilestoneCode != filters.MilestoneCode {
			continue
		}
		if filters.IssueKey != "" && e.IssueKey != filters.IssueKey {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// mockSnapshotArchive implements secondary.SnapshotArchive for testing.
type mockSnapshotArchive struct {
	mockResolver
	snapshots map[string]*secondary.SnapshotRecord
	importErr error
}

func newMockSnapshotArchive() *mockSnapshotArchive {
	return &mockSnapshotArchive{
		mockResolver: mockResolver{snapshots: make(map[models.Period][]models.TaskRecord)},
		snapshots:    make(map[string]*secondary.SnapshotRecord),
	}
}

func (m *mockSnapshotArchive) Import(ctx context.Context, snapshot *secondary.SnapshotRecord, records []models.TaskRecord) error {
	if m.importErr != nil {
		return m.importErr
	}
	period, err := models.ParsePeriod(snapshot.Period)
	if err != nil {
		return err
	}
	m.snapshots[snapshot.Period] = snapshot
	m.mockResolver.snapshots[period] = records
	return nil
}

func (m *mockSnapshotArchive) List(ctx context.Context) ([]*secondary.SnapshotRecord, error) {
	var result []*secondary.SnapshotRecord
	for _, s := range m.snapshots {
		result = append(result, s)
	}
	return result, nil
}

func (m *mockSnapshotArchive) Records(ctx context.Context, period models.Period) ([]models.TaskRecord, error) {
	records, ok := m.mockResolver.snapshots[period]
	if !ok {
		return nil, forecast.ErrSnapshotNotFound
	}
	return records, nil
}

func (m *mockSnapshotArchive) Delete(ctx context.Context, period models.Period) error {
	delete(m.snapshots, period.String())
	delete(m.mockResolver.snapshots, period)
	return nil
}
