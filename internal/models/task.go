// Package models contains domain types for schedule entities.
// Parsing lives in internal/adapters/*; reconciliation in internal/core/*.
package models

import (
	"strings"
	"time"
)

// TaskRecord is a single row of the schedule extract.
// Records are immutable once the extractor has produced them.
type TaskRecord struct {
	Code     string
	Name     string
	TaskType string // e.g. "Finish Milestone", "Start Milestone", "Task Dependent"
	WBS      string
	Level    *int

	// Candidate dates; nil means absent.
	Baseline *time.Time // base_end_date
	Start    *time.Time // start_date
	Forecast *time.Time // end_date, floats with the current project
	Actual   *time.Time // act_end_date

	Status       string
	SummaryChart string
	Celebrate    string

	Predecessors []string
	Successors   []string
}

// Task status and type markers used by the extract.
const (
	StatusCompleted   = "Completed"
	StatusInProgress  = "In Progress"
	StatusNotStarted  = "Not Started"
	taskTypeMilestone = "Milestone"
	taskTypeStart     = "Start"
)

// IsMilestone reports whether the record is tagged as a milestone.
func (r TaskRecord) IsMilestone() bool {
	return strings.Contains(r.TaskType, taskTypeMilestone)
}

// IsCompleted reports whether the extract marks the record as completed.
func (r TaskRecord) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// DueDate returns the baseline due date, falling back to the current
// forecast, then (for start milestones) to the start date.
func (r TaskRecord) DueDate() *time.Time {
	switch {
	case r.Baseline != nil:
		return r.Baseline
	case r.Forecast != nil:
		return r.Forecast
	case strings.HasPrefix(r.TaskType, taskTypeStart):
		return r.Start
	}
	return nil
}

// ForecastDate returns the current forecast, falling back to DueDate.
func (r TaskRecord) ForecastDate() *time.Time {
	if r.Forecast != nil {
		return r.Forecast
	}
	return r.DueDate()
}

// CompletedDate returns the completion date of a completed record:
// actual, else baseline, else start. It returns nil for open records and
// for completed records with no usable date; callers distinguish the two
// with IsCompleted.
func (r TaskRecord) CompletedDate() *time.Time {
	if !r.IsCompleted() {
		return nil
	}
	switch {
	case r.Actual != nil:
		return r.Actual
	case r.Baseline != nil:
		return r.Baseline
	case r.Start != nil:
		return r.Start
	}
	return nil
}
