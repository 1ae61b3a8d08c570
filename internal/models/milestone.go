package models

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for annotations and output.
const DateLayout = "2006-01-02"

// Celebration tags.
const (
	CelebrateTop = "Top"
	CelebrateYes = "Y"
)

// Milestone is the canonical entity every report works from.
// It is built from a TaskRecord, then mutated by the annotation and
// forecast passes, then treated as read-only.
type Milestone struct {
	Code string

	Due                 *time.Time
	ForecastDue         *time.Time
	PriorForecastDue    *time.Time
	TwoPriorForecastDue *time.Time
	Start               *time.Time
	Completed           *time.Time

	WBS          string
	Level        *int
	TaskType     string
	Status       string
	SummaryChart string
	Celebrate    string

	Predecessors StringSet
	Successors   StringSet

	Name         string
	ShortName    string
	Description  string
	Comment      string
	AKA          []string
	TestSpec     string
	Jira         string
	JiraTestPlan string
}

// NewMilestone copies identity, scheduling, classification and relationship
// fields from a record.
func NewMilestone(r TaskRecord) *Milestone {
	return &Milestone{
		Code:         r.Code,
		Name:         r.Name,
		Due:          copyTime(r.DueDate()),
		ForecastDue:  copyTime(r.ForecastDate()),
		Start:        copyTime(r.Start),
		Completed:    copyTime(r.CompletedDate()),
		WBS:          r.WBS,
		Level:        copyInt(r.Level),
		TaskType:     r.TaskType,
		Status:       r.Status,
		SummaryChart: r.SummaryChart,
		Celebrate:    r.Celebrate,
		Predecessors: NewStringSet(r.Predecessors...),
		Successors:   NewStringSet(r.Successors...),
	}
}

// IsCompleted reports whether the milestone is closed.
func (m *Milestone) IsCompleted() bool {
	return m.Completed != nil
}

// IsDelayed reports whether an open milestone was due before asOf.
func (m *Milestone) IsDelayed(asOf time.Time) bool {
	return !m.IsCompleted() && m.Due != nil && m.Due.Before(asOf)
}

// DisplayName returns the short name when set, else the name.
func (m *Milestone) DisplayName() string {
	if m.ShortName != "" {
		return m.ShortName
	}
	return m.Name
}

// ForecastSlip returns the whole days the current forecast moved relative
// to the given earlier forecast. ok is false when either date is missing.
func (m *Milestone) ForecastSlip(earlier *time.Time) (days int, ok bool) {
	if m.ForecastDue == nil || earlier == nil {
		return 0, false
	}
	return DaysBetween(*earlier, *m.ForecastDue), true
}

// HasWBSPrefix reports whether the milestone sits under the given WBS path.
func (m *Milestone) HasWBSPrefix(prefix string) bool {
	return strings.HasPrefix(m.WBS, prefix)
}

// FormatDate renders an optional date as YYYY-MM-DD, or "" when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// DaysBetween returns the calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// StringSet is an unordered set of milestone codes.
type StringSet map[string]struct{}

// NewStringSet builds a set, dropping empty strings.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, item := range items {
		if item != "" {
			s[item] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Add inserts an item.
func (s StringSet) Add(item string) {
	s[item] = struct{}{}
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for item := range s {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
