// Package collection holds the reconciled milestone set and the read-only
// queries every report generator runs against it.
package collection

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/milestones/internal/models"
)

// Reader is the narrow read contract consumed by report generators and the
// tracker sync.
type Reader interface {
	All() []*models.Milestone
	FilterByCodePrefix(prefixes ...string) []*models.Milestone
	FilterByWBSPrefix(prefix string) []*models.Milestone
	FindByCode(code string) (*models.Milestone, bool)
}

// Notice records a field override applied while reconciling.
type Notice struct {
	Level slog.Level
	Code  string
	Field string
	Old   string
	New   string
}

func (n Notice) String() string {
	if n.Level >= slog.LevelWarn {
		return fmt.Sprintf("overriding %s on %s (was %q; now %q)", n.Field, n.Code, n.Old, n.New)
	}
	return fmt.Sprintf("setting %s on %s", n.Field, n.Code)
}

// DuplicateCodeError reports two milestones sharing a code.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("duplicate milestone code %q", e.Code)
}

// Collection is a set of milestones indexed by code. Milestones are held by
// pointer, so queries always see the latest overrides and derivations.
type Collection struct {
	ordered []*models.Milestone
	byCode  map[string]*models.Milestone
	notices []Notice
}

// New indexes milestones by code, preserving the given order.
func New(milestones []*models.Milestone, notices []Notice) (*Collection, error) {
	c := &Collection{
		ordered: make([]*models.Milestone, 0, len(milestones)),
		byCode:  make(map[string]*models.Milestone, len(milestones)),
		notices: notices,
	}
	for _, ms := range milestones {
		if _, exists := c.byCode[ms.Code]; exists {
			return nil, &DuplicateCodeError{Code: ms.Code}
		}
		c.byCode[ms.Code] = ms
		c.ordered = append(c.ordered, ms)
	}
	return c, nil
}

// All returns every milestone in load order.
func (c *Collection) All() []*models.Milestone {
	out := make([]*models.Milestone, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of milestones.
func (c *Collection) Len() int {
	return len(c.ordered)
}

// Notices returns the override notices emitted while reconciling.
func (c *Collection) Notices() []Notice {
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// FindByCode looks a milestone up by its code.
func (c *Collection) FindByCode(code string) (*models.Milestone, bool) {
	ms, ok := c.byCode[code]
	return ms, ok
}

// FilterByCodePrefix returns milestones whose code starts with any of the
// prefixes. Each milestone appears at most once; order is unspecified.
func (c *Collection) FilterByCodePrefix(prefixes ...string) []*models.Milestone {
	var out []*models.Milestone
	for _, ms := range c.ordered {
		for _, prefix := range prefixes {
			if strings.HasPrefix(ms.Code, prefix) {
				out = append(out, ms)
				break
			}
		}
	}
	return out
}

// FilterByWBSPrefix returns milestones under the WBS path; "" matches all.
func (c *Collection) FilterByWBSPrefix(prefix string) []*models.Milestone {
	var out []*models.Milestone
	for _, ms := range c.ordered {
		if ms.HasWBSPrefix(prefix) {
			out = append(out, ms)
		}
	}
	return out
}

// Ensure Collection implements the interface.
var _ Reader = (*Collection)(nil)

// SortByDue orders milestones by due date then code. Milestones without a
// due date sort last.
func SortByDue(milestones []*models.Milestone) {
	sort.SliceStable(milestones, func(i, j int) bool {
		a, b := milestones[i], milestones[j]
		switch {
		case a.Due == nil && b.Due == nil:
			return a.Code < b.Code
		case a.Due == nil:
			return false
		case b.Due == nil:
			return true
		case !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		}
		return a.Code < b.Code
	})
}

// SortByWBSCode orders milestones by WBS path then code.
func SortByWBSCode(milestones []*models.Milestone) {
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].WBS+milestones[i].Code < milestones[j].WBS+milestones[j].Code
	})
}
