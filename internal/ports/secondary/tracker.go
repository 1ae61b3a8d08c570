package secondary

import (
	"context"
	"time"
)

// Tracker defines the secondary port for the external issue tracker.
type Tracker interface {
	// GetDueDate returns the issue's current due date, or nil when unset.
	GetDueDate(ctx context.Context, issueKey string) (*time.Time, error)

	// SetDueDate sets the issue's due date.
	SetDueDate(ctx context.Context, issueKey string, due time.Time) error

	// AddComment appends a comment to the issue.
	AddComment(ctx context.Context, issueKey, body string) error
}
