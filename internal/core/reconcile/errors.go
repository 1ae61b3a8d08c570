package reconcile

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable   = errors.New("source unavailable")
	ErrMalformedAnnotation = errors.New("malformed annotation")
	ErrInvalidRecord       = errors.New("invalid task record")
)

// SourceUnavailableError reports an extract or annotation file that could
// not be read.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Path, e.Err)
}

// Is matches ErrSourceUnavailable as well as the underlying cause.
func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// MalformedAnnotationError reports an override value that does not parse
// under its field's type.
type MalformedAnnotationError struct {
	Code   string
	Field  Field
	Value  any
	Reason string
}

func (e *MalformedAnnotationError) Error() string {
	return fmt.Sprintf("%s: %s.%s = %#v: %s", ErrMalformedAnnotation, e.Code, e.Field, e.Value, e.Reason)
}

func (e *MalformedAnnotationError) Unwrap() error { return ErrMalformedAnnotation }

// RecordError reports a task record the engine cannot build a milestone from.
type RecordError struct {
	Code   string
	Reason string
}

func (e *RecordError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidRecord, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidRecord, e.Code, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }
