package store

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means neither transport produced a usable data file.
	ErrDataUnavailable = errors.New("project data unavailable")
	// ErrMalformedRecord marks a record that was skipped for missing or
	// mistyped fields.
	ErrMalformedRecord = errors.New("malformed project record")
	// ErrDuplicateSlug marks a record dropped because an earlier record
	// already claimed its slug.
	ErrDuplicateSlug = errors.New("duplicate project slug")
	// ErrInvalidField marks an optional field that was ignored because of
	// its type. The record itself is kept.
	ErrInvalidField = errors.New("invalid project field")
)

// RecordError describes one skipped record. Index is the record's position
// in the source array, or -1 for document-level problems.
type RecordError struct {
	Index  int
	Slug   string
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: %s", e.Err, e.Reason)
	case e.Slug != "":
		return fmt.Sprintf("%v: record %d (%s): %s", e.Err, e.Index, e.Slug, e.Reason)
	default:
		return fmt.Sprintf("%v: record %d: %s", e.Err, e.Index, e.Reason)
	}
}

func (e *RecordError) Unwrap() error { return e.Err }
