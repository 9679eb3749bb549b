package review

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the review store. Callers branch with
// [errors.Is]; IO failures carry no sentinel and surface wrapped with
// operation context.
var (
	// ErrSourceNotFound reports a date with no source candidate table.
	ErrSourceNotFound = errors.New("source table not found")

	// ErrSnapshotCorrupt reports a snapshot or source table whose header
	// row is empty or unparseable. Surfaced, never auto-repaired.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")

	// ErrInvalidVerdict reports a verdict outside {exclude, suspect,
	// cancel}. Rejected before any file is touched.
	ErrInvalidVerdict = errors.New("invalid verdict")

	// ErrRowNotFound reports a row index beyond the snapshot's bounds.
	ErrRowNotFound = errors.New("row not found")

	// ErrBadDate reports a date string that is not eight digits.
	ErrBadDate = errors.New("invalid date")
)

// Error is the uniform error type returned by all public review store APIs.
//
// It appends request context (date, row, path) to the underlying error
// message:
//
//	read snapshot: permission denied (date=20260115 row=7)
//
// Use [errors.As] to extract structured fields and [errors.Is] to check the
// sentinels above; Error unwraps to the cause.
type Error struct {
	// Date is the eight-digit date the operation targeted, if known.
	Date string

	// Row is the 1-based row index, or 0 when the operation is not
	// row-scoped.
	Row int

	// Path is the file involved, relative to the data root, if known.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	cause := "unknown error"
	if e.Err != nil {
		cause = e.Err.Error()
	}

	var parts []string

	if e.Date != "" {
		parts = append(parts, "date="+e.Date)
	}

	if e.Row > 0 {
		parts = append(parts, fmt.Sprintf("row=%d", e.Row))
	}

	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}

	if len(parts) == 0 {
		return cause
	}

	return cause + " (" + strings.Join(parts, " ") + ")"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// dateErr wraps err with date context. Nil passes through, as do errors
// already carrying context from a nested store call.
func dateErr(date string, err error) error {
	if err == nil {
		return nil
	}

	var re *Error
	if errors.As(err, &re) {
		return err
	}

	return &Error{Date: date, Err: err}
}

// rowErr wraps err with date and row context. Nil and already-wrapped errors
// pass through.
func rowErr(date string, row int, err error) error {
	if err == nil {
		return nil
	}

	var re *Error
	if errors.As(err, &re) {
		return err
	}

	return &Error{Date: date, Row: row, Err: err}
}
