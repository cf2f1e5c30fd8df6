// Package assay implements the per-task extractors for the behavioral assays
// (open field, light-dark, self-grooming, marble burying) and the shared
// parsing helpers they rely on.
package assay

import (
	"errors"
	"fmt"
	"regexp"
)

// Failure categories for per-subject extraction problems. All three are
// non-fatal to the run: the affected subject keeps zero-valued metrics and the
// failure is surfaced to the caller with file/subject context.
var (
	// ErrMissingInput marks an expected raw-data file or directory that
	// could not be read.
	ErrMissingInput = errors.New("missing input file")

	// ErrMalformedRecord marks a file whose contents or name do not match
	// the expected shape (bad timestamp, unexpected columns,
	// non-conforming filename).
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnresolvedSubject marks a subject with no matching colony or
	// genotype record.
	ErrUnresolvedSubject = errors.New("unresolved subject")
)

// SubjectError attaches subject and file context to a categorized extraction
// failure. It matches both its category sentinel and the underlying cause via
// errors.Is/errors.As.
type SubjectError struct {
	Category error // one of ErrMissingInput, ErrMalformedRecord, ErrUnresolvedSubject
	Subject  string
	Path     string
	Err      error
}

// Error formats the failure with whatever context is available.
func (e *SubjectError) Error() string {
	msg := e.Category.Error()
	if e.Subject != "" {
		msg = fmt.Sprintf("%s: subject %s", msg, e.Subject)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the category sentinel and the underlying cause.
func (e *SubjectError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Category, e.Err}
	}
	return []error{e.Category}
}

// SubjectFromName extracts a subject identifier from a file or folder name
// using an anchored pattern with exactly one capture group. A non-matching
// name is a malformed record rather than a silently mis-sliced identifier.
func SubjectFromName(name string, pattern *regexp.Regexp) (string, error) {
	m := pattern.FindStringSubmatch(name)
	if m == nil || len(m) < 2 || m[1] == "" {
		return "", &SubjectError{
			Category: ErrMalformedRecord,
			Path:     name,
			Err:      fmt.Errorf("name does not match pattern %q", pattern.String()),
		}
	}
	return m[1], nil
}
