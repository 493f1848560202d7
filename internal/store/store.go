// Package store provides the aggregate-store handle used by the feedback and
// auth services. The handle is injected into each service rather than held as
// process-global state so tests can substitute the in-memory implementation.
package store

import (
	"context"

	"github.com/nptc-feedback/backend/internal/shared"
)

// ErrStudentNotFound is returned when a roll number has no roster row.
// It is a terminal lookup result, never retried.
var ErrStudentNotFound = shared.NewError(shared.KindNotFound, "Student not found")

// Store is the interface to the hosted aggregate store. Collection arguments
// are resolved collection names from the department registry; request input
// never reaches the store as an identifier.
type Store interface {
	// FindStudent looks up one roster row by uppercased roll number.
	// Returns ErrStudentNotFound when no row matches.
	FindStudent(ctx context.Context, rollNo string) (*shared.Student, error)

	// ListStudents returns the full roster sorted ascending by roll number.
	// An empty roster yields an empty slice, not an error.
	ListStudents(ctx context.Context) ([]shared.Student, error)

	// MarkSubmitted sets the submitted flag for a roll number. Matching no
	// row is not an error; the flag update is simply a no-op then.
	MarkSubmitted(ctx context.Context, rollNo string) error

	// IncrementCounter atomically adds one to a rating bucket and the running
	// total of a counter row, stamping updated_at. Safe under concurrent
	// callers; this is the preferred increment path.
	IncrementCounter(ctx context.Context, collection, questionCode, bucket string) error

	// CounterRow reads one counter row. Used by the manual fallback path.
	CounterRow(ctx context.Context, collection, questionCode string) (*shared.QuestionCounterRow, error)

	// ReplaceCounterRow writes a counter row back unconditionally. This is
	// the second half of the manual fallback; it does not guard against
	// concurrent writers (last write wins).
	ReplaceCounterRow(ctx context.Context, collection string, row *shared.QuestionCounterRow) error

	// CounterRows returns all counter rows of one department's collection,
	// sorted by question code.
	CounterRows(ctx context.Context, collection string) ([]shared.QuestionCounterRow, error)
}
