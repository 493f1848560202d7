package feedback

import (
	"context"
	"log"
	"strings"

	"github.com/nptc-feedback/backend/internal/shared"
	"github.com/nptc-feedback/backend/internal/store"
)

// SubmitRequest is one student's exit-survey submission. Only RollNo is
// required; when Department or Answers are absent the counter step is
// skipped and only the submitted flag is set.
//
// The free-text fields are accepted for API compatibility with the form but
// are not persisted: only the aggregate effect of the rated answers is
// retained.
type SubmitRequest struct {
	RollNo              string          `json:"rollNo"`
	StudentName         string          `json:"studentName,omitempty"`
	Department          string          `json:"department,omitempty"`
	Answers             []shared.Answer `json:"answers,omitempty"`
	Strengths           string          `json:"strengths,omitempty"`
	Improvements        string          `json:"improvements,omitempty"`
	GeneralStrengths    string          `json:"generalStrengths,omitempty"`
	GeneralImprovements string          `json:"generalImprovements,omitempty"`
	GeneralAdmin        string          `json:"generalAdmin,omitempty"`
	SubmittedAt         string          `json:"submittedAt,omitempty"`
}

// Service implements the submission workflow and the read-only query
// handlers. It holds no mutable state of its own; all shared state lives in
// the injected store, so concurrent requests need no coordination here.
type Service struct {
	store       store.Store
	departments *shared.DepartmentRegistry
	queryRetry  shared.RetryPolicy
}

// NewService creates a feedback service over an aggregate store handle.
func NewService(st store.Store, departments *shared.DepartmentRegistry, queryRetry shared.RetryPolicy) *Service {
	return &Service{
		store:       st,
		departments: departments,
		queryRetry:  queryRetry,
	}
}

// Submit runs one student's submission:
//
//  1. Best effort: each answer is mapped to a question code and rating
//     bucket and applied through incrementCounter, sequentially and in input
//     order. Answers are independent; a failed increment is logged and the
//     batch continues. No rollback is attempted.
//  2. Authoritative: the student's submitted flag is set. If this fails the
//     whole submission fails, even though step 1 may already have counted
//     some answers. That inconsistency window is accepted and not
//     auto-corrected.
//
// Submit is not idempotent at the counter level: a repeated call counts
// every answer again. The login gate on the submitted flag is what prevents
// double submissions in practice.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) error {
	rollNo := strings.TrimSpace(req.RollNo)
	if rollNo == "" {
		return shared.NewError(shared.KindValidation, "Roll number is required to submit feedback")
	}

	if req.Department != "" && len(req.Answers) > 0 {
		collection, err := s.departments.Resolve(req.Department)
		if err != nil {
			return err
		}

		applied, degraded, skipped := 0, 0, 0
		for _, answer := range req.Answers {
			code := QuestionCode(answer.Section, answer.QuestionID)
			if code == "" {
				skipped++
				continue
			}
			bucket, ok := shared.BucketForRating(answer.Rating)
			if !ok {
				skipped++
				continue
			}

			switch s.incrementCounter(ctx, collection, code, bucket) {
			case incrementApplied:
				applied++
			case incrementDegraded:
				degraded++
			}
		}
		log.Printf("INFO: submission %s: %d counters incremented (%d via fallback), %d answers skipped",
			strings.ToUpper(rollNo), applied+degraded, degraded, skipped)
	}

	if err := s.store.MarkSubmitted(ctx, strings.ToUpper(rollNo)); err != nil {
		if shared.KindOf(err) == shared.KindTransient {
			return err
		}
		return shared.WrapError(shared.KindPersistence, "Failed to record submission", err)
	}

	return nil
}

// ListStudents returns the roster sorted ascending by roll number. The
// underlying read is retried on transient failure per the query policy; an
// empty roster is an empty slice, not an error.
func (s *Service) ListStudents(ctx context.Context) ([]shared.Student, error) {
	var students []shared.Student
	err := s.queryRetry.Do(ctx, "roster read", func(ctx context.Context) error {
		var readErr error
		students, readErr = s.store.ListStudents(ctx)
		return readErr
	})
	if err != nil {
		return nil, err
	}

	if students == nil {
		students = []shared.Student{}
	}
	return students, nil
}

// DepartmentAggregate returns the counter rows for one department. "ALL"
// aliases the default department's rows; it is not a union across
// departments. Unknown department codes are rejected.
func (s *Service) DepartmentAggregate(ctx context.Context, department string) ([]shared.QuestionCounterRow, error) {
	collection, err := s.departments.Resolve(department)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.CounterRows(ctx, collection)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []shared.QuestionCounterRow{}
	}
	return rows, nil
}
