package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/nptc-feedback/backend/internal/shared"
)

// MemStore is an in-memory Store used by tests and local development. The
// failure knobs simulate the store outages the services must survive: a
// disabled atomic path, per-question failures, and transient lookup errors.
type MemStore struct {
	mu       sync.Mutex
	students map[string]*shared.Student                        // keyed by uppercased roll number
	counters map[string]map[string]*shared.QuestionCounterRow // collection -> question code -> row

	// FailAtomic makes every IncrementCounter call fail, forcing callers
	// onto the read-modify-write fallback.
	FailAtomic bool

	// FailCodes lists question codes for which both the atomic increment and
	// the fallback read fail.
	FailCodes map[string]bool

	// FindFailures and ListFailures make the next N lookups fail with a
	// transient error before succeeding.
	FindFailures int
	ListFailures int

	// MarkSubmittedErr, when set, is returned by MarkSubmitted.
	MarkSubmittedErr error

	// AtomicCalls counts IncrementCounter invocations, including failed ones.
	AtomicCalls int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		students: make(map[string]*shared.Student),
		counters: make(map[string]map[string]*shared.QuestionCounterRow),
	}
}

// AddStudent inserts a roster row, uppercasing the roll number key.
func (s *MemStore) AddStudent(student shared.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := student
	s.students[strings.ToUpper(student.RollNo)] = &entry
}

// SeedCounterRow inserts a zeroed counter row for a question code.
func (s *MemStore) SeedCounterRow(collection, questionCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters[collection] == nil {
		s.counters[collection] = make(map[string]*shared.QuestionCounterRow)
	}
	s.counters[collection][questionCode] = &shared.QuestionCounterRow{QuestionCode: questionCode}
}

// Row returns a copy of one counter row for assertions.
func (s *MemStore) Row(collection, questionCode string) (shared.QuestionCounterRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.counters[collection][questionCode]
	if !ok {
		return shared.QuestionCounterRow{}, false
	}
	return *row, true
}

func (s *MemStore) transient() error {
	return shared.NewTransientError("Database connection failed.", connectivityHint, nil)
}

// FindStudent looks up one roster row by roll number.
func (s *MemStore) FindStudent(ctx context.Context, rollNo string) (*shared.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindFailures > 0 {
		s.FindFailures--
		return nil, s.transient()
	}

	student, ok := s.students[strings.ToUpper(rollNo)]
	if !ok {
		return nil, ErrStudentNotFound
	}
	found := *student
	return &found, nil
}

// ListStudents returns the roster sorted ascending by roll number.
func (s *MemStore) ListStudents(ctx context.Context) ([]shared.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ListFailures > 0 {
		s.ListFailures--
		return nil, s.transient()
	}

	students := make([]shared.Student, 0, len(s.students))
	for _, student := range s.students {
		students = append(students, *student)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].RollNo < students[j].RollNo })
	return students, nil
}

// MarkSubmitted flips the submitted flag; matching no row is a no-op.
func (s *MemStore) MarkSubmitted(ctx context.Context, rollNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.MarkSubmittedErr != nil {
		return s.MarkSubmittedErr
	}

	if student, ok := s.students[strings.ToUpper(rollNo)]; ok {
		student.HasSubmitted = true
	}
	return nil
}

// IncrementCounter applies an atomic bucket increment unless a failure knob
// is set.
func (s *MemStore) IncrementCounter(ctx context.Context, collection, questionCode, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.AtomicCalls++

	if s.FailAtomic || s.FailCodes[questionCode] {
		return shared.NewError(shared.KindPersistence, "atomic increment unavailable")
	}

	row, ok := s.counters[collection][questionCode]
	if !ok {
		return shared.NewError(shared.KindPersistence, "No counter row for question code "+questionCode)
	}
	if !row.Apply(bucket) {
		return shared.NewError(shared.KindPersistence, "unknown rating bucket "+bucket)
	}
	return nil
}

// CounterRow reads one counter row for the fallback path.
func (s *MemStore) CounterRow(ctx context.Context, collection, questionCode string) (*shared.QuestionCounterRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailCodes[questionCode] {
		return nil, s.transient()
	}

	row, ok := s.counters[collection][questionCode]
	if !ok {
		return nil, shared.NewError(shared.KindNotFound, "No counter row for question code "+questionCode)
	}
	found := *row
	return &found, nil
}

// ReplaceCounterRow writes a row back unconditionally, last write wins.
func (s *MemStore) ReplaceCounterRow(ctx context.Context, collection string, row *shared.QuestionCounterRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counters[collection] == nil {
		s.counters[collection] = make(map[string]*shared.QuestionCounterRow)
	}
	stored := *row
	s.counters[collection][row.QuestionCode] = &stored
	return nil
}

// CounterRows returns all rows of one collection sorted by question code.
func (s *MemStore) CounterRows(ctx context.Context, collection string) ([]shared.QuestionCounterRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []shared.QuestionCounterRow{}
	for _, row := range s.counters[collection] {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].QuestionCode < rows[j].QuestionCode })
	return rows, nil
}
