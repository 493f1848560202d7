package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/nptc-feedback/backend/internal/shared"
	"github.com/nptc-feedback/backend/internal/store"
)

const testCollection = "ct_feedback"

func newTestService(st *store.MemStore) *Service {
	return NewService(st, shared.NewDepartmentRegistry(), shared.RetryPolicy{MaxAttempts: 4, Delay: time.Millisecond})
}

func seededStore() *store.MemStore {
	st := store.NewMemStore()
	for _, code := range AllQuestionCodes() {
		st.SeedCounterRow(testCollection, code)
	}
	st.AddStudent(shared.Student{RollNo: "20CT001", Name: "Asha", Department: "CT"})
	return st
}

func submitRequest(answers []shared.Answer) SubmitRequest {
	return SubmitRequest{
		RollNo:     "20ct001",
		Department: "CT",
		Answers:    answers,
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("Increments One Counter Per Answer", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		answers := []shared.Answer{
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4},
			{QuestionID: 2, Section: shared.SectionFacilities, Rating: 1},
			{QuestionID: 3, Section: shared.SectionParticipation, Rating: 3},
			{QuestionID: 2, Section: shared.SectionAccomplishment, Rating: 2},
		}

		if err := svc.Submit(ctx, submitRequest(answers)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if st.AtomicCalls != len(answers) {
			t.Errorf("expected %d increment attempts, got %d", len(answers), st.AtomicCalls)
		}

		checks := []struct {
			code   string
			get    func(r shared.QuestionCounterRow) int64
			bucket string
		}{
			{"A1", func(r shared.QuestionCounterRow) int64 { return r.VeryGood }, shared.BucketVeryGood},
			{"A2", func(r shared.QuestionCounterRow) int64 { return r.BelowAverage }, shared.BucketBelowAverage},
			{"B3", func(r shared.QuestionCounterRow) int64 { return r.Good }, shared.BucketGood},
			{"C2", func(r shared.QuestionCounterRow) int64 { return r.Average }, shared.BucketAverage},
		}
		for _, check := range checks {
			row, ok := st.Row(testCollection, check.code)
			if !ok {
				t.Fatalf("missing counter row %s", check.code)
			}
			if check.get(row) != 1 {
				t.Errorf("row %s: expected %s=1, got %d", check.code, check.bucket, check.get(row))
			}
			if row.TotalCount != 1 {
				t.Errorf("row %s: expected total_count=1, got %d", check.code, row.TotalCount)
			}
		}
	})

	t.Run("Total Equals Bucket Sum", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		for _, rating := range []int{1, 2, 2, 3, 4, 4, 4} {
			req := submitRequest([]shared.Answer{{QuestionID: 5, Section: shared.SectionFacilities, Rating: rating}})
			if err := svc.Submit(ctx, req); err != nil {
				t.Fatalf("Submit failed: %v", err)
			}
		}

		row, _ := st.Row(testCollection, "A5")
		if row.TotalCount != 7 {
			t.Errorf("expected total_count=7, got %d", row.TotalCount)
		}
		if row.BucketSum() != row.TotalCount {
			t.Errorf("total_count %d != bucket sum %d", row.TotalCount, row.BucketSum())
		}
	})

	t.Run("Repeated Submission Doubles Counters", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		req := submitRequest([]shared.Answer{{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4}})
		for i := 0; i < 2; i++ {
			if err := svc.Submit(ctx, req); err != nil {
				t.Fatalf("Submit %d failed: %v", i+1, err)
			}
		}

		row, _ := st.Row(testCollection, "A1")
		if row.VeryGood != 2 || row.TotalCount != 2 {
			t.Errorf("expected doubled counters, got very_good=%d total=%d", row.VeryGood, row.TotalCount)
		}
	})

	t.Run("Marks Student Submitted", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		if err := svc.Submit(ctx, SubmitRequest{RollNo: "20ct001"}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		student, err := st.FindStudent(ctx, "20CT001")
		if err != nil {
			t.Fatalf("FindStudent failed: %v", err)
		}
		if !student.HasSubmitted {
			t.Error("expected has_submitted=true after submission")
		}
	})

	t.Run("Missing RollNo Is Rejected Without Mutation", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		req := SubmitRequest{
			Department: "CT",
			Answers:    []shared.Answer{{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4}},
		}
		err := svc.Submit(ctx, req)
		if shared.KindOf(err) != shared.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}

		if st.AtomicCalls != 0 {
			t.Errorf("expected no increment attempts, got %d", st.AtomicCalls)
		}
		row, _ := st.Row(testCollection, "A1")
		if row.TotalCount != 0 {
			t.Errorf("expected counters untouched, got total=%d", row.TotalCount)
		}
		student, _ := st.FindStudent(ctx, "20CT001")
		if student.HasSubmitted {
			t.Error("expected student not marked submitted")
		}
	})

	t.Run("Skips Unknown Section And Rating", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		answers := []shared.Answer{
			{QuestionID: 1, Section: "cafeteria", Rating: 4},
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 9},
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4},
		}
		if err := svc.Submit(ctx, submitRequest(answers)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		if st.AtomicCalls != 1 {
			t.Errorf("expected 1 increment attempt for the valid answer, got %d", st.AtomicCalls)
		}
		row, _ := st.Row(testCollection, "A1")
		if row.TotalCount != 1 {
			t.Errorf("expected total_count=1, got %d", row.TotalCount)
		}
	})

	t.Run("One Failed Counter Does Not Abort Batch", func(t *testing.T) {
		st := seededStore()
		st.FailCodes = map[string]bool{"A2": true}
		svc := newTestService(st)

		answers := []shared.Answer{
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4},
			{QuestionID: 2, Section: shared.SectionFacilities, Rating: 4},
			{QuestionID: 3, Section: shared.SectionFacilities, Rating: 4},
		}
		if err := svc.Submit(ctx, submitRequest(answers)); err != nil {
			t.Fatalf("Submit should swallow per-question failures, got %v", err)
		}

		for _, code := range []string{"A1", "A3"} {
			row, _ := st.Row(testCollection, code)
			if row.TotalCount != 1 {
				t.Errorf("row %s: expected total_count=1, got %d", code, row.TotalCount)
			}
		}
		row, _ := st.Row(testCollection, "A2")
		if row.TotalCount != 0 {
			t.Errorf("row A2: expected increment lost, got total=%d", row.TotalCount)
		}
		student, _ := st.FindStudent(ctx, "20CT001")
		if !student.HasSubmitted {
			t.Error("expected student still marked submitted")
		}
	})

	t.Run("Fallback Path When Atomic Unavailable", func(t *testing.T) {
		st := seededStore()
		st.FailAtomic = true
		svc := newTestService(st)

		answers := []shared.Answer{
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4},
			{QuestionID: 1, Section: shared.SectionFacilities, Rating: 3},
		}
		if err := svc.Submit(ctx, submitRequest(answers)); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		row, _ := st.Row(testCollection, "A1")
		if row.VeryGood != 1 || row.Good != 1 || row.TotalCount != 2 {
			t.Errorf("fallback should still count answers, got %+v", row)
		}
		if row.BucketSum() != row.TotalCount {
			t.Errorf("total_count %d != bucket sum %d after fallback", row.TotalCount, row.BucketSum())
		}
	})

	t.Run("Mark Submitted Failure Fails Submission After Counters", func(t *testing.T) {
		st := seededStore()
		st.MarkSubmittedErr = shared.NewError(shared.KindPersistence, "write failed")
		svc := newTestService(st)

		req := submitRequest([]shared.Answer{{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4}})
		err := svc.Submit(ctx, req)
		if shared.KindOf(err) != shared.KindPersistence {
			t.Fatalf("expected persistence error, got %v", err)
		}

		// The counter increments from step 1 are kept; the inconsistency
		// window is accepted, not rolled back.
		row, _ := st.Row(testCollection, "A1")
		if row.TotalCount != 1 {
			t.Errorf("expected step-1 increments retained, got total=%d", row.TotalCount)
		}
	})

	t.Run("Unknown Department Is Rejected", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		req := SubmitRequest{
			RollNo:     "20CT001",
			Department: "ZZ",
			Answers:    []shared.Answer{{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4}},
		}
		if err := svc.Submit(ctx, req); shared.KindOf(err) != shared.KindValidation {
			t.Fatalf("expected validation error for unknown department, got %v", err)
		}
		if st.AtomicCalls != 0 {
			t.Errorf("expected no increments for rejected department, got %d", st.AtomicCalls)
		}
	})
}

func TestListStudents(t *testing.T) {
	ctx := context.Background()

	t.Run("Sorted Ascending By RollNo", func(t *testing.T) {
		st := store.NewMemStore()
		st.AddStudent(shared.Student{RollNo: "20CT003", Name: "Chitra"})
		st.AddStudent(shared.Student{RollNo: "20CT001", Name: "Asha"})
		st.AddStudent(shared.Student{RollNo: "20CT002", Name: "Balu"})
		svc := newTestService(st)

		students, err := svc.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents failed: %v", err)
		}
		want := []string{"20CT001", "20CT002", "20CT003"}
		if len(students) != len(want) {
			t.Fatalf("expected %d students, got %d", len(want), len(students))
		}
		for i, rollNo := range want {
			if students[i].RollNo != rollNo {
				t.Errorf("position %d: expected %s, got %s", i, rollNo, students[i].RollNo)
			}
		}
	})

	t.Run("Empty Roster Returns Empty Slice", func(t *testing.T) {
		svc := newTestService(store.NewMemStore())
		students, err := svc.ListStudents(ctx)
		if err != nil {
			t.Fatalf("ListStudents failed: %v", err)
		}
		if students == nil || len(students) != 0 {
			t.Errorf("expected empty slice, got %v", students)
		}
	})

	t.Run("Retries Transient Failures", func(t *testing.T) {
		st := store.NewMemStore()
		st.AddStudent(shared.Student{RollNo: "20CT001", Name: "Asha"})
		st.ListFailures = 3
		svc := newTestService(st)

		students, err := svc.ListStudents(ctx)
		if err != nil {
			t.Fatalf("expected success on fourth attempt, got %v", err)
		}
		if len(students) != 1 {
			t.Errorf("expected 1 student, got %d", len(students))
		}
	})

	t.Run("Fails After Retry Exhaustion", func(t *testing.T) {
		st := store.NewMemStore()
		st.ListFailures = 4
		svc := newTestService(st)

		if _, err := svc.ListStudents(ctx); !shared.IsTransient(err) {
			t.Fatalf("expected transient error after exhaustion, got %v", err)
		}
	})
}

func TestDepartmentAggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("ALL Aliases Default Department", func(t *testing.T) {
		st := seededStore()
		svc := newTestService(st)

		req := submitRequest([]shared.Answer{{QuestionID: 1, Section: shared.SectionFacilities, Rating: 4}})
		if err := svc.Submit(ctx, req); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		all, err := svc.DepartmentAggregate(ctx, shared.AggregateAll)
		if err != nil {
			t.Fatalf("DepartmentAggregate(ALL) failed: %v", err)
		}
		ct, err := svc.DepartmentAggregate(ctx, "CT")
		if err != nil {
			t.Fatalf("DepartmentAggregate(CT) failed: %v", err)
		}

		if len(all) != len(ct) {
			t.Fatalf("expected identical payloads, got %d vs %d rows", len(all), len(ct))
		}
		for i := range all {
			if all[i] != ct[i] {
				t.Errorf("row %d differs between ALL and CT: %+v vs %+v", i, all[i], ct[i])
			}
		}
	})

	t.Run("Unseeded Department Returns Empty Slice", func(t *testing.T) {
		svc := newTestService(store.NewMemStore())
		rows, err := svc.DepartmentAggregate(ctx, "ME")
		if err != nil {
			t.Fatalf("DepartmentAggregate failed: %v", err)
		}
		if rows == nil || len(rows) != 0 {
			t.Errorf("expected empty slice, got %v", rows)
		}
	})

	t.Run("Unknown Department Rejected", func(t *testing.T) {
		svc := newTestService(store.NewMemStore())
		if _, err := svc.DepartmentAggregate(ctx, "XYZ"); shared.KindOf(err) != shared.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestQuestionCode(t *testing.T) {
	cases := []struct {
		section string
		id      int
		want    string
	}{
		{shared.SectionFacilities, 5, "A5"},
		{shared.SectionParticipation, 9, "B9"},
		{shared.SectionAccomplishment, 1, "C1"},
		{"unknown", 1, ""},
	}
	for _, c := range cases {
		if got := QuestionCode(c.section, c.id); got != c.want {
			t.Errorf("QuestionCode(%q, %d) = %q, want %q", c.section, c.id, got, c.want)
		}
	}

	if got := len(AllQuestionCodes()); got != 42 {
		t.Errorf("expected 42 question codes, got %d", got)
	}
}
