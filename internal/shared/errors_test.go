package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("KindOf Unwraps Chains", func(t *testing.T) {
		inner := NewError(KindForbidden, "Feedback already submitted")
		wrapped := fmt.Errorf("login: %w", inner)
		if KindOf(wrapped) != KindForbidden {
			t.Errorf("expected KindForbidden through wrapping, got %v", KindOf(wrapped))
		}
	})

	t.Run("Plain Errors Are Unknown", func(t *testing.T) {
		if KindOf(errors.New("boom")) != KindUnknown {
			t.Error("plain error should report KindUnknown")
		}
		if IsTransient(errors.New("boom")) {
			t.Error("plain error should not be transient")
		}
	})

	t.Run("Transient Carries Suggestion", func(t *testing.T) {
		err := NewTransientError("Database connection failed.", "Check the cluster.", errors.New("dial tcp"))
		if !IsTransient(err) {
			t.Fatal("expected transient error")
		}
		var se *Error
		if !errors.As(err, &se) || se.SuggestedAction != "Check the cluster." {
			t.Errorf("expected suggested action to survive, got %+v", se)
		}
	})

	t.Run("Message Includes Cause", func(t *testing.T) {
		err := WrapError(KindPersistence, "Failed to record submission", errors.New("write conflict"))
		want := "Failed to record submission: write conflict"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})
}
