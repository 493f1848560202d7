package shared

import "testing"

func TestDepartmentRegistry(t *testing.T) {
	registry := NewDepartmentRegistry()

	t.Run("Resolves Known Codes", func(t *testing.T) {
		collection, err := registry.Resolve("ECE")
		if err != nil {
			t.Fatalf("Resolve(ECE) failed: %v", err)
		}
		if collection != "ece_feedback" {
			t.Errorf("expected ece_feedback, got %s", collection)
		}
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		collection, err := registry.Resolve("ct")
		if err != nil {
			t.Fatalf("Resolve(ct) failed: %v", err)
		}
		if collection != "ct_feedback" {
			t.Errorf("expected ct_feedback, got %s", collection)
		}
	})

	t.Run("ALL Aliases Default Department", func(t *testing.T) {
		all, err := registry.Resolve(AggregateAll)
		if err != nil {
			t.Fatalf("Resolve(ALL) failed: %v", err)
		}
		def, _ := registry.Resolve(DefaultDepartment)
		if all != def {
			t.Errorf("ALL should alias %s's collection, got %s vs %s", DefaultDepartment, all, def)
		}
	})

	t.Run("Rejects Unknown Codes", func(t *testing.T) {
		if _, err := registry.Resolve("ZZ"); err == nil {
			t.Fatal("expected error for unknown department code")
		} else if KindOf(err) != KindValidation {
			t.Errorf("expected validation error, got %v", KindOf(err))
		}
	})

	t.Run("Twelve Departments", func(t *testing.T) {
		if got := len(registry.Codes()); got != 12 {
			t.Errorf("expected 12 department codes, got %d", got)
		}
	})
}
