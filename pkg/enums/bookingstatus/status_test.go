package bookingstatus

import "testing"

func TestByName(t *testing.T) {
	for _, s := range All {
		got := ByName(s.Name)
		if got == nil || got.Name != s.Name {
			t.Errorf("ByName(%q) = %v, want %v", s.Name, got, s)
		}
	}

	if ByName("archived") != nil {
		t.Error("ByName(archived) should be nil")
	}
	if ByName("") != nil {
		t.Error("ByName(empty) should be nil")
	}
}

func TestLabel(t *testing.T) {
	if got := Statuses.Pending.Label(); got != "Pending" {
		t.Errorf("Label() = %q, want Pending", got)
	}
	if got := (Status{}).Label(); got != "" {
		t.Errorf("Label() on zero status = %q, want empty", got)
	}
}
