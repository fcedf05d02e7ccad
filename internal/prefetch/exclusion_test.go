package prefetch

import "testing"

func TestExclusionSet_AddIsIdempotent(t *testing.T) {
	s := NewExclusionSet()
	s.Add("ب")
	s.Add("ب")
	s.Add("ت")

	if s.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", s.Len())
	}
}

func TestExclusionSet_IgnoresEmptyKey(t *testing.T) {
	s := NewExclusionSet()
	s.Add("")
	if s.Len() != 0 {
		t.Errorf("empty key was recorded: %v", s.Snapshot())
	}
}

func TestExclusionSet_SnapshotIsACopy(t *testing.T) {
	s := NewExclusionSet()
	s.Add("ب")

	snap := s.Snapshot()
	snap[0] = "mutated"
	if got := s.Snapshot()[0]; got != "ب" {
		t.Errorf("mutating a snapshot changed the set: %q", got)
	}

	old := s.Snapshot()
	s.Add("ت")
	if len(old) != 1 {
		t.Errorf("later adds changed an earlier snapshot: %v", old)
	}
}

func TestExclusionSet_KeepsInsertionOrder(t *testing.T) {
	s := NewExclusionSet()
	for _, k := range []string{"ث", "ب", "ت"} {
		s.Add(k)
	}

	snap := s.Snapshot()
	want := []string{"ث", "ب", "ت"}
	for i, k := range want {
		if snap[i] != k {
			t.Fatalf("expected %v, got %v", want, snap)
		}
	}
}

func TestExclusionSet_Clear(t *testing.T) {
	s := NewExclusionSet()
	s.Add("ب")
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, got %v", s.Snapshot())
	}
	s.Add("ب")
	if s.Len() != 1 {
		t.Error("set unusable after clear")
	}
}
