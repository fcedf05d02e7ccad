package exercise

import "testing"

func TestItemAnswer(t *testing.T) {
	it := validItem()
	if it.Answer() != "ب" {
		t.Errorf("expected baa, got %q", it.Answer())
	}

	it.AnswerIndex = 7
	if it.Answer() != "" {
		t.Errorf("expected empty answer for out-of-range index, got %q", it.Answer())
	}
}

func TestItemIsCorrect(t *testing.T) {
	it := validItem()
	if !it.IsCorrect(0) {
		t.Error("expected index 0 to be correct")
	}
	for _, i := range []int{1, 2, 3, -1, 4} {
		if it.IsCorrect(i) {
			t.Errorf("expected index %d to be wrong", i)
		}
	}
}

func TestLevels_Ladder(t *testing.T) {
	ladder := Levels()
	if len(ladder) != MaxLevel {
		t.Fatalf("expected %d levels, got %d", MaxLevel, len(ladder))
	}
	for i, info := range ladder {
		if info.Number != i+1 {
			t.Errorf("level %d has number %d", i+1, info.Number)
		}
		if info.Title == "" {
			t.Errorf("level %d has no title", info.Number)
		}
		if len(info.Kinds) == 0 {
			t.Errorf("level %d has no kinds", info.Number)
		}
	}
}

func TestLevelFor_Clamps(t *testing.T) {
	if got := LevelFor(0).Number; got != 1 {
		t.Errorf("expected clamp to 1, got %d", got)
	}
	if got := LevelFor(99).Number; got != 5 {
		t.Errorf("expected clamp to 5, got %d", got)
	}
	if got := LevelFor(3).Number; got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestKindsFor(t *testing.T) {
	if kinds := KindsFor(1); len(kinds) != 1 || kinds[0] != KindIdentifyLetter {
		t.Errorf("unexpected kinds for level 1: %v", kinds)
	}
	if kinds := KindsFor(3); len(kinds) != 2 {
		t.Errorf("expected 2 kinds at level 3, got %v", kinds)
	}
	if kinds := KindsFor(5); len(kinds) != 1 || kinds[0] != KindCompleteSentence {
		t.Errorf("unexpected kinds for level 5: %v", kinds)
	}
}

func TestKindAllowed(t *testing.T) {
	if !kindAllowed(3, KindCompleteDiacritic) {
		t.Error("diacritic drills belong at level 3")
	}
	if kindAllowed(1, KindCompleteSentence) {
		t.Error("sentence drills do not belong at level 1")
	}
}
