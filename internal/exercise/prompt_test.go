package exercise

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildUserMessage_MinimalContext(t *testing.T) {
	input := GenerateInput{Level: 1}
	msg := buildUserMessage(input, DefaultConfig())

	if !strings.Contains(msg, "Level: 1 (The Alphabet)") {
		t.Error("missing level line")
	}
	if !strings.Contains(msg, "Focus: ") {
		t.Error("missing focus line")
	}
	if !strings.Contains(msg, "Allowed kinds: identify_letter") {
		t.Error("missing allowed kinds")
	}
	if !strings.Contains(msg, "Recently used answers:\nNone") {
		t.Error("expected 'None' for used answers")
	}
}

func TestBuildUserMessage_MixedKinds(t *testing.T) {
	input := GenerateInput{Level: 4}
	msg := buildUserMessage(input, DefaultConfig())

	if !strings.Contains(msg, "Level: 4 (Words & Harakat)") {
		t.Error("missing level line")
	}
	if !strings.Contains(msg, "Allowed kinds: complete_diacritic, complete_sentence") {
		t.Error("missing kind mix")
	}
}

func TestBuildUserMessage_WithExclusions(t *testing.T) {
	input := GenerateInput{
		Level:    3,
		Excluded: []string{"ب", "كَتَبَ"},
	}
	msg := buildUserMessage(input, DefaultConfig())

	if !strings.Contains(msg, "1. ب") {
		t.Error("missing first used answer")
	}
	if !strings.Contains(msg, "2. كَتَبَ") {
		t.Error("missing second used answer")
	}
}

func TestBuildExclusions_Empty(t *testing.T) {
	if got := buildExclusions(nil, 24); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
}

func TestBuildExclusions_Numbered(t *testing.T) {
	got := buildExclusions([]string{"alif", "baa", "taa"}, 24)
	want := "1. alif\n2. baa\n3. taa"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildExclusions_CapsAtMax(t *testing.T) {
	var used []string
	for i := 0; i < 30; i++ {
		used = append(used, fmt.Sprintf("word%d", i))
	}
	got := buildExclusions(used, 24)

	lines := strings.Split(got, "\n")
	if len(lines) != 24 {
		t.Fatalf("expected 24 lines, got %d", len(lines))
	}
	// Oldest entries are dropped; the list is renumbered from 1.
	if lines[0] != "1. word6" {
		t.Errorf("expected first line '1. word6', got %q", lines[0])
	}
	if lines[23] != "24. word29" {
		t.Errorf("expected last line '24. word29', got %q", lines[23])
	}
}

func TestBuildExclusions_ZeroMaxKeepsAll(t *testing.T) {
	got := buildExclusions([]string{"a", "b"}, 0)
	if got != "1. a\n2. b" {
		t.Errorf("unexpected output: %q", got)
	}
}
