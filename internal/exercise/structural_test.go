package exercise

import (
	"strings"
	"testing"
)

func validItem() *Item {
	return &Item{
		Kind:            KindIdentifyLetter,
		Prompt:          "Which letter is pronounced 'baa'?",
		Options:         []string{"ب", "ت", "ث", "ن"},
		AnswerIndex:     0,
		Transliteration: "baa",
		Explanation:     "The letter baa has a single dot below the bowl shape.",
		Level:           1,
	}
}

func validSentenceItem() *Item {
	return &Item{
		Kind:            KindCompleteSentence,
		Prompt:          "Complete the sentence: كَتَبَ الوَلَدُ ____",
		Options:         []string{"الدَّرْسَ", "الشَّمْسُ", "يَأْكُلُ", "سَرِيعٌ"},
		AnswerIndex:     0,
		Transliteration: "ad-darsa",
		Explanation:     "The verb kataba needs a thing that is written.",
		Level:           5,
	}
}

func TestStructural_ValidItem(t *testing.T) {
	v := &StructuralValidator{}
	if err := v.Validate(validItem(), GenerateInput{Level: 1}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := v.Validate(validSentenceItem(), GenerateInput{Level: 5}); err != nil {
		t.Fatalf("expected nil for sentence item, got %v", err)
	}
}

func TestStructural_UnknownKind(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Kind = "match_pairs"
	err := v.Validate(it, GenerateInput{Level: 1})
	if err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err.Validator != "structural" {
		t.Errorf("expected validator %q, got %q", "structural", err.Validator)
	}
	if !err.Retryable {
		t.Error("expected retryable")
	}
}

func TestStructural_KindNotAtLevel(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem() // identify_letter
	err := v.Validate(it, GenerateInput{Level: 5})
	if err == nil {
		t.Fatal("expected error for letter drill at sentence level")
	}
}

func TestStructural_EmptyPrompt(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Prompt = ""
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestStructural_PromptTooLong(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Prompt = strings.Repeat("a", 301)
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for long prompt")
	}
}

func TestStructural_SentenceMissingGap(t *testing.T) {
	v := &StructuralValidator{}
	it := validSentenceItem()
	it.Prompt = "Complete the sentence: كَتَبَ الوَلَدُ الدَّرْسَ"
	if err := v.Validate(it, GenerateInput{Level: 5}); err == nil {
		t.Fatal("expected error for missing gap")
	}
}

func TestStructural_OptionCount(t *testing.T) {
	v := &StructuralValidator{}

	for _, n := range []int{0, 2, 3, 5} {
		it := validItem()
		opts := []string{"ب", "ت", "ث", "ن", "ي"}
		it.Options = opts[:n]
		it.AnswerIndex = 0
		if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
			t.Errorf("expected error for %d options", n)
		}
	}
}

func TestStructural_EmptyOption(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Options[2] = "  "
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for blank option")
	}
}

func TestStructural_DuplicateOptions(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Options[3] = "ب "
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for duplicate options")
	}
}

func TestStructural_AnswerIndexOutOfRange(t *testing.T) {
	v := &StructuralValidator{}

	for _, i := range []int{-1, 4, 10} {
		it := validItem()
		it.AnswerIndex = i
		if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
			t.Errorf("expected error for answer_index %d", i)
		}
	}
}

func TestStructural_EmptyTransliteration(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Transliteration = ""
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for empty transliteration")
	}
}

func TestStructural_EmptyExplanation(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Explanation = ""
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for empty explanation")
	}
}

func TestStructural_ExplanationTooLong(t *testing.T) {
	v := &StructuralValidator{}
	it := validItem()
	it.Explanation = strings.Repeat("a", 501)
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for long explanation")
	}
}
