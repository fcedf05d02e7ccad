package exercise

import "testing"

func TestScript_ValidItem(t *testing.T) {
	v := &ScriptValidator{}
	if err := v.Validate(validItem(), GenerateInput{Level: 1}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestScript_LatinOption(t *testing.T) {
	v := &ScriptValidator{}
	it := validItem()
	it.Options[1] = "taa"
	err := v.Validate(it, GenerateInput{Level: 1})
	if err == nil {
		t.Fatal("expected error for Latin option")
	}
	if err.Validator != "script" {
		t.Errorf("expected validator %q, got %q", "script", err.Validator)
	}
	if !err.Retryable {
		t.Error("expected retryable")
	}
}

func TestScript_ArabicTransliteration(t *testing.T) {
	v := &ScriptValidator{}
	it := validItem()
	it.Transliteration = "ب"
	if err := v.Validate(it, GenerateInput{Level: 1}); err == nil {
		t.Fatal("expected error for Arabic transliteration")
	}
}

func TestScript_SentencePromptNeedsArabic(t *testing.T) {
	v := &ScriptValidator{}
	it := validSentenceItem()
	it.Prompt = "Complete the sentence: ____"
	if err := v.Validate(it, GenerateInput{Level: 5}); err == nil {
		t.Fatal("expected error for sentence prompt without Arabic")
	}
}

func TestScript_EnglishPromptAllowedForLetters(t *testing.T) {
	v := &ScriptValidator{}
	it := validItem()
	it.Prompt = "Which letter is pronounced 'baa'?"
	if err := v.Validate(it, GenerateInput{Level: 1}); err != nil {
		t.Fatalf("letter prompts may be pure English, got %v", err)
	}
}

func TestExclusion_RejectsUsedAnswer(t *testing.T) {
	v := &ExclusionValidator{}
	it := validItem()
	err := v.Validate(it, GenerateInput{Level: 1, Excluded: []string{"ب"}})
	if err == nil {
		t.Fatal("expected error for reused answer")
	}
	if err.Validator != "exclusion" {
		t.Errorf("expected validator %q, got %q", "exclusion", err.Validator)
	}
	if !err.Retryable {
		t.Error("expected retryable")
	}
}

func TestExclusion_AllowsFreshAnswer(t *testing.T) {
	v := &ExclusionValidator{}
	it := validItem()
	input := GenerateInput{Level: 1, Excluded: []string{"ت", "ث"}}
	if err := v.Validate(it, input); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestExclusion_TrimsWhitespace(t *testing.T) {
	v := &ExclusionValidator{}
	it := validItem()
	if err := v.Validate(it, GenerateInput{Excluded: []string{" ب "}}); err == nil {
		t.Fatal("expected whitespace-insensitive match")
	}
}

func TestExclusion_OnlyMatchesAnswer(t *testing.T) {
	v := &ExclusionValidator{}
	it := validItem()
	// A distractor appearing in the used list is fine; only the
	// correct answer must be fresh.
	if err := v.Validate(it, GenerateInput{Excluded: []string{"ن"}}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
