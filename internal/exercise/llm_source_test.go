package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/khalidw/harfiz/internal/llm"
)

func validItemJSON() json.RawMessage {
	return json.RawMessage(`{
		"kind": "identify_letter",
		"prompt": "Which letter is pronounced 'baa'?",
		"options": ["ب", "ت", "ث", "ن"],
		"answer_index": 0,
		"transliteration": "baa",
		"explanation": "The letter baa has a single dot below the bowl shape."
	}`)
}

func sentenceItemJSON() json.RawMessage {
	return json.RawMessage(`{
		"kind": "complete_sentence",
		"prompt": "Complete the sentence: كَتَبَ الوَلَدُ ____",
		"options": ["الدَّرْسَ", "الشَّمْسُ", "يَأْكُلُ", "سَرِيعٌ"],
		"answer_index": 0,
		"transliteration": "ad-darsa",
		"explanation": "The verb kataba (he wrote) needs a thing that is written; ad-darsa (the lesson) fits the gap."
	}`)
}

func TestGenerate_IdentifyLetter(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: validItemJSON(),
	})
	src := NewLLMSource(mock, DefaultConfig())

	it, err := src.Generate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Kind != KindIdentifyLetter {
		t.Errorf("expected identify_letter kind, got %q", it.Kind)
	}
	if it.Prompt != "Which letter is pronounced 'baa'?" {
		t.Errorf("unexpected prompt: %q", it.Prompt)
	}
	if len(it.Options) != 4 {
		t.Fatalf("expected 4 options, got %d", len(it.Options))
	}
	if it.Answer() != "ب" {
		t.Errorf("expected answer baa, got %q", it.Answer())
	}
	if it.Level != 1 {
		t.Errorf("expected level 1, got %d", it.Level)
	}
}

func TestGenerate_SentenceKind(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: sentenceItemJSON(),
	})
	src := NewLLMSource(mock, DefaultConfig())

	it, err := src.Generate(context.Background(), 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Kind != KindCompleteSentence {
		t.Errorf("expected complete_sentence kind, got %q", it.Kind)
	}
	if !strings.Contains(it.Prompt, "____") {
		t.Errorf("expected gap in prompt: %q", it.Prompt)
	}
	if it.Transliteration != "ad-darsa" {
		t.Errorf("unexpected transliteration: %q", it.Transliteration)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("boom")},
	})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Generate(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		t.Fatalf("provider failure should not surface as validation error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("provider errors should not be retried here, got %d calls", mock.CallCount())
	}
}

func TestGenerate_RetriesRetryableValidation(t *testing.T) {
	bad := json.RawMessage(`{
		"kind": "identify_letter",
		"prompt": "Which letter is pronounced 'baa'?",
		"options": ["ب", "ت"],
		"answer_index": 0,
		"transliteration": "baa",
		"explanation": "Only two options."
	}`)
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bad},
		llm.MockResponse{Content: validItemJSON()},
	)
	src := NewLLMSource(mock, DefaultConfig())

	it, err := src.Generate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Answer() != "ب" {
		t.Errorf("unexpected answer: %q", it.Answer())
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 generation calls, got %d", mock.CallCount())
	}
}

func TestGenerate_ExhaustsAttempts(t *testing.T) {
	bad := llm.MockResponse{Content: json.RawMessage(`{
		"kind": "identify_letter",
		"prompt": "",
		"options": ["ب", "ت", "ث", "ن"],
		"answer_index": 0,
		"transliteration": "baa",
		"explanation": "Empty prompt."
	}`)}
	mock := llm.NewMockProvider(bad, bad, bad)
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Generate(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Validator != "structural" {
		t.Errorf("expected structural validator, got %q", valErr.Validator)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", mock.CallCount())
	}
}

func TestGenerate_NonRetryableStops(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validItemJSON()},
		llm.MockResponse{Content: validItemJSON()},
	)
	cfg := DefaultConfig()
	cfg.Validators = []Validator{&alwaysRejectValidator{name: "strict"}}
	src := NewLLMSource(mock, cfg)

	_, err := src.Generate(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if mock.CallCount() != 1 {
		t.Errorf("non-retryable failure should stop after 1 call, got %d", mock.CallCount())
	}
}

func TestGenerate_ExclusionRejects(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: validItemJSON()},
		llm.MockResponse{Content: validItemJSON()},
		llm.MockResponse{Content: validItemJSON()},
	)
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Generate(context.Background(), 1, []string{"ب"})
	if err == nil {
		t.Fatal("expected exclusion error")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Validator != "exclusion" {
		t.Errorf("expected exclusion validator, got %q", valErr.Validator)
	}
}

func TestGenerate_ExclusionsInPrompt(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validItemJSON()})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.Generate(context.Background(), 1, []string{"ت", "ث"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "1. ت") || !strings.Contains(msg, "2. ث") {
		t.Errorf("excluded answers missing from prompt:\n%s", msg)
	}
}

// trackingValidator records whether it was called.
type trackingValidator struct {
	called bool
}

func (v *trackingValidator) Name() string { return "tracking" }

func (v *trackingValidator) Validate(*Item, GenerateInput) *ValidationError {
	v.called = true
	return nil
}

// alwaysRejectValidator always rejects, non-retryably.
type alwaysRejectValidator struct{ name string }

func (v *alwaysRejectValidator) Name() string { return v.name }

func (v *alwaysRejectValidator) Validate(*Item, GenerateInput) *ValidationError {
	return &ValidationError{Validator: v.name, Message: "rejected", Retryable: false}
}

func TestGenerate_ValidatorOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validItemJSON()})
	tracker := &trackingValidator{}
	cfg := Config{
		Validators:  []Validator{&alwaysRejectValidator{name: "first"}, tracker},
		MaxTokens:   512,
		Temperature: 0.7,
		MaxAttempts: 1,
	}
	src := NewLLMSource(mock, cfg)

	_, err := src.Generate(context.Background(), 1, nil)
	if err == nil {
		t.Fatal("expected first validator to reject")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Validator != "first" {
		t.Errorf("expected error from 'first', got %q", valErr.Validator)
	}
	if tracker.called {
		t.Error("second validator should not have been called")
	}
}

func TestGenerate_NoValidators(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validItemJSON()})
	cfg := Config{
		Validators:  nil,
		MaxTokens:   512,
		Temperature: 0.7,
	}
	src := NewLLMSource(mock, cfg)

	it, err := src.Generate(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it == nil {
		t.Fatal("expected item")
	}
}
