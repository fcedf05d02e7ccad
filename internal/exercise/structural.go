package exercise

import (
	"fmt"
	"strings"
)

// StructuralValidator checks that required fields are present, within
// length limits, and have valid enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(it *Item, input GenerateInput) *ValidationError {
	if it.Kind != KindIdentifyLetter && it.Kind != KindCompleteDiacritic && it.Kind != KindCompleteSentence {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("kind %q is not a known exercise kind", it.Kind),
			Retryable: true,
		}
	}
	if !kindAllowed(input.Level, it.Kind) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("kind %q is not used at level %d", it.Kind, input.Level),
			Retryable: true,
		}
	}
	if it.Prompt == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "prompt is empty",
			Retryable: true,
		}
	}
	if len(it.Prompt) > 300 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "prompt exceeds 300 bytes",
			Retryable: true,
		}
	}
	if it.Kind == KindCompleteSentence && !strings.Contains(it.Prompt, "____") {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "sentence prompt is missing the ____ gap",
			Retryable: true,
		}
	}
	if len(it.Options) != 4 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected 4 options, got %d", len(it.Options)),
			Retryable: true,
		}
	}
	seen := make(map[string]bool, len(it.Options))
	for i, opt := range it.Options {
		trimmed := strings.TrimSpace(opt)
		if trimmed == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d is empty", i+1),
				Retryable: true,
			}
		}
		if seen[trimmed] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d duplicates an earlier option", i+1),
				Retryable: true,
			}
		}
		seen[trimmed] = true
	}
	if it.AnswerIndex < 0 || it.AnswerIndex >= len(it.Options) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer_index %d is out of range", it.AnswerIndex),
			Retryable: true,
		}
	}
	if it.Transliteration == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "transliteration is empty",
			Retryable: true,
		}
	}
	if it.Explanation == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation is empty",
			Retryable: true,
		}
	}
	if len(it.Explanation) > 500 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation exceeds 500 bytes",
			Retryable: true,
		}
	}
	return nil
}
