package exercise

import (
	"fmt"
	"unicode"
)

// ScriptValidator checks that every option is written in Arabic script
// and that the transliteration is not.
type ScriptValidator struct{}

func (v *ScriptValidator) Name() string { return "script" }

func (v *ScriptValidator) Validate(it *Item, _ GenerateInput) *ValidationError {
	for i, opt := range it.Options {
		if !containsArabic(opt) {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("option %d contains no Arabic script: %q", i+1, opt),
				Retryable: true,
			}
		}
	}
	if containsArabic(it.Transliteration) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "transliteration contains Arabic script",
			Retryable: true,
		}
	}
	if it.Kind == KindCompleteSentence && !containsArabic(it.Prompt) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "sentence prompt contains no Arabic script",
			Retryable: true,
		}
	}
	return nil
}

func containsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
