package exercise

import (
	"fmt"
	"strings"
)

// ExclusionValidator rejects items whose answer was already used in this
// session. Best effort at generation time; the session keeps its own
// authoritative record of used answers.
type ExclusionValidator struct{}

func (v *ExclusionValidator) Name() string { return "exclusion" }

func (v *ExclusionValidator) Validate(it *Item, input GenerateInput) *ValidationError {
	answer := strings.TrimSpace(it.Answer())
	for _, used := range input.Excluded {
		if strings.TrimSpace(used) == answer {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("answer %q was already used this session", answer),
				Retryable: true,
			}
		}
	}
	return nil
}
