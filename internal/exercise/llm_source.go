package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/khalidw/harfiz/internal/llm"
)

// LLMSource implements Source using the LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
}

// NewLLMSource creates an LLMSource with the given provider and config.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	return &LLMSource{provider: provider, config: cfg}
}

// itemOutput is the raw LLM response before validation.
type itemOutput struct {
	Kind            string   `json:"kind"`
	Prompt          string   `json:"prompt"`
	Options         []string `json:"options"`
	AnswerIndex     int      `json:"answer_index"`
	Transliteration string   `json:"transliteration"`
	Explanation     string   `json:"explanation"`
}

// Generate produces a single validated exercise for the given level.
// Retryable validation failures trigger regeneration, up to
// Config.MaxAttempts calls in total.
func (s *LLMSource) Generate(ctx context.Context, level int, excluded []string) (*Item, error) {
	input := GenerateInput{Level: level, Excluded: excluded}

	attempts := s.config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var item *Item
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		item, err = s.generateOnce(ctx, input)
		if err == nil {
			return item, nil
		}
		var valErr *ValidationError
		if !errors.As(err, &valErr) || !valErr.Retryable {
			break
		}
	}
	return nil, err
}

func (s *LLMSource) generateOnce(ctx context.Context, input GenerateInput) (*Item, error) {
	ctx = llm.WithPurpose(ctx, "exercise-gen")

	userMsg := buildUserMessage(input, s.config)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ItemSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw itemOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	item := &Item{
		Kind:            Kind(raw.Kind),
		Prompt:          raw.Prompt,
		Options:         raw.Options,
		AnswerIndex:     raw.AnswerIndex,
		Transliteration: raw.Transliteration,
		Explanation:     raw.Explanation,
		Level:           input.Level,
	}

	// Run validators in order.
	for _, v := range s.config.Validators {
		if verr := v.Validate(item, input); verr != nil {
			return nil, verr
		}
	}

	return item, nil
}
