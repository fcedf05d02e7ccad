package exercise

// Config controls the behavior of the LLMSource.
type Config struct {
	// Validators is the ordered list of validators to run on every
	// generated item. They execute in order; the first failure
	// stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExcluded is the maximum number of used answers to include
	// in the prompt for deduplication.
	MaxExcluded int

	// MaxAttempts is the total number of generation attempts when a
	// validator rejects with a retryable error.
	MaxAttempts int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ScriptValidator{},
			&ExclusionValidator{},
		},
		MaxTokens:   512,
		Temperature: 0.7,
		MaxExcluded: 24,
		MaxAttempts: 3,
	}
}
