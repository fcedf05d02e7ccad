package exercise

import "context"

// Source produces Arabic reading exercises.
type Source interface {
	// Generate produces a single exercise for the given level.
	// excluded lists the correct answers already used in this session;
	// the generated item's answer must not repeat any of them.
	// All configured validators are run before returning.
	Generate(ctx context.Context, level int, excluded []string) (*Item, error)
}
