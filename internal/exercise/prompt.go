package exercise

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an Arabic literacy coach creating reading drills for adult beginners.

Rules:
- Generate a single exercise for the given level, choosing one of the allowed kinds.
- All Arabic text must be Modern Standard Arabic, fully vocalized with harakat.
- Write the prompt in English. For complete_sentence, the prompt embeds the Arabic sentence with ____ marking the gap.
- Provide exactly 4 options in Arabic script. Exactly one is correct; answer_index is its zero-based position.
- Distractors must be plausible confusions: letters sharing a base shape, words differing only in harakat, or words that fit the gap but break the meaning. Never random.
- The transliteration is the Latin-letter rendering of the correct option, e.g. "kataba".
- The explanation is one or two English sentences saying why the correct option is right. Name the letters or harakat involved.
- Do not reuse any answer from the "recently used answers" list.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	info := LevelFor(input.Level)

	var b strings.Builder

	fmt.Fprintf(&b, "Level: %d (%s)\n", info.Number, info.Title)
	fmt.Fprintf(&b, "Focus: %s\n", info.Focus)
	fmt.Fprintf(&b, "Allowed kinds: %s\n", joinKinds(info.Kinds))

	b.WriteString("\nRecently used answers:\n")
	b.WriteString(buildExclusions(input.Excluded, cfg.MaxExcluded))

	return b.String()
}

func joinKinds(kinds []Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// buildExclusions formats used answers for the prompt, respecting the
// max limit. Returns "None" if there are no used answers.
func buildExclusions(excluded []string, max int) string {
	if len(excluded) == 0 {
		return "None"
	}

	// Keep only the most recent N answers.
	if max > 0 && len(excluded) > max {
		excluded = excluded[len(excluded)-max:]
	}

	var b strings.Builder
	for i, e := range excluded {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return strings.TrimRight(b.String(), "\n")
}
