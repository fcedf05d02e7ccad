package exercise

// Item represents a generated Arabic reading exercise ready for display.
type Item struct {
	// Kind identifies the exercise format.
	Kind Kind

	// Prompt is the instruction or question shown to the learner.
	// English for letter and diacritic drills. For sentence drills it
	// embeds the vocalized Arabic sentence with ____ marking the gap,
	// e.g. "Complete the sentence: ذَهَبَ الوَلَدُ إِلَى ____"
	Prompt string

	// Options holds exactly 4 candidate answers in Arabic script.
	// For identify_letter these are single letters; for the other
	// kinds they are fully vocalized words.
	Options []string

	// AnswerIndex is the zero-based position of the correct option.
	AnswerIndex int

	// Transliteration is the Latin-letter rendering of the correct
	// option, e.g. "kataba" for كَتَبَ.
	Transliteration string

	// Explanation is a brief English note shown after the learner
	// answers, saying why the correct option is right.
	Explanation string

	// Level is the difficulty level (1-5) this item was generated for.
	Level int
}

// Answer returns the text of the correct option, or "" when
// AnswerIndex is out of range.
func (it *Item) Answer() string {
	if it.AnswerIndex < 0 || it.AnswerIndex >= len(it.Options) {
		return ""
	}
	return it.Options[it.AnswerIndex]
}

// IsCorrect reports whether the option at index i is the correct answer.
func (it *Item) IsCorrect(i int) bool {
	return i >= 0 && i < len(it.Options) && i == it.AnswerIndex
}

// Kind identifies the exercise format.
type Kind string

const (
	// KindIdentifyLetter asks the learner to pick the letter matching a
	// spoken or described name ("Which letter is 'baa'?").
	KindIdentifyLetter Kind = "identify_letter"

	// KindCompleteDiacritic asks the learner to pick the correctly
	// vocalized form of a word.
	KindCompleteDiacritic Kind = "complete_diacritic"

	// KindCompleteSentence asks the learner to fill the gap in a short
	// vocalized sentence.
	KindCompleteSentence Kind = "complete_sentence"
)

// GenerateInput holds all context needed to generate one exercise.
type GenerateInput struct {
	// Level is the difficulty level (1-5) to generate for.
	Level int

	// Excluded contains the correct answers already used in this
	// session. Used for deduplication in the prompt and enforced by
	// the exclusion validator.
	Excluded []string
}
