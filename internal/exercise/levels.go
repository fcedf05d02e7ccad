package exercise

// MinLevel and MaxLevel bound the difficulty ladder.
const (
	MinLevel = 1
	MaxLevel = 5
)

// LevelInfo describes one rung of the difficulty ladder. The Focus text
// is shown on the level picker and fed to the generation prompt.
type LevelInfo struct {
	Number int
	Title  string
	Focus  string
	Kinds  []Kind
}

var levels = []LevelInfo{
	{
		Number: 1,
		Title:  "The Alphabet",
		Focus:  "Isolated letters of the Arabic alphabet, recognized by name and sound. Distractors share the letter's base shape and differ only in dots.",
		Kinds:  []Kind{KindIdentifyLetter},
	},
	{
		Number: 2,
		Title:  "Letter Forms",
		Focus:  "Initial, medial, and final letter forms inside short words. Distractors are the same position forms of look-alike letters.",
		Kinds:  []Kind{KindIdentifyLetter},
	},
	{
		Number: 3,
		Title:  "Short Vowels",
		Focus:  "Fatha, damma, kasra, and sukun on common two- and three-letter words. Distractors are the same word with the harakat moved or swapped.",
		Kinds:  []Kind{KindIdentifyLetter, KindCompleteDiacritic},
	},
	{
		Number: 4,
		Title:  "Words & Harakat",
		Focus:  "Shadda, tanwin, and full vocalization of everyday nouns and verbs. Mix diacritic drills with short fill-in-the-blank phrases.",
		Kinds:  []Kind{KindCompleteDiacritic, KindCompleteSentence},
	},
	{
		Number: 5,
		Title:  "Simple Sentences",
		Focus:  "Short, fully vocalized Modern Standard Arabic sentences with one word missing. Distractors fit the gap grammatically but break the meaning.",
		Kinds:  []Kind{KindCompleteSentence},
	},
}

// Levels returns the difficulty ladder in ascending order.
func Levels() []LevelInfo {
	out := make([]LevelInfo, len(levels))
	copy(out, levels)
	return out
}

// LevelFor returns the LevelInfo for level n, clamping out-of-range
// values to the nearest valid level.
func LevelFor(n int) LevelInfo {
	if n < MinLevel {
		n = MinLevel
	}
	if n > MaxLevel {
		n = MaxLevel
	}
	return levels[n-1]
}

// KindsFor returns the exercise kinds used at level n.
func KindsFor(n int) []Kind {
	return LevelFor(n).Kinds
}

func kindAllowed(level int, k Kind) bool {
	for _, allowed := range KindsFor(level) {
		if k == allowed {
			return true
		}
	}
	return false
}
