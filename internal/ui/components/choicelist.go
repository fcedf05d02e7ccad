package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/ui/theme"
)

// ChoiceList is a numbered answer selector. Options are Arabic text,
// so each line leaves breathing room around the glyphs.
type ChoiceList struct {
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int

	// Reveal controls whether a submitted view highlights the correct
	// option. Kept off while the learner still has tries left.
	Reveal bool
}

// NewChoiceList creates a choice list with nothing chosen yet.
func NewChoiceList(options []string, correctIndex int) ChoiceList {
	return ChoiceList{
		Options:      options,
		CorrectIndex: correctIndex,
		Selected:     0,
		ChosenIndex:  -1,
	}
}

func (c ChoiceList) Init() tea.Cmd {
	return nil
}

// Update handles navigation. Selection by number or enter is the
// caller's job since submitting usually has side effects.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Submitted {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}

	return c, nil
}

// Select moves the cursor to index i if it is in range.
func (c *ChoiceList) Select(i int) {
	if i >= 0 && i < len(c.Options) {
		c.Selected = i
	}
}

// Submit locks in the current selection.
func (c *ChoiceList) Submit() {
	c.Submitted = true
	c.ChosenIndex = c.Selected
}

// Clear returns the list to its unsubmitted state, keeping the cursor.
func (c *ChoiceList) Clear() {
	c.Submitted = false
	c.ChosenIndex = -1
	c.Reveal = false
}

// IsCorrect reports whether the submitted choice was the right one.
func (c ChoiceList) IsCorrect() bool {
	return c.Submitted && c.ChosenIndex == c.CorrectIndex
}

// View renders the options, one per line, numbered 1-4.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case c.Submitted && c.Reveal && i == c.CorrectIndex:
			s += theme.Correct.Render(line) + "\n"
		case c.Submitted && i == c.ChosenIndex && i != c.CorrectIndex:
			s += theme.Incorrect.Render(line) + "\n"
		case c.Submitted && i == c.ChosenIndex:
			s += theme.Correct.Render(line) + "\n"
		case c.Submitted:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Arabic.Render(line) + "\n"
		}
	}
	return s
}
