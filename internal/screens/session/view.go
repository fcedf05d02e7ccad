package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.showingFeedback {
		return s.renderFeedback(width)
	}
	switch s.state.Status {
	case prefetch.StatusError:
		return renderError(width, s.state.Err)
	case prefetch.StatusReady:
		return s.renderExercise(width)
	default:
		return s.renderPreparing(width)
	}
}

// renderExercise renders the prompt and the answer options.
func (s *SessionScreen) renderExercise(width int) string {
	if s.shown == nil {
		return s.renderPreparing(width)
	}
	it := s.shown.Item

	var b strings.Builder

	// Info line: what kind of drill this is, and how far along we are.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + kindLabel(it.Kind))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d/%d   %s %d",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			s.state.Correct,
			s.state.Target,
			lipgloss.NewStyle().Foreground(theme.Error).Render("✗"),
			s.state.Wrong,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(theme.Arabic.Render(it.Prompt)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	b.WriteString("\n")

	hint := "Select 1-4, or arrows + Enter"
	if s.player != nil && len(s.shown.Audio) > 0 {
		hint += " · P hears the option"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(hint))

	if len(s.shown.Degraded) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("♪ audio unavailable for some options"))
	}

	return b.String()
}

// renderFeedback shows the verdict under the submitted options. Wrong
// answers never reveal the correct one; the learner gets another try.
func (s *SessionScreen) renderFeedback(width int) string {
	if s.shown == nil {
		return s.renderPreparing(width)
	}
	it := s.shown.Item

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(theme.Arabic.Render(it.Prompt)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	b.WriteString("\n")

	if s.lastCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
		if it.Transliteration != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Text).
				Render(fmt.Sprintf("%s · %s", it.Answer(), it.Transliteration)))
		}
		if it.Explanation != "" {
			b.WriteString("\n\n")
			exp := lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.TextDim).
				Render(it.Explanation)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		}
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Give it another look."))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderQuitConfirm renders the leave-session dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answers so far are already saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep practicing"))

	return b.String()
}

// renderPreparing renders the wait for the first item.
func (s *SessionScreen) renderPreparing(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(s.spin.View() + " Preparing your exercises..."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("The first one takes a few seconds."))

	return b.String()
}

// renderError renders a failed generation with a retry prompt.
func renderError(width int, err error) string {
	msg := "generation failed"
	if err != nil {
		msg = err.Error()
	}

	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Bold(true).
		Render("Couldn't prepare the next exercise."))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(msg))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[R] Try again"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("[Esc] Leave the session"))

	return b.String()
}

func kindLabel(k exercise.Kind) string {
	switch k {
	case exercise.KindIdentifyLetter:
		return "Spot the letter"
	case exercise.KindCompleteDiacritic:
		return "Pick the harakat"
	case exercise.KindCompleteSentence:
		return "Complete the sentence"
	}
	return "Exercise"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
