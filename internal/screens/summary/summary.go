package summary

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/ui/components"
	"github.com/khalidw/harfiz/internal/ui/layout"
	"github.com/khalidw/harfiz/internal/ui/theme"
)

// Result is what a finished session hands to the summary screen.
type Result struct {
	Level    int
	Correct  int
	Wrong    int
	Duration time.Duration

	// Award is nil when grading failed; the summary then shows the raw
	// counts only.
	Award *rewards.Award
}

// SummaryScreen displays the outcome of a completed session.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Pick a level"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "esc", "q":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	lv := exercise.LevelFor(r.Level)

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete!"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Level %d · %s", lv.Number, lv.Title)))
	b.WriteString("\n\n")

	if r.Award != nil {
		tier := r.Award.Tier
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(tierColor(tier)).
			Bold(true).
			Render(fmt.Sprintf("%s %s", tier.Icon(), tier.DisplayName())))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.StarRow(r.Award.Stars)))
		b.WriteString("\n")

		if r.Award.NewBest {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.Accent).
				Bold(true).
				Render("New best!"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Stats line.
	total := r.Correct + r.Wrong
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(r.Correct) / float64(total)
	}
	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	statsLine := fmt.Sprintf("Correct: %d        Missed: %d        Accuracy: %.0f%%        Time: %d:%02d",
		r.Correct, r.Wrong, accuracy*100, mins, secs)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n\n")

	if r.Award != nil && r.Award.UnlockedNext {
		next := exercise.LevelFor(r.Level + 1)
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render(fmt.Sprintf("Level %d unlocked: %s", next.Number, next.Title)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Enter picks the next level · Esc heads home"))

	return b.String()
}

// tierColor returns the theme color a tier renders in.
func tierColor(t rewards.Tier) color.Color {
	switch t {
	case rewards.TierGold:
		return theme.Gold
	case rewards.TierSilver:
		return theme.Text
	case rewards.TierBronze:
		return theme.Accent
	default:
		return theme.Text
	}
}
