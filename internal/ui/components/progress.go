package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with an optional
// "done/total" counter.
type ProgressBar struct {
	Label     string
	Done      int
	Total     int
	ShowCount bool
	Width     int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, done, total int, showCount bool, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Done:      done,
		Total:     total,
		ShowCount: showCount,
		Width:     width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	countWidth := 0
	var countStr string
	if p.ShowCount {
		countStr = fmt.Sprintf("  %d/%d", p.Done, p.Total)
		countWidth = len(countStr)
	}

	barWidth := p.Width - labelWidth - countWidth
	if barWidth < 4 {
		barWidth = 4
	}

	var percent float64
	if p.Total > 0 {
		percent = float64(p.Done) / float64(p.Total)
	}

	filled := int(float64(barWidth) * percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowCount {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(countStr)
	}

	return result
}
