package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette — oasis at dusk: deep teal ground, warm gold highlights
var (
	Primary   = lipgloss.Color("#2DD4BF") // Teal
	Secondary = lipgloss.Color("#A78BFA") // Violet
	Accent    = lipgloss.Color("#FB923C") // Amber Orange
	Gold      = lipgloss.Color("#FBBF24") // Star Gold
	Success   = lipgloss.Color("#4ADE80") // Green
	Error     = lipgloss.Color("#F87171") // Coral
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#7C9A97") // Sea Slate
	BgDark    = lipgloss.Color("#042F2E") // Deep Teal Black
	BgCard    = lipgloss.Color("#11403C") // Dark Teal
	Border    = lipgloss.Color("#2C5F5B") // Muted Teal
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Arabic renders prompts and options. Bold keeps harakat legible
	// on low-contrast terminals.
	Arabic = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Locked = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	StarFilled = lipgloss.NewStyle().
			Foreground(Gold)

	StarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)
