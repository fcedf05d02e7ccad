package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/store"
	"github.com/khalidw/harfiz/internal/ui/components"
	"github.com/khalidw/harfiz/internal/ui/layout"
	"github.com/khalidw/harfiz/internal/ui/theme"
)

type progressLoadedMsg struct {
	Progress store.ProgressData
	Stats    []store.LevelStatsRow
	Sessions []store.SessionSummaryRecord
	Err      error
}

// ProgressScreen displays per-level stars and accuracy plus the most
// recent sessions.
type ProgressScreen struct {
	events    store.EventRepo
	rewardSvc *rewards.Service

	progress store.ProgressData
	stats    map[int]store.LevelStatsRow
	sessions []store.SessionSummaryRecord
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a ProgressScreen.
func New(events store.EventRepo, rewardSvc *rewards.Service) *ProgressScreen {
	return &ProgressScreen{
		events:    events,
		rewardSvc: rewardSvc,
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		progress, err := s.rewardSvc.Progress(ctx)
		if err != nil {
			return progressLoadedMsg{Err: err}
		}
		stats, err := s.events.LevelStats(ctx)
		if err != nil {
			return progressLoadedMsg{Err: err}
		}
		sessions, err := s.events.SessionSummaries(ctx, store.QueryOpts{Limit: 8})
		if err != nil {
			return progressLoadedMsg{Err: err}
		}
		return progressLoadedMsg{Progress: progress, Stats: stats, Sessions: sessions}
	}
}

func (s *ProgressScreen) Title() string {
	return "Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.progress = msg.Progress
			s.stats = make(map[int]store.LevelStatsRow, len(msg.Stats))
			for _, row := range msg.Stats {
				s.stats[row.Level] = row
			}
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ProgressScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Star tally across the whole ladder.
	bar := components.NewProgressBar("Stars", s.progress.TotalStars, exercise.MaxLevel*3, true, 24)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	for _, lv := range exercise.Levels() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.levelLine(lv)))
		b.WriteString("\n")
	}

	if len(s.sessions) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Recent Sessions")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")

		for _, sess := range s.sessions {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, sessionLine(sess)))
			b.WriteString("\n")
		}
	} else if s.progress.TotalStars == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No sessions yet. Start practicing!"))
		b.WriteString("\n")
	}

	return b.String()
}

// levelLine renders one ladder row: title, stars, best tier, accuracy.
func (s *ProgressScreen) levelLine(lv exercise.LevelInfo) string {
	label := fmt.Sprintf("Level %d · %-17s", lv.Number, lv.Title)

	if lv.Number > s.progress.HighestUnlocked {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(label+"  ") +
			theme.Locked.Render("locked")
	}

	stars := components.StarRow(s.progress.StarsByLevel[lv.Number])

	detail := lipgloss.NewStyle().Foreground(theme.TextDim).Render("not yet played")
	if row, ok := s.stats[lv.Number]; ok && row.Answers > 0 {
		accuracy := float64(row.Correct) / float64(row.Answers) * 100
		tier := rewards.Tier(s.progress.BestTierByLevel[lv.Number])
		tierStr := ""
		if tier != "" {
			tierStr = tier.DisplayName() + " · "
		}
		runs := "runs"
		if row.Completions == 1 {
			runs = "run"
		}
		detail = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("%s%.0f%% · %d %s", tierStr, accuracy, row.Completions, runs))
	}

	return lipgloss.NewStyle().Foreground(theme.Text).Render(label) +
		"  " + stars + "  " + detail
}

// sessionLine renders one recent-session row.
func sessionLine(sess store.SessionSummaryRecord) string {
	dateStr := sess.Timestamp.Format("Jan 02")
	mins := sess.DurationSecs / 60
	secs := sess.DurationSecs % 60

	outcome := components.StarRow(sess.Stars)
	if sess.Action == "abandon" {
		outcome = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("left early")
	}

	line := fmt.Sprintf("%s  L%d  %d✓ %d✗  %d:%02d  ",
		dateStr, sess.Level, sess.CorrectAnswers, sess.WrongAnswers, mins, secs)
	return lipgloss.NewStyle().Foreground(theme.Text).Render(line) + outcome
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
