package levels

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/audio"
	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/screens/session"
	"github.com/khalidw/harfiz/internal/store"
	"github.com/khalidw/harfiz/internal/ui/components"
	"github.com/khalidw/harfiz/internal/ui/layout"
	"github.com/khalidw/harfiz/internal/ui/theme"
)

// LevelsScreen lets the learner pick which level to practice.
// Levels beyond the highest unlocked one render locked.
type LevelsScreen struct {
	buf       *prefetch.Buffer
	rewardSvc *rewards.Service
	events    store.EventRepo
	player    *audio.Player
	target    int

	menu     components.Menu
	levels   []exercise.LevelInfo
	unlocked int
}

var _ screen.Screen = (*LevelsScreen)(nil)
var _ screen.KeyHintProvider = (*LevelsScreen)(nil)

// New creates a LevelsScreen from the current progress snapshot.
func New(buf *prefetch.Buffer, rewardSvc *rewards.Service, events store.EventRepo, player *audio.Player, target int) *LevelsScreen {
	s := &LevelsScreen{
		buf:       buf,
		rewardSvc: rewardSvc,
		events:    events,
		player:    player,
		target:    target,
		levels:    exercise.Levels(),
	}
	s.reload()
	return s
}

// reload rebuilds the menu from the progress snapshot, keeping the
// cursor where it was.
func (s *LevelsScreen) reload() {
	unlocked := exercise.MinLevel
	starsByLevel := map[int]int{}
	if s.rewardSvc != nil {
		if p, err := s.rewardSvc.Progress(context.Background()); err == nil {
			unlocked = p.HighestUnlocked
			starsByLevel = p.StarsByLevel
		}
	}

	items := make([]components.MenuItem, 0, len(s.levels))
	for _, lv := range s.levels {
		lv := lv
		locked := lv.Number > unlocked

		detail := components.StarRow(starsByLevel[lv.Number])
		if locked {
			detail = theme.Locked.Render("locked")
		}

		items = append(items, components.MenuItem{
			Label:    fmt.Sprintf("Level %d · %s", lv.Number, lv.Title),
			Detail:   detail,
			Disabled: locked,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: session.New(s.buf, s.rewardSvc, s.events, s.player, lv.Number, s.target),
					}
				}
			},
		})
	}

	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		s.menu.Selected = selected
	}
	s.unlocked = unlocked
}

func (s *LevelsScreen) Init() tea.Cmd {
	return nil
}

func (s *LevelsScreen) Title() string {
	return "Pick a Level"
}

func (s *LevelsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LevelsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.ScreenRevealedMsg:
		s.reload()
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LevelsScreen) View(width, height int) string {
	var b string

	b += s.menu.View()
	b += "\n"

	// Focus line for the highlighted level.
	if s.menu.Selected >= 0 && s.menu.Selected < len(s.levels) {
		lv := s.levels[s.menu.Selected]
		b += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render(lv.Focus)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b)
}
