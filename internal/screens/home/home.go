package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/audio"
	"github.com/khalidw/harfiz/internal/exercise"
	"github.com/khalidw/harfiz/internal/prefetch"
	"github.com/khalidw/harfiz/internal/rewards"
	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/screens/levels"
	"github.com/khalidw/harfiz/internal/screens/progress"
	"github.com/khalidw/harfiz/internal/store"
	"github.com/khalidw/harfiz/internal/ui/components"
	"github.com/khalidw/harfiz/internal/ui/theme"
)

const homeTitle = "✦  H A R F I Z  ✦"

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu       components.Menu
	rewardSvc  *rewards.Service
	totalStars int
	unlocked   int
	llmReady   bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. A nil buffer means no LLM provider is
// configured; practice stays locked until one is.
func New(buf *prefetch.Buffer, rewardSvc *rewards.Service, events store.EventRepo, player *audio.Player, target int) *HomeScreen {
	llmReady := buf != nil

	items := []components.MenuItem{
		{
			Label:    "PRACTICE",
			Disabled: !llmReady,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: levels.New(buf, rewardSvc, events, player, target),
					}
				}
			},
		},
		{
			Label: "PROGRESS",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: progress.New(events, rewardSvc)}
				}
			},
		},
		{
			Label: "EXIT",
			Action: func() tea.Cmd {
				return tea.Quit
			},
		},
	}

	h := &HomeScreen{
		menu:      components.NewMenu(items),
		rewardSvc: rewardSvc,
		llmReady:  llmReady,
	}
	h.reload()
	return h
}

// reload refreshes the stats bar from the progress snapshot.
func (h *HomeScreen) reload() {
	h.totalStars = 0
	h.unlocked = exercise.MinLevel
	if h.rewardSvc == nil {
		return
	}
	if p, err := h.rewardSvc.Progress(context.Background()); err == nil {
		h.totalStars = p.TotalStars
		h.unlocked = p.HighestUnlocked
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(router.ScreenRevealedMsg); ok {
		h.reload()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(homeTitle)
	sections = append(sections, title)

	subtitle := theme.Subtitle.Render("letters, harakat, and first sentences")
	sections = append(sections, subtitle)
	sections = append(sections, "")

	level := exercise.LevelFor(h.unlocked)
	stats := fmt.Sprintf("%s   %s",
		lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
			Render(fmt.Sprintf("★ %d STARS", h.totalStars)),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("UP TO L%d · %s", level.Number, strings.ToUpper(level.Title))),
	)
	statsBar := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Render(stats)
	sections = append(sections, statsBar)
	sections = append(sections, "")

	sections = append(sections, h.menu.View())

	if !h.llmReady {
		warn := lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("⚠ Set an LLM API key to start practicing (see harfiz --help)")
		sections = append(sections, warn)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
