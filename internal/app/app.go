package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/router"
	"github.com/khalidw/harfiz/internal/screen"
	"github.com/khalidw/harfiz/internal/ui/layout"
)

// StatsFunc reports the header numbers: total stars earned and the
// highest unlocked level.
type StatsFunc func() (stars, level int)

// AppModel is the root Bubble Tea model. It owns the screen stack and
// the header/footer chrome around whatever screen is active.
type AppModel struct {
	router *router.Router
	stats  StatsFunc
	boot   tea.Cmd
	width  int
	height int

	stars int
	level int
}

func newAppModel(root screen.Screen, stats StatsFunc, boot tea.Cmd) AppModel {
	m := AppModel{
		router: router.New(root),
		stats:  stats,
		boot:   boot,
	}
	if stats != nil {
		m.stars, m.level = stats()
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	if m.boot != nil {
		cmds = append(cmds, m.boot)
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Escape is each screen's business: the session screen turns it
		// into a quit confirmation, the rest pop themselves.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case router.ReplaceScreenMsg, router.ScreenRevealedMsg:
		// Navigation after a finished session is when the header
		// numbers change.
		if m.stats != nil {
			m.stars, m.level = m.stats()
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stars, m.level, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if len(footerHints) == 0 {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program with root as the first screen. An
// optional boot command runs once the program is up, after root's Init;
// the play command uses it to push a session without user input.
func Run(root screen.Screen, stats StatsFunc, boot ...tea.Cmd) error {
	p := tea.NewProgram(newAppModel(root, stats, tea.Batch(boot...)))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
