package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/khalidw/harfiz/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string // optional right-aligned annotation (stars, lock hint)
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu. Disabled items render dim
// and are skipped during navigation.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

func (m Menu) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu. Details keep their own styling and line up
// in a column right of the longest label.
func (m Menu) View() string {
	labelWidth := 0
	for _, item := range m.Items {
		if w := lipgloss.Width(item.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	for i, item := range m.Items {
		var label string
		switch {
		case item.Disabled:
			label = theme.Locked.Render("    " + item.Label)
		case i == m.Selected:
			label = theme.Selected.Render("  ▸ " + item.Label)
		default:
			label = theme.Unselected.Render("    " + item.Label)
		}

		b.WriteString(label)
		if item.Detail != "" {
			pad := labelWidth - lipgloss.Width(item.Label) + 4
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(item.Detail)
		}
		b.WriteString("\n")
	}
	return b.String()
}
