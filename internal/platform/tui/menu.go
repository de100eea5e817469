package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	Level levels.Level
	Next  *levels.Level // Following level in the same world
	Best  *storage.LevelStats
}

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set when user selects a level
	openRuns  bool      // True if user pressed Tab for the run board
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	menuWorldStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// NewMenuModel creates a menu over the loader's worlds. Best results are
// read from store when it is set.
func NewMenuModel(opts Options, width, height int) (MenuModel, error) {
	worlds, err := opts.Loader.Worlds()
	if err != nil {
		return MenuModel{}, err
	}

	var stats map[string]*storage.LevelStats
	if opts.Store != nil {
		stats, err = opts.Store.AllLevelStats()
		if err != nil {
			opts.logger().Warn("could not read level stats", "err", err)
		}
	}

	var items []MenuItem
	for _, w := range worlds {
		for _, l := range w.Levels {
			item := MenuItem{Level: l, Best: stats[l.ID]}
			if next, ok := w.Next(l.ID); ok {
				item.Next = &next
			}
			items = append(items, item)
		}
	}

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}, nil
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionRuns:
		m.openRuns = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  P L A T F O R M   R U N N E R  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	world := -1
	for i, item := range m.items {
		if item.Level.World != world {
			world = item.Level.World
			b.WriteString("\n")
			b.WriteString(centerText(menuWorldStyle.Render(fmt.Sprintf("World %d", world)), m.width))
			b.WriteString("\n")
		}

		line := fmt.Sprintf("%-24s %s", item.Level.Title(), bestLabel(item.Best))
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func bestLabel(s *storage.LevelStats) string {
	if s == nil || s.Runs == 0 {
		return menuDimStyle.Render("not cleared")
	}
	return fmt.Sprintf("best %d att. %s", s.BestAttempts, formatElapsed(s.BestElapsed))
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsRuns returns true if user requested the run board.
func (m MenuModel) WantsRuns() bool {
	return m.openRuns
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
