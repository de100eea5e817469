package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/platform-runner/internal/levels"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPlay
	screenRuns
)

// SessionModel manages the full session flow: menu -> level -> menu, with
// the run board one key away. It is the top-level model for local menus and
// SSH sessions. A session started on a single level ends when that level is
// left.
type SessionModel struct {
	opts     Options
	width    int
	height   int
	screen   sessionScreen
	single   bool
	menu     MenuModel
	play     *PlayModel
	runs     *RunBoardModel
	err      error
	quitting bool
}

// NewSessionModel creates a session that starts on the level menu.
func NewSessionModel(opts Options, width, height int) (SessionModel, error) {
	menu, err := NewMenuModel(opts, width, height)
	if err != nil {
		return SessionModel{}, err
	}
	return SessionModel{opts: opts, width: width, height: height, menu: menu}, nil
}

// NewLevelSessionModel creates a session that plays level and then ends.
// Completing the level still offers next when it is set.
func NewLevelSessionModel(opts Options, level levels.Level, next *levels.Level, width, height int) (SessionModel, error) {
	play, err := NewPlayModel(opts, level, next)
	if err != nil {
		return SessionModel{}, err
	}
	return SessionModel{
		opts:   opts,
		width:  width,
		height: height,
		screen: screenPlay,
		single: true,
		play:   &play,
	}, nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.screen == screenPlay && m.play != nil {
		return m.play.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenPlay:
		return m.updatePlay(msg)
	case screenRuns:
		return m.updateRuns(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsRuns() {
		runs, err := NewRunBoardModel(m.opts, m.width, m.height)
		if err != nil {
			m.err = fmt.Errorf("opening run board: %w", err)
			return m.backToMenu()
		}
		m.runs = &runs
		m.screen = screenRuns
		return m, m.runs.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		return m.startLevel(selected.Level, selected.Next)
	}

	return m, cmd
}

func (m SessionModel) startLevel(level levels.Level, next *levels.Level) (tea.Model, tea.Cmd) {
	play, err := NewPlayModel(m.opts, level, next)
	if err != nil {
		m.opts.logger().Error("could not start level", "level", level.ID, "err", err)
		m.err = err
		return m.backToMenu()
	}
	m.err = nil
	m.play = &play
	m.screen = screenPlay
	return m, m.play.Init()
}

// updatePlay handles updates when a level is being played.
func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	switch {
	case m.play.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.play.Advance():
		next := *m.play.Next()
		following := m.followingLevel(next)
		return m.startLevel(next, following)

	case m.play.BackToMenu():
		m.play = nil
		if m.single {
			m.quitting = true
			return m, tea.Quit
		}
		return m.backToMenu()
	}

	return m, cmd
}

// followingLevel finds the level after l in its world.
func (m SessionModel) followingLevel(l levels.Level) *levels.Level {
	worlds, err := m.opts.Loader.Worlds()
	if err != nil {
		return nil
	}
	for _, w := range worlds {
		if w.Number != l.World {
			continue
		}
		if next, ok := w.Next(l.ID); ok {
			return &next
		}
	}
	return nil
}

// updateRuns handles updates when the run board is shown.
func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.runs.Update(msg)
	if rb, ok := newModel.(RunBoardModel); ok {
		m.runs = &rb
	}

	if m.runs.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.runs.IsGoingBack() {
		m.runs = nil
		return m.backToMenu()
	}
	return m, cmd
}

// backToMenu rebuilds the menu so that fresh results are shown.
func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	menu, err := NewMenuModel(m.opts, m.width, m.height)
	if err != nil {
		m.opts.logger().Error("could not load levels", "err", err)
		m.quitting = true
		return m, tea.Quit
	}
	m.menu = menu
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenPlay:
		return m.play.View()
	case screenRuns:
		return m.runs.View()
	}

	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(errorStyle.Render(m.err.Error()), m.width) + "\n"
	}
	return view
}

// Run starts a session on the level menu.
func Run(opts Options, width, height int) error {
	model, err := NewSessionModel(opts, width, height)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// RunLevel plays a single level and returns when it is left.
func RunLevel(opts Options, level levels.Level, next *levels.Level, width, height int) error {
	model, err := NewLevelSessionModel(opts, level, next, width, height)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
