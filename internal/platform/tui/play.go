package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

// runDoneMsg is sent when a Runner's Run returns.
type runDoneMsg struct {
	runner     *game.Runner
	completion game.Completion
	err        error
}

// levelChangedMsg is sent when a watched level file changes on disk.
type levelChangedMsg struct {
	path string
}

// watchErrMsg is sent when the level watcher reports an error.
type watchErrMsg struct {
	err error
}

// PlayModel plays one level. The Runner ticks on its own goroutine; the
// model feeds it held keys through an IntentLatch and redraws from the
// latest snapshot on every frame.
type PlayModel struct {
	opts      Options
	logger    *log.Logger
	level     levels.Level
	next      *levels.Level
	keyMapper *KeyMapper
	hold      *KeyHold
	latch     *core.IntentLatch

	runner    *game.Runner
	cancel    context.CancelFunc
	launch    tea.Cmd // Starts the current runner; consumed by Init
	lastDeath *atomic.Int32

	loop    int64 // Frame loop id
	view    *BoardView
	palette map[core.Color]lipgloss.Style
	screen  *core.Screen

	snap       game.Snapshot
	deaths     int
	banner     banner
	completion *game.Completion
	err        error

	quitting   bool
	backToMenu bool
	advance    bool
}

// NewPlayModel prepares a level for play. next is the level offered after
// completion, if any. The Runner starts with Init.
func NewPlayModel(opts Options, level levels.Level, next *levels.Level) (PlayModel, error) {
	m := PlayModel{
		opts:      opts,
		logger:    opts.logger(),
		level:     level,
		next:      next,
		keyMapper: NewKeyMapper(),
		hold:      NewKeyHold(opts.Engine.Display.KeyHold),
		latch:     &core.IntentLatch{},
		lastDeath: &atomic.Int32{},
		screen:    core.NewScreen(1, 1),
		loop:      newFrameLoop(),
	}
	if err := m.start(); err != nil {
		return PlayModel{}, err
	}
	return m, nil
}

// start builds a fresh session and runner for the current level.
func (m *PlayModel) start() error {
	session, err := m.level.NewSession(m.opts.Difficulty, m.opts.Engine)
	if err != nil {
		return fmt.Errorf("starting level %s: %w", m.level.ID, err)
	}
	grid, err := m.level.Board()
	if err != nil {
		return fmt.Errorf("starting level %s: %w", m.level.ID, err)
	}

	m.hold.Reset()
	m.latch.Store(core.Intent{})

	r := game.NewRunner(session, m.latch, m.logger)
	r.OnOutcome(deathRecorder(m.opts.Store, m.opts.Player, m.lastDeath, m.logger))

	ctx, cancel := context.WithCancel(m.opts.context())
	m.runner = r
	m.cancel = cancel
	m.launch = runCmd(ctx, r)

	sim := m.opts.Engine.Simulation
	m.view = NewBoardView(grid, m.level.BlockScale, sim.ViewportBlocks)
	m.palette = skyPalette(m.level.Background)
	m.snap = r.Snapshot()
	m.deaths = 0
	m.completion = nil
	m.banner = levelBanner(m.level, time.Now(), m.opts.Engine.Display.Banner)
	return nil
}

// stop cancels the current runner. Run returns promptly, also during the
// respawn pause.
func (m *PlayModel) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func runCmd(ctx context.Context, r *game.Runner) tea.Cmd {
	return func() tea.Msg {
		c, err := r.Run(ctx)
		return runDoneMsg{runner: r, completion: c, err: err}
	}
}

func watchCmd(w *levels.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case p, ok := <-w.Events:
			if !ok {
				return nil
			}
			return levelChangedMsg{path: p}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

// deathRecorder persists counted deaths. It runs on the Runner goroutine.
func deathRecorder(store *storage.Store, player string, last *atomic.Int32, logger *log.Logger) func(game.StepResult, game.Snapshot) {
	return func(res game.StepResult, snap game.Snapshot) {
		var cause storage.DeathCause
		switch res.Outcome {
		case game.OutcomeDied:
			cause = storage.CauseDeadly
		case game.OutcomeFellOut:
			cause = storage.CauseFellOut
		default:
			return
		}
		if !res.Counted {
			return
		}
		last.Store(int32(res.Outcome))
		if store == nil {
			return
		}
		err := store.SaveDeath(storage.DeathEntry{
			LevelID: snap.LevelID,
			Player:  player,
			Cause:   cause,
			X:       res.X,
			Y:       res.Y,
		})
		if err != nil {
			logger.Warn("could not save death", "err", err)
		}
	}
}

// Init starts the runner and the frame loop.
func (m PlayModel) Init() tea.Cmd {
	return tea.Batch(m.launch, frameCmd(m.opts.FPS, m.loop), watchCmd(m.opts.Watcher))
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case FrameMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleFrame(msg.Time)

	case runDoneMsg:
		return m.handleRunDone(msg)

	case levelChangedMsg:
		return m.handleLevelChanged(msg)

	case watchErrMsg:
		m.logger.Warn("level watcher error", "err", msg.err)
		return m, watchCmd(m.opts.Watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(time.Now()); err != nil {
			m.logger.Warn("could not save screenshot", "err", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action, quit := m.keyMapper.MapKey(msg)
	if quit {
		m.stop()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		m.stop()
		m.backToMenu = true
		return m, nil

	case core.ActionRestart:
		return m.restart()

	case core.ActionConfirm:
		if m.completion != nil {
			if m.next != nil {
				m.advance = true
			} else {
				m.backToMenu = true
			}
		}
		return m, nil
	}

	now := time.Now()
	m.hold.Press(action, now)
	m.latch.Store(m.hold.Intent(now))
	return m, nil
}

func (m PlayModel) restart() (tea.Model, tea.Cmd) {
	m.stop()
	if err := m.start(); err != nil {
		m.err = err
		return m, nil
	}
	m.logger.Info("level restarted", "level", m.level.ID)
	return m, m.launch
}

// handleFrame releases expired keys and samples the runner.
func (m PlayModel) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu || m.advance {
		return m, nil
	}

	if m.completion == nil {
		m.latch.Store(m.hold.Intent(now))
	}

	m.snap = m.runner.Snapshot()
	m.view.Sync(m.snap)
	if m.snap.Deaths > m.deaths {
		m.deaths = m.snap.Deaths
		m.banner = deathBanner(game.Outcome(m.lastDeath.Load()), m.deaths, now, m.opts.Engine.Display.Banner)
	}

	return m, frameCmd(m.opts.FPS, m.loop)
}

func (m PlayModel) handleRunDone(msg runDoneMsg) (tea.Model, tea.Cmd) {
	if msg.runner != m.runner {
		return m, nil // A runner replaced by a restart
	}
	if msg.err != nil {
		if !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
		return m, nil
	}

	c := msg.completion
	m.completion = &c
	m.snap = m.runner.Snapshot()
	m.view.Sync(m.snap)
	m.banner = completionBanner(c, m.next != nil)
	m.hold.Reset()
	m.latch.Store(core.Intent{})
	m.saveRun(c)
	return m, nil
}

func (m PlayModel) saveRun(c game.Completion) {
	if m.opts.Store == nil {
		return
	}
	_, err := m.opts.Store.SaveRun(storage.RunEntry{
		LevelID:    c.LevelID,
		Player:     m.opts.Player,
		Difficulty: string(m.opts.Difficulty),
		Attempts:   c.Attempts,
		Deaths:     c.Deaths,
		Elapsed:    c.Elapsed(),
	})
	if err != nil {
		m.logger.Warn("could not save run", "err", err)
	}
}

// handleLevelChanged reloads the level being played when its file changes.
func (m PlayModel) handleLevelChanged(msg levelChangedMsg) (tea.Model, tea.Cmd) {
	next := watchCmd(m.opts.Watcher)
	if !samePath(msg.path, m.level.FilePath) {
		return m, next
	}

	level, err := m.opts.Loader.LoadFile(msg.path)
	if err != nil {
		m.logger.Warn("could not reload level", "path", msg.path, "err", err)
		m.banner = messageBanner("Level file has errors; see log", core.ColorLava, time.Now().Add(m.opts.Engine.Display.Banner))
		return m, next
	}

	m.logger.Info("level reloaded", "level", level.ID, "path", msg.path)
	m.level = level
	updated, cmd := m.restart()
	return updated, tea.Batch(cmd, next)
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// saveScreenshot writes the current frame as plain text to
// ~/.runner/screenshots.
func (m PlayModel) saveScreenshot(now time.Time) (string, error) {
	dir := config.UserDir()
	if dir == "" {
		return "", errors.New("no home directory")
	}
	dir = filepath.Join(dir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	m.View()
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.level.ID, now.Format("20060102_150405")))
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the play screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	w, h := m.view.Width(), m.view.Height()
	m.screen.Resize(w+2, h+4)
	m.screen.Clear()

	m.drawHUD(w + 2)
	m.screen.DrawBox(core.NewRect(0, 1, w+2, h+2), core.ColorDim)
	m.view.Draw(m.screen, 1, 2, m.snap)

	mid := 2 + h/2
	if m.err != nil {
		messageBanner(m.err.Error(), core.ColorLava, time.Time{}).draw(m.screen, mid)
	} else if m.banner.visible(time.Now()) {
		m.banner.draw(m.screen, mid)
	}

	help := "←→ move ↑ jump ↓ squat r restart esc menu q quit"
	if m.completion != nil {
		help = "enter continue  r replay  esc menu  q quit"
	}
	m.screen.DrawTextCentered(h+3, help, core.ColorDim)

	return renderScreen(m.screen, m.palette)
}

func (m PlayModel) drawHUD(width int) {
	m.screen.DrawText(1, 0, m.level.Title(), core.ColorHUD)

	elapsed := time.Duration(m.snap.ElapsedFrames) * time.Second / time.Duration(m.opts.Engine.Simulation.TickRate)
	status := fmt.Sprintf("Deaths: %d  Time: %s", m.snap.Deaths, formatElapsed(elapsed))
	if m.opts.Difficulty != "" && m.opts.Difficulty != config.DifficultyNormal {
		status = fmt.Sprintf("[%s]  %s", m.opts.Difficulty, status)
	}
	m.screen.DrawText(width-len([]rune(status))-1, 0, status, core.ColorHUD)
}

// IsQuitting returns true if the user asked to quit.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user left the level.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Advance returns true if the user moved on from a completed level.
func (m PlayModel) Advance() bool {
	return m.advance
}

// Next returns the level offered after completion.
func (m PlayModel) Next() *levels.Level {
	return m.next
}

// Completion returns the completion, or nil while the level is in progress.
func (m PlayModel) Completion() *game.Completion {
	return m.completion
}

// Level returns the level being played.
func (m PlayModel) Level() levels.Level {
	return m.level
}
