package tui

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
	"github.com/vovakirdan/platform-runner/internal/levels"
	"github.com/vovakirdan/platform-runner/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{runes("w"), core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runes("s"), core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runes("d"), core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runes("r"), core.ActionRestart, false},
		{runes("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runes("x"), core.ActionNone, false},
	}
	for _, tc := range tests {
		action, quit := km.MapKey(tc.msg)
		if action != tc.action || quit != tc.quit {
			t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.action, tc.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runes("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionRuns},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runes("q"), MenuActionQuit},
		{runes("z"), MenuActionNone},
	}
	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestKeyHold(t *testing.T) {
	h := NewKeyHold(150 * time.Millisecond)
	t0 := time.Unix(1000, 0)

	h.Press(core.ActionRight, t0)
	h.Press(core.ActionUp, t0.Add(50*time.Millisecond))
	h.Press(core.ActionConfirm, t0) // not a direction

	if got := h.Intent(t0.Add(100 * time.Millisecond)); got != (core.Intent{Up: true, Right: true}) {
		t.Errorf("Intent at 100ms = %v", got)
	}
	if got := h.Intent(t0.Add(150 * time.Millisecond)); got != (core.Intent{Up: true}) {
		t.Errorf("Intent at 150ms = %v, expected only up", got)
	}
	if got := h.Intent(t0.Add(time.Second)); got != (core.Intent{}) {
		t.Errorf("Intent after the window = %v, expected none", got)
	}

	// Repeats keep a key held.
	h.Press(core.ActionRight, t0.Add(time.Second))
	h.Press(core.ActionRight, t0.Add(time.Second+100*time.Millisecond))
	if got := h.Intent(t0.Add(time.Second + 200*time.Millisecond)); !got.Right {
		t.Errorf("auto-repeat should keep right held, got %v", got)
	}

	// The opposite direction releases right at once.
	h.Press(core.ActionLeft, t0.Add(time.Second+210*time.Millisecond))
	if got := h.Intent(t0.Add(time.Second + 220*time.Millisecond)); got != (core.Intent{Left: true}) {
		t.Errorf("Intent after left = %v, expected only left", got)
	}

	h.Reset()
	if got := h.Intent(t0.Add(time.Second + 220*time.Millisecond)); got != (core.Intent{}) {
		t.Errorf("Intent after Reset = %v", got)
	}
}

func newGrid(t *testing.T, w, h int, tiles map[board.Cell]board.Tile) *board.Grid {
	t.Helper()
	g, err := board.New(w, h)
	if err != nil {
		t.Fatalf("board.New() failed: %v", err)
	}
	for c, tile := range tiles {
		if err := g.Set(c.Col, c.Row, tile); err != nil {
			t.Fatalf("Set(%v) failed: %v", c, err)
		}
	}
	return g
}

func TestBoardViewDraw(t *testing.T) {
	g := newGrid(t, 4, 3, map[board.Cell]board.Tile{
		{Col: 1, Row: 2}: board.Dirt,
		{Col: 3, Row: 0}: board.Finish,
	})
	v := NewBoardView(g, 1, 24)
	if v.Width() != 8 || v.Height() != 3 {
		t.Fatalf("view size = %dx%d, expected 8x3", v.Width(), v.Height())
	}

	s := core.NewScreen(v.Width(), v.Height())
	v.Draw(s, 0, 0, game.Snapshot{X: 0, Y: 1, Pose: game.PoseStanding})

	tests := []struct {
		x, y int
		want core.Cell
	}{
		{0, 0, core.Cell{Rune: ' ', Color: core.ColorSky}},
		{2, 2, core.Cell{Rune: '▓', Color: core.ColorDirt}},
		{3, 2, core.Cell{Rune: '▓', Color: core.ColorDirt}},
		{6, 0, core.Cell{Rune: '▐', Color: core.ColorFinish}},
		{7, 0, core.Cell{Rune: '▌', Color: core.ColorFinish}},
		{0, 1, core.Cell{Rune: '[', Color: core.ColorPlayer}},
		{1, 1, core.Cell{Rune: ']', Color: core.ColorPlayer}},
	}
	for _, tc := range tests {
		if got := s.GetCell(tc.x, tc.y); got != tc.want {
			t.Errorf("cell (%d, %d) = %+v, expected %+v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestBoardViewScrolls(t *testing.T) {
	g := newGrid(t, 40, 2, map[board.Cell]board.Tile{{Col: 1, Row: 0}: board.Rock})
	v := NewBoardView(g, 1, 4)
	s := core.NewScreen(v.Width(), v.Height())

	// One tile of scroll at block scale 1 is 16 pixels.
	v.Draw(s, 0, 0, game.Snapshot{X: 2, Y: 1, ScrollOffset: -16})
	if got := s.GetCell(0, 0); got.Color != core.ColorRock {
		t.Errorf("cell (0, 0) = %+v, expected the rock scrolled into column 0", got)
	}
	if got := s.GetCell(2, 1); got.Color != core.ColorPlayer {
		t.Errorf("cell (2, 1) = %+v, expected the player one tile from the left", got)
	}

	// Half a tile moves the board by one terminal column.
	v.Draw(s, 0, 0, game.Snapshot{X: 2, Y: 1, ScrollOffset: -8})
	if got := s.GetCell(1, 0); got.Color != core.ColorRock {
		t.Errorf("cell (1, 0) = %+v, expected the rock after half a tile of scroll", got)
	}
}

func TestBoardViewSyncAppliesRemovals(t *testing.T) {
	g := newGrid(t, 3, 2, map[board.Cell]board.Tile{
		{Col: 1, Row: 0}: board.Wood,
		{Col: 2, Row: 0}: board.Wood,
	})
	v := NewBoardView(g, 1, 24)
	s := core.NewScreen(v.Width(), v.Height())

	removed := []board.Cell{{Col: 1, Row: 0}}
	v.Sync(game.Snapshot{Removed: removed})
	v.Sync(game.Snapshot{Removed: removed}) // already applied
	v.Draw(s, 0, 0, game.Snapshot{X: 0, Y: 1})

	if got := s.GetCell(2, 0); got.Color != core.ColorSky {
		t.Errorf("removed wood still drawn: %+v", got)
	}
	if got := s.GetCell(4, 0); got.Color != core.ColorWood {
		t.Errorf("untouched wood missing: %+v", got)
	}
}

func TestPlayerSprite(t *testing.T) {
	tests := []struct {
		snap game.Snapshot
		want string
	}{
		{game.Snapshot{Pose: game.PoseStanding}, "[]"},
		{game.Snapshot{Pose: game.PoseJumping}, "/\\"},
		{game.Snapshot{Pose: game.PoseSquatting}, "__"},
		{game.Snapshot{Pose: game.PoseRunningRight}, "]>"},
		{game.Snapshot{Pose: game.PoseRunningRight, RunFrame: 1}, ")>"},
		{game.Snapshot{Pose: game.PoseRunningLeft, RunFrame: 1}, "<("},
		{game.Snapshot{Pose: game.PoseStanding, Motion: game.Finished}, "\\/"},
	}
	for _, tc := range tests {
		sprite := playerSprite(tc.snap)
		if got := string(sprite[:]); got != tc.want {
			t.Errorf("playerSprite(%v, frame %d) = %q, expected %q", tc.snap.Pose, tc.snap.RunFrame, got, tc.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{time.Second, "0:01.0"},
		{61500 * time.Millisecond, "1:01.5"},
		{12*time.Second + 349*time.Millisecond, "0:12.3"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.want {
			t.Errorf("formatElapsed(%v) = %q, expected %q", tc.d, got, tc.want)
		}
	}
}

func TestBanners(t *testing.T) {
	now := time.Unix(1000, 0)

	b := deathBanner(game.OutcomeFellOut, 3, now, 2*time.Second)
	if b.lines[0] != "You fell!" || b.lines[1] != "Deaths: 3" {
		t.Errorf("death banner = %q", b.lines)
	}
	if !b.visible(now.Add(time.Second)) || b.visible(now.Add(2*time.Second)) {
		t.Error("death banner should show for two seconds")
	}

	c := completionBanner(game.Completion{Attempts: 4, ElapsedFrames: 600, TickRate: 60}, true)
	want := []string{"Level complete!", "It took you 4 attempts!", "Time 0:10.0", "Enter: next level"}
	if len(c.lines) != len(want) {
		t.Fatalf("completion banner = %q", c.lines)
	}
	for i := range want {
		if c.lines[i] != want[i] {
			t.Errorf("completion line %d = %q, expected %q", i, c.lines[i], want[i])
		}
	}
	if !c.visible(now.Add(time.Hour)) {
		t.Error("completion banner should stay up")
	}
}

const finishLevel = `
id: t-finish
name: Finish Line
world: 9
number: 1
speed: 0
start: {x: 1, y: 1}
rows:
  - "....."
  - ".F..."
  - "GGGGG"
`

func testOptions(t *testing.T) Options {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return Options{
		Loader:     levels.NewLoader(""),
		Engine:     config.DefaultEngineConfig(),
		Difficulty: config.DifficultyNormal,
		Store:      store,
		Player:     "tester",
		FPS:        30,
	}
}

func newTestPlay(t *testing.T, opts Options) PlayModel {
	t.Helper()
	level, err := levels.ParseYAML([]byte(finishLevel))
	if err != nil {
		t.Fatalf("ParseYAML() failed: %v", err)
	}
	m, err := NewPlayModel(opts, level, nil)
	if err != nil {
		t.Fatalf("NewPlayModel() failed: %v", err)
	}
	t.Cleanup(m.stop)
	return m
}

func update(t *testing.T, m PlayModel, msg tea.Msg) (PlayModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(PlayModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return pm, cmd
}

func TestPlayModelHoldsKeys(t *testing.T) {
	m := newTestPlay(t, testOptions(t))

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.latch.Intent(); got != (core.Intent{Up: true, Right: true}) {
		t.Errorf("latched intent = %v, expected up and right", got)
	}

	// A frame after the hold window releases both.
	m, cmd := update(t, m, FrameMsg{Time: time.Now().Add(time.Second), Loop: m.loop})
	if got := m.latch.Intent(); got != (core.Intent{}) {
		t.Errorf("latched intent after the hold window = %v", got)
	}
	if cmd == nil {
		t.Error("a frame should schedule the next frame")
	}

	// Frames from another loop are dropped.
	if _, cmd := update(t, m, FrameMsg{Time: time.Now(), Loop: m.loop + 1000}); cmd != nil {
		t.Error("a stale frame loop should not be rescheduled")
	}
}

func TestPlayModelRecordsCompletion(t *testing.T) {
	opts := testOptions(t)
	m := newTestPlay(t, opts)

	stale := runDoneMsg{runner: &game.Runner{}, completion: game.Completion{LevelID: "t-finish", Attempts: 9}}
	m, _ = update(t, m, stale)
	if m.Completion() != nil {
		t.Fatal("a stale runner's completion was accepted")
	}

	c := game.Completion{LevelID: "t-finish", Attempts: 2, Deaths: 1, ElapsedFrames: 120, TickRate: 60}
	m, _ = update(t, m, runDoneMsg{runner: m.runner, completion: c})
	if got := m.Completion(); got == nil || *got != c {
		t.Fatalf("Completion() = %v, expected %+v", got, c)
	}

	best, err := opts.Store.BestRun("t-finish")
	if err != nil || best == nil {
		t.Fatalf("BestRun() = %v, %v", best, err)
	}
	if best.Attempts != 2 || best.Elapsed != 2*time.Second || best.Player != "tester" || best.Difficulty != "normal" {
		t.Errorf("saved run = %+v", best)
	}

	// Without a next level Enter leaves the level.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.BackToMenu() || m.Advance() {
		t.Error("Enter after the last level should go back to the menu")
	}
}

func TestPlayModelRestartAndQuit(t *testing.T) {
	m := newTestPlay(t, testOptions(t))

	first := m.runner
	m, cmd := update(t, m, runes("r"))
	if m.runner == first || cmd == nil {
		t.Error("restart should replace the runner and launch it")
	}

	m, cmd = update(t, m, runes("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestPlayModelView(t *testing.T) {
	m := newTestPlay(t, testOptions(t))
	view := m.View()
	if view == "" {
		t.Fatal("View() is empty")
	}
	// Board of 5 columns plus the box, HUD and help lines.
	if w, h := m.screen.Width(), m.screen.Height(); w != 12 || h != 7 {
		t.Errorf("screen = %dx%d, expected 12x7", w, h)
	}
}

func TestDeathRecorder(t *testing.T) {
	opts := testOptions(t)
	var last atomic.Int32
	record := deathRecorder(opts.Store, "tester", &last, opts.logger())

	snap := game.Snapshot{LevelID: "t-finish"}
	record(game.StepResult{Outcome: game.OutcomeDied, Counted: true, X: 3, Y: 1}, snap)
	record(game.StepResult{Outcome: game.OutcomeDied, Counted: false}, snap)
	record(game.StepResult{Outcome: game.OutcomeFellOut, Counted: true, X: 4, Y: 3}, snap)
	record(game.StepResult{Outcome: game.OutcomeFinished}, snap)

	counts, err := opts.Store.DeathCounts("t-finish")
	if err != nil {
		t.Fatalf("DeathCounts() failed: %v", err)
	}
	if counts[storage.CauseDeadly] != 1 || counts[storage.CauseFellOut] != 1 {
		t.Errorf("DeathCounts() = %v", counts)
	}
	if game.Outcome(last.Load()) != game.OutcomeFellOut {
		t.Errorf("last death = %v, expected fell out", game.Outcome(last.Load()))
	}
}

func TestSessionModelFlow(t *testing.T) {
	opts := testOptions(t)
	m, err := NewSessionModel(opts, 80, 24)
	if err != nil {
		t.Fatalf("NewSessionModel() failed: %v", err)
	}

	step := func(msg tea.Msg) SessionModel {
		t.Helper()
		next, _ := m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update() returned %T", next)
		}
		return sm
	}

	m = step(tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenPlay || m.play == nil {
		t.Fatal("Enter should start the first level")
	}
	if id := m.play.Level().ID; id != "w1-l1" {
		t.Errorf("started level %q, expected w1-l1", id)
	}
	if next := m.play.Next(); next == nil || next.ID != "w1-l2" {
		t.Errorf("next level = %v, expected w1-l2", next)
	}
	t.Cleanup(m.play.stop)

	m = step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu || m.play != nil {
		t.Fatal("Esc should return to the menu")
	}

	m = step(tea.KeyMsg{Type: tea.KeyTab})
	if m.screen != screenRuns || m.runs == nil {
		t.Fatal("Tab should open the run board")
	}
	m = step(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatal("Esc should leave the run board")
	}

	m = step(runes("q"))
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}
