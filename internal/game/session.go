// Package game implements the platformer simulation: a level session, the
// per-tick Step that moves the player through the board, and the Runner that
// drives Step at a fixed rate.
package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/physics"
)

// LevelConfig is the option set a level is created with.
type LevelConfig struct {
	ID              string
	LevelNumber     int
	BackgroundColor string  // Color name or ANSI code for empty cells
	BlockScale      int     // Texture scale factor; one tile is 16*BlockScale pixels
	BoardWidth      int     // Columns
	BoardHeight     int     // Rows
	LevelSpeed      float64 // Scroll speed in tiles per second
	Gravity         float64 // Tiles per second squared
	PlayerStartX    int
	PlayerStartY    int
}

// Validate checks the level options that can be checked without a board.
func (c LevelConfig) Validate() error {
	switch {
	case c.BoardWidth <= 0 || c.BoardHeight <= 0:
		return fmt.Errorf("%w: level %q has invalid size %dx%d", board.ErrConfiguration, c.ID, c.BoardWidth, c.BoardHeight)
	case c.BlockScale <= 0:
		return fmt.Errorf("%w: level %q block scale must be positive", board.ErrConfiguration, c.ID)
	case c.LevelSpeed < 0 || c.Gravity < 0:
		return fmt.Errorf("%w: level %q speed and gravity must not be negative", board.ErrConfiguration, c.ID)
	case c.PlayerStartX < 0 || c.PlayerStartX >= c.BoardWidth || c.PlayerStartY < 0 || c.PlayerStartY >= c.BoardHeight:
		return fmt.Errorf("%w: level %q start (%d, %d) is off the board", board.ErrConfiguration, c.ID, c.PlayerStartX, c.PlayerStartY)
	}
	return nil
}

// PanelWidth returns the board width in pixels.
func (c LevelConfig) PanelWidth() int {
	return c.BoardWidth * board.Resolution * c.BlockScale
}

// Completion is emitted once when a level is finished.
type Completion struct {
	LevelID       string
	LevelNumber   int
	Attempts      int // Deaths + 1
	Deaths        int
	ElapsedFrames int // Ticks since the level started, across deaths
	TickRate      int
}

// Elapsed converts ElapsedFrames to wall time at the level's tick rate.
func (c Completion) Elapsed() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Duration(c.ElapsedFrames) * time.Second / time.Duration(c.TickRate)
}

// Snapshot is a read-only copy of the session state after a tick.
type Snapshot struct {
	LevelID       string
	X, Y          float64
	VX, VY        float64
	ScrollOffset  float64 // Pixels, <= 0
	Motion        Motion
	Pose          Pose
	RunFrame      int
	Deaths        int
	FrameOfSecond int
	ElapsedFrames int
	FinishDwell   int
	Outcome       Outcome      // Outcome of the tick that produced this snapshot
	Removed       []board.Cell // Breakable cells removed so far; never mutated
}

// Session owns the state of one level being played: the board, the player,
// the scroll offset and the counters. It is not safe for concurrent use;
// the Runner is its only mutator while running.
type Session struct {
	cfg  LevelConfig
	eng  config.EngineConfig
	grid *board.Grid

	player        Player
	scroll        float64
	dwell         int
	deaths        int
	frameOfSecond int
	elapsed       int
	inDeadly      bool
	last          Outcome
	removed       []board.Cell
}

// NewSession creates a session for a level. The board is copied into a
// fresh grid of the configured size; a size mismatch is a configuration
// error.
func NewSession(cfg LevelConfig, layout *board.Grid, eng config.EngineConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := eng.Validate(); err != nil {
		return nil, err
	}
	grid, err := board.New(cfg.BoardWidth, cfg.BoardHeight)
	if err != nil {
		return nil, err
	}
	if err := grid.ReplaceBoard(layout); err != nil {
		return nil, fmt.Errorf("level %q: %w", cfg.ID, err)
	}

	return &Session{
		cfg:    cfg,
		eng:    eng,
		grid:   grid,
		player: newPlayer(float64(cfg.PlayerStartX), float64(cfg.PlayerStartY), eng.Simulation.RespawnVelocity),
	}, nil
}

// Config returns the level options.
func (s *Session) Config() LevelConfig {
	return s.cfg
}

// TickRate returns the simulation rate in ticks per second.
func (s *Session) TickRate() int {
	return s.eng.Simulation.TickRate
}

// Player returns a copy of the player state.
func (s *Session) Player() Player {
	return s.player
}

// Deaths returns the death counter.
func (s *Session) Deaths() int {
	return s.deaths
}

// ScrollOffset returns the horizontal panel offset in pixels.
func (s *Session) ScrollOffset() float64 {
	return s.scroll
}

// FinishDwell returns the number of consecutive ticks spent on the finish tile.
func (s *Session) FinishDwell() int {
	return s.dwell
}

// Finished reports whether the level is complete.
func (s *Session) Finished() bool {
	return s.player.Motion == Finished
}

// Completion returns the completion record. ok is false until the level is finished.
func (s *Session) Completion() (Completion, bool) {
	if !s.Finished() {
		return Completion{}, false
	}
	return s.completion(), true
}

func (s *Session) completion() Completion {
	return Completion{
		LevelID:       s.cfg.ID,
		LevelNumber:   s.cfg.LevelNumber,
		Attempts:      s.deaths + 1,
		Deaths:        s.deaths,
		ElapsedFrames: s.elapsed,
		TickRate:      s.TickRate(),
	}
}

// ResetSecond zeroes the frame-of-second counter. The Runner calls it once
// per wall-clock second.
func (s *Session) ResetSecond() {
	s.frameOfSecond = 0
}

// Tile returns the current content of a board cell.
func (s *Session) Tile(col, row int) (board.Tile, bool, error) {
	return s.grid.At(col, row)
}

// Snapshot returns a copy of the state for presentation.
func (s *Session) Snapshot() Snapshot {
	p := s.player
	return Snapshot{
		LevelID:       s.cfg.ID,
		X:             p.X,
		Y:             p.Y,
		VX:            p.VX,
		VY:            p.VY,
		ScrollOffset:  s.scroll,
		Motion:        p.Motion,
		Pose:          p.Pose,
		RunFrame:      p.RunFrame,
		Deaths:        s.deaths,
		FrameOfSecond: s.frameOfSecond,
		ElapsedFrames: s.elapsed,
		FinishDwell:   s.dwell,
		Outcome:       s.last,
		Removed:       s.removed,
	}
}

// minScroll is the most negative scroll offset: the panel stops once its
// right edge reaches the right edge of the viewport.
func (s *Session) minScroll() float64 {
	viewport := s.eng.Simulation.ViewportBlocks * board.Resolution * s.cfg.BlockScale
	overflow := s.cfg.PanelWidth() - viewport
	if overflow <= 0 {
		return 0
	}
	return -float64(overflow)
}

func (s *Session) advanceScroll() {
	f := float64(s.TickRate())
	dx := float64(board.Resolution*s.cfg.BlockScale) * s.cfg.LevelSpeed / f
	s.scroll = core.ClampF(s.scroll-dx, s.minScroll(), 0)
}

func (s *Session) probe() physics.Probe {
	return physics.NewProbe(s.grid, s.player.X, s.player.Y)
}

// respawn resets the player and the per-attempt state after a death or a
// fall. count is false for a repeated deadly contact that never ended.
func (s *Session) respawn(m Motion, count bool) {
	if count {
		s.deaths++
	}
	s.scroll = 0
	s.dwell = 0
	s.frameOfSecond = 0
	s.player.respawn(float64(s.cfg.PlayerStartX), float64(s.cfg.PlayerStartY), s.eng.Simulation.RespawnVelocity, m)
}

// removeCell empties a board cell and records it for snapshots. The record
// is copied on write so that published snapshots never change.
func (s *Session) removeCell(c board.Cell) error {
	if err := s.grid.Remove(c.Col, c.Row); err != nil {
		return err
	}
	removed := make([]board.Cell, len(s.removed), len(s.removed)+1)
	copy(removed, s.removed)
	s.removed = append(removed, c)
	return nil
}
