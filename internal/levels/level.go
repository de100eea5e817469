// Package levels provides level authoring for the runner: YAML level files
// with ASCII boards, a loader over a directory or the embedded world, world
// grouping and a file watcher for hot reload.
// This package depends on board and game; neither depends on levels.
package levels

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/config"
	"github.com/vovakirdan/platform-runner/internal/game"
)

var (
	// ErrNotFound is returned when no level matches the requested id.
	ErrNotFound = errors.New("levels: level not found")
	// ErrInvalid is returned for level files that cannot describe a board.
	ErrInvalid = errors.New("levels: invalid level")
)

// Level represents a complete level definition.
type Level struct {
	ID         string
	Name       string
	World      int
	Number     int
	Background string
	BlockScale int
	Speed      float64 // Tiles per second
	Gravity    float64 // Tiles per second squared
	StartX     int
	StartY     int
	Width      int // Declared board size; defaults to the size of Rows
	Height     int
	Rows       []string
	Legend     map[rune]board.Tile
	FilePath   string
}

// Board builds the tile grid described by Rows. The grid has the size of
// the rows themselves; short rows are padded with empty cells.
func (l *Level) Board() (*board.Grid, error) {
	w, h := rowsSize(l.Rows)
	g, err := board.New(w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has an empty board", ErrInvalid, l.ID)
	}
	for row, line := range l.Rows {
		for col, ch := range []rune(line) {
			if isEmpty(ch) {
				continue
			}
			t, ok := l.Legend[ch]
			if !ok {
				return nil, fmt.Errorf("%w: %s row %d col %d: unknown tile %q", ErrInvalid, l.ID, row, col, ch)
			}
			if err := g.Set(col, row, t); err != nil {
				return nil, fmt.Errorf("%s row %d col %d: %w", l.ID, row, col, err)
			}
		}
	}
	return g, nil
}

// Config returns the session options for the level with the difficulty
// preset applied to its scroll speed.
func (l *Level) Config(d config.DifficultyPreset) game.LevelConfig {
	return game.LevelConfig{
		ID:              l.ID,
		LevelNumber:     l.Number,
		BackgroundColor: l.Background,
		BlockScale:      l.BlockScale,
		BoardWidth:      l.Width,
		BoardHeight:     l.Height,
		LevelSpeed:      l.Speed * d.SpeedFactor(),
		Gravity:         l.Gravity,
		PlayerStartX:    l.StartX,
		PlayerStartY:    l.StartY,
	}
}

// NewSession builds the board and starts a session for the level.
func (l *Level) NewSession(d config.DifficultyPreset, eng config.EngineConfig) (*game.Session, error) {
	grid, err := l.Board()
	if err != nil {
		return nil, err
	}
	return game.NewSession(l.Config(d), grid, eng)
}

// Title returns the display title, e.g. "1-2 Spike Field".
func (l *Level) Title() string {
	if l.Name == "" {
		return fmt.Sprintf("%d-%d", l.World, l.Number)
	}
	return fmt.Sprintf("%d-%d %s", l.World, l.Number, l.Name)
}

func rowsSize(rows []string) (w, h int) {
	for _, line := range rows {
		if n := len([]rune(line)); n > w {
			w = n
		}
	}
	return w, len(rows)
}

func isEmpty(ch rune) bool {
	return ch == '.' || ch == ' '
}
