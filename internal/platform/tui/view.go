package tui

import (
	"math"

	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
)

// tileChars is the number of terminal columns one tile is drawn with.
// Terminal cells are about twice as tall as they are wide.
const tileChars = 2

// glyph is the look of one tile: a rune per terminal column and a color.
type glyph struct {
	runes [tileChars]rune
	color core.Color
}

var tileGlyphs = map[board.Tile]glyph{
	board.Dirt:           {[2]rune{'▓', '▓'}, core.ColorDirt},
	board.Wood:           {[2]rune{'╪', '╪'}, core.ColorWood},
	board.Cloud:          {[2]rune{'░', '░'}, core.ColorCloud},
	board.Spike:          {[2]rune{'▲', '▲'}, core.ColorSpike},
	board.GrayBackground: {[2]rune{' ', ' '}, core.ColorGray},
	board.Grass:          {[2]rune{'▀', '▀'}, core.ColorGrass},
	board.Lava:           {[2]rune{'≈', '≈'}, core.ColorLava},
	board.Finish:         {[2]rune{'▐', '▌'}, core.ColorFinish},
	board.Rock:           {[2]rune{'▒', '▒'}, core.ColorRock},
	board.SpikeOnGray:    {[2]rune{'▲', '▲'}, core.ColorGray},
	board.CyanBackground: {[2]rune{' ', ' '}, core.ColorCyan},
	board.Brick:          {[2]rune{'▞', '▞'}, core.ColorBrick},
	board.SpikeOnCyan:    {[2]rune{'▲', '▲'}, core.ColorCyan},
}

// Unnamed ids are drawn by category.
var categoryGlyphs = map[board.Category]glyph{
	board.Solid:       {[2]rune{'█', '█'}, core.ColorRock},
	board.Breakable:   {[2]rune{'╪', '╪'}, core.ColorWood},
	board.Transparent: {[2]rune{'░', '░'}, core.ColorCloud},
	board.Deadly:      {[2]rune{'▲', '▲'}, core.ColorSpike},
	board.Background:  {[2]rune{' ', ' '}, core.ColorGray},
	board.Other:       {[2]rune{'?', '?'}, core.ColorDim},
}

func tileGlyph(t board.Tile) glyph {
	if g, ok := tileGlyphs[t]; ok {
		return g
	}
	return categoryGlyphs[t.Category()]
}

// playerSprite returns the two columns the player is drawn with.
func playerSprite(snap game.Snapshot) [tileChars]rune {
	if snap.Motion == game.Finished {
		return [2]rune{'\\', '/'}
	}
	switch snap.Pose {
	case game.PoseStanding:
		return [2]rune{'[', ']'}
	case game.PoseSquatting:
		return [2]rune{'_', '_'}
	case game.PoseRunningRight:
		if snap.RunFrame%2 == 1 {
			return [2]rune{')', '>'}
		}
		return [2]rune{']', '>'}
	case game.PoseRunningLeft:
		if snap.RunFrame%2 == 1 {
			return [2]rune{'<', '('}
		}
		return [2]rune{'<', '['}
	default:
		return [2]rune{'/', '\\'}
	}
}

// BoardView draws the visible window of a level. It owns a copy of the
// board and replays the removals published in snapshots, so drawing never
// touches the grid the Runner mutates.
type BoardView struct {
	grid     *board.Grid
	applied  int
	scale    int
	viewport int // Visible width in tiles
}

// NewBoardView creates a view over grid. The grid must not be shared with a
// running session.
func NewBoardView(grid *board.Grid, blockScale, viewportBlocks int) *BoardView {
	if blockScale <= 0 {
		blockScale = 1
	}
	return &BoardView{grid: grid, scale: blockScale, viewport: viewportBlocks}
}

// Width returns the drawn width in terminal columns.
func (v *BoardView) Width() int {
	return min(v.viewport, v.grid.Width()) * tileChars
}

// Height returns the drawn height in terminal rows.
func (v *BoardView) Height() int {
	return v.grid.Height()
}

// Sync applies the removals in snap that the view has not seen yet.
// Removal lists only grow within a session.
func (v *BoardView) Sync(snap game.Snapshot) {
	if len(snap.Removed) < v.applied {
		return
	}
	for _, c := range snap.Removed[v.applied:] {
		_ = v.grid.Remove(c.Col, c.Row)
	}
	v.applied = len(snap.Removed)
}

// shift returns the scroll offset in terminal columns.
func (v *BoardView) shift(scroll float64) int {
	pxPerChar := float64(board.Resolution*v.scale) / tileChars
	return int(-scroll / pxPerChar)
}

// Draw renders the board and the player with the top-left corner at (x0, y0).
func (v *BoardView) Draw(s *core.Screen, x0, y0 int, snap game.Snapshot) {
	w, h := v.Width(), v.Height()
	shift := v.shift(snap.ScrollOffset)

	for row := range h {
		for x := range w {
			wc := x + shift
			r, c := ' ', core.ColorSky
			if t, ok, err := v.grid.At(wc/tileChars, row); err == nil && ok {
				g := tileGlyph(t)
				r, c = g.runes[wc%tileChars], g.color
			}
			s.SetCell(x0+x, y0+row, r, c)
		}
	}

	py := int(math.Round(snap.Y))
	if py < 0 || py >= h {
		return
	}
	px := int(math.Round(snap.X*tileChars)) - shift
	for i, r := range playerSprite(snap) {
		if x := px + i; x >= 0 && x < w {
			s.SetCell(x0+x, y0+py, r, core.ColorPlayer)
		}
	}
}
