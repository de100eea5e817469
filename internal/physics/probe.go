package physics

import (
	"github.com/vovakirdan/platform-runner/internal/board"
)

// Epsilon is one texture pixel in tile units. Probes sample this far inside
// the box edges so that a box resting exactly on a cell boundary does not
// register the neighboring cell.
const Epsilon = 1.0 / board.Resolution

// Probe answers directional occupancy questions for a 1x1 box whose top-left
// corner is at (X, Y). Coordinates are truncated toward zero when mapped to
// cells. A sample outside the grid returns board.ErrOutOfBounds.
type Probe struct {
	Grid *board.Grid
	X, Y float64
}

// NewProbe creates a probe for a box at (x, y) on grid g.
func NewProbe(g *board.Grid, x, y float64) Probe {
	return Probe{Grid: g, X: x, Y: y}
}

func (p Probe) left() int   { return int(p.X) }
func (p Probe) right() int  { return int(p.X + 1 - Epsilon) }
func (p Probe) top() int    { return int(p.Y) }
func (p Probe) bottom() int { return int(p.Y + 1 - Epsilon) }

// Corners returns the cells under the four box corners:
// top-left, top-right, bottom-left, bottom-right.
func (p Probe) Corners() []board.Cell {
	return []board.Cell{
		{Col: p.left(), Row: p.top()},
		{Col: p.right(), Row: p.top()},
		{Col: p.left(), Row: p.bottom()},
		{Col: p.right(), Row: p.bottom()},
	}
}

// AboveCells returns the cells just above the two top corners.
func (p Probe) AboveCells() []board.Cell {
	row := int(p.Y - Epsilon)
	return []board.Cell{{Col: p.left(), Row: row}, {Col: p.right(), Row: row}}
}

// BelowCells returns the cells directly under the two bottom corners.
// The row is the one whose top edge touches the box bottom, so a box standing
// exactly on a floor keeps seeing it.
func (p Probe) BelowCells() []board.Cell {
	row := int(p.Y + 1)
	return []board.Cell{{Col: p.left(), Row: row}, {Col: p.right(), Row: row}}
}

// RightCells returns the cells beside the two right corners.
func (p Probe) RightCells() []board.Cell {
	col := int(p.X + 1)
	return []board.Cell{{Col: col, Row: p.top()}, {Col: col, Row: p.bottom()}}
}

// LeftCells returns the cells beside the two left corners.
func (p Probe) LeftCells() []board.Cell {
	col := int(p.X - Epsilon)
	return []board.Cell{{Col: col, Row: p.top()}, {Col: col, Row: p.bottom()}}
}

// SolidAbove reports a solid tile above either top corner.
func (p Probe) SolidAbove() (bool, error) {
	return p.any(p.AboveCells(), isCategory(board.Solid))
}

// BreakableAbove reports a breakable tile above either top corner.
func (p Probe) BreakableAbove() (bool, error) {
	return p.any(p.AboveCells(), isCategory(board.Breakable))
}

// BreakableCellsAbove returns the cells above the top corners that hold a
// breakable tile, without duplicates.
func (p Probe) BreakableCellsAbove() ([]board.Cell, error) {
	var cells []board.Cell
	for _, c := range p.AboveCells() {
		tile, ok, err := p.Grid.At(c.Col, c.Row)
		if err != nil {
			return nil, err
		}
		if !ok || tile.Category() != board.Breakable {
			continue
		}
		if len(cells) > 0 && cells[0] == c {
			continue
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// Below reports a solid or breakable tile under either bottom corner.
func (p Probe) Below() (bool, error) {
	return p.any(p.BelowCells(), board.Tile.Blocks)
}

// Right reports a solid or breakable tile beside either right corner.
func (p Probe) Right() (bool, error) {
	return p.any(p.RightCells(), board.Tile.Blocks)
}

// Left reports a solid or breakable tile beside either left corner.
func (p Probe) Left() (bool, error) {
	return p.any(p.LeftCells(), board.Tile.Blocks)
}

// Deadly reports a deadly tile under any of the four corners.
func (p Probe) Deadly() (bool, error) {
	return p.any(p.Corners(), isCategory(board.Deadly))
}

// OnFinish reports whether the cell under the top-left corner is the finish tile.
func (p Probe) OnFinish() (bool, error) {
	return p.any([]board.Cell{{Col: p.left(), Row: p.top()}}, board.Tile.IsFinish)
}

// any samples cells in order and stops at the first match. Empty cells never
// match; a cell outside the grid aborts with its error.
func (p Probe) any(cells []board.Cell, match func(board.Tile) bool) (bool, error) {
	for _, c := range cells {
		tile, ok, err := p.Grid.At(c.Col, c.Row)
		if err != nil {
			return false, err
		}
		if ok && match(tile) {
			return true, nil
		}
	}
	return false, nil
}

func isCategory(cat board.Category) func(board.Tile) bool {
	return func(t board.Tile) bool {
		return t.Category() == cat
	}
}
