package board

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a column or row lies outside the grid.
	ErrOutOfBounds = errors.New("board: cell out of bounds")

	// ErrConfiguration is returned when a board does not fit the level it is
	// assigned to. It is fatal for the level.
	ErrConfiguration = errors.New("board: configuration error")

	// ErrInvalidTile is returned when a negative tile id is placed.
	ErrInvalidTile = errors.New("board: invalid tile id")
)

// Cell addresses one grid cell.
type Cell struct {
	Col, Row int
}

// slot is one optional tile.
type slot struct {
	tile Tile
	set  bool
}

// Grid is a fixed-size grid of optional tiles indexed [column][row].
// Its dimensions never change after creation; contents change through Set,
// Remove and ReplaceBoard.
type Grid struct {
	width  int
	height int
	cells  [][]slot // cells[col][row]
}

// New creates an empty grid of width columns and height rows.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid board size %dx%d", ErrConfiguration, width, height)
	}
	g := &Grid{width: width, height: height}
	g.cells = make([][]slot, width)
	for c := range g.cells {
		g.cells[c] = make([]slot, height)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBounds returns true if the cell lies inside the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

// At returns the tile at (col, row). ok is false for an empty cell.
// Indices outside the grid return ErrOutOfBounds.
func (g *Grid) At(col, row int) (tile Tile, ok bool, err error) {
	if !g.InBounds(col, row) {
		return 0, false, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, col, row, g.width, g.height)
	}
	s := g.cells[col][row]
	return s.tile, s.set, nil
}

// Set places a tile at (col, row).
func (g *Grid) Set(col, row int, t Tile) error {
	if !g.InBounds(col, row) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, col, row, g.width, g.height)
	}
	if t < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTile, int(t))
	}
	g.cells[col][row] = slot{tile: t, set: true}
	return nil
}

// Remove empties the cell at (col, row). Removing an empty cell is a no-op.
func (g *Grid) Remove(col, row int) error {
	if !g.InBounds(col, row) {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, col, row, g.width, g.height)
	}
	g.cells[col][row] = slot{}
	return nil
}

// ReplaceBoard copies every cell of other into g.
// The boards must have identical dimensions.
func (g *Grid) ReplaceBoard(other *Grid) error {
	if other == nil {
		return fmt.Errorf("%w: nil board", ErrConfiguration)
	}
	if other.width != g.width || other.height != g.height {
		return fmt.Errorf("%w: board is %dx%d, level expects %dx%d",
			ErrConfiguration, other.width, other.height, g.width, g.height)
	}
	for c := range g.cells {
		copy(g.cells[c], other.cells[c])
	}
	return nil
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := &Grid{width: g.width, height: g.height}
	clone.cells = make([][]slot, g.width)
	for c := range g.cells {
		clone.cells[c] = make([]slot, g.height)
		copy(clone.cells[c], g.cells[c])
	}
	return clone
}

// Count returns how many tiles of the given category the grid holds.
func (g *Grid) Count(cat Category) int {
	n := 0
	for c := range g.cells {
		for _, s := range g.cells[c] {
			if s.set && s.tile.Category() == cat {
				n++
			}
		}
	}
	return n
}

// Find returns the cells holding the given tile, column by column.
func (g *Grid) Find(t Tile) []Cell {
	var found []Cell
	for c := range g.cells {
		for r, s := range g.cells[c] {
			if s.set && s.tile == t {
				found = append(found, Cell{Col: c, Row: r})
			}
		}
	}
	return found
}
