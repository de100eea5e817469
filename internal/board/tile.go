// Package board holds the tile grid a level is played on.
// Tiles are plain integer ids; their behavior is derived from the id alone.
package board

import "fmt"

// Resolution is the edge length of one tile in texture pixels.
// One texture pixel (1/Resolution of a tile) is the smallest distance the
// collision probes distinguish.
const Resolution = 16

// Category is the behavior class of a tile, derived from id mod 6.
type Category int

const (
	Solid       Category = iota // Stops movement from every side
	Breakable                   // Stops movement; removed when hit from below
	Transparent                 // Drawn, never collides
	Deadly                      // Kills on contact
	Background                  // Drawn behind the player
	Other                       // Reserved, never collides
)

// String returns a human-readable name for the category.
func (c Category) String() string {
	switch c {
	case Solid:
		return "solid"
	case Breakable:
		return "breakable"
	case Transparent:
		return "transparent"
	case Deadly:
		return "deadly"
	case Background:
		return "background"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Tile is a tile identifier. Valid ids are >= 0.
type Tile int

// Known tile ids.
const (
	Dirt           Tile = 0
	Wood           Tile = 1
	Cloud          Tile = 2
	Spike          Tile = 3
	GrayBackground Tile = 4
	Grass          Tile = 6
	Lava           Tile = 9
	Finish         Tile = 10
	Rock           Tile = 12
	SpikeOnGray    Tile = 15
	CyanBackground Tile = 16
	Brick          Tile = 18
	SpikeOnCyan    Tile = 21
)

var tileNames = map[Tile]string{
	Dirt:           "dirt",
	Wood:           "wood",
	Cloud:          "cloud",
	Spike:          "spike",
	GrayBackground: "gray background",
	Grass:          "grass",
	Lava:           "lava",
	Finish:         "finish",
	Rock:           "rock",
	SpikeOnGray:    "spike on gray",
	CyanBackground: "cyan background",
	Brick:          "brick",
	SpikeOnCyan:    "spike on cyan",
}

// Category returns the behavior class of the tile.
func (t Tile) Category() Category {
	return Category(int(t) % 6)
}

// IsFinish reports whether the tile is the finish tile.
// Finish is matched by exact id, not by category.
func (t Tile) IsFinish() bool {
	return t == Finish
}

// Blocks reports whether the tile stops player movement.
func (t Tile) Blocks() bool {
	c := t.Category()
	return c == Solid || c == Breakable
}

// Name returns the tile's name, or a generic label for unnamed ids.
func (t Tile) Name() string {
	if name, ok := tileNames[t]; ok {
		return name
	}
	return fmt.Sprintf("%s #%d", t.Category(), int(t))
}
