package levels

import (
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/platform-runner/internal/board"
)

// yamlLevel represents the YAML structure for a level file.
type yamlLevel struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	World      int            `yaml:"world"`
	Number     int            `yaml:"number"`
	Background string         `yaml:"background"`
	BlockScale int            `yaml:"block_scale"`
	Speed      float64        `yaml:"speed"`
	Gravity    *float64       `yaml:"gravity"`
	Start      yamlPoint      `yaml:"start"`
	Size       *yamlSize      `yaml:"size,omitempty"`
	Legend     map[string]int `yaml:"legend,omitempty"`
	Rows       []string       `yaml:"rows"`
}

type yamlPoint struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type yamlSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

const defaultGravity = 9.8

// DefaultLegend maps board characters to tile ids. '.' and ' ' are empty.
func DefaultLegend() map[rune]board.Tile {
	return map[rune]board.Tile{
		'#': board.Dirt,
		'W': board.Wood,
		'C': board.Cloud,
		'^': board.Spike,
		':': board.GrayBackground,
		'G': board.Grass,
		'L': board.Lava,
		'F': board.Finish,
		'R': board.Rock,
		'B': board.Brick,
		's': board.SpikeOnGray,
		'c': board.CyanBackground,
		'x': board.SpikeOnCyan,
	}
}

// ParseYAML parses a YAML level file. A legend in the file adds to or
// overrides DefaultLegend.
func ParseYAML(data []byte) (Level, error) {
	var yl yamlLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("%w: missing id", ErrInvalid)
	}

	legend := DefaultLegend()
	for key, id := range yl.Legend {
		ch, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return Level{}, fmt.Errorf("%w: %s legend key %q must be one character", ErrInvalid, yl.ID, key)
		}
		if isEmpty(ch) {
			return Level{}, fmt.Errorf("%w: %s legend cannot redefine %q", ErrInvalid, yl.ID, key)
		}
		if id < 0 {
			return Level{}, fmt.Errorf("%w: %s legend %q has negative tile id %d", ErrInvalid, yl.ID, key, id)
		}
		legend[ch] = board.Tile(id)
	}

	scale := yl.BlockScale
	if scale == 0 {
		scale = 1
	}
	gravity := defaultGravity
	if yl.Gravity != nil {
		gravity = *yl.Gravity
	}

	level := Level{
		ID:         yl.ID,
		Name:       yl.Name,
		World:      yl.World,
		Number:     yl.Number,
		Background: yl.Background,
		BlockScale: scale,
		Speed:      yl.Speed,
		Gravity:    gravity,
		StartX:     yl.Start.X,
		StartY:     yl.Start.Y,
		Rows:       yl.Rows,
		Legend:     legend,
	}
	level.Width, level.Height = rowsSize(yl.Rows)
	if yl.Size != nil {
		level.Width, level.Height = yl.Size.W, yl.Size.H
	}

	if err := level.Config("").Validate(); err != nil {
		return Level{}, err
	}
	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
