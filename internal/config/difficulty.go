package config

import "fmt"

// DifficultyPreset represents a named difficulty level. Presets scale how
// fast a level scrolls; the physics of the player never change.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty converts a flag value into a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q (use easy, normal or hard)", ErrInvalid, s)
	}
}

// SpeedFactor returns the multiplier applied to a level's scroll speed.
func (p DifficultyPreset) SpeedFactor() float64 {
	switch p {
	case DifficultyEasy:
		return 0.75
	case DifficultyHard:
		return 1.25
	default:
		return 1.0
	}
}
