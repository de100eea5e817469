// Package config provides YAML-based engine configuration loading and
// difficulty presets for the runner.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned when a loaded configuration cannot drive the engine.
var ErrInvalid = errors.New("config: invalid value")

// EngineConfig contains the settings shared by every level.
type EngineConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Player     PlayerConfig     `yaml:"player"`
	Display    DisplayConfig    `yaml:"display"`
}

// SimulationConfig defines the fixed-timestep loop.
type SimulationConfig struct {
	TickRate          int     `yaml:"tick_rate"`
	ViewportBlocks    int     `yaml:"viewport_blocks"`
	RespawnVelocity   float64 `yaml:"respawn_velocity"`
	RespawnPauseTicks int     `yaml:"respawn_pause_ticks"`
}

// PlayerConfig defines player movement constants.
type PlayerConfig struct {
	MaxWalkingSpeed  float64 `yaml:"max_walking_speed"`
	XAcceleration    float64 `yaml:"x_acceleration"`
	MaxJumpHeight    float64 `yaml:"max_jump_height"`
	TextureFrequency int     `yaml:"texture_frequency"`
	RunFrames        int     `yaml:"run_frames"`
}

// DisplayConfig defines terminal presentation timing.
type DisplayConfig struct {
	KeyHold time.Duration `yaml:"key_hold"` // Terminals report presses only
	Banner  time.Duration `yaml:"banner"`
}

// Validate checks that the configuration can drive a level.
func (c EngineConfig) Validate() error {
	s, p := c.Simulation, c.Player
	switch {
	case s.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, s.TickRate)
	case s.ViewportBlocks <= 0:
		return fmt.Errorf("%w: viewport_blocks must be positive, got %d", ErrInvalid, s.ViewportBlocks)
	case s.RespawnPauseTicks < 0:
		return fmt.Errorf("%w: respawn_pause_ticks must not be negative", ErrInvalid)
	case p.MaxWalkingSpeed <= 0 || p.XAcceleration <= 0:
		return fmt.Errorf("%w: walking speed and acceleration must be positive", ErrInvalid)
	case p.MaxJumpHeight < 0:
		return fmt.Errorf("%w: max_jump_height must not be negative", ErrInvalid)
	case p.TextureFrequency <= 0 || p.TextureFrequency > s.TickRate:
		return fmt.Errorf("%w: texture_frequency must be in 1..tick_rate, got %d", ErrInvalid, p.TextureFrequency)
	case p.RunFrames <= 0:
		return fmt.Errorf("%w: run_frames must be positive", ErrInvalid)
	}
	return nil
}
