package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// DefaultEngineConfig returns the built-in engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Simulation: SimulationConfig{
			TickRate:          60,
			ViewportBlocks:    24,
			RespawnVelocity:   -2,
			RespawnPauseTicks: 1,
		},
		Player: PlayerConfig{
			MaxWalkingSpeed:  4,
			XAcceleration:    5,
			MaxJumpHeight:    3.5,
			TextureFrequency: 5,
			RunFrames:        2,
		},
		Display: DisplayConfig{
			KeyHold: 150 * time.Millisecond,
			Banner:  2 * time.Second,
		},
	}
}

// DefaultEngineYAML returns the embedded default configuration file.
func DefaultEngineYAML() []byte {
	return defaultEngineYAML
}
