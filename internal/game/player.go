package game

import (
	"github.com/vovakirdan/platform-runner/internal/config"
)

// Motion is the vertical/terminal state of the simulation.
type Motion int

const (
	Falling          Motion = iota // In the air under gravity
	RisingFromBounce               // Rebounded off a ceiling this tick
	Grounded                       // Standing on a solid or breakable tile
	Dead                           // Touched a deadly tile; reset this tick
	FallenOut                      // Left the board; reset this tick
	Finished                       // Level complete; terminal
)

// String returns a human-readable name for the motion state.
func (m Motion) String() string {
	switch m {
	case Falling:
		return "falling"
	case RisingFromBounce:
		return "rising"
	case Grounded:
		return "grounded"
	case Dead:
		return "dead"
	case FallenOut:
		return "fallen out"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Pose is the sprite the player is drawn with. It has no effect on physics.
type Pose int

const (
	PoseJumping Pose = iota
	PoseStanding
	PoseSquatting
	PoseRunningRight
	PoseRunningLeft
)

// String returns a human-readable name for the pose.
func (p Pose) String() string {
	switch p {
	case PoseJumping:
		return "jumping"
	case PoseStanding:
		return "standing"
	case PoseSquatting:
		return "squatting"
	case PoseRunningRight:
		return "running right"
	case PoseRunningLeft:
		return "running left"
	default:
		return "unknown"
	}
}

// Player is the controlled actor: a 1x1 tile box anchored at its top-left
// corner. Position is in tiles, velocity in tiles per second, y grows down.
type Player struct {
	X, Y   float64
	VX, VY float64
	Motion Motion
	Pose   Pose

	RunFrame   int // Frame shown while running
	rightFrame int
	leftFrame  int
}

// newPlayer places a player at the start position, falling.
func newPlayer(x, y, vy float64) Player {
	return Player{X: x, Y: y, VY: vy, Motion: Falling, Pose: PoseJumping}
}

// respawn puts the player back at the start position with the respawn
// velocity. Running frames are kept.
func (p *Player) respawn(x, y, vy float64, m Motion) {
	p.X, p.Y = x, y
	p.VX, p.VY = 0, vy
	p.Motion = m
}

// nextRunFrame cycles the running sprite TextureFrequency times per second.
// frame is the tick index within the current second.
func (p *Player) nextRunFrame(frame, tickRate int, pc config.PlayerConfig) {
	every := tickRate / pc.TextureFrequency
	if every <= 0 || frame%every != 0 {
		return
	}
	if p.VX > 0 {
		p.rightFrame = (p.rightFrame + 1) % pc.RunFrames
		p.Pose = PoseRunningRight
		p.RunFrame = p.rightFrame
		return
	}
	p.leftFrame = (p.leftFrame + 1) % pc.RunFrames
	p.Pose = PoseRunningLeft
	p.RunFrame = p.leftFrame
}
