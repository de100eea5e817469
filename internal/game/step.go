package game

import (
	"github.com/vovakirdan/platform-runner/internal/board"
	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/physics"
)

// Outcome is the notable result of a single tick.
type Outcome int

const (
	OutcomeNone     Outcome = iota
	OutcomeDied             // Deadly contact; player reset
	OutcomeFellOut          // Player left the board; player reset
	OutcomeFinished         // Finish dwell complete; session is terminal
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeDied:
		return "died"
	case OutcomeFellOut:
		return "fell out"
	case OutcomeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// StepResult is returned by Step after each tick.
type StepResult struct {
	Outcome Outcome
	Counted bool         // The tick incremented the death counter
	Broken  []board.Cell // Breakable cells removed this tick
	X, Y    float64      // Where the player was when it died or fell out
}

// Step advances the session by one tick with the given intent.
// Order: scroll, deadly check, vertical motion, horizontal motion,
// out-of-bounds recovery, finish check. A finished session ignores Step.
func (s *Session) Step(in core.Intent) StepResult {
	if s.Finished() {
		return StepResult{}
	}

	s.elapsed++
	s.frameOfSecond++
	s.advanceScroll()

	res := s.step(in)
	s.last = res.Outcome
	return res
}

func (s *Session) step(in core.Intent) StepResult {
	deadly, err := s.probe().Deadly()
	if err != nil {
		return s.fellOut()
	}
	if deadly {
		// A contact that persists across the respawn (a start cell inside a
		// deadly tile) resets again but is only counted once.
		count := !s.inDeadly
		res := StepResult{Outcome: OutcomeDied, Counted: count, X: s.player.X, Y: s.player.Y}
		s.inDeadly = true
		s.respawn(Dead, count)
		return res
	}
	s.inDeadly = false

	broken, err := s.moveVertical(in)
	if err != nil {
		res := s.fellOut()
		res.Broken = broken
		return res
	}
	if err := s.moveHorizontal(in); err != nil {
		res := s.fellOut()
		res.Broken = broken
		return res
	}

	res := StepResult{Broken: broken}
	if s.checkFinish() {
		s.player.Motion = Finished
		res.Outcome = OutcomeFinished
	}
	return res
}

func (s *Session) fellOut() StepResult {
	res := StepResult{Outcome: OutcomeFellOut, Counted: true, X: s.player.X, Y: s.player.Y}
	s.inDeadly = false
	s.respawn(FallenOut, true)
	return res
}

// moveVertical applies the free-fall, ceiling and floor rules in that order.
// Each rule probes the board again, so a rule sees the effect of the one
// before it within the same tick.
func (s *Session) moveVertical(in core.Intent) ([]board.Cell, error) {
	g := s.cfg.Gravity
	rate := s.TickRate()
	p := &s.player

	solidAbove, breakableAbove, below, err := s.verticalContacts()
	if err != nil {
		return nil, err
	}
	if !solidAbove && !breakableAbove && !below {
		var dy float64
		p.Pose = PoseJumping
		p.VY, dy = physics.Integrate(p.VY, g, rate)
		p.Y += dy
		p.Motion = Falling
	}

	var broken []board.Cell
	solidAbove, breakableAbove, _, err = s.verticalContacts()
	if err != nil {
		return nil, err
	}
	if solidAbove || breakableAbove {
		p.Y = physics.SnapUp(p.Y)

		if breakableAbove {
			cells, err := s.probe().BreakableCellsAbove()
			if err != nil {
				return nil, err
			}
			for _, c := range cells {
				if err := s.removeCell(c); err != nil {
					return nil, err
				}
				broken = append(broken, c)
			}
		}

		// Give a resting player some speed so it does not stick to the ceiling.
		if p.VY > -0.1 {
			p.VY = -0.5
		}
		p.VY = -p.VY
		p.Y += physics.Displace(p.VY, g, rate)
		p.Motion = RisingFromBounce
	}

	below, err = s.probe().Below()
	if err != nil {
		return broken, err
	}
	if below {
		if p.VY != 0 {
			p.VY = 0
			p.Pose = PoseStanding
		}
		p.Y = physics.SnapDown(p.Y)
		p.Motion = Grounded

		if in.Down {
			p.Pose = PoseSquatting
		}
		if in.Up {
			p.Pose = PoseJumping
			p.VY = physics.JumpVelocity(g, s.eng.Player.MaxJumpHeight)
			p.Y += physics.Displace(p.VY, -g, rate)
			p.Motion = Falling
		}
	}
	return broken, nil
}

func (s *Session) verticalContacts() (solidAbove, breakableAbove, below bool, err error) {
	p := s.probe()
	if solidAbove, err = p.SolidAbove(); err != nil {
		return
	}
	if breakableAbove, err = p.BreakableAbove(); err != nil {
		return
	}
	below, err = p.Below()
	return
}

// moveHorizontal applies the moving-right, moving-left, at-rest and
// wall-contact rules. Side probes are only taken when a rule needs them.
func (s *Session) moveHorizontal(in core.Intent) error {
	p := &s.player

	switch {
	case p.VX > 0:
		right, err := s.probe().Right()
		if err != nil {
			return err
		}
		if !right {
			return s.keepMoving(in.Right, 1)
		}
	case p.VX < 0:
		left, err := s.probe().Left()
		if err != nil {
			return err
		}
		if !left {
			return s.keepMoving(in.Left, -1)
		}
	default:
		right, err := s.probe().Right()
		if err != nil {
			return err
		}
		left := true
		if right {
			if left, err = s.probe().Left(); err != nil {
				return err
			}
		}
		if !right || !left {
			return s.startMoving(in)
		}
	}

	// Side contact: stop and align to the column.
	p.VX = 0
	p.X = physics.SnapNearest(p.X)
	return nil
}

// keepMoving handles a player already moving in direction dir (+1 right,
// -1 left) with that side open.
func (s *Session) keepMoving(held bool, dir float64) error {
	p := &s.player
	pc := s.eng.Player
	rate := s.TickRate()

	below, err := s.probe().Below()
	if err != nil {
		return err
	}
	if below {
		p.nextRunFrame(s.frameOfSecond, rate, pc)
	}

	if held {
		var dx float64
		p.VX, dx = physics.Accelerate(p.VX, dir*pc.XAcceleration, pc.MaxWalkingSpeed, rate)
		p.X += dx
		return nil
	}

	var dx float64
	p.VX, dx = physics.Integrate(p.VX, -dir*pc.XAcceleration, rate)
	if p.VX*dir < 0.1 {
		p.VX = 0
		p.Pose = PoseStanding
	}
	p.X += dx
	return nil
}

// startMoving handles a player at rest with at least one side open. Right
// and left are applied one after the other, so holding both cancels out.
func (s *Session) startMoving(in core.Intent) error {
	p := &s.player
	pc := s.eng.Player
	rate := s.TickRate()

	right, err := s.probe().Right()
	if err != nil {
		return err
	}
	var dx float64
	if in.Right && !right {
		p.VX, dx = physics.Accelerate(p.VX, pc.XAcceleration, pc.MaxWalkingSpeed, rate)
		p.X += dx
	} else if p.VX > 0 {
		p.VX, dx = physics.Integrate(p.VX, -pc.XAcceleration, rate)
		p.X += dx
	}

	left, err := s.probe().Left()
	if err != nil {
		return err
	}
	if in.Left && !left {
		p.VX, dx = physics.Accelerate(p.VX, -pc.XAcceleration, pc.MaxWalkingSpeed, rate)
		p.X += dx
	} else if p.VX < 0 {
		p.VX, dx = physics.Integrate(p.VX, pc.XAcceleration, rate)
		p.X += dx
	}
	return nil
}

// checkFinish updates the finish dwell counter and reports completion.
// A top-left corner outside the board counts as off the finish tile.
func (s *Session) checkFinish() bool {
	on, err := s.probe().OnFinish()
	if err != nil || !on {
		s.dwell = 0
		return false
	}
	s.dwell++
	return s.dwell >= s.TickRate()
}
