package core

import "sync/atomic"

// Action represents a semantic action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - jump / menu up
	ActionDown           // S, Down arrow - squat / menu down
	ActionLeft           // A, Left arrow - run left
	ActionRight          // D, Right arrow - run right
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart the level
	ActionQuit           // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Intent is the directional input sampled once per simulation tick.
// It is a level, not an event: a held key stays true every tick.
type Intent struct {
	Up, Down, Left, Right bool
}

const (
	bitUp uint32 = 1 << iota
	bitDown
	bitLeft
	bitRight
)

func (in Intent) bits() uint32 {
	var b uint32
	if in.Up {
		b |= bitUp
	}
	if in.Down {
		b |= bitDown
	}
	if in.Left {
		b |= bitLeft
	}
	if in.Right {
		b |= bitRight
	}
	return b
}

func intentFromBits(b uint32) Intent {
	return Intent{
		Up:    b&bitUp != 0,
		Down:  b&bitDown != 0,
		Left:  b&bitLeft != 0,
		Right: b&bitRight != 0,
	}
}

// With returns a copy of the intent with the direction for a set.
// Non-directional actions leave the intent unchanged.
func (in Intent) With(a Action) Intent {
	switch a {
	case ActionUp:
		in.Up = true
	case ActionDown:
		in.Down = true
	case ActionLeft:
		in.Left = true
	case ActionRight:
		in.Right = true
	}
	return in
}

// String renders the intent as four flags, e.g. "U-L-".
func (in Intent) String() string {
	flag := func(on bool, r byte) byte {
		if on {
			return r
		}
		return '-'
	}
	return string([]byte{flag(in.Up, 'U'), flag(in.Down, 'D'), flag(in.Left, 'L'), flag(in.Right, 'R')})
}

// IntentLatch holds the latest intent. Any goroutine may Store; the
// simulation reads a consistent snapshot with Intent.
type IntentLatch struct {
	bits atomic.Uint32
}

// Store replaces the held intent.
func (l *IntentLatch) Store(in Intent) {
	l.bits.Store(in.bits())
}

// Intent returns the held intent.
func (l *IntentLatch) Intent() Intent {
	return intentFromBits(l.bits.Load())
}
