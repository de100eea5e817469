package tui

import (
	"time"

	"github.com/vovakirdan/platform-runner/internal/core"
)

// KeyHold turns key presses into held directions. Terminals report presses
// and auto-repeats but no releases, so a direction counts as held until
// window has passed since its last press.
type KeyHold struct {
	window time.Duration
	last   map[core.Action]time.Time
}

// NewKeyHold creates a KeyHold with the given hold window.
func NewKeyHold(window time.Duration) *KeyHold {
	return &KeyHold{window: window, last: make(map[core.Action]time.Time)}
}

// Press records a press of a direction at now. Other actions are ignored.
// Pressing a direction releases the opposite one.
func (h *KeyHold) Press(a core.Action, now time.Time) {
	switch a {
	case core.ActionLeft:
		delete(h.last, core.ActionRight)
	case core.ActionRight:
		delete(h.last, core.ActionLeft)
	case core.ActionUp, core.ActionDown:
	default:
		return
	}
	h.last[a] = now
}

// Intent returns the directions held at now.
func (h *KeyHold) Intent(now time.Time) core.Intent {
	var in core.Intent
	for a, t := range h.last {
		if now.Sub(t) < h.window {
			in = in.With(a)
		}
	}
	return in
}

// Reset releases every direction.
func (h *KeyHold) Reset() {
	clear(h.last)
}
