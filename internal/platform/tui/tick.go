// Package tui provides the Bubble Tea front end of the runner: the level
// menu, the play screen, the run board and the SSH server.
// The simulation runs on its own goroutine; the UI only samples snapshots.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent to redraw the play screen. Loop identifies the frame
// loop that scheduled it, so a loop left behind by a previous screen dies
// out instead of doubling the frame rate.
type FrameMsg struct {
	Time time.Time
	Loop int64
}

var frameLoops atomic.Int64

// newFrameLoop returns a fresh frame loop id.
func newFrameLoop() int64 {
	return frameLoops.Add(1)
}

// frameCmd returns a Bubble Tea command that sends one frame message for
// loop after a frame interval at the specified rate.
func frameCmd(fps int, loop int64) tea.Cmd {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t, Loop: loop}
	})
}
