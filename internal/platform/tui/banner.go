package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/game"
	"github.com/vovakirdan/platform-runner/internal/levels"
)

// banner is a short message drawn over the middle of the board.
// A zero until keeps it up until replaced.
type banner struct {
	lines []string
	color core.Color
	until time.Time
}

func (b banner) visible(now time.Time) bool {
	return len(b.lines) > 0 && (b.until.IsZero() || now.Before(b.until))
}

// draw centers the banner on screen around row mid. Lines are padded to a
// common width so the banner reads as one block.
func (b banner) draw(s *core.Screen, mid int) {
	width := 0
	for _, l := range b.lines {
		width = max(width, len([]rune(l)))
	}
	y := mid - len(b.lines)/2
	for i, l := range b.lines {
		pad := width - len([]rune(l))
		line := strings.Repeat(" ", pad/2) + l + strings.Repeat(" ", pad-pad/2)
		s.DrawTextCentered(y+i, " "+line+" ", b.color)
	}
}

func messageBanner(text string, c core.Color, until time.Time) banner {
	return banner{lines: []string{text}, color: c, until: until}
}

func levelBanner(l levels.Level, now time.Time, d time.Duration) banner {
	b := banner{
		lines: []string{fmt.Sprintf("World %d  Level %d", l.World, l.Number)},
		color: core.ColorBanner,
		until: now.Add(d),
	}
	if l.Name != "" {
		b.lines = append(b.lines, l.Name)
	}
	return b
}

func deathBanner(o game.Outcome, deaths int, now time.Time, d time.Duration) banner {
	text := "You died!"
	if o == game.OutcomeFellOut {
		text = "You fell!"
	}
	return banner{
		lines: []string{text, fmt.Sprintf("Deaths: %d", deaths)},
		color: core.ColorLava,
		until: now.Add(d),
	}
}

func completionBanner(c game.Completion, hasNext bool) banner {
	attempts := fmt.Sprintf("It took you %d attempts!", c.Attempts)
	if c.Attempts == 1 {
		attempts = "First try!"
	}
	b := banner{
		lines: []string{"Level complete!", attempts, "Time " + formatElapsed(c.Elapsed())},
		color: core.ColorFinish,
	}
	if hasNext {
		b.lines = append(b.lines, "Enter: next level")
	}
	return b
}

// formatElapsed formats a run time as m:ss.t.
func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := int(d / time.Minute)
	s := d % time.Minute
	return fmt.Sprintf("%d:%04.1f", m, s.Seconds())
}
