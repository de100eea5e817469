package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/platform-runner/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorDirt:    lipgloss.NewStyle().Foreground(lipgloss.Color("137")).Background(lipgloss.Color("94")),
	core.ColorWood:    lipgloss.NewStyle().Foreground(lipgloss.Color("222")).Background(lipgloss.Color("130")),
	core.ColorCloud:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	core.ColorSpike:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("238")),
	core.ColorGrass:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Background(lipgloss.Color("28")),
	core.ColorLava:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("196")),
	core.ColorFinish:  lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("220")).Bold(true),
	core.ColorRock:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("242")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")).Background(lipgloss.Color("30")),
	core.ColorBrick:   lipgloss.NewStyle().Foreground(lipgloss.Color("224")).Background(lipgloss.Color("124")),
	core.ColorPlayer:  lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true),
	core.ColorBanner:  lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("226")).Bold(true),
	core.ColorHUD:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorSky:     lipgloss.NewStyle().Background(lipgloss.Color(defaultSky)),
}

const defaultSky = "117"

// skyPalette returns colorStyles with the level background applied to empty
// cells and to the glyphs drawn over them.
func skyPalette(background string) map[core.Color]lipgloss.Style {
	if background == "" {
		background = defaultSky
	}
	sky := lipgloss.Color(background)
	p := make(map[core.Color]lipgloss.Style, len(colorStyles))
	for c, st := range colorStyles {
		p[c] = st
	}
	for _, c := range []core.Color{core.ColorSky, core.ColorCloud, core.ColorSpike, core.ColorPlayer} {
		p[c] = p[c].Background(sky)
	}
	return p
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	return renderScreen(s, colorStyles)
}

func renderScreen(s *core.Screen, palette map[core.Color]lipgloss.Style) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := palette[startColor]
			if !ok {
				style = palette[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
