package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	circleMinRadius = 3
	circleMaxRadius = 5
)

// renderCircle draws a filled circle of the given radius. Cells are doubled
// horizontally to compensate for terminal character aspect ratio, and the
// canvas is fixed to the maximum radius so the layout does not jump while
// the circle breathes.
func renderCircle(radius int, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color)
	canvas := circleMaxRadius

	var b strings.Builder
	for y := -canvas; y <= canvas; y++ {
		for x := -canvas; x <= canvas; x++ {
			if x*x+y*y <= radius*radius {
				b.WriteString(style.Render("██"))
			} else {
				b.WriteString("  ")
			}
		}
		if y < canvas {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// pulseRadius converts an animation frame to a radius that breathes between
// the minimum and maximum.
func pulseRadius(frame int) int {
	span := circleMaxRadius - circleMinRadius
	cycle := frame % (2 * span)
	if cycle > span {
		cycle = 2*span - cycle
	}
	return circleMinRadius + cycle
}
