package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/glassdial/internal/glass"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	canvasStyle = lipgloss.NewStyle().Padding(0, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
)

// severityColors runs from calm cyan to alarm red; override states get
// their own repair green.
var severityColors = map[glass.State]lipgloss.Color{
	glass.Normal:       lipgloss.Color("86"),
	glass.TinyCrack:    lipgloss.Color("229"),
	glass.SmallCrack:   lipgloss.Color("220"),
	glass.Cracked:      lipgloss.Color("214"),
	glass.BigCrack:     lipgloss.Color("208"),
	glass.Shatter:      lipgloss.Color("203"),
	glass.HeavyShatter: lipgloss.Color("196"),
	glass.Silence:      lipgloss.Color("240"),
	glass.Rebuild:      lipgloss.Color("84"),
	glass.Recovery:     lipgloss.Color("120"),
}

func StateLabel(s glass.State) string {
	color, ok := severityColors[s]
	if !ok {
		color = lipgloss.Color("255")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(strings.ToUpper(s.String()))
}

// Gauge renders the destruction level as a fixed-width bar colored by the
// state it classifies to.
func Gauge(level float64, width int) string {
	filled := int(level * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	color := severityColors[glass.StateForLevel(level)]
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
