package ui

import (
	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/menschrobotics/ruby-core/core"
)

var (
	idleColor      = lipgloss.Color("244")
	listeningColor = lipgloss.Color("33")
	thinkingColor  = lipgloss.Color("255")
	speakingColor  = lipgloss.Color("196")

	labelStyle = lipgloss.NewStyle().Faint(true)
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	robotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	toolStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	hintStyle  = lipgloss.NewStyle().Faint(true).Italic(true)
)

// phaseColor maps each phase to the indicator color.
func phaseColor(phase orchestration.Phase) lipgloss.Color {
	switch phase {
	case orchestration.PhaseListening:
		return listeningColor
	case orchestration.PhaseThinking:
		return thinkingColor
	case orchestration.PhaseSpeaking:
		return speakingColor
	}
	return idleColor
}
