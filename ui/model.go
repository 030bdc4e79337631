// Package ui renders the conversation status as a pulsing circle in the
// terminal: gray while idle, blue while listening, white while thinking and
// red while speaking. A click or keypress while the robot speaks interrupts
// the reply.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/menschrobotics/ruby-core/core"
	"github.com/menschrobotics/ruby-core/core/events"
)

const (
	pulseInterval  = 120 * time.Millisecond
	transcriptWrap = 64
)

// Model is the bubbletea model for the status display. It only renders
// state; all conversation logic stays in the orchestrator.
type Model struct {
	phase      orchestration.Phase
	pulseFrame int
	spinner    spinner.Model

	interimTranscript string
	lastTranscript    string
	lastReply         string
	activeTool        string
	locale            string

	width  int
	height int

	// onInterrupt is called on click or keypress while speaking. It must not
	// block; the orchestrator's interrupt entry point is a single atomic
	// operation.
	onInterrupt func()
}

func NewModel(onInterrupt func()) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(thinkingColor)

	return Model{
		spinner:     s,
		onInterrupt: onInterrupt,
		locale:      orchestration.DefaultLocale,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, pulseTick())
}

func pulseTick() tea.Cmd {
	return tea.Tick(pulseInterval, func(time.Time) tea.Msg {
		return pulseMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		m.requestInterrupt()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			m.requestInterrupt()
		}
		return m, nil

	case pulseMsg:
		if m.phase != orchestration.PhaseIdle {
			m.pulseFrame++
		}
		return m, pulseTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case phaseMsg:
		m.phase = msg.Phase
		if msg.Phase == orchestration.PhaseListening {
			m.interimTranscript = ""
			m.activeTool = ""
		}
		return m, nil

	case eventMsg:
		return m.applyEvent(msg.Event), nil
	}

	return m, nil
}

func (m Model) applyEvent(event events.Event) Model {
	switch event := event.(type) {
	case events.UserTranscriptInterim:
		m.interimTranscript = event.Transcript
	case events.UserTranscriptFinal:
		m.lastTranscript = event.Transcript
		m.interimTranscript = ""
	case events.AssistantResponseFinal:
		m.lastReply = event.Response
	case events.ToolCallStarted:
		m.activeTool = event.Name
	case events.ToolCallCompleted, events.ToolCallFailed:
		m.activeTool = ""
	case events.LanguageSwitched:
		m.locale = event.Locale
	}
	return m
}

func (m Model) requestInterrupt() {
	if m.onInterrupt != nil && m.phase == orchestration.PhaseSpeaking {
		m.onInterrupt()
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(renderCircle(pulseRadius(m.pulseFrame), phaseColor(m.phase)))
	b.WriteString("\n\n")

	status := m.phase.String()
	if m.phase == orchestration.PhaseThinking {
		status = m.spinner.View() + " thinking"
		if m.activeTool != "" {
			status += toolStyle.Render(fmt.Sprintf("  [%s]", m.activeTool))
		}
	}
	b.WriteString(labelStyle.Render(m.locale) + "  " + status + "\n\n")

	if m.interimTranscript != "" {
		b.WriteString(userStyle.Render("you: ") + wrap(m.interimTranscript) + "\n")
	} else if m.lastTranscript != "" {
		b.WriteString(userStyle.Render("you: ") + wrap(m.lastTranscript) + "\n")
	}
	if m.lastReply != "" {
		b.WriteString(robotStyle.Render("ruby: ") + wrap(m.lastReply) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("click or press any key to interrupt, q to quit"))

	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
	}
	return b.String()
}

func wrap(text string) string {
	return wordwrap.String(text, transcriptWrap)
}
