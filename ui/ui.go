package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	orchestration "github.com/menschrobotics/ruby-core/core"
	"github.com/menschrobotics/ruby-core/core/events"
)

// UI owns the bubbletea program and forwards orchestrator events into it.
type UI struct {
	program *tea.Program

	// messages funnels every notification through one goroutine so phase and
	// event messages arrive in the order they were emitted.
	messages chan tea.Msg
}

// New builds the status display. onInterrupt is invoked when the user clicks
// or presses a key while the robot is speaking.
func New(onInterrupt func()) *UI {
	ui := &UI{messages: make(chan tea.Msg, 64)}
	ui.program = tea.NewProgram(
		NewModel(onInterrupt),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	return ui
}

// Run blocks until the user quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		u.program.Quit()
	}()
	go func() {
		for msg := range u.messages {
			u.program.Send(msg)
		}
	}()

	if _, err := u.program.Run(); err != nil {
		return fmt.Errorf("status display failed: %w", err)
	}
	return nil
}

// NotifyPhase forwards a phase change. Safe to call from any goroutine and
// never blocks the caller; when the display falls behind, notifications are
// dropped rather than stalling the turn loop.
func (u *UI) NotifyPhase(phase orchestration.Phase) {
	u.send(phaseMsg{Phase: phase})
}

// NotifyEvent forwards any orchestrator event.
func (u *UI) NotifyEvent(event events.Event) {
	u.send(eventMsg{Event: event})
}

func (u *UI) send(msg tea.Msg) {
	select {
	case u.messages <- msg:
	default:
	}
}
