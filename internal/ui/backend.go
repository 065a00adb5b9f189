package ui

import (
	"fmt"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/atomicstack/a2ui-term/internal/data/dispatcher"
	"github.com/atomicstack/a2ui-term/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend runs planned requests and streams back their results.
type Backend interface {
	Submit(backend.Request) bool
	Events() <-chan backend.Event
}

func waitForBackendEvent(b Backend) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-b.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	out, err := m.dispatcher.Handle(evt)
	m.applyOutcome(out, err)
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyOutcome refreshes the view after the dispatcher has folded a response
// into the store. Stale responses change nothing.
func (m *Model) applyOutcome(out dispatcher.Outcome, err error) {
	if out.Stale {
		return
	}
	if err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
		m.forceClearInfo()
		return
	}
	m.errMsg = ""
	m.rebuild()
	if m.verbose {
		m.setInfo(fmt.Sprintf("%s: %d components, %d values", out.Kind, out.Applied.Components, out.Applied.Keys))
	}
}
