package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/a2ui-term/internal/data/dispatcher"
	"github.com/atomicstack/a2ui-term/internal/logging"
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/atomicstack/a2ui-term/internal/ui/command"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// trigger plans the action of a button and hands it to the backend.
func (m *Model) trigger(node tree.Node) tea.Cmd {
	if node.Action == nil {
		return nil
	}
	events.UI.Trigger(node.ID, node.Action.Type)
	req, err := m.dispatcher.Plan(*node.Action)
	if errors.Is(err, dispatcher.ErrNoOp) {
		if m.verbose {
			m.setInfo(fmt.Sprintf("%s does nothing", node.ID))
		}
		return nil
	}
	if err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	return m.bus.Submit(req)
}

// reload fetches the initial surface again.
func (m *Model) reload() tea.Cmd {
	if m.initialPath == "" {
		return nil
	}
	return m.bus.Submit(m.dispatcher.PlanLoad(m.initialPath))
}

func (m *Model) handleQueuedMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(command.QueuedMsg); !ok {
		return nil
	}
	return m.spinner.Tick
}

func (m *Model) handleRejectedMsg(msg tea.Msg) tea.Cmd {
	rejected, ok := msg.(command.RejectedMsg)
	if !ok {
		return nil
	}
	out, err := m.dispatcher.Complete(rejected.Request, "", rejected.Err)
	m.applyOutcome(out, err)
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !m.dispatcher.Loading() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}
