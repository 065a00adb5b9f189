package ui

import (
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

// handleTextInput forwards keys to the focused text field. A changed value
// is written to the overlay and the tree is re-resolved so bound text
// elsewhere on the surface follows the edit.
func (m *Model) handleTextInput(msg tea.KeyMsg) tea.Cmd {
	node, ok := m.focusedNode()
	if !ok || node.Kind != tree.NodeTextField {
		return nil
	}
	in, ok := m.inputs[node.ID]
	if !ok {
		return nil
	}
	before := in.Value()
	updated, cmd := in.Update(msg)
	*in = updated
	after := in.Value()
	if after == before {
		return cmd
	}
	if node.BindingPath != "" {
		m.store.SetOverlay(node.BindingPath, after)
		events.UI.Input(node.BindingPath, after)
		m.rebuild()
	}
	return cmd
}
