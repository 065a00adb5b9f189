package ui

import (
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Home     key.Binding
	End      key.Binding
	Activate key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Home:     key.NewBinding(key.WithKeys("ctrl+home")),
		End:      key.NewBinding(key.WithKeys("ctrl+end")),
		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "activate")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Activate, k.Reload, k.Quit}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		m.moveFocus(m.focus.Next)
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveFocus(m.focus.Prev)
	case key.Matches(keyMsg, m.keys.Home):
		m.moveFocus(m.focus.Home)
	case key.Matches(keyMsg, m.keys.End):
		m.moveFocus(m.focus.End)
	case key.Matches(keyMsg, m.keys.Activate):
		return m.handleEnterKey()
	case key.Matches(keyMsg, m.keys.Reload):
		m.forceClearInfo()
		return m.reload()
	default:
		return m.handleTextInput(keyMsg)
	}
	return nil
}

// handleEnterKey activates a focused button or advances past a text field.
func (m *Model) handleEnterKey() tea.Cmd {
	node, ok := m.focusedNode()
	if !ok {
		return nil
	}
	switch node.Kind {
	case tree.NodeButton:
		return m.trigger(node)
	case tree.NodeTextField:
		m.moveFocus(m.focus.Next)
	}
	return nil
}

func (m *Model) moveFocus(move func() bool) {
	if !move() {
		return
	}
	m.applyFocus()
	if id, ok := m.focus.Current(); ok {
		events.UI.Focus(id, m.focus.Index)
	}
}
