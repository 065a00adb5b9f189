package ui

import (
	"time"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
// Spinner ticks are not replayed, and batched commands are not expanded, so
// nothing blocks on the backend unless Await is called.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// Run executes cmd and feeds its result back into the model.
func (h *Harness) Run(cmd tea.Cmd) {
	h.processCmd(cmd)
}

// Type sends each rune of text as a key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Key sends a special key such as tea.KeyEnter or tea.KeyTab.
func (h *Harness) Key(k tea.KeyType) {
	h.Send(tea.KeyMsg{Type: k})
}

// Deliver hands a backend event to the model as if the worker produced it.
func (h *Harness) Deliver(evt backend.Event) {
	if h.model == nil {
		return
	}
	h.model.applyBackendEvent(evt)
}

// Await waits for the next event from b and delivers it. It reports false on
// timeout or when b has shut down.
func (h *Harness) Await(b Backend, timeout time.Duration) bool {
	select {
	case evt, ok := <-b.Events():
		if !ok {
			return false
		}
		h.Deliver(evt)
		return true
	case <-time.After(timeout):
		return false
	}
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, ok := msg.(spinner.TickMsg); ok {
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
