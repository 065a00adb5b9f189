package command

import (
	"fmt"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Submitter accepts planned requests for background execution.
type Submitter interface {
	Submit(backend.Request) bool
}

// QueuedMsg reports that a request was handed to the backend.
type QueuedMsg struct {
	Request backend.Request
}

// RejectedMsg reports that the backend refused a request, normally because
// it has been stopped.
type RejectedMsg struct {
	Request backend.Request
	Err     error
}

// Bus coordinates the hand-off of planned requests to the backend worker.
type Bus struct {
	submitter Submitter
}

// New initialises a command bus instance.
func New(submitter Submitter) *Bus {
	return &Bus{submitter: submitter}
}

// Submit wraps a request hand-off into a Bubble Tea command while emitting
// trace logs. The response arrives later as a backend event.
func (b *Bus) Submit(req backend.Request) tea.Cmd {
	events.Command.Queue(req.Token, req.Kind.String())
	return func() tea.Msg {
		var msg tea.Msg
		if b.submitter == nil || !b.submitter.Submit(req) {
			msg = RejectedMsg{Request: req, Err: fmt.Errorf("%s %s: backend unavailable", req.Kind, req.URL)}
		} else {
			msg = QueuedMsg{Request: req}
		}
		events.Command.Result(req.Token, req.Kind.String(), fmt.Sprintf("%T", msg))
		return msg
	}
}
