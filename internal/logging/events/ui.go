package events

import "github.com/atomicstack/a2ui-term/internal/logging"

type UITracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Command = CommandTracer{}
)

func (UITracer) Focus(id string, index int) {
	logging.Trace("ui.focus", map[string]interface{}{"id": id, "index": index})
}

func (UITracer) Input(path, value string) {
	logging.Trace("ui.input", map[string]interface{}{"path": path, "value": value})
}

func (UITracer) Trigger(id, actionType string) {
	logging.Trace("ui.trigger", map[string]interface{}{"id": id, "type": actionType})
}

func (CommandTracer) Queue(token uint64, kind string) {
	logging.Trace("command.queue", map[string]interface{}{"token": token, "kind": kind})
}

func (CommandTracer) Result(token uint64, kind, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"token": token, "kind": kind, "msg": msgType})
}
