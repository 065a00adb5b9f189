package events

import "github.com/atomicstack/a2ui-term/internal/logging"

type ActionTracer struct{}

type TransportTracer struct{}

var (
	Action    = ActionTracer{}
	Transport = TransportTracer{}
)

func (ActionTracer) Plan(token uint64, kind, url string) {
	logging.Trace("action.plan", map[string]interface{}{"token": token, "kind": kind, "url": url})
}

func (ActionTracer) NoOp(actionType, reason string) {
	logging.Trace("action.noop", map[string]interface{}{"type": actionType, "reason": reason})
}

func (ActionTracer) Stale(token, latest uint64) {
	logging.Trace("action.stale", map[string]interface{}{"token": token, "latest": latest})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (TransportTracer) Request(id, method, url string, size int) {
	logging.Trace("transport.request", map[string]interface{}{"id": id, "method": method, "url": url, "bytes": size})
}

func (TransportTracer) Response(id string, status, size int) {
	logging.Trace("transport.response", map[string]interface{}{"id": id, "status": status, "bytes": size})
}
