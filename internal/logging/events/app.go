package events

import "github.com/atomicstack/a2ui-term/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Dump(format, url string) {
	logging.Trace("app.dump", map[string]interface{}{"format": format, "url": url})
}
