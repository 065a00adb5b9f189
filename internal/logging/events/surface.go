package events

import "github.com/atomicstack/a2ui-term/internal/logging"

type SurfaceTracer struct{}

var Surface = SurfaceTracer{}

func (SurfaceTracer) Apply(surfaceID string, messages, components, keys, seeded int) {
	logging.Trace("surface.apply", map[string]interface{}{
		"surface":    surfaceID,
		"messages":   messages,
		"components": components,
		"keys":       keys,
		"seeded":     seeded,
	})
}

func (SurfaceTracer) DecodeError(err error) {
	if err == nil {
		return
	}
	logging.Trace("surface.decode.error", map[string]interface{}{"error": err.Error()})
}

func (SurfaceTracer) Reset(clearOverlay bool) {
	logging.Trace("surface.reset", map[string]interface{}{"overlay": clearOverlay})
}

func (SurfaceTracer) ResolveError(err error) {
	if err == nil {
		return
	}
	logging.Trace("surface.resolve.error", map[string]interface{}{"error": err.Error()})
}
