// Package protocol holds the A2UI wire types and the NDJSON codec used to turn
// server payloads into ordered message batches.
package protocol

// Message is one NDJSON line. Servers set exactly one field in practice, but the
// decoder forwards whatever is present and the store applies every field.
type Message struct {
	BeginRendering  *BeginRendering  `json:"beginRendering,omitempty"`
	SurfaceUpdate   *SurfaceUpdate   `json:"surfaceUpdate,omitempty"`
	DataModelUpdate *DataModelUpdate `json:"dataModelUpdate,omitempty"`
	DeleteSurface   *DeleteSurface   `json:"deleteSurface,omitempty"`
}

// BeginRendering names the surface and the component to render from.
type BeginRendering struct {
	SurfaceID string `json:"surfaceId"`
	Root      string `json:"root"`
}

// SurfaceUpdate upserts component definitions.
type SurfaceUpdate struct {
	SurfaceID  string      `json:"surfaceId"`
	Components []Component `json:"components"`
}

// DataModelUpdate carries binding-path keyed values.
type DataModelUpdate struct {
	SurfaceID string         `json:"surfaceId"`
	Contents  map[string]any `json:"contents"`
}

// DeleteSurface drops a surface's components and data.
type DeleteSurface struct {
	SurfaceID string `json:"surfaceId"`
}

// DataBinding points a component at a data model path.
type DataBinding struct {
	Path string `json:"path"`
}

// Action is attached to buttons and interpreted by the dispatcher.
type Action struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// StringData returns a non-empty string value stored under key.
func (a Action) StringData(key string) (string, bool) {
	if a.Data == nil {
		return "", false
	}
	s, ok := a.Data[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ClientMessage is the envelope posted back to the server.
type ClientMessage struct {
	Event *Event `json:"event,omitempty"`
}

// Event is a user interaction reported to the server.
type Event struct {
	SurfaceID   string         `json:"surfaceId"`
	ComponentID string         `json:"componentId"`
	Type        string         `json:"type"`
	Data        map[string]any `json:"data,omitempty"`
}

const (
	ActionSubmit   = "submit"
	ActionNavigate = "navigate"

	EventTypeAction = "action"
)
