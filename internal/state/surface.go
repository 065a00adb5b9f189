package state

import (
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/a2ui-term/internal/protocol"
)

// FormPrefix marks data model paths that seed the form overlay.
const FormPrefix = "/form/"

// Surface identifies the rendered surface and its root component.
type Surface struct {
	SurfaceID string
	RootID    string
}

// ApplyResult summarises what a batch changed.
type ApplyResult struct {
	SurfaceChanged bool
	Deleted        bool
	Components     int
	Keys           int
	Seeded         int
}

// SurfaceStore owns the registry, data model and form overlay. Callers only
// mutate it through Apply, Reset, ResetOverlay and SetOverlay.
type SurfaceStore interface {
	Apply([]protocol.Message) ApplyResult
	Reset()
	ResetOverlay()
	Surface() Surface
	Component(id string) (protocol.Component, bool)
	ComponentIDs() []string
	DataValue(path string) (any, bool)
	DataModel() map[string]any
	OverlayValue(path string) (any, bool)
	Overlay() map[string]any
	OverlayEntries(prefix string) map[string]any
	SetOverlay(path string, value any)
}

type surfaceStore struct {
	mu       sync.RWMutex
	surface  Surface
	registry map[string]protocol.Component
	data     map[string]any
	overlay  map[string]any
}

func NewSurfaceStore() SurfaceStore {
	return &surfaceStore{
		registry: make(map[string]protocol.Component),
		data:     make(map[string]any),
		overlay:  make(map[string]any),
	}
}

func (s *surfaceStore) Apply(messages []protocol.Message) ApplyResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res ApplyResult
	for _, msg := range messages {
		if begin := msg.BeginRendering; begin != nil {
			s.surface = Surface{SurfaceID: begin.SurfaceID, RootID: begin.Root}
			res.SurfaceChanged = true
		}
		if update := msg.SurfaceUpdate; update != nil {
			for _, comp := range update.Components {
				s.registry[comp.ID] = comp
				res.Components++
			}
		}
		if update := msg.DataModelUpdate; update != nil {
			for path, value := range update.Contents {
				s.data[path] = value
				res.Keys++
			}
		}
		if del := msg.DeleteSurface; del != nil && del.SurfaceID == s.surface.SurfaceID {
			s.clearLocked()
			s.surface = Surface{}
			res.Deleted = true
		}
	}
	res.Seeded = s.seedOverlayLocked()
	return res
}

// seedOverlayLocked copies /form/ data into the overlay without touching paths
// the user has already edited.
func (s *surfaceStore) seedOverlayLocked() int {
	seeded := 0
	for path, value := range s.data {
		if !strings.HasPrefix(path, FormPrefix) {
			continue
		}
		if _, exists := s.overlay[path]; exists {
			continue
		}
		s.overlay[path] = value
		seeded++
	}
	return seeded
}

func (s *surfaceStore) Reset() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

func (s *surfaceStore) clearLocked() {
	s.registry = make(map[string]protocol.Component)
	s.data = make(map[string]any)
}

func (s *surfaceStore) ResetOverlay() {
	s.mu.Lock()
	s.overlay = make(map[string]any)
	s.mu.Unlock()
}

func (s *surfaceStore) Surface() Surface {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surface
}

func (s *surfaceStore) Component(id string) (protocol.Component, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.registry[id]
	return comp, ok
}

func (s *surfaceStore) ComponentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *surfaceStore) DataValue(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[path]
	return v, ok
}

func (s *surfaceStore) DataModel() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.data)
}

func (s *surfaceStore) OverlayValue(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.overlay[path]
	return v, ok
}

func (s *surfaceStore) Overlay() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.overlay)
}

func (s *surfaceStore) OverlayEntries(prefix string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any)
	for path, value := range s.overlay {
		if strings.HasPrefix(path, prefix) {
			out[path] = value
		}
	}
	return out
}

func (s *surfaceStore) SetOverlay(path string, value any) {
	s.mu.Lock()
	s.overlay[path] = value
	s.mu.Unlock()
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
