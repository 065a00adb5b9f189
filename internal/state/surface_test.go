package state

import (
	"testing"

	"github.com/atomicstack/a2ui-term/internal/protocol"
	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func textComponent(id, text string) protocol.Component {
	return protocol.Component{ID: id, Variant: protocol.Text{Text: strPtr(text)}}
}

func surfaceUpdate(comps ...protocol.Component) protocol.Message {
	return protocol.Message{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s1", Components: comps}}
}

func dataUpdate(contents map[string]any) protocol.Message {
	return protocol.Message{DataModelUpdate: &protocol.DataModelUpdate{SurfaceID: "s1", Contents: contents}}
}

func TestApplyBeginRenderingSetsSurface(t *testing.T) {
	s := NewSurfaceStore()
	res := s.Apply([]protocol.Message{
		surfaceUpdate(textComponent("root", "Hello")),
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "s1", Root: "root"}},
	})
	if !res.SurfaceChanged {
		t.Fatalf("expected surface change to be reported")
	}
	if got := s.Surface(); got != (Surface{SurfaceID: "s1", RootID: "root"}) {
		t.Fatalf("unexpected surface %#v", got)
	}
}

func TestApplyUpsertsComponentsWithoutMerging(t *testing.T) {
	s := NewSurfaceStore()
	s.Apply([]protocol.Message{surfaceUpdate(protocol.Component{ID: "a", Variant: protocol.Text{
		Text:        strPtr("first"),
		DataBinding: &protocol.DataBinding{Path: "/x"},
	}})})
	s.Apply([]protocol.Message{surfaceUpdate(textComponent("a", "second"))})

	comp, ok := s.Component("a")
	if !ok {
		t.Fatalf("expected component a")
	}
	want := textComponent("a", "second")
	if diff := cmp.Diff(want, comp); diff != "" {
		t.Fatalf("expected second body only (-want +got):\n%s", diff)
	}
}

func TestApplyLastDuplicateInBatchWins(t *testing.T) {
	s := NewSurfaceStore()
	res := s.Apply([]protocol.Message{surfaceUpdate(textComponent("a", "one"), textComponent("a", "two"))})
	if res.Components != 2 {
		t.Fatalf("expected 2 upserts counted, got %d", res.Components)
	}
	comp, _ := s.Component("a")
	if got, _ := comp.Variant.(protocol.Text).Literal(); got != "two" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestApplyDataModelShallowMerge(t *testing.T) {
	s := NewSurfaceStore()
	s.Apply([]protocol.Message{dataUpdate(map[string]any{
		"/a": map[string]any{"x": 1.0, "y": 2.0},
		"/b": "keep",
	})})
	s.Apply([]protocol.Message{dataUpdate(map[string]any{
		"/a": map[string]any{"z": 3.0},
	})})
	want := map[string]any{
		"/a": map[string]any{"z": 3.0},
		"/b": "keep",
	}
	if diff := cmp.Diff(want, s.DataModel()); diff != "" {
		t.Fatalf("data model mismatch (-want +got):\n%s", diff)
	}
}

func TestApplySeedsOverlayWithoutClobbering(t *testing.T) {
	s := NewSurfaceStore()
	res := s.Apply([]protocol.Message{dataUpdate(map[string]any{
		"/form/name": "Bob",
		"/form/time": "19:00",
		"/title":     "Booking",
	})})
	if res.Seeded != 2 {
		t.Fatalf("expected 2 seeded entries, got %d", res.Seeded)
	}
	s.SetOverlay("/form/name", "Alice")
	s.Apply([]protocol.Message{dataUpdate(map[string]any{
		"/form/name":  "Server",
		"/form/party": "4",
	})})
	want := map[string]any{
		"/form/name":  "Alice",
		"/form/time":  "19:00",
		"/form/party": "4",
	}
	if diff := cmp.Diff(want, s.Overlay()); diff != "" {
		t.Fatalf("overlay mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.DataValue("/form/name"); v != "Server" {
		t.Fatalf("expected data model to take the server value, got %v", v)
	}
}

func TestApplyExtendsPriorState(t *testing.T) {
	s := NewSurfaceStore()
	batch := []protocol.Message{surfaceUpdate(textComponent("a", "A"))}
	s.Apply(batch)
	s.Apply([]protocol.Message{surfaceUpdate(textComponent("b", "B"))})
	s.Apply(batch)
	if diff := cmp.Diff([]string{"a", "b"}, s.ComponentIDs()); diff != "" {
		t.Fatalf("component ids mismatch (-want +got):\n%s", diff)
	}
}

func TestResetKeepsOverlay(t *testing.T) {
	s := NewSurfaceStore()
	s.Apply([]protocol.Message{
		surfaceUpdate(textComponent("a", "A")),
		dataUpdate(map[string]any{"/form/name": "Bob"}),
	})
	s.Reset()
	if _, ok := s.Component("a"); ok {
		t.Fatalf("expected registry cleared")
	}
	if _, ok := s.DataValue("/form/name"); ok {
		t.Fatalf("expected data model cleared")
	}
	if v, ok := s.OverlayValue("/form/name"); !ok || v != "Bob" {
		t.Fatalf("expected overlay to survive reset, got %v", v)
	}
	s.ResetOverlay()
	if len(s.Overlay()) != 0 {
		t.Fatalf("expected overlay cleared")
	}
}

func TestDeleteSurfaceClearsMatchingSurface(t *testing.T) {
	s := NewSurfaceStore()
	s.Apply([]protocol.Message{
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "s1", Root: "a"}},
		surfaceUpdate(textComponent("a", "A")),
	})
	res := s.Apply([]protocol.Message{{DeleteSurface: &protocol.DeleteSurface{SurfaceID: "other"}}})
	if res.Deleted {
		t.Fatalf("expected other surface deletion to be ignored")
	}
	res = s.Apply([]protocol.Message{{DeleteSurface: &protocol.DeleteSurface{SurfaceID: "s1"}}})
	if !res.Deleted {
		t.Fatalf("expected deletion")
	}
	if _, ok := s.Component("a"); ok {
		t.Fatalf("expected registry cleared")
	}
	if got := s.Surface(); got != (Surface{}) {
		t.Fatalf("expected empty surface, got %#v", got)
	}
}

func TestOverlayEntriesFiltersPrefix(t *testing.T) {
	s := NewSurfaceStore()
	s.SetOverlay("/form/name", "Ann")
	s.SetOverlay("/other", 1)
	got := s.OverlayEntries(FormPrefix)
	if diff := cmp.Diff(map[string]any{"/form/name": "Ann"}, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestDataModelReturnsCopy(t *testing.T) {
	s := NewSurfaceStore()
	s.Apply([]protocol.Message{dataUpdate(map[string]any{"/a": 1.0})})
	snapshot := s.DataModel()
	snapshot["/a"] = 2.0
	if v, _ := s.DataValue("/a"); v != 1.0 {
		t.Fatalf("expected store to be unaffected by copy mutation, got %v", v)
	}
}
