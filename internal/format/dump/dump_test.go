package dump

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/a2ui-term/internal/binding"
	"github.com/atomicstack/a2ui-term/internal/protocol"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/testutil"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func str(s string) *string { return &s }

func simpleSurface(t *testing.T) (state.SurfaceStore, *tree.Node) {
	t.Helper()
	store := state.NewSurfaceStore()
	store.Apply([]protocol.Message{
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "s1", Root: "root"}},
		{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s1", Components: []protocol.Component{
			{ID: "root", Variant: protocol.Column{Children: []string{"title", "name-field", "go"}}},
			{ID: "title", Variant: protocol.Text{Text: str("Hello")}},
			{ID: "name-field", Variant: protocol.TextField{Label: str("Name"), DataBinding: &protocol.DataBinding{Path: "/form/name"}}},
			{ID: "go", Variant: protocol.Button{Text: "Go", Action: protocol.Action{
				Type: protocol.ActionSubmit,
				Data: map[string]any{"endpoint": "/submit"},
			}}},
		}}},
		{DataModelUpdate: &protocol.DataModelUpdate{SurfaceID: "s1", Contents: map[string]any{"/form/name": "Ann"}}},
	})
	root, err := tree.NewResolver(store, binding.NewResolver(store)).Resolve("root")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return store, &root
}

func TestWriteTable(t *testing.T) {
	store, root := simpleSurface(t)
	var b strings.Builder
	if err := Write(&b, FormatTable, store, root, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	testutil.AssertGolden(t, "simple_table", b.String())
}

func TestWriteYAML(t *testing.T) {
	store, root := simpleSurface(t)
	var b strings.Builder
	if err := Write(&b, FormatYAML, store, root, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	var doc Document
	if err := yaml.Unmarshal([]byte(b.String()), &doc); err != nil {
		t.Fatalf("yaml output does not parse: %v\n%s", err, b.String())
	}
	if doc.Surface != "s1" || doc.Root != "root" {
		t.Fatalf("unexpected header %q/%q", doc.Surface, doc.Root)
	}
	if doc.Tree == nil || len(doc.Tree.Children) != 3 {
		t.Fatalf("expected three children, got %#v", doc.Tree)
	}
	field := doc.Tree.Children[1]
	want := Node{ID: "name-field", Kind: "textField", Label: "Name", Value: "Ann", Binding: "/form/name"}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Fatalf("unexpected field (-want +got):\n%s", diff)
	}
	button := doc.Tree.Children[2]
	if button.Action == nil || button.Action.Type != protocol.ActionSubmit || button.Action.Data["endpoint"] != "/submit" {
		t.Fatalf("unexpected button %#v", button)
	}
	if doc.Data["/form/name"] != "Ann" || doc.Overlay["/form/name"] != "Ann" {
		t.Fatalf("unexpected values data=%v overlay=%v", doc.Data, doc.Overlay)
	}
}

func TestWriteWithoutRoot(t *testing.T) {
	store := state.NewSurfaceStore()
	store.Apply([]protocol.Message{{BeginRendering: &protocol.BeginRendering{SurfaceID: "s1", Root: "root"}}})
	var b strings.Builder
	if err := Write(&b, FormatTable, store, nil, errors.New("component not found")); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "no root component \"root\"\n\nerror: component not found\n"
	if b.String() != want {
		t.Fatalf("unexpected output %q", b.String())
	}

	b.Reset()
	if err := Write(&b, FormatYAML, store, nil, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(b.String(), "tree:") {
		t.Fatalf("expected no tree, got\n%s", b.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	store, root := simpleSurface(t)
	if err := Write(&strings.Builder{}, "xml", store, root, nil); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCleanStripsControls(t *testing.T) {
	if got := clean("\x1b[31mred\x1b[0m\tx\ny"); got != "red x y" {
		t.Fatalf("unexpected %q", got)
	}
}
