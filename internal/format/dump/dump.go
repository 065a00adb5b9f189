// Package dump renders a resolved surface once, for scripting and debugging
// without the interactive UI.
package dump

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/atomicstack/a2ui-term/internal/format/table"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/charmbracelet/x/ansi"
	"gopkg.in/yaml.v3"
)

const (
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Document is the YAML shape of a dumped surface.
type Document struct {
	Surface string         `yaml:"surface"`
	Root    string         `yaml:"root"`
	Tree    *Node          `yaml:"tree,omitempty"`
	Data    map[string]any `yaml:"data,omitempty"`
	Overlay map[string]any `yaml:"overlay,omitempty"`
	Errors  []string       `yaml:"errors,omitempty"`
}

type Node struct {
	ID          string   `yaml:"id"`
	Kind        string   `yaml:"kind"`
	Text        string   `yaml:"text,omitempty"`
	Label       string   `yaml:"label,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Value       string   `yaml:"value,omitempty"`
	Binding     string   `yaml:"binding,omitempty"`
	Action      *Action  `yaml:"action,omitempty"`
	Error       string   `yaml:"error,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty"`
	Children    []Node   `yaml:"children,omitempty"`
}

type Action struct {
	Type string         `yaml:"type"`
	Data map[string]any `yaml:"data,omitempty"`
}

// Build snapshots the store and the resolved tree. root is nil when the
// surface has no resolvable root yet.
func Build(store state.SurfaceStore, root *tree.Node, resolveErr error) Document {
	surface := store.Surface()
	doc := Document{
		Surface: surface.SurfaceID,
		Root:    surface.RootID,
		Data:    store.DataModel(),
		Overlay: store.Overlay(),
	}
	if len(doc.Data) == 0 {
		doc.Data = nil
	}
	if len(doc.Overlay) == 0 {
		doc.Overlay = nil
	}
	if root != nil {
		n := convert(*root)
		doc.Tree = &n
	}
	if resolveErr != nil {
		doc.Errors = strings.Split(resolveErr.Error(), "\n")
	}
	return doc
}

func convert(n tree.Node) Node {
	out := Node{
		ID:          n.ID,
		Kind:        n.Kind.String(),
		Text:        n.Text,
		Label:       n.Label,
		Placeholder: n.Placeholder,
		Value:       n.Value,
		Binding:     n.BindingPath,
		Suggestions: n.Suggestions,
	}
	if n.Action != nil {
		out.Action = &Action{Type: n.Action.Type, Data: n.Action.Data}
	}
	if n.Err != nil {
		out.Error = n.Err.Error()
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, convert(child))
	}
	return out
}

// Write renders the surface in the requested format.
func Write(w io.Writer, format string, store state.SurfaceStore, root *tree.Node, resolveErr error) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Build(store, root, resolveErr)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(w, store, root, resolveErr)
	default:
		return fmt.Errorf("unknown dump format %q", format)
	}
}

func writeTable(w io.Writer, store state.SurfaceStore, root *tree.Node, resolveErr error) error {
	var lines []string
	if root != nil {
		rows := [][]string{{"ID", "KIND", "CONTENT"}}
		tree.Walk(*root, func(n tree.Node, depth int) bool {
			rows = append(rows, []string{strings.Repeat("  ", depth) + clean(n.ID), n.Kind.String(), describe(n)})
			return true
		})
		lines = append(lines, table.Format(rows, nil)...)
	} else {
		lines = append(lines, fmt.Sprintf("no root component %q", store.Surface().RootID))
	}

	rows := [][]string{{"PATH", "SOURCE", "VALUE"}}
	rows = appendValues(rows, "data", store.DataModel())
	rows = appendValues(rows, "overlay", store.Overlay())
	if len(rows) > 1 {
		lines = append(lines, "")
		lines = append(lines, table.Format(rows, nil)...)
	}
	if resolveErr != nil {
		lines = append(lines, "")
		for _, msg := range strings.Split(resolveErr.Error(), "\n") {
			lines = append(lines, "error: "+clean(msg))
		}
	}

	for _, line := range lines {
		if _, err := io.WriteString(w, strings.TrimRight(line, " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func appendValues(rows [][]string, source string, values map[string]any) [][]string {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		rows = append(rows, []string{clean(p), source, clean(fmt.Sprint(values[p]))})
	}
	return rows
}

func describe(n tree.Node) string {
	switch n.Kind {
	case tree.NodeText:
		return strconv.Quote(clean(n.Text))
	case tree.NodeTextField:
		out := fmt.Sprintf("%s = %q", clean(n.Label), clean(n.Value))
		if n.BindingPath != "" {
			out += " (" + clean(n.BindingPath) + ")"
		}
		return out
	case tree.NodeButton:
		out := strconv.Quote(clean(n.Text))
		if n.Action != nil {
			out += " -> " + clean(n.Action.Type)
			if target, ok := n.Action.StringData("endpoint"); ok {
				out += " " + clean(target)
			} else if target, ok := n.Action.StringData("url"); ok {
				out += " " + clean(target)
			}
		}
		return out
	case tree.NodePlaceholder:
		if len(n.Suggestions) > 0 {
			return "missing; did you mean " + clean(strings.Join(n.Suggestions, ", "))
		}
		return "missing"
	case tree.NodeError:
		if n.Err != nil {
			return clean(n.Err.Error())
		}
		return "error"
	default:
		return ""
	}
}

// clean keeps server text from moving the cursor or restyling the terminal.
func clean(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
