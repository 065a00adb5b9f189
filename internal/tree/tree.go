// Package tree walks the component registry from a root id and produces a
// render-agnostic structure with bindings already resolved.
package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/atomicstack/a2ui-term/internal/binding"
	"github.com/atomicstack/a2ui-term/internal/protocol"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	DefaultMaxDepth    = 64
	DefaultMaxNodes    = 10000
	DefaultSuggestions = 3

	reasonNodeBudget = "node budget exceeded"
)

// NodeKind tags a resolved node.
type NodeKind int

const (
	NodePlaceholder NodeKind = iota
	NodeColumn
	NodeRow
	NodeCard
	NodeText
	NodeTextField
	NodeButton
	NodeError
)

var nodeKindNames = []string{
	NodePlaceholder: "placeholder",
	NodeColumn:      "column",
	NodeRow:         "row",
	NodeCard:        "card",
	NodeText:        "text",
	NodeTextField:   "textField",
	NodeButton:      "button",
	NodeError:       "error",
}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "unknown"
	}
	return nodeKindNames[k]
}

// Node is one resolved component.
type Node struct {
	ID          string
	Kind        NodeKind
	Children    []Node
	Text        string
	Label       string
	Placeholder string
	Value       string
	BindingPath string
	Action      *protocol.Action
	Err         error
	// Suggestions lists registry ids close to a missing child id.
	Suggestions []string
}

// ErrNotFound is returned when the requested root is not in the registry.
var ErrNotFound = errors.New("component not found")

// ResolutionError reports a cycle or runaway depth in one subtree.
type ResolutionError struct {
	ID     string
	Path   []string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %s (path %s)", e.ID, e.Reason, strings.Join(e.Path, " > "))
}

// Registry is the lookup side of the surface store.
type Registry interface {
	Component(id string) (protocol.Component, bool)
	ComponentIDs() []string
}

// Resolver turns registry entries into Nodes.
type Resolver struct {
	registry    Registry
	bindings    *binding.Resolver
	maxDepth    int
	maxNodes    int
	suggestions int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds nesting depth; values <= 0 keep the default.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithMaxNodes bounds how many nodes one Resolve may produce, so a registry
// that reuses a child many times cannot expand without limit. Values <= 0
// keep the default.
func WithMaxNodes(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxNodes = n
		}
	}
}

// WithSuggestions sets how many near-miss ids a placeholder carries.
func WithSuggestions(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.suggestions = n
		}
	}
}

func NewResolver(registry Registry, bindings *binding.Resolver, opts ...Option) *Resolver {
	r := &Resolver{
		registry:    registry,
		bindings:    bindings,
		maxDepth:    DefaultMaxDepth,
		maxNodes:    DefaultMaxNodes,
		suggestions: DefaultSuggestions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve builds the tree rooted at id. A missing root yields ErrNotFound.
// Cycles, depth overflows and an exhausted node budget become NodeError entries in place of the
// offending subtree; the returned error joins every ResolutionError met so
// callers can report them while still rendering the rest.
func (r *Resolver) Resolve(id string) (Node, error) {
	if _, ok := r.registry.Component(id); !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	w := &walker{resolver: r, visiting: make(map[string]bool)}
	node, err := w.resolve(id, 0)
	if err != nil {
		return errorNode(id, err), err
	}
	return node, errors.Join(w.errs...)
}

type walker struct {
	resolver *Resolver
	visiting map[string]bool
	path     []string
	errs     []error
	ids      []string
	idsReady bool

	nodes          int
	budgetReported bool
}

func (w *walker) resolve(id string, depth int) (Node, error) {
	if w.visiting[id] {
		return Node{}, w.fail(id, "cycle detected")
	}
	if depth > w.resolver.maxDepth {
		return Node{}, w.fail(id, fmt.Sprintf("depth exceeds %d", w.resolver.maxDepth))
	}
	if w.nodes >= w.resolver.maxNodes {
		return Node{}, w.fail(id, reasonNodeBudget)
	}
	w.nodes++
	comp, ok := w.resolver.registry.Component(id)
	if !ok {
		return Node{ID: id, Kind: NodePlaceholder, Suggestions: w.suggest(id)}, nil
	}

	w.visiting[id] = true
	w.path = append(w.path, id)
	defer func() {
		delete(w.visiting, id)
		w.path = w.path[:len(w.path)-1]
	}()

	switch v := comp.Variant.(type) {
	case protocol.Column:
		return Node{ID: id, Kind: NodeColumn, Children: w.children(v.Children, depth)}, nil
	case protocol.Row:
		return Node{ID: id, Kind: NodeRow, Children: w.children(v.Children, depth)}, nil
	case protocol.Card:
		return Node{ID: id, Kind: NodeCard, Children: w.children([]string{v.Child}, depth)}, nil
	case protocol.Text:
		text, ok := v.Literal()
		if !ok {
			text = w.resolver.bindings.ResolveString(v.BindingPath())
		}
		return Node{ID: id, Kind: NodeText, Text: text}, nil
	case protocol.TextField:
		node := Node{
			ID:          id,
			Kind:        NodeTextField,
			Label:       deref(v.Label),
			Placeholder: deref(v.Placeholder),
			Value:       w.resolver.bindings.ResolveString(v.BindingPath()),
		}
		if p := v.BindingPath(); p != nil {
			node.BindingPath = *p
		}
		return node, nil
	case protocol.Button:
		action := v.Action
		return Node{ID: id, Kind: NodeButton, Text: v.Text, Action: &action}, nil
	default:
		return Node{ID: id, Kind: NodePlaceholder}, nil
	}
}

// children resolves each id independently so one bad child cannot take the
// parent down with it.
func (w *walker) children(ids []string, depth int) []Node {
	out := make([]Node, 0, len(ids))
	for _, childID := range ids {
		child, err := w.resolve(childID, depth+1)
		if err != nil {
			if w.record(err) {
				w.errs = append(w.errs, err)
			}
			out = append(out, errorNode(childID, err))
			continue
		}
		out = append(out, child)
	}
	return out
}

// record reports whether err should be returned to the caller. Only the
// first node budget failure is kept; the rest are the same problem.
func (w *walker) record(err error) bool {
	var rerr *ResolutionError
	if !errors.As(err, &rerr) || rerr.Reason != reasonNodeBudget {
		return true
	}
	if w.budgetReported {
		return false
	}
	w.budgetReported = true
	return true
}

func (w *walker) fail(id, reason string) error {
	path := append(append([]string(nil), w.path...), id)
	return &ResolutionError{ID: id, Path: path, Reason: reason}
}

func (w *walker) suggest(id string) []string {
	limit := w.resolver.suggestions
	if limit == 0 || id == "" {
		return nil
	}
	if !w.idsReady {
		w.ids = w.resolver.registry.ComponentIDs()
		w.idsReady = true
	}
	out := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	ranks := fuzzy.RankFindNormalizedFold(id, w.ids)
	sort.Sort(ranks)
	for _, rank := range ranks {
		if len(out) == limit {
			return out
		}
		out = append(out, rank.Target)
		seen[rank.Target] = true
	}

	// Typos that are not subsequences still count when the edit distance is
	// small relative to the id.
	maxDist := max(2, len(id)/3)
	type near struct {
		id   string
		dist int
	}
	var nearby []near
	for _, candidate := range w.ids {
		if seen[candidate] {
			continue
		}
		if d := levenshtein.ComputeDistance(id, candidate); d <= maxDist {
			nearby = append(nearby, near{candidate, d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].dist != nearby[j].dist {
			return nearby[i].dist < nearby[j].dist
		}
		return nearby[i].id < nearby[j].id
	})
	for _, c := range nearby {
		if len(out) == limit {
			break
		}
		out = append(out, c.id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func errorNode(id string, err error) Node {
	return Node{ID: id, Kind: NodeError, Err: err}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
