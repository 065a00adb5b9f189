package ui

import (
	"errors"
	"reflect"
	"time"

	"github.com/atomicstack/a2ui-term/internal/data/dispatcher"
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/theme"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/atomicstack/a2ui-term/internal/ui/command"
	uistate "github.com/atomicstack/a2ui-term/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to the surface engine.
type Options struct {
	Store       state.SurfaceStore
	Dispatcher  *dispatcher.Dispatcher
	Resolver    *tree.Resolver
	Backend     Backend
	InitialPath string
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
}

// Model implements the Bubble Tea model that renders one A2UI surface.
type Model struct {
	store      state.SurfaceStore
	dispatcher *dispatcher.Dispatcher
	resolver   *tree.Resolver
	backend    Backend
	bus        *command.Bus

	root       tree.Node
	hasRoot    bool
	resolveErr error
	focus      *uistate.Focus
	inputs     map[string]*textinput.Model

	spinner     spinner.Model
	help        help.Model
	keys        keyMap
	initialPath string
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the UI around an existing store, dispatcher and resolver.
func NewModel(opts Options) *Model {
	m := &Model{
		store:       opts.Store,
		dispatcher:  opts.Dispatcher,
		resolver:    opts.Resolver,
		backend:     opts.Backend,
		focus:       uistate.NewFocus(),
		inputs:      make(map[string]*textinput.Model),
		help:        help.New(),
		keys:        defaultKeyMap(),
		initialPath: opts.InitialPath,
		showFooter:  opts.ShowFooter,
		verbose:     opts.Verbose,
	}
	m.bus = command.New(opts.Backend)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	if styles.Loading != nil {
		m.spinner.Style = *styles.Loading
	}
	m.registerHandlers()
	m.rebuild()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.initialPath != "" {
		cmds = append(cmds, m.reload())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(spinner.TickMsg{}):     m.handleSpinnerTickMsg,
		reflect.TypeOf(backendEventMsg{}):     m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):      m.handleBackendDoneMsg,
		reflect.TypeOf(command.QueuedMsg{}):   m.handleQueuedMsg,
		reflect.TypeOf(command.RejectedMsg{}): m.handleRejectedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// rebuild re-resolves the tree from the store and brings inputs and focus in
// line with it. Call after anything that may have changed the store.
func (m *Model) rebuild() {
	surface := m.store.Surface()
	m.root = tree.Node{}
	m.hasRoot = false
	m.resolveErr = nil
	if surface.RootID != "" {
		node, err := m.resolver.Resolve(surface.RootID)
		m.resolveErr = err
		if err != nil {
			events.Surface.ResolveError(err)
		}
		if !errors.Is(err, tree.ErrNotFound) {
			m.root = node
			m.hasRoot = true
		}
	}
	m.syncInputs()
	m.syncFocus()
}

func (m *Model) syncInputs() {
	seen := make(map[string]struct{})
	if m.hasRoot {
		tree.Walk(m.root, func(n tree.Node, _ int) bool {
			if n.Kind != tree.NodeTextField {
				return true
			}
			seen[n.ID] = struct{}{}
			in, ok := m.inputs[n.ID]
			if !ok {
				in = newInput()
				m.inputs[n.ID] = in
			}
			in.Placeholder = sanitize(n.Placeholder)
			if n.BindingPath != "" && in.Value() != n.Value {
				in.SetValue(n.Value)
			}
			return true
		})
	}
	for id := range m.inputs {
		if _, ok := seen[id]; !ok {
			delete(m.inputs, id)
		}
	}
}

func (m *Model) syncFocus() {
	ids := []string{}
	if m.hasRoot {
		for _, n := range tree.Focusables(m.root) {
			ids = append(ids, n.ID)
		}
	}
	if m.focus.Sync(ids) {
		if id, ok := m.focus.Current(); ok {
			events.UI.Focus(id, m.focus.Index)
		}
	}
	m.applyFocus()
}

func (m *Model) applyFocus() {
	current, _ := m.focus.Current()
	for id, in := range m.inputs {
		if id == current {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m *Model) focusedNode() (tree.Node, bool) {
	id, ok := m.focus.Current()
	if !ok || !m.hasRoot {
		return tree.Node{}, false
	}
	return tree.Find(m.root, id)
}

func newInput() *textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Cursor.SetMode(cursor.CursorStatic)
	if styles.Input != nil {
		in.TextStyle = *styles.Input
	}
	if styles.InputPlaceholder != nil {
		in.PlaceholderStyle = *styles.InputPlaceholder
	}
	if styles.Cursor != nil {
		in.Cursor.Style = *styles.Cursor
	}
	return &in
}

// Root returns the currently rendered tree.
func (m *Model) Root() tree.Node {
	return m.root
}

// FocusedID returns the id of the focused component.
func (m *Model) FocusedID() string {
	id, _ := m.focus.Current()
	return id
}

// Err returns the message on the status line.
func (m *Model) Err() string {
	return m.errMsg
}
