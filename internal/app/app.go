// Package app wires the surface engine together and runs it either as a
// Bubble Tea program or as a one-shot dump.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/atomicstack/a2ui-term/internal/binding"
	"github.com/atomicstack/a2ui-term/internal/data/dispatcher"
	"github.com/atomicstack/a2ui-term/internal/format/dump"
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/transport"
	"github.com/atomicstack/a2ui-term/internal/tree"
	"github.com/atomicstack/a2ui-term/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	DumpYAML  = dump.FormatYAML
	DumpTable = dump.FormatTable
)

// Config describes user-provided application options.
type Config struct {
	BaseURL                string
	Path                   string
	Width                  int
	Height                 int
	ShowFooter             bool
	Verbose                bool
	Timeout                time.Duration
	ClearOverlayOnNavigate bool
	MaxDepth               int
	// Dump renders the initial surface once in this format instead of
	// starting the interactive UI.
	Dump string
}

type engine struct {
	store      state.SurfaceStore
	client     *transport.Client
	dispatcher *dispatcher.Dispatcher
	resolver   *tree.Resolver
}

func newEngine(cfg Config) *engine {
	store := state.NewSurfaceStore()
	client := transport.NewClient(cfg.Timeout)
	return &engine{
		store:  store,
		client: client,
		dispatcher: dispatcher.New(store, client, dispatcher.Options{
			BaseURL:                cfg.BaseURL,
			ClearOverlayOnNavigate: cfg.ClearOverlayOnNavigate,
		}),
		resolver: tree.NewResolver(store, binding.NewResolver(store), tree.WithMaxDepth(cfg.MaxDepth)),
	}
}

// Run bootstraps and executes the Bubble Tea program, or writes a dump when
// cfg.Dump is set.
func Run(cfg Config) error {
	if cfg.Dump != "" {
		return Dump(context.Background(), cfg, os.Stdout)
	}
	e := newEngine(cfg)
	worker := backend.NewWorker(e.client, backend.DefaultInterval)
	defer worker.Stop()
	model := ui.NewModel(ui.Options{
		Store:       e.store,
		Dispatcher:  e.dispatcher,
		Resolver:    e.resolver,
		Backend:     worker,
		InitialPath: cfg.Path,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Verbose:     cfg.Verbose,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Dump loads cfg.Path once, resolves it and writes the result to w.
func Dump(ctx context.Context, cfg Config, w io.Writer) error {
	e := newEngine(cfg)
	events.App.Dump(cfg.Dump, transport.ResolveURL(cfg.BaseURL, cfg.Path))
	if _, err := e.dispatcher.Load(ctx, cfg.Path); err != nil {
		return fmt.Errorf("load %s: %w", cfg.Path, err)
	}
	var root *tree.Node
	var resolveErr error
	if id := e.store.Surface().RootID; id != "" {
		node, err := e.resolver.Resolve(id)
		resolveErr = err
		if err != nil {
			events.Surface.ResolveError(err)
		}
		if !errors.Is(err, tree.ErrNotFound) {
			root = &node
		}
	}
	return dump.Write(w, cfg.Dump, e.store, root, resolveErr)
}
