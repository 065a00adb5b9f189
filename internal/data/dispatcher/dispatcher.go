// Package dispatcher turns button actions into HTTP round trips and folds the
// NDJSON responses back into the surface store.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/atomicstack/a2ui-term/internal/logging/events"
	"github.com/atomicstack/a2ui-term/internal/protocol"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/transport"
)

// DefaultSubmitComponentID is reported as the source of every submit event.
const DefaultSubmitComponentID = "submit-btn"

// ErrNoOp is returned by Plan for actions that do nothing: unknown types or a
// missing endpoint/url.
var ErrNoOp = errors.New("action is a no-op")

// Transport performs the network round trip for synchronous dispatch.
type Transport interface {
	Get(ctx context.Context, url string) (string, error)
	Post(ctx context.Context, url string, body []byte) (string, error)
}

// Request is a planned round trip.
type Request = backend.Request

// Options tune dispatch behaviour.
type Options struct {
	BaseURL string
	// ClearOverlayOnNavigate also drops local form edits when a navigate
	// replaces the surface. Off by default: edits survive navigation.
	ClearOverlayOnNavigate bool
	SubmitComponentID      string
	// Coercions convert overlay values before they are posted, keyed by
	// binding path. nil uses DefaultCoercions.
	Coercions map[string]Coercion
	// OmitLegacyFields stops name/date/time/party from being filled with
	// defaults when the overlay has no entry for them.
	OmitLegacyFields bool
}

// Outcome describes what Complete did with a response.
type Outcome struct {
	Token   uint64
	Kind    backend.Kind
	Stale   bool
	NoOp    bool
	Applied state.ApplyResult
}

type Dispatcher struct {
	store     state.SurfaceStore
	transport Transport
	opts      Options

	mu      sync.Mutex
	latest  uint64
	loading bool
}

func New(store state.SurfaceStore, tr Transport, opts Options) *Dispatcher {
	if opts.SubmitComponentID == "" {
		opts.SubmitComponentID = DefaultSubmitComponentID
	}
	if opts.Coercions == nil {
		opts.Coercions = DefaultCoercions()
	}
	return &Dispatcher{store: store, transport: tr, opts: opts}
}

// Loading reports whether the most recent request is still outstanding.
func (d *Dispatcher) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Plan builds the request for action and marks the dispatcher as loading.
// Actions that do nothing return ErrNoOp and leave state untouched.
func (d *Dispatcher) Plan(action protocol.Action) (Request, error) {
	switch action.Type {
	case protocol.ActionSubmit:
		endpoint, ok := action.StringData("endpoint")
		if !ok {
			events.Action.NoOp(action.Type, "missing endpoint")
			return Request{}, ErrNoOp
		}
		body, err := protocol.EncodeEvent(d.BuildEvent())
		if err != nil {
			events.Action.Error(err)
			return Request{}, fmt.Errorf("encode submit event: %w", err)
		}
		return d.issue(Request{
			Kind:   backend.KindSubmit,
			Method: http.MethodPost,
			URL:    transport.ResolveURL(d.opts.BaseURL, endpoint),
			Body:   body,
		}), nil
	case protocol.ActionNavigate:
		url, ok := action.StringData("url")
		if !ok {
			events.Action.NoOp(action.Type, "missing url")
			return Request{}, ErrNoOp
		}
		return d.issue(Request{
			Kind:   backend.KindNavigate,
			Method: http.MethodGet,
			URL:    transport.ResolveURL(d.opts.BaseURL, url),
			Reset:  true,
		}), nil
	default:
		events.Action.NoOp(action.Type, "unrecognised type")
		return Request{}, ErrNoOp
	}
}

// PlanLoad builds the initial surface fetch for path.
func (d *Dispatcher) PlanLoad(path string) Request {
	return d.issue(Request{
		Kind:   backend.KindLoad,
		Method: http.MethodGet,
		URL:    transport.ResolveURL(d.opts.BaseURL, path),
		Reset:  true,
	})
}

func (d *Dispatcher) issue(req Request) Request {
	d.mu.Lock()
	d.latest++
	req.Token = d.latest
	d.loading = true
	d.mu.Unlock()
	events.Action.Plan(req.Token, req.Kind.String(), req.URL)
	return req
}

// BuildEvent assembles the submit event from every /form/ overlay entry.
func (d *Dispatcher) BuildEvent() protocol.Event {
	entries := d.store.OverlayEntries(state.FormPrefix)
	data := make(map[string]any, len(entries)+len(legacyFields))
	for path, value := range entries {
		key := strings.TrimPrefix(path, state.FormPrefix)
		if key == "" {
			continue
		}
		data[key] = value
	}
	if !d.opts.OmitLegacyFields {
		for _, field := range legacyFields {
			if v, ok := data[field]; !ok || isFalsy(v) {
				data[field] = ""
			}
		}
	}
	for path, coerce := range d.opts.Coercions {
		key := strings.TrimPrefix(path, state.FormPrefix)
		v, ok := data[key]
		if !ok && d.opts.OmitLegacyFields {
			continue
		}
		data[key] = coerce(v)
	}
	return protocol.Event{
		SurfaceID:   d.store.Surface().SurfaceID,
		ComponentID: d.opts.SubmitComponentID,
		Type:        protocol.EventTypeAction,
		Data:        data,
	}
}

// Complete folds a finished round trip into the store. Responses for anything
// but the latest request are dropped without touching state.
func (d *Dispatcher) Complete(req Request, raw string, fetchErr error) (Outcome, error) {
	out := Outcome{Token: req.Token, Kind: req.Kind}
	d.mu.Lock()
	latest := d.latest
	d.mu.Unlock()
	if req.Token != latest {
		events.Action.Stale(req.Token, latest)
		out.Stale = true
		return out, nil
	}
	defer d.finish(req.Token)

	if fetchErr != nil {
		events.Action.Error(fetchErr)
		return out, fetchErr
	}
	msgs, err := protocol.Decode(raw)
	if err != nil {
		events.Surface.DecodeError(err)
		return out, err
	}
	if req.Reset {
		d.store.Reset()
		clearOverlay := req.Kind == backend.KindNavigate && d.opts.ClearOverlayOnNavigate
		if clearOverlay {
			d.store.ResetOverlay()
		}
		events.Surface.Reset(clearOverlay)
	}
	out.Applied = d.store.Apply(msgs)
	events.Surface.Apply(d.store.Surface().SurfaceID, len(msgs), out.Applied.Components, out.Applied.Keys, out.Applied.Seeded)
	events.Action.Success(fmt.Sprintf("%s %s", req.Kind, req.URL))
	return out, nil
}

func (d *Dispatcher) finish(token uint64) {
	d.mu.Lock()
	if token == d.latest {
		d.loading = false
	}
	d.mu.Unlock()
}

// Handle completes a request that ran on the backend worker.
func (d *Dispatcher) Handle(evt backend.Event) (Outcome, error) {
	return d.Complete(evt.Request, evt.Raw, evt.Err)
}

// Dispatch plans action and runs it synchronously over the transport.
func (d *Dispatcher) Dispatch(ctx context.Context, action protocol.Action) (Outcome, error) {
	req, err := d.Plan(action)
	if errors.Is(err, ErrNoOp) {
		return Outcome{NoOp: true}, nil
	}
	if err != nil {
		return Outcome{}, err
	}
	return d.run(ctx, req)
}

// Load fetches the initial surface at path synchronously.
func (d *Dispatcher) Load(ctx context.Context, path string) (Outcome, error) {
	return d.run(ctx, d.PlanLoad(path))
}

func (d *Dispatcher) run(ctx context.Context, req Request) (Outcome, error) {
	var (
		raw string
		err error
	)
	if req.Body != nil {
		raw, err = d.transport.Post(ctx, req.URL, req.Body)
	} else {
		raw, err = d.transport.Get(ctx, req.URL)
	}
	return d.Complete(req, raw, err)
}
