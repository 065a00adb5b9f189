package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/a2ui-term/internal/backend"
	"github.com/atomicstack/a2ui-term/internal/binding"
	"github.com/atomicstack/a2ui-term/internal/data/dispatcher"
	"github.com/atomicstack/a2ui-term/internal/protocol"
	"github.com/atomicstack/a2ui-term/internal/state"
	"github.com/atomicstack/a2ui-term/internal/testutil"
	"github.com/atomicstack/a2ui-term/internal/tree"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeBackend struct {
	submitted []backend.Request
	events    chan backend.Event
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{events: make(chan backend.Event)}
}

func (f *fakeBackend) Submit(req backend.Request) bool {
	f.submitted = append(f.submitted, req)
	return true
}

func (f *fakeBackend) Events() <-chan backend.Event {
	return f.events
}

func (f *fakeBackend) last(t *testing.T) backend.Request {
	t.Helper()
	if len(f.submitted) == 0 {
		t.Fatalf("expected a submitted request")
	}
	return f.submitted[len(f.submitted)-1]
}

type fixture struct {
	h       *Harness
	store   state.SurfaceStore
	backend *fakeBackend
}

func newFixture(t *testing.T, verbose bool) fixture {
	t.Helper()
	store := state.NewSurfaceStore()
	disp := dispatcher.New(store, nil, dispatcher.Options{BaseURL: "http://example.test"})
	resolver := tree.NewResolver(store, binding.NewResolver(store))
	fb := newFakeBackend()
	model := NewModel(Options{
		Store:       store,
		Dispatcher:  disp,
		Resolver:    resolver,
		Backend:     fb,
		InitialPath: "/form",
		Width:       60,
		Height:      40,
		ShowFooter:  true,
		Verbose:     verbose,
	})
	return fixture{h: NewHarness(model), store: store, backend: fb}
}

func (f fixture) load(t *testing.T, msgs ...protocol.Message) {
	t.Helper()
	f.h.Run(f.h.Model().reload())
	f.h.Deliver(backend.Event{Request: f.backend.last(t), Raw: testutil.NDJSON(t, msgs...)})
}

func TestViewBeforeFirstSurface(t *testing.T) {
	f := newFixture(t, false)
	if view := f.h.View(); !strings.Contains(view, "Waiting for surface") {
		t.Fatalf("expected waiting message, got %q", view)
	}
}

func TestReloadShowsSpinnerUntilResponse(t *testing.T) {
	f := newFixture(t, false)
	f.h.Run(f.h.Model().reload())
	req := f.backend.last(t)
	if req.Kind != backend.KindLoad || req.URL != "http://example.test/form" {
		t.Fatalf("unexpected request %#v", req)
	}
	if view := f.h.View(); !strings.Contains(view, "Loading") {
		t.Fatalf("expected loading status, got %q", view)
	}
	f.h.Deliver(backend.Event{Request: req, Raw: testutil.NDJSON(t, testutil.BookingForm("2025-06-01")...)})
	view := f.h.View()
	if strings.Contains(view, "Loading") {
		t.Fatalf("expected loading cleared, got %q", view)
	}
	for _, want := range []string{"booking-form", "Restaurant Booking", "Party Size", "Book Table", "19:00"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestBookingRoundTrip(t *testing.T) {
	f := newFixture(t, false)
	f.load(t, testutil.BookingForm("2025-06-01")...)
	if got := f.h.Model().FocusedID(); got != "name-field" {
		t.Fatalf("expected focus on name-field, got %q", got)
	}

	f.h.Type("Ann")
	if v, _ := f.store.OverlayValue("/form/name"); v != "Ann" {
		t.Fatalf("expected overlay name Ann, got %v", v)
	}

	for i := 0; i < 3; i++ {
		f.h.Key(tea.KeyTab)
	}
	if got := f.h.Model().FocusedID(); got != "party-field" {
		t.Fatalf("expected focus on party-field, got %q", got)
	}
	f.h.Key(tea.KeyCtrlU)
	f.h.Type("4")
	if v, _ := f.store.OverlayValue("/form/party"); v != "4" {
		t.Fatalf("expected overlay party 4, got %v", v)
	}

	f.h.Key(tea.KeyTab)
	f.h.Key(tea.KeyEnter)
	submit := f.backend.last(t)
	if submit.Kind != backend.KindSubmit || submit.URL != "http://example.test/submit" {
		t.Fatalf("unexpected submit request %#v", submit)
	}
	wantBody := `{"event":{"surfaceId":"booking-form","componentId":"submit-btn","type":"action","data":{"date":"2025-06-01","name":"Ann","party":4,"time":"19:00"}}}`
	if string(submit.Body) != wantBody {
		t.Fatalf("unexpected body\nwant %s\ngot  %s", wantBody, submit.Body)
	}

	f.h.Deliver(backend.Event{Request: submit, Raw: testutil.NDJSON(t, testutil.Confirmation("BK-1", "Ann - 2025-06-01 at 19:00 for 4 guests")...)})
	view := f.h.View()
	for _, want := range []string{"Booking Confirmed!", "Confirmation: BK-1", "for 4 guests"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := f.h.Model().FocusedID(); got != "back-btn" {
		t.Fatalf("expected focus on back-btn, got %q", got)
	}

	f.h.Key(tea.KeyEnter)
	nav := f.backend.last(t)
	if nav.Kind != backend.KindNavigate || !nav.Reset || nav.URL != "http://example.test/form" {
		t.Fatalf("unexpected navigate request %#v", nav)
	}
	f.h.Deliver(backend.Event{Request: nav, Raw: testutil.NDJSON(t, testutil.BookingForm("2025-06-02")...)})
	if _, ok := f.store.Component("confirm-content"); ok {
		t.Fatalf("expected confirmation components cleared by navigate")
	}
	if v, _ := f.store.OverlayValue("/form/name"); v != "Ann" {
		t.Fatalf("expected overlay to survive navigate, got %v", v)
	}
	if v, _ := f.store.OverlayValue("/form/date"); v != "2025-06-01" {
		t.Fatalf("expected the seeded overlay value to survive the new server value, got %v", v)
	}
}

func TestStaleBackendEventIgnored(t *testing.T) {
	f := newFixture(t, false)
	f.h.Run(f.h.Model().reload())
	first := f.backend.last(t)
	f.h.Run(f.h.Model().reload())
	second := f.backend.last(t)

	f.h.Deliver(backend.Event{Request: second, Raw: testutil.NDJSON(t, testutil.BookingForm("2025-06-01")...)})
	f.h.Deliver(backend.Event{Request: first, Raw: testutil.NDJSON(t, testutil.Confirmation("old", "stale")...)})
	if got := f.store.Surface().SurfaceID; got != "booking-form" {
		t.Fatalf("stale response applied, surface is %q", got)
	}
}

func TestBackendErrorShownOnStatusLine(t *testing.T) {
	f := newFixture(t, false)
	f.h.Run(f.h.Model().reload())
	f.h.Deliver(backend.Event{Request: f.backend.last(t), Err: errors.New("HTTP 503")})
	if got := f.h.Model().Err(); got != "HTTP 503" {
		t.Fatalf("expected error on status line, got %q", got)
	}
	view := f.h.View()
	if !strings.Contains(view, "Error: HTTP 503") || strings.Contains(view, "Loading") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestRejectedSubmissionClearsLoading(t *testing.T) {
	store := state.NewSurfaceStore()
	disp := dispatcher.New(store, nil, dispatcher.Options{BaseURL: "http://example.test"})
	model := NewModel(Options{
		Store:       store,
		Dispatcher:  disp,
		Resolver:    tree.NewResolver(store, binding.NewResolver(store)),
		InitialPath: "/form",
	})
	h := NewHarness(model)
	h.Run(model.reload())
	if disp.Loading() {
		t.Fatalf("expected loading cleared after rejection")
	}
	if !strings.Contains(model.Err(), "backend unavailable") {
		t.Fatalf("expected rejection error, got %q", model.Err())
	}
}

func TestNoOpButton(t *testing.T) {
	f := newFixture(t, true)
	f.load(t,
		protocol.Message{BeginRendering: &protocol.BeginRendering{SurfaceID: "s", Root: "b"}},
		protocol.Message{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s", Components: []protocol.Component{
			{ID: "b", Variant: protocol.Button{Text: "Dance", Action: protocol.Action{Type: "dance"}}},
		}}},
	)
	before := len(f.backend.submitted)
	f.h.Key(tea.KeyEnter)
	if len(f.backend.submitted) != before {
		t.Fatalf("expected no request for an unknown action")
	}
	if !strings.Contains(f.h.View(), "does nothing") {
		t.Fatalf("expected verbose no-op info, got:\n%s", f.h.View())
	}
}

func TestPlaceholdersOnlyInVerboseMode(t *testing.T) {
	surface := []protocol.Message{
		{BeginRendering: &protocol.BeginRendering{SurfaceID: "s", Root: "root"}},
		{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s", Components: []protocol.Component{
			{ID: "root", Variant: protocol.Column{Children: []string{"heder", "header"}}},
			{ID: "header", Variant: protocol.Text{Text: strPtr("Hello")}},
		}}},
	}
	quiet := newFixture(t, false)
	quiet.load(t, surface...)
	if strings.Contains(quiet.h.View(), "missing") {
		t.Fatalf("expected placeholder hidden:\n%s", quiet.h.View())
	}
	loud := newFixture(t, true)
	loud.load(t, surface...)
	view := loud.h.View()
	if !strings.Contains(view, "‹missing heder›") || !strings.Contains(view, "did you mean header?") {
		t.Fatalf("expected placeholder with suggestion:\n%s", view)
	}
}

func TestCycleRendersErrorNode(t *testing.T) {
	f := newFixture(t, false)
	f.load(t,
		protocol.Message{BeginRendering: &protocol.BeginRendering{SurfaceID: "s", Root: "root"}},
		protocol.Message{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s", Components: []protocol.Component{
			{ID: "root", Variant: protocol.Column{Children: []string{"ok", "loop"}}},
			{ID: "ok", Variant: protocol.Text{Text: strPtr("still here")}},
			{ID: "loop", Variant: protocol.Card{Child: "loop"}},
		}}},
	)
	view := f.h.View()
	if !strings.Contains(view, "still here") || !strings.Contains(view, "⚠") {
		t.Fatalf("expected sibling and error marker:\n%s", view)
	}
}

func TestMissingRootWaits(t *testing.T) {
	f := newFixture(t, false)
	f.load(t, protocol.Message{BeginRendering: &protocol.BeginRendering{SurfaceID: "s", Root: "later"}})
	if view := f.h.View(); !strings.Contains(view, `Waiting for root component "later"`) {
		t.Fatalf("expected waiting for root, got:\n%s", view)
	}
}

func TestSanitizesServerText(t *testing.T) {
	f := newFixture(t, false)
	f.load(t,
		protocol.Message{BeginRendering: &protocol.BeginRendering{SurfaceID: "s", Root: "t"}},
		protocol.Message{SurfaceUpdate: &protocol.SurfaceUpdate{SurfaceID: "s", Components: []protocol.Component{
			{ID: "t", Variant: protocol.Text{Text: strPtr("\x1b[2J<i>hi</i>")}},
		}}},
	)
	view := f.h.View()
	if strings.Contains(view, "\x1b[2J") || strings.Contains(view, "<i>") {
		t.Fatalf("expected escape and markup stripped, got %q", view)
	}
}

func TestWindowSizeRespectsFixedWidth(t *testing.T) {
	f := newFixture(t, false)
	f.h.Send(tea.WindowSizeMsg{Width: 200, Height: 10})
	if f.h.Model().width != 60 || f.h.Model().height != 40 {
		t.Fatalf("expected fixed size to win, got %dx%d", f.h.Model().width, f.h.Model().height)
	}
}

func TestFocusNavigationWraps(t *testing.T) {
	f := newFixture(t, false)
	f.load(t, testutil.BookingForm("2025-06-01")...)
	f.h.Key(tea.KeyShiftTab)
	if got := f.h.Model().FocusedID(); got != "submit-btn" {
		t.Fatalf("expected wrap to submit-btn, got %q", got)
	}
	f.h.Key(tea.KeyDown)
	if got := f.h.Model().FocusedID(); got != "name-field" {
		t.Fatalf("expected wrap to name-field, got %q", got)
	}
}

func TestQuitKeys(t *testing.T) {
	f := newFixture(t, false)
	_, cmd := f.h.Model().Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func strPtr(s string) *string { return &s }
