package backend

import (
	"context"
	"sync"
	"time"
)

// Kind identifies which dispatcher operation produced a request.
type Kind int

const (
	KindLoad Kind = iota
	KindSubmit
	KindNavigate
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindSubmit:
		return "submit"
	case KindNavigate:
		return "navigate"
	default:
		return "unknown"
	}
}

// Request is one planned round trip. Token orders requests so late responses
// can be discarded; Reset asks the dispatcher to clear the surface before
// applying the response.
type Request struct {
	Token  uint64
	Kind   Kind
	Method string
	URL    string
	Body   []byte
	Reset  bool
}

// Event conveys the raw response body or the failure for a request.
type Event struct {
	Request Request
	Raw     string
	Err     error
}

// Fetcher performs the HTTP round trip for a request.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
	Post(ctx context.Context, url string, body []byte) (string, error)
}

const DefaultInterval = 150 * time.Millisecond

// Worker runs requests in the background and publishes their results. Each
// request is fetched on its own goroutine, so responses may arrive out of
// order; consumers rely on the request token to drop stale ones.
type Worker struct {
	fetcher  Fetcher
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	requests chan Request
	events   chan Event
	wg       sync.WaitGroup
}

// NewWorker starts a worker that spaces requests at least interval apart.
func NewWorker(fetcher Fetcher, interval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		fetcher:  fetcher,
		throttle: newThrottle(interval),
		ctx:      ctx,
		cancel:   cancel,
		requests: make(chan Request, 16),
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.loop()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Submit queues req. It reports false once the worker has been stopped.
func (w *Worker) Submit(req Request) bool {
	if w.ctx.Err() != nil {
		return false
	}
	select {
	case <-w.ctx.Done():
		return false
	case w.requests <- req:
		return true
	}
}

// Events returns a channel of completed requests. It is closed after Stop
// once every in-flight fetch has returned.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Stop cancels the worker. In-flight fetches see a cancelled context.
func (w *Worker) Stop() {
	w.cancel()
}

// Wait blocks until all goroutines have exited and the events channel is
// closed. Call after Stop when a clean shutdown is required.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case req := <-w.requests:
			if w.throttle.wait(w.ctx) != nil {
				return
			}
			w.wg.Add(1)
			go w.fetch(req)
		}
	}
}

func (w *Worker) fetch(req Request) {
	defer w.wg.Done()
	var (
		raw string
		err error
	)
	if req.Body != nil {
		raw, err = w.fetcher.Post(w.ctx, req.URL, req.Body)
	} else {
		raw, err = w.fetcher.Get(w.ctx, req.URL)
	}
	select {
	case <-w.ctx.Done():
	case w.events <- Event{Request: req, Raw: raw, Err: err}:
	}
}
