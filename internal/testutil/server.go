package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/a2ui-term/internal/protocol"
)

// Recorded is one request seen by a Server.
type Recorded struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

// Server is an httptest server that answers each path with a canned NDJSON
// body. Unknown paths get a 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]string
	requests []Recorded
}

// NewServer starts a server for routes (path to NDJSON body) and closes it
// when the test ends.
func NewServer(t *testing.T, routes map[string]string) *Server {
	t.Helper()
	s := &Server{routes: make(map[string]string, len(routes))}
	for path, body := range routes {
		s.routes[path] = body
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, Recorded{
		Method:    r.Method,
		Path:      r.URL.Path,
		Body:      string(body),
		RequestID: r.Header.Get("X-Request-Id"),
	})
	payload, ok := s.routes[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	io.WriteString(w, payload)
}

// Set replaces the body served for path.
func (s *Server) Set(path, body string) {
	s.mu.Lock()
	s.routes[path] = body
	s.mu.Unlock()
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// NDJSON encodes msgs as newline-delimited JSON.
func NDJSON(t *testing.T, msgs ...protocol.Message) string {
	t.Helper()
	var b strings.Builder
	if err := protocol.WriteJSONL(&b, msgs); err != nil {
		t.Fatalf("encode messages: %v", err)
	}
	return b.String()
}
