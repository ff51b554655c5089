package cognee

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// sleepRecorder replaces the backoff sleep so retry tests run instantly and
// can assert the requested delays.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTransport(t *testing.T, baseURL string, retries int, opts ...Option) (*Transport, *sleepRecorder) {
	t.Helper()
	cfg, err := NewConfig(baseURL, "test-key", 5, retries)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	tr, err := NewTransport(cfg, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("NewTransport: %v", err)
	}
	rec := &sleepRecorder{}
	tr.sleep = rec.sleep
	return tr, rec
}

func newTestClient(t *testing.T, baseURL string, retries int, opts ...Option) (*Client, *sleepRecorder) {
	t.Helper()
	cfg, err := NewConfig(baseURL, "test-key", 5, retries)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	c, err := NewClient(cfg, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rec := &sleepRecorder{}
	c.transport.sleep = rec.sleep
	return c, rec
}

func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// recordedRequest captures what the server received.
type recordedRequest struct {
	Method      string
	Path        string
	EscapedPath string
	Query       string
	Header      http.Header
	Body        map[string]any
}

// recordingServer answers every request with handler and keeps a copy of
// each request it saw.
type recordingServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			EscapedPath: r.URL.EscapedPath(),
			Query:       r.URL.RawQuery,
			Header:      r.Header.Clone(),
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.Body)
		}
		rs.mu.Lock()
		rs.requests = append(rs.requests, rec)
		rs.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) calls() []recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]recordedRequest(nil), rs.requests...)
}

func (rs *recordingServer) last(t *testing.T) recordedRequest {
	t.Helper()
	calls := rs.calls()
	if len(calls) == 0 {
		t.Fatal("server received no requests")
	}
	return calls[len(calls)-1]
}
