// Test helpers for running commands against a mock Cognee server.
//
// A typical test registers routes, points the environment at the mock server
// and runs a command with in-memory streams:
//
//	handler := newRouteHandler().
//	    On("GET", "/api/v1/datasets", jsonResponse(200, `[{"id":"...","name":"papers"}]`))
//	setupTestEnv(t, handler)
//
//	res := runCommand(t, "datasets", "list")
//	require.NoError(t, res.err)
//	assert.Contains(t, res.stdout, "papers")
package cmd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/cognee/cognee-cli/internal/config"
	"github.com/cognee/cognee-cli/internal/iocontext"
)

const (
	testAPIKey     = "test-api-key-123456"
	papersID       = "3f2b8c9e-4d1a-4c6e-9b7a-2e5f1d0c8a41"
	notesID        = "9a1d4e2f-6b3c-4f8a-8e5d-7c2b1a0f9e63"
	datasetsListOK = `[
		{"id": "` + papersID + `", "name": "papers", "created_at": "2024-05-01T10:00:00Z"},
		{"id": "` + notesID + `", "name": "meeting-notes", "created_at": "2024-05-02T10:00:00Z"}
	]`
)

// recordedRequest is what the mock server saw.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// routeHandler routes requests by exact "METHOD PATH" and records every
// request. Unknown routes get a 404.
type routeHandler struct {
	routes map[string]http.HandlerFunc

	mu       sync.Mutex
	requests []recordedRequest
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers handler for method and path and returns rh for chaining.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}
	rh.mu.Lock()
	rh.requests = append(rh.requests, rec)
	rh.mu.Unlock()

	if handler, ok := rh.routes[r.Method+" "+r.URL.Path]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// calls returns the requests received for method and path.
func (rh *routeHandler) calls(method, path string) []recordedRequest {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	var out []recordedRequest
	for _, r := range rh.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (rh *routeHandler) total() int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	return len(rh.requests)
}

// jsonResponse returns a handler that writes body with statusCode.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// setupTestEnv starts a server for handler and points the CLI at it. Retries
// are disabled so failing requests return without backoff, and the config
// directory is an empty temp dir so no user config leaks in.
func setupTestEnv(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	isolateCLIEnv(t)
	t.Setenv("COGNEE_BASE_URL", server.URL)
	t.Setenv("COGNEE_API_KEY", testAPIKey)
	t.Setenv("COGNEE_RETRY_ATTEMPTS", "0")
	return server
}

// isolateCLIEnv clears every setting the CLI reads from the environment.
func isolateCLIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COGNEE_BASE_URL",
		"COGNEE_API_KEY",
		"COGNEE_TIMEOUT",
		"COGNEE_RETRY_ATTEMPTS",
		"COGNEE_PROFILE",
		"COGNEE_CONFIG",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("COGNEE_OUTPUT", "text")
	t.Setenv("COGNEE_CONFIG_DIR", t.TempDir())
}

// withTestKeyring gives the test its own in-memory keyring.
func withTestKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := config.SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// runCommand executes the CLI with args and captures its streams.
func runCommand(t *testing.T, args ...string) cmdResult {
	t.Helper()
	return runCommandWithInput(t, "", args...)
}

func runCommandWithInput(t *testing.T, input string, args ...string) cmdResult {
	t.Helper()
	streams := iocontext.NewBuffers(input)
	ctx := iocontext.WithIO(context.Background(), streams.IO)
	err := Execute(ctx, args)
	return cmdResult{stdout: streams.Stdout.String(), stderr: streams.Stderr.String(), err: err}
}

// decodeJSON parses command output into v, failing the test on bad JSON.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
}
