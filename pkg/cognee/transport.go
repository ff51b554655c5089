package cognee

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Version is reported in the default User-Agent. Overridden at build time.
var Version = "dev"

const tracerName = "github.com/cognee/cognee-cli/pkg/cognee"

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the terminal outcome of a logical call that produced an HTTP
// response. The status may still be a failure; see Classify.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Request    *RequestInfo
}

// Transport sends requests with bearer authentication and retries transient
// failures. It is safe for concurrent use.
type Transport struct {
	config    Config
	http      Doer
	logger    *slog.Logger
	observer  Observer
	tracer    trace.Tracer
	userAgent string

	backoff   func(attemptIndex int) time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	requestID func() string
}

// Option configures a Transport (and the Client that owns it).
type Option func(*Transport)

// WithHTTPClient replaces the HTTP client. Its Timeout should be zero: the
// transport applies the configured timeout to each attempt.
func WithHTTPClient(d Doer) Option {
	return func(t *Transport) {
		if d != nil {
			t.http = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithObserver reports attempts and retries, e.g. to Prometheus.
func WithObserver(o Observer) Option {
	return func(t *Transport) {
		t.observer = o
	}
}

// WithTracerProvider sets the OpenTelemetry provider used for per-call spans.
// The global provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Transport) {
		if tp != nil {
			t.tracer = tp.Tracer(tracerName)
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// NewTransport builds a Transport for cfg. A zero Config is rejected.
func NewTransport(cfg Config, opts ...Option) (*Transport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Transport{
		config:    cfg,
		http:      newHTTPClient(),
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		userAgent: "cognee-cli/" + Version,
		backoff:   exponentialBackoff(DefaultBackoffBase),
		sleep:     sleepWithContext,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func newHTTPClient() *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	return &http.Client{Transport: transport}
}

// Config returns the configuration the transport was built with.
func (t *Transport) Config() Config {
	return t.config
}

type requestOptions struct {
	header  http.Header
	query   url.Values
	body    any
	hasBody bool
}

// RequestOption customizes one logical call.
type RequestOption func(*requestOptions)

// WithHeader sets a request header. Authorization cannot be overridden.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Set(key, value)
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.query.Add(key, value)
	}
}

// WithJSONBody encodes v as the JSON request body.
func WithJSONBody(v any) RequestOption {
	return func(o *requestOptions) {
		o.body = v
		o.hasBody = true
	}
}

// Execute sends method+path and returns the terminal response. A response
// with a failure status is still a *Response; an error is returned only when
// no response was obtained (a *TransportError) or the request could not be
// built.
func (t *Transport) Execute(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	ro := requestOptions{header: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(&ro)
	}

	var payload []byte
	if ro.hasBody {
		data, err := json.Marshal(ro.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	target, err := joinURL(t.config.baseURL, path, ro.query)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	info := &RequestInfo{Method: method, URL: target, ID: t.requestID()}
	ctx, span := t.startSpan(ctx, info)
	defer span.End()

	resp, err := t.retryLoop(ctx, info, func(attemptCtx context.Context) (*http.Request, error) {
		req, err := t.newRequest(attemptCtx, info, payload, ro.header)
		if err != nil {
			return nil, err
		}
		t.authorize(req)
		return req, nil
	})
	t.endSpan(span, resp, err)
	return resp, err
}

// joinURL joins base and path with exactly one slash and merges extra query
// parameters into any query already present on path.
func joinURL(base, path string, extra url.Values) (string, error) {
	joined := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if len(extra) == 0 {
		return joined, nil
	}
	u, err := url.Parse(joined)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, values := range extra {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (t *Transport) newRequest(ctx context.Context, info *RequestInfo, payload []byte, header http.Header) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, info.Method, info.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("X-Request-Id", info.ID)
	for key, values := range header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return req, nil
}

// authorize attaches the bearer token. It runs after caller headers so the
// token always wins.
func (t *Transport) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.config.apiKey)
}

type attemptOutcome struct {
	resp *Response
	err  error
}

func (o attemptOutcome) retryable() bool {
	if o.err != nil {
		return true
	}
	return shouldRetryStatus(o.resp.StatusCode)
}

// retryLoop runs attempts 0..maxRetryAttempts, sleeping 1s·2^i before retry i+1.
func (t *Transport) retryLoop(ctx context.Context, info *RequestInfo, build func(context.Context) (*http.Request, error)) (*Response, error) {
	maxRetries := t.config.maxRetryAttempts
	for attempt := 0; ; attempt++ {
		outcome, err := t.attempt(ctx, info, attempt, build)
		if err != nil {
			return nil, err
		}
		info.Attempts = attempt + 1

		if outcome.err != nil && ctx.Err() != nil {
			return nil, t.transportError(info, ctx.Err())
		}
		if !outcome.retryable() || attempt >= maxRetries {
			if outcome.err != nil {
				fault := outcome.err
				if errors.Is(fault, context.DeadlineExceeded) {
					fault = fmt.Errorf("attempt timed out after %s: %w", t.config.Timeout(), fault)
				}
				return nil, t.transportError(info, fault)
			}
			return outcome.resp, nil
		}

		delay := t.backoff(attempt)
		status := 0
		if outcome.resp != nil {
			status = outcome.resp.StatusCode
		}
		t.logger.Info("retrying request", "method", info.Method, "url", sanitizeURL(info.URL),
			"status", status, "attempt", attempt+1, "delay", delay, "error", outcome.err)
		if t.observer != nil {
			t.observer.RetryScheduled(info.Method, attempt, delay)
		}
		if err := t.sleep(ctx, delay); err != nil {
			return nil, t.transportError(info, err)
		}
	}
}

// attempt performs one exchange under its own timeout. The returned error is
// set only when the request could not be built; network faults are reported
// through the outcome.
func (t *Transport) attempt(ctx context.Context, info *RequestInfo, index int, build func(context.Context) (*http.Request, error)) (attemptOutcome, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.config.Timeout())
	defer cancel()

	req, err := build(attemptCtx)
	if err != nil {
		return attemptOutcome{}, err
	}

	start := time.Now()
	outcome := t.exchange(req, info)
	duration := time.Since(start)

	if outcome.err != nil {
		t.logger.Debug("request failed", "method", info.Method, "url", sanitizeURL(info.URL),
			"attempt", index+1, "duration", duration, "error", outcome.err)
	} else {
		t.logger.Debug("request complete", "method", info.Method, "url", sanitizeURL(info.URL),
			"status", outcome.resp.StatusCode, "attempt", index+1, "duration", duration)
	}
	addAttemptEvent(ctx, index, outcome)
	if t.observer != nil {
		status := 0
		if outcome.resp != nil {
			status = outcome.resp.StatusCode
		}
		t.observer.AttemptFinished(info.Method, status, outcome.err, duration)
	}
	return outcome, nil
}

func (t *Transport) exchange(req *http.Request, info *RequestInfo) attemptOutcome {
	resp, err := t.http.Do(req)
	if err != nil {
		return attemptOutcome{err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptOutcome{err: fmt.Errorf("failed to read response: %w", err)}
	}
	return attemptOutcome{resp: &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Request:    info,
	}}
}

func (t *Transport) transportError(info *RequestInfo, err error) *TransportError {
	return &TransportError{Method: info.Method, URL: info.URL, Attempts: info.Attempts, Err: err}
}
