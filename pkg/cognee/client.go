package cognee

import (
	"context"
	"net/http"
	"reflect"
)

// Client is the entry point to the Cognee API. It owns one Transport and is
// safe for concurrent use.
type Client struct {
	config    Config
	transport *Transport
}

// NewClient builds a client for a validated Config.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	t, err := NewTransport(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{config: cfg, transport: t}, nil
}

// New builds a client with the default timeout and retry budget.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	cfg, err := DefaultConfig(baseURL, apiKey)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, opts...)
}

func (c *Client) Config() Config {
	return c.config
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (Value, error) {
	return c.do(ctx, http.MethodGet, path, opts)
}

// Post sends body as JSON. A nil body is sent as {}.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (Value, error) {
	return c.do(ctx, http.MethodPost, path, withBody(body, opts))
}

// Put sends body as JSON. A nil body is sent as {}.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (Value, error) {
	return c.do(ctx, http.MethodPut, path, withBody(body, opts))
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (Value, error) {
	return c.do(ctx, http.MethodDelete, path, opts)
}

func withBody(body any, opts []RequestOption) []RequestOption {
	if isNilBody(body) {
		body = map[string]any{}
	}
	return append([]RequestOption{WithJSONBody(body)}, opts...)
}

func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (c *Client) do(ctx context.Context, method, path string, opts []RequestOption) (Value, error) {
	resp, err := c.transport.Execute(ctx, method, path, opts...)
	if err != nil {
		return Value{}, ClassifyFault(err)
	}
	return Classify(resp)
}
