package cognee

import "context"

// Requester is the surface resource helpers use to reach the API. *Client
// implements it; tests can substitute a fake to exercise resource logic
// without HTTP.
type Requester interface {
	Get(ctx context.Context, path string, opts ...RequestOption) (Value, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (Value, error)
	Put(ctx context.Context, path string, body any, opts ...RequestOption) (Value, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (Value, error)
}

var _ Requester = (*Client)(nil)
