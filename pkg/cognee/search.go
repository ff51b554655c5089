package cognee

import "context"

// Query runs a search across datasets.
func (s SearchService) Query(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	return search(ctx, s.Client, req)
}

func search(ctx context.Context, r Requester, req SearchRequest) (*SearchResponse, error) {
	resp, err := r.Post(ctx, "api/v1/search", req.payload())
	if err != nil {
		return nil, err
	}
	out := SearchResponseFromValue(resp)
	return &out, nil
}

// History returns previous searches. The "history" envelope is removed when present.
func (s SearchService) History(ctx context.Context) (Value, error) {
	return searchHistory(ctx, s.Client)
}

func searchHistory(ctx context.Context, r Requester) (Value, error) {
	resp, err := r.Get(ctx, "api/v1/search")
	if err != nil {
		return Value{}, err
	}
	return unwrap(resp, "history"), nil
}
