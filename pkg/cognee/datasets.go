package cognee

import "context"

// List retrieves all datasets visible to the API key.
func (s DatasetsService) List(ctx context.Context) ([]Dataset, error) {
	return listDatasets(ctx, s.Client)
}

func listDatasets(ctx context.Context, r Requester) ([]Dataset, error) {
	resp, err := r.Get(ctx, "api/v1/datasets")
	if err != nil {
		return nil, err
	}
	items := listField(resp, "datasets")
	datasets := make([]Dataset, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			datasets = append(datasets, DatasetFromValue(item))
		}
	}
	return datasets, nil
}

// Create creates a dataset. Metadata is omitted from the request when nil.
func (s DatasetsService) Create(ctx context.Context, name string, metadata map[string]any) (*Dataset, error) {
	return createDataset(ctx, s.Client, name, metadata)
}

func createDataset(ctx context.Context, r Requester, name string, metadata map[string]any) (*Dataset, error) {
	body := map[string]any{"name": name}
	if metadata != nil {
		body["metadata"] = metadata
	}
	resp, err := r.Post(ctx, "api/v1/datasets", body)
	if err != nil {
		return nil, err
	}
	dataset := DatasetFromValue(unwrap(resp, "dataset"))
	return &dataset, nil
}

// Get retrieves one dataset by ID.
func (s DatasetsService) Get(ctx context.Context, id string) (*Dataset, error) {
	return getDataset(ctx, s.Client, id)
}

func getDataset(ctx context.Context, r Requester, id string) (*Dataset, error) {
	resp, err := r.Get(ctx, resourcePath("api/v1/datasets/%s", id))
	if err != nil {
		return nil, err
	}
	dataset := DatasetFromValue(unwrap(resp, "dataset"))
	return &dataset, nil
}

// Delete removes a dataset. It reports true once the server accepted the request.
func (s DatasetsService) Delete(ctx context.Context, id string) (bool, error) {
	return deleteDataset(ctx, s.Client, id)
}

func deleteDataset(ctx context.Context, r Requester, id string) (bool, error) {
	if _, err := r.Delete(ctx, resourcePath("api/v1/datasets/%s", id)); err != nil {
		return false, err
	}
	return true, nil
}

// Graph returns the knowledge graph built for a dataset.
func (s DatasetsService) Graph(ctx context.Context, id string) (Value, error) {
	return s.Client.Get(ctx, resourcePath("api/v1/datasets/%s/graph", id))
}

// Data returns the data items stored in a dataset.
func (s DatasetsService) Data(ctx context.Context, id string) (Value, error) {
	return s.Client.Get(ctx, resourcePath("api/v1/datasets/%s/data", id))
}

// Status returns the processing status of a dataset.
func (s DatasetsService) Status(ctx context.Context, id string) (Value, error) {
	return s.Client.Get(ctx, resourcePath("api/v1/datasets/%s/status", id))
}

// Add ingests data.
func (s DatasetsService) Add(ctx context.Context, req AddDataRequest) (*AddDataResponse, error) {
	return addData(ctx, s.Client, req)
}

func addData(ctx context.Context, r Requester, req AddDataRequest) (*AddDataResponse, error) {
	resp, err := r.Post(ctx, "api/v1/add", req.payload())
	if err != nil {
		return nil, err
	}
	out := AddDataResponseFromValue(resp)
	return &out, nil
}

// Cognify starts processing datasets into a knowledge graph.
func (s DatasetsService) Cognify(ctx context.Context, req CognifyRequest) (*CognifyResponse, error) {
	return cognify(ctx, s.Client, req)
}

func cognify(ctx context.Context, r Requester, req CognifyRequest) (*CognifyResponse, error) {
	resp, err := r.Post(ctx, "api/v1/cognify", req.payload())
	if err != nil {
		return nil, err
	}
	out := CognifyResponseFromValue(resp)
	return &out, nil
}

// unwrap returns v[key] when present, otherwise v itself.
func unwrap(v Value, key string) Value {
	if inner, ok := v.Lookup(key); ok {
		return inner
	}
	return v
}
