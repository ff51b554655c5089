package cognee

import (
	"fmt"
	"strconv"
	"strings"
)

// DatasetStatus is the processing state of a dataset.
type DatasetStatus string

const (
	DatasetStatusPending    DatasetStatus = "pending"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusCompleted  DatasetStatus = "completed"
	DatasetStatusFailed     DatasetStatus = "failed"
)

func (s DatasetStatus) IsValid() bool {
	switch s {
	case DatasetStatusPending, DatasetStatusProcessing, DatasetStatusCompleted, DatasetStatusFailed:
		return true
	}
	return false
}

// ParseDatasetStatus accepts a status name in any case.
func ParseDatasetStatus(s string) (DatasetStatus, error) {
	status := DatasetStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid dataset status %q (expected pending, processing, completed or failed)", s)
	}
	return status, nil
}

// SearchType selects the retrieval strategy for a search.
type SearchType string

const (
	SearchTypeSemantic SearchType = "semantic"
	SearchTypeKeyword  SearchType = "keyword"
	SearchTypeHybrid   SearchType = "hybrid"
)

func (t SearchType) IsValid() bool {
	switch t {
	case SearchTypeSemantic, SearchTypeKeyword, SearchTypeHybrid:
		return true
	}
	return false
}

// ParseSearchType accepts a search type name in any case. An empty string
// selects semantic search.
func ParseSearchType(s string) (SearchType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SearchTypeSemantic, nil
	}
	t := SearchType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid search type %q (expected semantic, keyword or hybrid)", s)
	}
	return t, nil
}

// Dataset is a named collection of ingested data.
type Dataset struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	OwnerID   string         `json:"owner_id,omitempty"`
}

// DatasetFromValue decodes a dataset object, accepting snake_case and
// camelCase keys.
func DatasetFromValue(v Value) Dataset {
	return Dataset{
		ID:        stringField(v, "id", "dataset_id"),
		Name:      stringField(v, "name"),
		Metadata:  objectField(v, "metadata"),
		CreatedAt: stringField(v, "created_at", "createdAt"),
		UpdatedAt: stringField(v, "updated_at", "updatedAt"),
		OwnerID:   stringField(v, "owner_id", "ownerId"),
	}
}

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func UserFromValue(v Value) User {
	return User{
		ID:        stringField(v, "id", "user_id"),
		Email:     stringField(v, "email"),
		Name:      stringField(v, "name"),
		CreatedAt: stringField(v, "created_at", "createdAt"),
	}
}

type SearchResult struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Score     float64        `json:"score"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	DatasetID string         `json:"dataset_id,omitempty"`
}

func SearchResultFromValue(v Value) SearchResult {
	return SearchResult{
		ID:        stringField(v, "id"),
		Text:      stringField(v, "text", "content"),
		Score:     floatField(v, "score", "similarity"),
		Metadata:  objectField(v, "metadata"),
		DatasetID: stringField(v, "dataset_id", "datasetId"),
	}
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// SearchResponseFromValue reads {"results": [...], "total": n}. A bare array
// is treated as the result list. Total defaults to the number of results.
func SearchResponseFromValue(v Value) SearchResponse {
	items := listField(v, "results")
	resp := SearchResponse{Results: make([]SearchResult, 0, len(items))}
	for _, item := range items {
		if item.IsObject() {
			resp.Results = append(resp.Results, SearchResultFromValue(item))
		}
	}
	resp.Total = len(resp.Results)
	if total, ok := v.Lookup("total"); ok {
		if n, ok := total.AsInt(); ok {
			resp.Total = int(n)
		}
	}
	return resp
}

type AddDataResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

func AddDataResponseFromValue(v Value) AddDataResponse {
	return AddDataResponse{
		Success: boolField(v, true, "success"),
		Message: stringField(v, "message"),
		Data:    objectField(v, "data"),
	}
}

type CognifyResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	PipelineRunID string         `json:"pipeline_run_id,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
}

func CognifyResponseFromValue(v Value) CognifyResponse {
	return CognifyResponse{
		Success:       boolField(v, true, "success"),
		Message:       stringField(v, "message"),
		PipelineRunID: stringField(v, "pipeline_run_id", "pipelineRunId"),
		Data:          objectField(v, "data"),
	}
}

// AddDataRequest ingests raw text, or a list of texts, into a dataset.
type AddDataRequest struct {
	Data        any
	DatasetName string
	DatasetID   string
}

func (r AddDataRequest) payload() map[string]any {
	body := map[string]any{"data": r.Data}
	if r.DatasetName != "" {
		body["datasetName"] = r.DatasetName
	}
	if r.DatasetID != "" {
		body["datasetId"] = r.DatasetID
	}
	return body
}

// CognifyRequest starts knowledge-graph processing for datasets.
type CognifyRequest struct {
	Datasets        []string
	DatasetIDs      []string
	RunInBackground bool
}

func (r CognifyRequest) payload() map[string]any {
	body := map[string]any{"run_in_background": r.RunInBackground}
	if len(r.Datasets) > 0 {
		body["datasets"] = r.Datasets
	}
	if len(r.DatasetIDs) > 0 {
		body["dataset_ids"] = r.DatasetIDs
	}
	return body
}

type SearchRequest struct {
	Query      string
	SearchType SearchType
	Datasets   []string
	DatasetIDs []string
	TopK       int
}

// DefaultTopK is used when SearchRequest.TopK is zero.
const DefaultTopK = 10

func (r SearchRequest) payload() map[string]any {
	searchType := r.SearchType
	if searchType == "" {
		searchType = SearchTypeSemantic
	}
	topK := r.TopK
	if topK == 0 {
		topK = DefaultTopK
	}
	body := map[string]any{
		"query":       r.Query,
		"search_type": string(searchType),
		"top_k":       topK,
	}
	if len(r.Datasets) > 0 {
		body["datasets"] = r.Datasets
	}
	if len(r.DatasetIDs) > 0 {
		body["dataset_ids"] = r.DatasetIDs
	}
	return body
}

// stringField returns the first present key as a string. Numeric ids are
// rendered in decimal.
func stringField(v Value, keys ...string) string {
	field, ok := v.Lookup(keys...)
	if !ok {
		return ""
	}
	if s, ok := field.AsString(); ok {
		return s
	}
	if n, ok := field.AsInt(); ok {
		return strconv.FormatInt(n, 10)
	}
	if f, ok := field.AsFloat(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if b, ok := field.AsBool(); ok {
		return strconv.FormatBool(b)
	}
	return ""
}

func floatField(v Value, keys ...string) float64 {
	field, ok := v.Lookup(keys...)
	if !ok {
		return 0
	}
	if f, ok := field.AsFloat(); ok {
		return f
	}
	if s, ok := field.AsString(); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

func boolField(v Value, fallback bool, keys ...string) bool {
	field, ok := v.Lookup(keys...)
	if !ok {
		return fallback
	}
	if b, ok := field.AsBool(); ok {
		return b
	}
	return fallback
}

func objectField(v Value, keys ...string) map[string]any {
	field, ok := v.Lookup(keys...)
	if !ok || !field.IsObject() {
		return nil
	}
	m, _ := field.Interface().(map[string]any)
	return m
}

// listField unwraps an envelope key. When the key is absent the value itself
// is the list: an array as-is, or the object's field values in key order.
func listField(v Value, key string) []Value {
	if inner, ok := v.Lookup(key); ok {
		v = inner
	}
	if items, ok := v.AsArray(); ok {
		return items
	}
	if fields, ok := v.AsObject(); ok {
		items := make([]Value, 0, len(fields))
		for _, k := range v.Keys() {
			items = append(items, fields[k])
		}
		return items
	}
	return nil
}
