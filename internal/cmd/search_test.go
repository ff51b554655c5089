package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQueryTable(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/search", jsonResponse(200, `{
			"results": [
				{"id": "r1", "text": "Knowledge graphs link entities.", "score": 0.91, "dataset_id": "`+papersID+`"},
				{"id": "r2", "content": "Second\nline", "similarity": 0.5}
			],
			"total": 7
		}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "query", "what", "is", "a", "graph")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "SCORE")
	assert.Contains(t, res.stdout, "0.910")
	assert.Contains(t, res.stdout, "Knowledge graphs link entities.")
	assert.Contains(t, res.stdout, "Second line")
	assert.Contains(t, res.stderr, "Showing 2 of 7 results")

	calls := handler.calls("POST", "/api/v1/search")
	require.Len(t, calls, 1)
	assert.Equal(t, "what is a graph", calls[0].Body["query"])
	assert.Equal(t, "semantic", calls[0].Body["search_type"])
	assert.Equal(t, float64(10), calls[0].Body["top_k"])
}

func TestSearchQueryOptions(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK)).
		On("POST", "/api/v1/search", jsonResponse(200, `[]`))
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "query", "graphs", "--type", "HYBRID", "-k", "3", "--dataset", "papers", "--dataset-name", "raw")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "No results")

	calls := handler.calls("POST", "/api/v1/search")
	require.Len(t, calls, 1)
	assert.Equal(t, "hybrid", calls[0].Body["search_type"])
	assert.Equal(t, float64(3), calls[0].Body["top_k"])
	assert.Equal(t, []any{papersID}, calls[0].Body["dataset_ids"])
	assert.Equal(t, []any{"raw"}, calls[0].Body["datasets"])
}

func TestSearchQueryInvalidType(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "query", "graphs", "--type", "fuzzy")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Zero(t, handler.total())
}

func TestSearchQueryJSON(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/search", jsonResponse(200, `{"results": [{"id": "r1", "text": "hit", "score": 1}]}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "query", "graphs", "-o", "json", "--jq", ".results[0].text")
	require.NoError(t, res.err)
	assert.Equal(t, "\"hit\"\n", res.stdout)
}

func TestSearchQueryRateLimited(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/search", jsonResponse(429, `{"detail": "slow down"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "query", "graphs")
	require.Error(t, res.err)
	assert.Equal(t, exitRateLimited, ExitCode(res.err))
	assert.Len(t, handler.calls("POST", "/api/v1/search"), 1)
}

func TestSearchHistory(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/search", jsonResponse(200, `{"history": [
			{"query": "graphs", "search_type": "semantic", "created_at": "2024-05-01"}
		]}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "search", "history")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "QUERY")
	assert.Contains(t, res.stdout, "graphs")
	assert.Contains(t, res.stdout, "2024-05-01")
}
