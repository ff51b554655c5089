package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetsListText(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "list")
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "ID")
	assert.Contains(t, res.stdout, "NAME")
	assert.Contains(t, res.stdout, "papers")
	assert.Contains(t, res.stdout, "meeting-notes")
	assert.Contains(t, res.stdout, papersID)

	calls := handler.calls("GET", "/api/v1/datasets")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer "+testAPIKey, calls[0].Header.Get("Authorization"))
}

func TestDatasetsListEnvelope(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, `{"datasets": [{"id": "a", "name": "wrapped"}]}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "wrapped")
}

func TestDatasetsListEmpty(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, `[]`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "list")
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "No datasets found")
}

func TestDatasetsListJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "list", "-o", "json")
	require.NoError(t, res.err)

	var datasets []map[string]any
	decodeJSON(t, res.stdout, &datasets)
	require.Len(t, datasets, 2)
	assert.Equal(t, "papers", datasets[0]["name"])
	assert.Equal(t, papersID, datasets[0]["id"])
}

func TestDatasetsListJQImpliesJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "list", "--jq", "[.[].name]", "--compact-json")
	require.NoError(t, res.err)
	assert.Equal(t, `["papers","meeting-notes"]`+"\n", res.stdout)
}

func TestDatasetsGetResolvesName(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK)).
		On("GET", "/api/v1/datasets/"+notesID, jsonResponse(200, `{
			"dataset": {"id": "`+notesID+`", "name": "meeting-notes", "owner_id": "u-1", "metadata": {"team": "ml"}}
		}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "get", "meeting")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Dataset "+notesID)
	assert.Contains(t, res.stdout, "u-1")
	assert.Contains(t, res.stdout, "team: ml")
}

func TestDatasetsGetByIDSkipsList(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets/"+papersID, jsonResponse(200, `{"id": "`+papersID+`", "name": "papers"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "get", papersID, "-o", "json")
	require.NoError(t, res.err)
	assert.Empty(t, handler.calls("GET", "/api/v1/datasets"))

	var ds map[string]any
	decodeJSON(t, res.stdout, &ds)
	assert.Equal(t, "papers", ds["name"])
}

func TestDatasetsGetAmbiguousName(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, `[
			{"id": "a", "name": "papers"},
			{"id": "b", "name": "Papers"}
		]`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "get", "papers")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Contains(t, res.stderr, "pass the dataset id")
}

func TestDatasetsGetNotFound(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets/"+papersID, jsonResponse(404, `{"detail": "Dataset not found"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "get", papersID)
	require.Error(t, res.err)
	assert.Equal(t, exitNotFound, ExitCode(res.err))
	assert.Contains(t, res.stderr, "Error:")
	assert.Contains(t, res.stderr, "Suggestion:")
}

func TestDatasetsGetNotFoundStructured(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets/"+papersID, jsonResponse(404, `{"detail": "Dataset not found"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "get", papersID, "-o", "json")
	require.Error(t, res.err)

	var payload struct {
		Error StructuredError `json:"error"`
	}
	decodeJSON(t, res.stderr, &payload)
	assert.Equal(t, 404, payload.Error.Status)
	assert.False(t, payload.Error.Retryable)
	assert.NotEmpty(t, payload.Error.Code)
}

func TestDatasetsCreateWithMetadata(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/datasets", jsonResponse(201, `{"id": "`+papersID+`", "name": "papers"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "create", "papers", "--meta", "year=2024", "--meta", "team=ml")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Created dataset "+papersID)

	calls := handler.calls("POST", "/api/v1/datasets")
	require.Len(t, calls, 1)
	assert.Equal(t, "papers", calls[0].Body["name"])
	assert.Equal(t, map[string]any{"year": float64(2024), "team": "ml"}, calls[0].Body["metadata"])
}

func TestDatasetsCreateWithoutMetadataOmitsField(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/datasets", jsonResponse(201, `{"id": "x", "name": "plain"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "create", "plain")
	require.NoError(t, res.err)

	calls := handler.calls("POST", "/api/v1/datasets")
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Body, "metadata")
}

func TestDatasetsCreateDryRun(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "create", "papers", "--dry-run")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[DRY-RUN] Would create dataset")
	assert.Contains(t, res.stdout, "POST api/v1/datasets")
	assert.Zero(t, handler.total())
}

func TestDatasetsDelete(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/api/v1/datasets/"+papersID, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "delete", papersID)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Deleted dataset "+papersID)
	assert.Len(t, handler.calls("DELETE", "/api/v1/datasets/"+papersID), 1)
}

func TestDatasetsDeleteDryRunJSON(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "delete", papersID, "--dry-run", "-o", "json")
	require.NoError(t, res.err)
	assert.Zero(t, handler.total())

	var out map[string]any
	decodeJSON(t, res.stdout, &out)
	assert.Equal(t, true, out["dry_run"])
	preview := out["preview"].(map[string]any)
	assert.Equal(t, "DELETE", preview["method"])
}

func TestDatasetsBulkDeletePartialFailure(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK)).
		On("DELETE", "/api/v1/datasets/"+papersID, jsonResponse(200, `{}`)).
		On("DELETE", "/api/v1/datasets/"+notesID, jsonResponse(500, `{"detail": "boom"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "bulk-delete", papersID, "meeting-notes", "--no-progress")
	require.Error(t, res.err)
	assert.Equal(t, exitServer, ExitCode(res.err))
	assert.Contains(t, res.stdout, "Deleted 1 of 2 datasets")
	assert.Contains(t, res.stderr, "1 of 2 deletions failed")
}

func TestDatasetsBulkDeleteJSON(t *testing.T) {
	handler := newRouteHandler().
		On("DELETE", "/api/v1/datasets/"+papersID, jsonResponse(200, `{}`)).
		On("DELETE", "/api/v1/datasets/"+notesID, jsonResponse(200, `{}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "bulk-delete", papersID, notesID, "-o", "json", "--concurrency", "1")
	require.NoError(t, res.err)

	var out struct {
		Results   []BulkResult `json:"results"`
		Succeeded int          `json:"succeeded"`
		Failed    int          `json:"failed"`
	}
	decodeJSON(t, res.stdout, &out)
	assert.Equal(t, 2, out.Succeeded)
	assert.Zero(t, out.Failed)
	require.Len(t, out.Results, 2)
	assert.Equal(t, papersID, out.Results[0].ID)
	assert.Equal(t, notesID, out.Results[1].ID)
}

func TestDatasetsGraphPrintsRawJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets/"+papersID+"/graph", jsonResponse(200, `{"nodes": [{"id": "n1"}], "edges": []}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "graph", papersID, "--jq", ".nodes | length", "-o", "json")
	require.NoError(t, res.err)
	assert.Equal(t, "1\n", res.stdout)
}

func TestDatasetsStatusKeyValues(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets/"+papersID+"/status", jsonResponse(200, `{"status": "completed", "progress": 100}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "status", papersID)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "status:")
	assert.Contains(t, res.stdout, "completed")
	assert.Contains(t, res.stdout, "progress:")
}

func TestDatasetsAddFromStdin(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/add", jsonResponse(200, `{"success": true, "message": "queued"}`))
	setupTestEnv(t, handler)

	res := runCommandWithInput(t, "Cognee builds graphs", "datasets", "add", "--file", "-", "--dataset-name", "papers")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Added 1 item(s): queued")

	calls := handler.calls("POST", "/api/v1/add")
	require.Len(t, calls, 1)
	assert.Equal(t, "Cognee builds graphs", calls[0].Body["data"])
	assert.Equal(t, "papers", calls[0].Body["datasetName"])
	assert.NotContains(t, calls[0].Body, "datasetId")
}

func TestDatasetsAddMultipleItemsByDatasetName(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/datasets", jsonResponse(200, datasetsListOK)).
		On("POST", "/api/v1/add", jsonResponse(200, `{}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "add", "one", "two", "--dataset", "papers")
	require.NoError(t, res.err)

	calls := handler.calls("POST", "/api/v1/add")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"one", "two"}, calls[0].Body["data"])
	assert.Equal(t, papersID, calls[0].Body["datasetId"])
}

func TestDatasetsAddRequiresData(t *testing.T) {
	setupTestEnv(t, newRouteHandler())

	res := runCommand(t, "datasets", "add")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
}

func TestDatasetsCognifyBackground(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/api/v1/cognify", jsonResponse(202, `{"pipeline_run_id": "run-7", "message": "started"}`))
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "cognify", "papers", "--background")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Started pipeline run run-7: started")

	calls := handler.calls("POST", "/api/v1/cognify")
	require.Len(t, calls, 1)
	assert.Equal(t, []any{"papers"}, calls[0].Body["datasets"])
	assert.Equal(t, true, calls[0].Body["run_in_background"])
	assert.NotContains(t, calls[0].Body, "dataset_ids")
}

func TestDatasetsCreateRejectsBadName(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	res := runCommand(t, "datasets", "create", "team/papers")
	require.Error(t, res.err)
	assert.Equal(t, exitUsage, ExitCode(res.err))
	assert.Zero(t, handler.total())
}
