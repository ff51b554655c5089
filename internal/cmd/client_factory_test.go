package cmd

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognee/cognee-cli/pkg/cognee"
)

func TestClientFactoryAppliesExtraOptions(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/health", jsonResponse(200, `{"status": "ok"}`))
	setupTestEnv(t, handler)

	reg := prometheus.NewRegistry()
	obs, err := cognee.NewPrometheusObserver(reg)
	require.NoError(t, err)
	extraClientOptions = []cognee.Option{cognee.WithObserver(obs)}
	t.Cleanup(func() { extraClientOptions = nil })

	require.NoError(t, runCommand(t, "health").err)

	expected := `
# HELP cognee_client_attempts_total HTTP attempts made by the Cognee client, by method and status code
# TYPE cognee_client_attempts_total counter
cognee_client_attempts_total{code="200",method="GET"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "cognee_client_attempts_total"))
}

func TestClientFactoryFlagOverrides(t *testing.T) {
	isolateCLIEnv(t)
	t.Setenv("COGNEE_API_KEY", "sk-env-0000000")
	flags = rootFlags{BaseURL: "https://flag.example.com", BaseURLSet: true, Retries: 5, RetriesSet: true}
	t.Cleanup(func() { flags = rootFlags{} })

	res, err := newClientFactory().resolve()
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", res.Config.BaseURL())
	assert.Equal(t, 5, res.Config.MaxRetryAttempts())
	assert.Equal(t, "env", res.KeySource)
}
