package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/config"
	"pitchpulse/internal/services"
	"pitchpulse/pkg/contracts"
)

func healthTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	base := t.TempDir()
	paths := &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		DatasetsDir:   filepath.Join(base, "data", "datasets"),
	}
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))

	svc := services.NewHealthService(paths, nil, nil, testLogger())
	handler := NewHealthHandler(svc, testLogger())

	r := handler.Routes()
	return httptest.NewServer(r)
}

func TestHealthCheckEndpoint(t *testing.T) {
	srv := healthTestServer(t)
	defer srv.Close()

	code, body := getJSON(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, contracts.Version, body["version"])
}

func TestLivenessEndpoint(t *testing.T) {
	srv := healthTestServer(t)
	defer srv.Close()

	code, body := getJSON(t, srv.URL+"/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", body["status"])
	assert.Contains(t, body["runtime"], "goroutines")
}

func TestReadinessEndpointNotReady(t *testing.T) {
	// nil hub and manager are reported as not ready
	srv := healthTestServer(t)
	defer srv.Close()

	code, body := getJSON(t, srv.URL+"/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestSystemStatsEndpoint(t *testing.T) {
	srv := healthTestServer(t)
	defer srv.Close()

	code, body := getJSON(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "uptime_seconds")
	assert.Contains(t, body, "go_version")
}
