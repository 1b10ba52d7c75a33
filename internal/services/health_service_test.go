package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/operations"
	ws "pitchpulse/internal/websocket"
	"pitchpulse/pkg/contracts"
)

func testHealthService(t *testing.T) *HealthService {
	t.Helper()

	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))

	logger := testLogger()
	hub := ws.NewHub(logger)
	hub.Start()
	t.Cleanup(hub.Stop)

	broadcaster := operations.NewStatusBroadcaster(nil, logger)
	t.Cleanup(broadcaster.Stop)
	manager := operations.NewManager(operations.NewRegistry(), operations.DefaultConfig(), broadcaster, logger)

	return NewHealthService(paths, manager, hub, logger)
}

func TestHealthCheck(t *testing.T) {
	hs := testHealthService(t)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, contracts.Version, status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestReadinessCheckAllReady(t *testing.T) {
	hs := testHealthService(t)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	require.Contains(t, status.Services, "websocket")
	require.Contains(t, status.Services, "operation")
	require.Contains(t, status.Services, "data")

	data := status.Services["data"].(ServiceHealth)
	assert.Equal(t, "ready", data.Status)
}

func TestReadinessCheckMissingDataDir(t *testing.T) {
	hs := testHealthService(t)
	require.NoError(t, os.RemoveAll(hs.paths.DataDir))

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	data := status.Services["data"].(ServiceHealth)
	assert.Equal(t, "not_ready", data.Status)
}

func TestReadinessCheckNilDependencies(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.MkdirAll(paths.DataDir, 0755))
	hs := NewHealthService(paths, nil, nil, testLogger())

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
}

func TestLivenessCheck(t *testing.T) {
	hs := testHealthService(t)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestVersionInfo(t *testing.T) {
	hs := testHealthService(t)

	info := hs.Version()
	assert.Equal(t, contracts.Version, info["version"])
	assert.Equal(t, contracts.APIVersion, info["api_version"])
	assert.Contains(t, info, "start_time")
}

func TestSystemStats(t *testing.T) {
	hs := testHealthService(t)
	require.NoError(t, os.WriteFile(filepath.Join(hs.paths.DataDir, "fixtures.json"), []byte("{}"), 0644))

	stats, err := hs.SystemStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, int64(2), stats.TotalSizeBytes)
	assert.Equal(t, 0, stats.WebSocketClients)
	assert.Equal(t, 0, stats.ActiveOperations)
	assert.NotEmpty(t, stats.GoVersion)
}
