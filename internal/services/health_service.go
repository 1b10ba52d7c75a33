package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"pitchpulse/internal/config"
	"pitchpulse/internal/operations"
	ws "pitchpulse/internal/websocket"
	"pitchpulse/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	gitCommit    string
	paths        *config.Paths
	operation    *operations.Manager
	webSocketHub *ws.Hub
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds    float64 `json:"uptime_seconds"`
	TotalFiles       int     `json:"total_files"`
	TotalSizeBytes   int64   `json:"total_size_bytes"`
	WebSocketClients int     `json:"websocket_clients"`
	ActiveOperations int     `json:"active_operations"`
	GoVersion        string  `json:"go_version"`
	OS               string  `json:"os"`
	Arch             string  `json:"arch"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(paths *config.Paths, operation *operations.Manager, webSocketHub *ws.Hub, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("health service initialized",
		slog.String("version", contracts.Version),
		slog.String("build_time", contracts.BuildTime),
		slog.String("git_commit", contracts.GitCommit))

	return &HealthService{
		version:      contracts.Version,
		buildTime:    contracts.BuildTime,
		gitCommit:    contracts.GitCommit,
		paths:        paths,
		operation:    operation,
		webSocketHub: webSocketHub,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["websocket"] = hs.checkWebSocketHealth()
	status.Services["operation"] = hs.checkOperationHealth()
	status.Services["data"] = hs.checkDataHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"data_format":  contracts.DataFormatVersion,
		"api_version":  contracts.APIVersion,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "unknown" {
		result["build_time"] = hs.buildTime
	}
	if hs.gitCommit != "unknown" {
		result["git_commit"] = hs.gitCommit
	}

	return result
}

// SystemStats returns system statistics
func (hs *HealthService) SystemStats(ctx context.Context) (SystemStats, error) {
	var totalFiles int
	var totalSize int64

	filepath.Walk(hs.paths.DataDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalFiles++
			totalSize += info.Size()
		}
		return nil
	})

	stats := SystemStats{
		UptimeSeconds:  time.Since(hs.startTime).Seconds(),
		TotalFiles:     totalFiles,
		TotalSizeBytes: totalSize,
		GoVersion:      runtime.Version(),
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
	}
	if hs.webSocketHub != nil {
		stats.WebSocketClients = hs.webSocketHub.ClientCount()
	}
	if hs.operation != nil {
		for _, op := range hs.operation.ListOperations() {
			if op.Status == operations.OperationStatusRunning || op.Status == operations.OperationStatusPending {
				stats.ActiveOperations++
			}
		}
	}

	return stats, nil
}

// checkWebSocketHealth checks WebSocket service health
func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.webSocketHub == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "websocket hub not initialized",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", hs.webSocketHub.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

// checkOperationHealth checks operation manager health
func (hs *HealthService) checkOperationHealth() ServiceHealth {
	if hs.operation == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "operation manager not initialized",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d operations tracked", len(hs.operation.ListOperations())),
	}
}

// checkDataHealth checks that the dataset tree is reachable
func (hs *HealthService) checkDataHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "paths not configured",
		}
	}
	if _, err := os.Stat(hs.paths.DataDir); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("data directory unavailable: %v", err),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "data directory accessible",
	}
}
