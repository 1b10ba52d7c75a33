// Package events contains the event contract definitions for WebSocket
// communication between the dashboard frontend and the analytics server.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Core operational message - the primary event type
	MessageTypeOperationSnapshot MessageType = "operation:snapshot"

	// System messages
	MessageTypeSystemStatus  MessageType = "system:status"
	MessageTypeSystemMetrics MessageType = "system:metrics"

	// Dataset messages - broadcast when processed datasets change on disk
	MessageTypeDatasetUpdate MessageType = "dataset:update"

	// Connection messages
	MessageTypeConnect    MessageType = "connect"
	MessageTypeDisconnect MessageType = "disconnect"
	MessageTypeError      MessageType = "error"
)

// BaseMessage represents the base structure for all WebSocket messages
type BaseMessage struct {
	ID        string      `json:"id,omitempty"`       // Unique message ID
	Type      MessageType `json:"type"`               // Message type
	Timestamp time.Time   `json:"timestamp"`          // Message timestamp
	TraceID   string      `json:"trace_id,omitempty"` // Request trace ID
}

// WebSocketMessage represents a complete WebSocket message
type WebSocketMessage struct {
	BaseMessage
	Data    interface{} `json:"data,omitempty"`    // Message payload
	Subtype string      `json:"subtype,omitempty"` // e.g. league or season scope
	Action  string      `json:"action,omitempty"`  // e.g. "refresh"
}

// OperationSnapshot is the primary message type for all pipeline updates.
// Scrape, process and export progress all flow through this one shape.
type OperationSnapshot struct {
	OperationID string         `json:"operation_id"`
	Status      string         `json:"status"`       // pending|running|completed|failed|cancelled
	Progress    int            `json:"progress"`     // 0-100
	CurrentStep string         `json:"current_step"` // Current active step name
	Steps       []StepSnapshot `json:"steps"`        // All steps with their status
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// StepSnapshot represents the state of a single step
type StepSnapshot struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Status   string                 `json:"status"`   // pending|running|completed|failed|skipped
	Progress int                    `json:"progress"` // 0-100
	Message  string                 `json:"message,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"` // scrape/process counters
}

// DatasetUpdate announces that a season's datasets were rewritten and the
// dashboard should refetch the affected pages.
type DatasetUpdate struct {
	Continent   string    `json:"continent,omitempty"`
	Country     string    `json:"country,omitempty"`
	Competition string    `json:"competition"`
	Season      string    `json:"season"`
	Files       []string  `json:"files,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	BaseMessage
	Data struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
		Retry   bool        `json:"retry"`
		Fatal   bool        `json:"fatal"`
	} `json:"data"`
}

// SystemStatusEvent represents a system status event
type SystemStatusEvent struct {
	BaseMessage
	Data struct {
		Status     string            `json:"status"` // healthy|degraded|unhealthy
		Components map[string]string `json:"components"`
		Uptime     string            `json:"uptime"`
		Version    string            `json:"version"`
	} `json:"data"`
}

// SystemMetricsEvent represents system metrics event
type SystemMetricsEvent struct {
	BaseMessage
	Data struct {
		CPU         float64   `json:"cpu_percent"`
		Memory      float64   `json:"memory_percent"`
		Connections int       `json:"active_connections"`
		RequestRate float64   `json:"request_rate"`
		ErrorRate   float64   `json:"error_rate"`
		Timestamp   time.Time `json:"timestamp"`
	} `json:"data"`
}
