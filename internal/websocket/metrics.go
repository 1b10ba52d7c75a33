package websocket

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pitchpulse.websocket"

// Metrics records WebSocket telemetry through OpenTelemetry.
type Metrics struct {
	connectionsTotal   metric.Int64Counter
	connectionsActive  metric.Int64UpDownCounter
	connectionDuration metric.Float64Histogram
	messagesSent       metric.Int64Counter
	messagesReceived   metric.Int64Counter
	messageBytes       metric.Int64Counter
	droppedMessages    metric.Int64Counter
	broadcastsTotal    metric.Int64Counter
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// GetMetrics returns the shared metrics instance, nil if instrument
// creation failed.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		m, err := newMetrics()
		if err == nil {
			metricsInstance = m
		}
	})
	return metricsInstance
}

func newMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	connectionsTotal, err := meter.Int64Counter(
		"websocket_connections_total",
		metric.WithDescription("Total number of WebSocket connections"),
	)
	if err != nil {
		return nil, err
	}

	connectionsActive, err := meter.Int64UpDownCounter(
		"websocket_connections_active",
		metric.WithDescription("Number of active WebSocket connections"),
	)
	if err != nil {
		return nil, err
	}

	connectionDuration, err := meter.Float64Histogram(
		"websocket_connection_duration_seconds",
		metric.WithDescription("Duration of WebSocket connections"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	messagesSent, err := meter.Int64Counter(
		"websocket_messages_sent_total",
		metric.WithDescription("Total number of messages sent to clients"),
	)
	if err != nil {
		return nil, err
	}

	messagesReceived, err := meter.Int64Counter(
		"websocket_messages_received_total",
		metric.WithDescription("Total number of messages received from clients"),
	)
	if err != nil {
		return nil, err
	}

	messageBytes, err := meter.Int64Counter(
		"websocket_message_bytes_total",
		metric.WithDescription("Total bytes of WebSocket messages"),
	)
	if err != nil {
		return nil, err
	}

	droppedMessages, err := meter.Int64Counter(
		"websocket_dropped_messages_total",
		metric.WithDescription("Messages dropped because a client buffer was full"),
	)
	if err != nil {
		return nil, err
	}

	broadcastsTotal, err := meter.Int64Counter(
		"websocket_broadcasts_total",
		metric.WithDescription("Total number of broadcast operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		connectionsTotal:   connectionsTotal,
		connectionsActive:  connectionsActive,
		connectionDuration: connectionDuration,
		messagesSent:       messagesSent,
		messagesReceived:   messagesReceived,
		messageBytes:       messageBytes,
		droppedMessages:    droppedMessages,
		broadcastsTotal:    broadcastsTotal,
	}, nil
}

// RecordConnection records a client connecting
func (m *Metrics) RecordConnection(ctx context.Context) {
	if m == nil {
		return
	}
	m.connectionsTotal.Add(ctx, 1)
	m.connectionsActive.Add(ctx, 1)
}

// RecordDisconnection records a client disconnecting
func (m *Metrics) RecordDisconnection(ctx context.Context, duration time.Duration) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1)
	m.connectionDuration.Record(ctx, duration.Seconds())
}

// RecordMessageSent records a message delivered to a client
func (m *Metrics) RecordMessageSent(ctx context.Context, size int64) {
	if m == nil {
		return
	}
	m.messagesSent.Add(ctx, 1)
	m.messageBytes.Add(ctx, size, metric.WithAttributes(attribute.String("direction", "sent")))
}

// RecordMessageReceived records a message received from a client
func (m *Metrics) RecordMessageReceived(ctx context.Context, size int64) {
	if m == nil {
		return
	}
	m.messagesReceived.Add(ctx, 1)
	m.messageBytes.Add(ctx, size, metric.WithAttributes(attribute.String("direction", "received")))
}

// RecordDropped records a message dropped for a slow client
func (m *Metrics) RecordDropped(ctx context.Context) {
	if m == nil {
		return
	}
	m.droppedMessages.Add(ctx, 1)
}

// RecordBroadcast records one broadcast fan-out
func (m *Metrics) RecordBroadcast(ctx context.Context, clients, failed int64) {
	if m == nil {
		return
	}
	m.broadcastsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int64("clients", clients),
		attribute.Int64("failed", failed),
	))
}
