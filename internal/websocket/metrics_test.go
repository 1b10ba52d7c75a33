package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetMetricsIsSingleton(t *testing.T) {
	first := GetMetrics()
	second := GetMetrics()
	assert.Same(t, first, second)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// All recorders tolerate a nil receiver
	m.RecordConnection(ctx)
	m.RecordDisconnection(ctx, time.Second)
	m.RecordMessageSent(ctx, 128)
	m.RecordMessageReceived(ctx, 64)
	m.RecordDropped(ctx)
	m.RecordBroadcast(ctx, 3, 1)
}

func TestMetricsRecordAgainstNoopProvider(t *testing.T) {
	m := GetMetrics()
	ctx := context.Background()

	m.RecordConnection(ctx)
	m.RecordMessageSent(ctx, 256)
	m.RecordBroadcast(ctx, 1, 0)
	m.RecordDisconnection(ctx, 5*time.Second)
}
