package operations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingHub struct {
	mu     sync.Mutex
	events []*OperationSnapshot
}

func (h *capturingHub) BroadcastUpdate(eventType, step, status string, metadata interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if snapshot, ok := metadata.(*OperationSnapshot); ok {
		h.events = append(h.events, copySnapshot(snapshot))
	}
}

func (h *capturingHub) last() *OperationSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.events) == 0 {
		return nil
	}
	return h.events[len(h.events)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testBroadcaster(t *testing.T) (*StatusBroadcaster, *capturingHub) {
	t.Helper()
	hub := &capturingHub{}
	sb := NewStatusBroadcaster(hub, testLogger())
	t.Cleanup(sb.Stop)
	return sb, hub
}

func pipelineSteps() []Step {
	return []Step{
		newNoopStep(StepIDScrape),
		newNoopStep(StepIDProcess, StepIDScrape),
	}
}

func TestBroadcasterCreateOperation(t *testing.T) {
	sb, hub := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, "pending", snapshot.Status)
	require.Len(t, snapshot.Steps, 2)
	assert.Equal(t, StepIDScrape, snapshot.Steps[0].ID)
	assert.Equal(t, "pending", snapshot.Steps[0].Status)

	require.NotNil(t, hub.last())
	assert.Equal(t, "op-1", hub.last().OperationID)
}

func TestBroadcasterStepLifecycle(t *testing.T) {
	sb, hub := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())
	sb.StartOperation("op-1")
	sb.StartStep("op-1", StepIDScrape)
	sb.UpdateStepProgress("op-1", StepIDScrape, 50, "halfway")

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, "running", snapshot.Status)
	assert.Equal(t, 50, snapshot.Steps[0].Progress)
	assert.Equal(t, "active", snapshot.Steps[0].Status)
	assert.Equal(t, 25, snapshot.Progress)

	sb.CompleteStep("op-1", StepIDScrape, "done")
	sb.CompleteStep("op-1", StepIDProcess, "done")
	sb.CompleteOperation("op-1", "all done")

	final := hub.last()
	require.NotNil(t, final)
	assert.Equal(t, "completed", final.Status)
	assert.Equal(t, 100, final.Progress)
	assert.NotNil(t, final.CompletedAt)
}

func TestBroadcasterProgressIsMonotonicWhileActive(t *testing.T) {
	sb, _ := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())
	sb.UpdateStepProgress("op-1", StepIDScrape, 60, "most of the way")
	sb.UpdateStepProgress("op-1", StepIDScrape, 40, "late update")

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, 60, snapshot.Steps[0].Progress)
}

func TestBroadcasterFailStepAndOperation(t *testing.T) {
	sb, hub := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())
	sb.StartOperation("op-1")
	sb.FailStep("op-1", StepIDScrape, errors.New("feed unreachable"))
	sb.FailOperation("op-1", errors.New("feed unreachable"))

	final := hub.last()
	require.NotNil(t, final)
	assert.Equal(t, "failed", final.Status)
	assert.Equal(t, "feed unreachable", final.Error)
	assert.Equal(t, "failed", final.Steps[0].Status)
	assert.NotNil(t, final.CompletedAt)
}

func TestBroadcasterSkipStep(t *testing.T) {
	sb, _ := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())
	sb.SkipStep("op-1", StepIDProcess, "dependency scrape did not complete")

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, "skipped", snapshot.Steps[1].Status)
	assert.Equal(t, "dependency scrape did not complete", snapshot.Steps[1].Message)
}

func TestBroadcasterSnapshotIsACopy(t *testing.T) {
	sb, _ := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	snapshot.Steps[0].Status = "mangled"

	fresh, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Equal(t, "pending", fresh.Steps[0].Status)
}

func TestBroadcasterUnknownStepIgnored(t *testing.T) {
	sb, _ := testBroadcaster(t)

	sb.CreateOperation("op-1", pipelineSteps())
	sb.UpdateStepProgress("op-1", "bogus", 50, "nope")

	snapshot, ok := sb.GetSnapshot("op-1")
	require.True(t, ok)
	assert.Len(t, snapshot.Steps, 2)
}

func TestBroadcasterCleanupOldOperations(t *testing.T) {
	sb, _ := testBroadcaster(t)

	sb.CreateOperation("old", pipelineSteps())
	sb.CompleteOperation("old", "done")
	sb.CreateOperation("active", pipelineSteps())
	sb.StartOperation("active")

	// Backdate the completed operation
	sb.mu.Lock()
	past := time.Now().Add(-2 * time.Hour)
	sb.operations["old"].CompletedAt = &past
	sb.mu.Unlock()

	sb.CleanupOldOperations(context.Background(), time.Hour)

	_, ok := sb.GetSnapshot("old")
	assert.False(t, ok)
	_, ok = sb.GetSnapshot("active")
	assert.True(t, ok)
	assert.Len(t, sb.GetAllSnapshots(), 1)
}
