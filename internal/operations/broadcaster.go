package operations

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WebSocketHub pushes operation updates to connected dashboard clients
type WebSocketHub interface {
	BroadcastUpdate(eventType, step, status string, metadata interface{})
}

// StatusBroadcaster is the single authority for operation status updates.
// All mutations go through a channel so updates apply in order, and every
// update broadcasts a complete snapshot rather than a delta.
type StatusBroadcaster struct {
	mu         sync.RWMutex
	operations map[string]*OperationSnapshot
	hub        WebSocketHub
	logger     *slog.Logger
	updates    chan updateRequest
	stop       chan struct{}
}

// OperationSnapshot is the complete state of an operation at a point in
// time. It is the only structure sent to the frontend.
type OperationSnapshot struct {
	OperationID string         `json:"operation_id"`
	Status      string         `json:"status"`
	Progress    int            `json:"progress"`
	CurrentStep string         `json:"current_step"`
	Steps       []StepSnapshot `json:"steps"`
	StartedAt   time.Time      `json:"started_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// StepSnapshot is the state of a single step within a snapshot
type StepSnapshot struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Status   string                 `json:"status"`
	Progress int                    `json:"progress"`
	Message  string                 `json:"message,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type updateRequest struct {
	operationID string
	updateFunc  func(*OperationSnapshot)
	done        chan struct{}
}

// NewStatusBroadcaster creates a new status broadcaster
func NewStatusBroadcaster(hub WebSocketHub, logger *slog.Logger) *StatusBroadcaster {
	if logger == nil {
		logger = slog.Default()
	}

	sb := &StatusBroadcaster{
		operations: make(map[string]*OperationSnapshot),
		hub:        hub,
		logger:     logger,
		updates:    make(chan updateRequest, 100),
		stop:       make(chan struct{}),
	}

	go sb.processUpdates()

	return sb
}

func (sb *StatusBroadcaster) processUpdates() {
	for {
		select {
		case <-sb.stop:
			return
		case req := <-sb.updates:
			sb.handleUpdate(req)
		}
	}
}

func (sb *StatusBroadcaster) handleUpdate(req updateRequest) {
	defer close(req.done)

	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, exists := sb.operations[req.operationID]
	if !exists {
		snapshot = &OperationSnapshot{
			OperationID: req.operationID,
			Status:      string(OperationStatusPending),
			StartedAt:   time.Now(),
			UpdatedAt:   time.Now(),
			Steps:       []StepSnapshot{},
		}
		sb.operations[req.operationID] = snapshot
	}

	req.updateFunc(snapshot)
	snapshot.UpdatedAt = time.Now()

	// Overall progress is the average across steps
	if len(snapshot.Steps) > 0 {
		total := 0
		for _, step := range snapshot.Steps {
			total += step.Progress
		}
		snapshot.Progress = total / len(snapshot.Steps)
	}

	if isTerminalStatus(snapshot.Status) && snapshot.CompletedAt == nil {
		now := time.Now()
		snapshot.CompletedAt = &now
	}

	sb.broadcast(snapshot)
}

func isTerminalStatus(status string) bool {
	switch OperationStatusValue(status) {
	case OperationStatusCompleted, OperationStatusFailed, OperationStatusCancelled:
		return true
	}
	return false
}

func (sb *StatusBroadcaster) broadcast(snapshot *OperationSnapshot) {
	if sb.hub == nil {
		return
	}

	sb.logger.Debug("broadcasting operation snapshot",
		slog.String("operation_id", snapshot.OperationID),
		slog.String("status", snapshot.Status),
		slog.Int("progress", snapshot.Progress),
		slog.String("current_step", snapshot.CurrentStep),
	)

	sb.hub.BroadcastUpdate("operation:snapshot", snapshot.OperationID, "update", snapshot)
}

// UpdateStatus applies an update to an operation snapshot and blocks until
// the update has been processed and broadcast.
func (sb *StatusBroadcaster) UpdateStatus(operationID string, updateFunc func(*OperationSnapshot)) {
	req := updateRequest{
		operationID: operationID,
		updateFunc:  updateFunc,
		done:        make(chan struct{}),
	}

	sb.updates <- req
	<-req.done
}

// CreateOperation initializes a new operation with the given steps.
// Steps appear in the snapshot in the order provided.
func (sb *StatusBroadcaster) CreateOperation(operationID string, steps []Step) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusPending)
		snapshot.Progress = 0
		snapshot.Steps = make([]StepSnapshot, len(steps))
		for i, step := range steps {
			snapshot.Steps[i] = StepSnapshot{
				ID:     step.ID(),
				Name:   step.Name(),
				Status: string(StepStatusPending),
			}
		}
		snapshot.Message = "Operation created"
	})
}

// StartOperation marks an operation as running
func (sb *StatusBroadcaster) StartOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusRunning)
		snapshot.Message = "Operation started"
	})
}

// StartStep marks a step as active
func (sb *StatusBroadcaster) StartStep(operationID, stepID string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		if step := findStep(snapshot, stepID); step != nil {
			step.Status = string(StepStatusActive)
			snapshot.CurrentStep = step.Name
		}
	})
}

// UpdateStepProgress updates a specific step's progress
func (sb *StatusBroadcaster) UpdateStepProgress(operationID, stepID string, progress int, message string) {
	sb.UpdateStepWithMetadata(operationID, stepID, progress, message, nil)
}

// UpdateStepWithMetadata updates a step's progress and attaches metadata.
// Progress is monotonic while a step is active so late updates cannot
// move the bar backwards.
func (sb *StatusBroadcaster) UpdateStepWithMetadata(operationID, stepID string, progress int, message string, metadata map[string]interface{}) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		step := findStep(snapshot, stepID)
		if step == nil {
			return
		}
		if progress > step.Progress || step.Status != string(StepStatusActive) {
			step.Progress = clampProgress(progress)
		}
		step.Message = message
		if metadata != nil {
			step.Metadata = metadata
		}
		if step.Progress >= 100 {
			step.Status = string(StepStatusCompleted)
		} else {
			step.Status = string(StepStatusActive)
			snapshot.CurrentStep = step.Name
		}
	})
}

func findStep(snapshot *OperationSnapshot, stepID string) *StepSnapshot {
	for i := range snapshot.Steps {
		if snapshot.Steps[i].ID == stepID {
			return &snapshot.Steps[i]
		}
	}
	return nil
}

func clampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// CompleteStep marks a step as completed
func (sb *StatusBroadcaster) CompleteStep(operationID, stepID string, message string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		if step := findStep(snapshot, stepID); step != nil {
			step.Status = string(StepStatusCompleted)
			step.Progress = 100
			step.Message = message
		}
	})
}

// FailStep marks a step as failed
func (sb *StatusBroadcaster) FailStep(operationID, stepID string, err error) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		if step := findStep(snapshot, stepID); step != nil {
			step.Status = string(StepStatusFailed)
			step.Error = err.Error()
		}
	})
}

// SkipStep marks a step as skipped
func (sb *StatusBroadcaster) SkipStep(operationID, stepID string, reason string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		if step := findStep(snapshot, stepID); step != nil {
			step.Status = string(StepStatusSkipped)
			step.Message = reason
		}
	})
}

// CompleteOperation marks an operation as completed
func (sb *StatusBroadcaster) CompleteOperation(operationID string, message string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusCompleted)
		snapshot.Progress = 100
		snapshot.CurrentStep = ""
		snapshot.Message = message
		for i := range snapshot.Steps {
			status := snapshot.Steps[i].Status
			if status == string(StepStatusActive) || status == string(StepStatusPending) {
				snapshot.Steps[i].Status = string(StepStatusCompleted)
				snapshot.Steps[i].Progress = 100
			}
		}
	})
}

// FailOperation marks an operation as failed
func (sb *StatusBroadcaster) FailOperation(operationID string, err error) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusFailed)
		snapshot.Error = err.Error()
		snapshot.CurrentStep = ""
	})
}

// CancelOperation marks an operation as cancelled
func (sb *StatusBroadcaster) CancelOperation(operationID string) {
	sb.UpdateStatus(operationID, func(snapshot *OperationSnapshot) {
		snapshot.Status = string(OperationStatusCancelled)
		snapshot.CurrentStep = ""
		snapshot.Message = "Operation cancelled by user"
	})
}

// GetSnapshot returns a copy of the current snapshot for an operation
func (sb *StatusBroadcaster) GetSnapshot(operationID string) (*OperationSnapshot, bool) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	snapshot, exists := sb.operations[operationID]
	if !exists {
		return nil, false
	}
	return copySnapshot(snapshot), true
}

// GetAllSnapshots returns copies of all current operation snapshots
func (sb *StatusBroadcaster) GetAllSnapshots() []*OperationSnapshot {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	snapshots := make([]*OperationSnapshot, 0, len(sb.operations))
	for _, snapshot := range sb.operations {
		snapshots = append(snapshots, copySnapshot(snapshot))
	}
	return snapshots
}

func copySnapshot(snapshot *OperationSnapshot) *OperationSnapshot {
	clone := *snapshot
	clone.Steps = make([]StepSnapshot, len(snapshot.Steps))
	copy(clone.Steps, snapshot.Steps)
	return &clone
}

// CleanupOldOperations removes finished operations older than maxAge
func (sb *StatusBroadcaster) CleanupOldOperations(ctx context.Context, maxAge time.Duration) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	now := time.Now()
	for id, snapshot := range sb.operations {
		if !isTerminalStatus(snapshot.Status) || snapshot.CompletedAt == nil {
			continue
		}
		if now.Sub(*snapshot.CompletedAt) > maxAge {
			delete(sb.operations, id)
			sb.logger.Info("cleaned up old operation",
				slog.String("operation_id", id),
				slog.String("status", snapshot.Status),
			)
		}
	}
}

// Stop shuts down the broadcaster's update loop
func (sb *StatusBroadcaster) Stop() {
	close(sb.stop)
}
