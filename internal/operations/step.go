package operations

import (
	"context"
	"sync"
	"time"
)

// Step is a single stage of a pipeline operation.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the operation state
	Execute(ctx context.Context, state *OperationState) error

	// Validate checks if the step can be executed with the current state
	Validate(state *OperationState) error

	// Dependencies returns the IDs of steps that must complete first
	Dependencies() []string
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime state of a step
type StepState struct {
	mu        sync.RWMutex           `json:"-"`
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Progress  float64                `json:"progress"`
	Message   string                 `json:"message"`
	Error     error                  `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
	s.Progress = 0
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Progress = 100
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// UpdateProgress updates the step progress and message
func (s *StepState) UpdateProgress(progress float64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Progress = progress
	s.Message = message
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStep provides the identity plumbing shared by step implementations.
type BaseStep struct {
	id           string
	name         string
	dependencies []string
}

// NewBaseStep creates a base step
func NewBaseStep(id, name string, dependencies ...string) BaseStep {
	return BaseStep{id: id, name: name, dependencies: dependencies}
}

// ID returns the step ID
func (b *BaseStep) ID() string { return b.id }

// Name returns the step name
func (b *BaseStep) Name() string { return b.name }

// Dependencies returns the step dependencies
func (b *BaseStep) Dependencies() []string { return b.dependencies }

// Validate provides a default validation that always passes
func (b *BaseStep) Validate(state *OperationState) error { return nil }
