package operations

import (
	"sync"
	"time"

	"pitchpulse/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState is the complete state of one pipeline run.
type OperationState struct {
	mu sync.RWMutex

	ID        string               `json:"id"`
	Status    OperationStatusValue `json:"status"`
	StartTime time.Time            `json:"start_time"`
	EndTime   *time.Time           `json:"end_time,omitempty"`

	// Step states keyed by step ID
	Steps map[string]*StepState `json:"steps"`

	// Values steps hand to later steps
	Context map[string]interface{} `json:"context"`

	// Configuration from the request
	Config map[string]interface{} `json:"config"`

	Error error `json:"error,omitempty"`
}

// NewOperationState creates a pending operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
		Config:    make(map[string]interface{}),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
}

// GetStep returns the state of a specific step
func (p *OperationState) GetStep(stepID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stepID]
}

// SetStep updates the state of a specific step
func (p *OperationState) SetStep(stepID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stepID] = state
}

// GetContext retrieves a value from the operation context
func (p *OperationState) GetContext(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Context[key]
	return val, ok
}

// SetContext sets a value in the operation context
func (p *OperationState) SetContext(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Context[key] = value
}

// GetConfig retrieves a configuration value
func (p *OperationState) GetConfig(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.Config[key]
	return val, ok
}

// GetConfigString retrieves a configuration value as a string, "" when
// absent or not a string.
func (p *OperationState) GetConfigString(key string) string {
	v, ok := p.GetConfig(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// SetConfig sets a configuration value
func (p *OperationState) SetConfig(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Config[key] = value
}

// SeasonRef builds the season reference the operation targets.
func (p *OperationState) SeasonRef() domain.SeasonRef {
	return domain.SeasonRef{
		Continent:   p.GetConfigString(ConfigKeyContinent),
		Country:     p.GetConfigString(ConfigKeyCountry),
		Competition: p.GetConfigString(ConfigKeyCompetition),
		Season:      p.GetConfigString(ConfigKeySeason),
	}
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// HasFailures returns true if any step has failed
func (p *OperationState) HasFailures() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, step := range p.Steps {
		if step.Status == StepStatusFailed {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the operation state
func (p *OperationState) Clone() *OperationState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clone := &OperationState{
		ID:        p.ID,
		Status:    p.Status,
		StartTime: p.StartTime,
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
		Config:    make(map[string]interface{}),
		Error:     p.Error,
	}

	if p.EndTime != nil {
		endTime := *p.EndTime
		clone.EndTime = &endTime
	}

	for k, v := range p.Steps {
		v.mu.RLock()
		stepCopy := &StepState{
			ID:        v.ID,
			Name:      v.Name,
			Status:    v.Status,
			StartTime: v.StartTime,
			EndTime:   v.EndTime,
			Progress:  v.Progress,
			Message:   v.Message,
			Error:     v.Error,
			Metadata:  make(map[string]interface{}),
		}
		for mk, mv := range v.Metadata {
			stepCopy.Metadata[mk] = mv
		}
		v.mu.RUnlock()
		clone.Steps[k] = stepCopy
	}

	for k, v := range p.Context {
		clone.Context[k] = v
	}
	for k, v := range p.Config {
		clone.Config[k] = v
	}

	return clone
}
