package operations

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pitchpulse/internal/infrastructure"
)

const operationTypeSeason = "season_pipeline"

// Manager executes pipeline operations. Steps run sequentially in
// dependency order, each under its own timeout, with retries for
// retryable failures. Every status change goes through the broadcaster
// so connected dashboards follow the run live.
type Manager struct {
	mu          sync.RWMutex
	registry    *Registry
	config      *Config
	broadcaster *StatusBroadcaster
	logger      *slog.Logger
	metrics     *infrastructure.BusinessMetrics
	operations  map[string]*OperationState
	cancels     map[string]context.CancelFunc
}

// NewManager creates a new operation manager
func NewManager(registry *Registry, config *Config, broadcaster *StatusBroadcaster, logger *slog.Logger) *Manager {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry:    registry,
		config:      config,
		broadcaster: broadcaster,
		logger:      logger,
		operations:  make(map[string]*OperationState),
		cancels:     make(map[string]context.CancelFunc),
	}
}

// SetMetrics attaches business metrics recording
func (m *Manager) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	m.metrics = metrics
}

// Execute runs a full pipeline operation and blocks until it finishes.
// The returned response reflects the final state of every step.
func (m *Manager) Execute(ctx context.Context, req *OperationRequest) (*OperationResponse, error) {
	if req == nil {
		return nil, NewValidationError("", "operation request is required")
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	order, err := m.registry.GetDependencyOrder()
	if err != nil {
		return nil, err
	}

	state := NewOperationState(req.ID)
	m.applyRequestConfig(state, req)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	m.operations[req.ID] = state
	m.cancels[req.ID] = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.cancels, req.ID)
		m.mu.Unlock()
	}()

	if m.broadcaster != nil {
		m.broadcaster.CreateOperation(req.ID, m.orderedSteps(order))
		m.broadcaster.StartOperation(req.ID)
	}

	infrastructure.RecordActiveOperationChange(ctx, m.metrics, 1, operationTypeSeason)
	defer infrastructure.RecordActiveOperationChange(ctx, m.metrics, -1, operationTypeSeason)

	state.Start()
	m.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", req.ID),
		slog.String("competition", req.Competition),
		slog.String("season", req.Season),
	)

	skipped := make(map[string]bool)
	var firstErr error

	for _, stepID := range order {
		step, stepErr := m.registry.Get(stepID)
		if stepErr != nil {
			firstErr = stepErr
			break
		}

		if reason, skip := m.shouldSkip(step, state, skipped); skip {
			skipped[stepID] = true
			stepState := NewStepState(step.ID(), step.Name())
			stepState.Skip(reason)
			state.SetStep(stepID, stepState)
			if m.broadcaster != nil {
				m.broadcaster.SkipStep(req.ID, stepID, reason)
			}
			m.logger.InfoContext(ctx, "step skipped",
				slog.String("operation_id", req.ID),
				slog.String("step", stepID),
				slog.String("reason", reason),
			)
			continue
		}

		if execErr := m.executeStep(runCtx, step, state); execErr != nil {
			if firstErr == nil {
				firstErr = execErr
			}
			if runCtx.Err() != nil || !m.config.ContinueOnError {
				break
			}
		}
	}

	return m.finishOperation(context.WithoutCancel(ctx), req.ID, state, firstErr, runCtx.Err() != nil)
}

func (m *Manager) applyRequestConfig(state *OperationState, req *OperationRequest) {
	state.SetConfig(ConfigKeyContinent, req.Continent)
	state.SetConfig(ConfigKeyCountry, req.Country)
	state.SetConfig(ConfigKeyCompetition, req.Competition)
	state.SetConfig(ConfigKeySeason, req.Season)
	state.SetConfig(ConfigKeyTournamentID, req.TournamentID)
	state.SetConfig(ConfigKeySlug, req.Slug)

	mode := req.Mode
	if mode == "" {
		mode = ModeAccumulative
	}
	state.SetConfig(ConfigKeyMode, mode)

	for k, v := range req.Parameters {
		state.SetConfig(k, v)
	}
}

func (m *Manager) orderedSteps(order []string) []Step {
	steps := make([]Step, 0, len(order))
	for _, id := range order {
		if step, err := m.registry.Get(id); err == nil {
			steps = append(steps, step)
		}
	}
	return steps
}

// shouldSkip reports whether a step must be skipped because one of its
// dependencies did not complete.
func (m *Manager) shouldSkip(step Step, state *OperationState, skipped map[string]bool) (string, bool) {
	for _, dep := range step.Dependencies() {
		if skipped[dep] {
			return "dependency " + dep + " was skipped", true
		}
		depState := state.GetStep(dep)
		if depState == nil || depState.Status != StepStatusCompleted {
			return "dependency " + dep + " did not complete", true
		}
	}
	return "", false
}

func (m *Manager) executeStep(ctx context.Context, step Step, state *OperationState) error {
	stepState := NewStepState(step.ID(), step.Name())
	state.SetStep(step.ID(), stepState)

	if err := step.Validate(state); err != nil {
		wrapped := WrapError(err, step.ID(), "step validation failed")
		stepState.Fail(wrapped)
		if m.broadcaster != nil {
			m.broadcaster.FailStep(state.ID, step.ID(), wrapped)
		}
		return wrapped
	}

	stepState.Start()
	if m.broadcaster != nil {
		m.broadcaster.StartStep(state.ID, step.ID())
	}

	timeout := m.config.GetStepTimeout(step.ID())
	retry := m.config.Retry
	if retry == nil {
		defaultRetry := NewRetryConfig()
		retry = &defaultRetry
	}

	start := time.Now()
	var err error

	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		stepCtx, cancel := context.WithTimeout(ctx, timeout)
		err = step.Execute(stepCtx, state)
		timedOut := err != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil {
			break
		}
		if ctx.Err() != nil {
			err = NewCancellationError(step.ID())
			break
		}
		if timedOut {
			err = NewTimeoutError(step.ID(), timeout.String())
		}
		if !IsRetryable(err) || attempt == retry.MaxAttempts {
			break
		}

		delay := calculateRetryDelay(retry, attempt)
		m.logger.WarnContext(ctx, "step failed, retrying",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err = NewCancellationError(step.ID())
		}
		if ctx.Err() != nil {
			break
		}
	}

	duration := time.Since(start)
	infrastructure.RecordOperationStepMetrics(ctx, m.metrics, state.ID, step.ID(), step.Name(), duration, err == nil)

	if err != nil {
		wrapped := WrapError(err, step.ID(), "")
		stepState.Fail(wrapped)
		if m.broadcaster != nil {
			m.broadcaster.FailStep(state.ID, step.ID(), wrapped)
		}
		m.logger.ErrorContext(ctx, "step failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", wrapped.Error()),
		)
		return wrapped
	}

	stepState.Complete()
	if m.broadcaster != nil {
		m.broadcaster.CompleteStep(state.ID, step.ID(), step.Name()+" completed")
	}
	m.logger.InfoContext(ctx, "step completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration),
	)
	return nil
}

func calculateRetryDelay(retry *RetryConfig, attempt int) time.Duration {
	delay := retry.InitialDelay
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * retry.Multiplier)
		if delay >= retry.MaxDelay {
			return retry.MaxDelay
		}
	}
	if delay > retry.MaxDelay {
		return retry.MaxDelay
	}
	return delay
}

func (m *Manager) finishOperation(ctx context.Context, id string, state *OperationState, runErr error, cancelled bool) (*OperationResponse, error) {
	duration := state.Duration()

	switch {
	case cancelled:
		state.Cancel()
		if m.broadcaster != nil {
			m.broadcaster.CancelOperation(id)
		}
	case runErr != nil || state.HasFailures():
		if runErr == nil {
			runErr = NewFatalError("one or more steps failed", nil)
		}
		state.Fail(runErr)
		if m.broadcaster != nil {
			m.broadcaster.FailOperation(id, runErr)
		}
	default:
		state.Complete()
		if m.broadcaster != nil {
			m.broadcaster.CompleteOperation(id, "Operation completed")
		}
	}

	success := runErr == nil && !cancelled
	infrastructure.RecordOperationMetrics(ctx, m.metrics, id, operationTypeSeason, duration, success, runErr)

	m.logger.InfoContext(ctx, "operation finished",
		slog.String("operation_id", id),
		slog.String("status", string(state.Status)),
		slog.Duration("duration", duration),
	)

	snapshot := state.Clone()
	resp := &OperationResponse{
		ID:       id,
		Status:   snapshot.Status,
		Duration: duration,
		Steps:    snapshot.Steps,
	}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	return resp, runErr
}

// GetOperation returns a copy of the state of an operation
func (m *Manager) GetOperation(id string) (*OperationState, error) {
	m.mu.RLock()
	state, exists := m.operations[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrOperationNotFound
	}
	return state.Clone(), nil
}

// ListOperations returns copies of all known operation states
func (m *Manager) ListOperations() []*OperationState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*OperationState, 0, len(m.operations))
	for _, state := range m.operations {
		states = append(states, state.Clone())
	}
	return states
}

// CancelOperation cancels a running operation. The run context is
// cancelled so the active step stops as soon as it observes it.
func (m *Manager) CancelOperation(id string) error {
	m.mu.Lock()
	cancel, running := m.cancels[id]
	_, exists := m.operations[id]
	m.mu.Unlock()

	if !exists {
		return ErrOperationNotFound
	}
	if !running {
		return ErrOperationNotRunning
	}

	cancel()
	m.logger.Info("operation cancellation requested", slog.String("operation_id", id))
	return nil
}
