package operations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStep struct {
	BaseStep
	mu       sync.Mutex
	calls    int
	execute  func(ctx context.Context, state *OperationState) error
	validate func(state *OperationState) error
}

func newFakeStep(id string, deps ...string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, id, deps...)}
}

func (s *fakeStep) Execute(ctx context.Context, state *OperationState) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.execute != nil {
		return s.execute(ctx, state)
	}
	return nil
}

func (s *fakeStep) Validate(state *OperationState) error {
	if s.validate != nil {
		return s.validate(state)
	}
	return nil
}

func (s *fakeStep) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fastConfig() *Config {
	cfg := DefaultConfig()
	cfg.Retry = &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
	return cfg
}

func testManager(t *testing.T, cfg *Config, steps ...Step) *Manager {
	t.Helper()

	registry := NewRegistry()
	for _, step := range steps {
		require.NoError(t, registry.Register(step))
	}

	sb := NewStatusBroadcaster(&capturingHub{}, testLogger())
	t.Cleanup(sb.Stop)

	return NewManager(registry, cfg, sb, testLogger())
}

func seasonRequest() *OperationRequest {
	return &OperationRequest{
		Continent:    "South_America",
		Country:      "Argentina",
		Competition:  "Liga_Profesional",
		Season:       "2024",
		TournamentID: "t123",
		Slug:         "liga-profesional",
	}
}

func TestManagerExecuteRunsStepsInOrder(t *testing.T) {
	var order []string
	var mu sync.Mutex
	record := func(id string) func(context.Context, *OperationState) error {
		return func(ctx context.Context, state *OperationState) error {
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			return nil
		}
	}

	scrape := newFakeStep("scrape")
	scrape.execute = record("scrape")
	process := newFakeStep("process", "scrape")
	process.execute = record("process")
	export := newFakeStep("export", "process")
	export.execute = record("export")

	m := testManager(t, fastConfig(), export, scrape, process)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.NoError(t, err)

	assert.Equal(t, OperationStatusCompleted, resp.Status)
	assert.Equal(t, []string{"scrape", "process", "export"}, order)
	require.Len(t, resp.Steps, 3)
	for _, step := range resp.Steps {
		assert.Equal(t, StepStatusCompleted, step.Status)
	}
}

func TestManagerAssignsIDAndConfig(t *testing.T) {
	var seenRef string
	var seenMode string
	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		ref := state.SeasonRef()
		seenRef = ref.Competition + "/" + ref.Season
		seenMode = state.GetConfigString(ConfigKeyMode)
		return nil
	}

	m := testManager(t, fastConfig(), scrape)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Liga_Profesional/2024", seenRef)
	assert.Equal(t, ModeAccumulative, seenMode)
}

func TestManagerSkipsDependentsOnFailure(t *testing.T) {
	cfg := fastConfig()
	cfg.ContinueOnError = true

	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		return NewExecutionError("scrape", errors.New("feed down"), false)
	}
	process := newFakeStep("process", "scrape")
	export := newFakeStep("export", "process")
	standalone := newFakeStep("standalone")

	m := testManager(t, cfg, scrape, process, export, standalone)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.Error(t, err)

	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Equal(t, StepStatusFailed, resp.Steps["scrape"].Status)
	assert.Equal(t, StepStatusSkipped, resp.Steps["process"].Status)
	assert.Equal(t, StepStatusSkipped, resp.Steps["export"].Status)
	assert.Equal(t, StepStatusCompleted, resp.Steps["standalone"].Status)
	assert.Zero(t, process.callCount())
}

func TestManagerStopsAfterFailureByDefault(t *testing.T) {
	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		return NewExecutionError("scrape", errors.New("feed down"), false)
	}
	standalone := newFakeStep("standalone")

	m := testManager(t, fastConfig(), scrape, standalone)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.Error(t, err)

	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Zero(t, standalone.callCount())
}

func TestManagerRetriesRetryableFailures(t *testing.T) {
	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		if scrape.callCount() < 3 {
			return NewExecutionError("scrape", errors.New("transient"), true)
		}
		return nil
	}

	m := testManager(t, fastConfig(), scrape)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.NoError(t, err)

	assert.Equal(t, OperationStatusCompleted, resp.Status)
	assert.Equal(t, 3, scrape.callCount())
}

func TestManagerDoesNotRetryNonRetryable(t *testing.T) {
	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		return NewExecutionError("scrape", errors.New("bad config"), false)
	}

	m := testManager(t, fastConfig(), scrape)

	_, err := m.Execute(context.Background(), seasonRequest())
	require.Error(t, err)
	assert.Equal(t, 1, scrape.callCount())
}

func TestManagerStepTimeout(t *testing.T) {
	cfg := fastConfig()
	cfg.StepTimeouts = map[string]time.Duration{"scrape": 10 * time.Millisecond}
	cfg.Retry.MaxAttempts = 1

	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		<-ctx.Done()
		return ctx.Err()
	}

	m := testManager(t, cfg, scrape)

	_, err := m.Execute(context.Background(), seasonRequest())
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(err))
}

func TestManagerValidationFailureFailsStep(t *testing.T) {
	scrape := newFakeStep("scrape")
	scrape.validate = func(state *OperationState) error {
		return NewValidationError("scrape", "tournament ID is required")
	}

	m := testManager(t, fastConfig(), scrape)

	resp, err := m.Execute(context.Background(), seasonRequest())
	require.Error(t, err)

	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Zero(t, scrape.callCount())
}

func TestManagerCancelOperation(t *testing.T) {
	started := make(chan struct{})
	scrape := newFakeStep("scrape")
	scrape.execute = func(ctx context.Context, state *OperationState) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
	process := newFakeStep("process", "scrape")

	m := testManager(t, fastConfig(), scrape, process)

	req := seasonRequest()
	req.ID = "op-cancel"

	done := make(chan *OperationResponse, 1)
	go func() {
		resp, _ := m.Execute(context.Background(), req)
		done <- resp
	}()

	<-started
	require.NoError(t, m.CancelOperation("op-cancel"))

	resp := <-done
	assert.Equal(t, OperationStatusCancelled, resp.Status)
	assert.Zero(t, process.callCount())

	// Already finished
	assert.ErrorIs(t, m.CancelOperation("op-cancel"), ErrOperationNotRunning)
}

func TestManagerCancelUnknownOperation(t *testing.T) {
	m := testManager(t, fastConfig())
	assert.ErrorIs(t, m.CancelOperation("missing"), ErrOperationNotFound)
}

func TestManagerGetAndListOperations(t *testing.T) {
	scrape := newFakeStep("scrape")
	m := testManager(t, fastConfig(), scrape)

	req := seasonRequest()
	req.ID = "op-1"
	_, err := m.Execute(context.Background(), req)
	require.NoError(t, err)

	state, err := m.GetOperation("op-1")
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, state.Status)

	// Returned state is a copy
	state.Status = OperationStatusFailed
	fresh, err := m.GetOperation("op-1")
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, fresh.Status)

	assert.Len(t, m.ListOperations(), 1)

	_, err = m.GetOperation("missing")
	assert.ErrorIs(t, err, ErrOperationNotFound)
}

func TestManagerRejectsNilRequest(t *testing.T) {
	m := testManager(t, fastConfig())
	_, err := m.Execute(context.Background(), nil)
	assert.Error(t, err)
}
