package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopStep struct {
	BaseStep
}

func newNoopStep(id string, deps ...string) *noopStep {
	return &noopStep{BaseStep: NewBaseStep(id, id, deps...)}
}

func (s *noopStep) Execute(ctx context.Context, state *OperationState) error {
	return nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	step := newNoopStep("scrape")
	require.NoError(t, r.Register(step))

	got, err := r.Get("scrape")
	require.NoError(t, err)
	assert.Equal(t, "scrape", got.ID())

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("scrape")))
	err := r.Register(newNoopStep("scrape"))
	assert.Error(t, err)
}

func TestRegistryRejectsNilAndEmptyID(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newNoopStep("")))
}

func TestRegistryDependencyOrder(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("publish", "export")))
	require.NoError(t, r.Register(newNoopStep("scrape")))
	require.NoError(t, r.Register(newNoopStep("export", "process")))
	require.NoError(t, r.Register(newNoopStep("process", "scrape")))

	order, err := r.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"scrape", "process", "export", "publish"}, order)
}

func TestRegistryOrderStableForIndependentSteps(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("b")))
	require.NoError(t, r.Register(newNoopStep("a")))
	require.NoError(t, r.Register(newNoopStep("c")))

	order, err := r.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, order)
}

func TestRegistryDetectsMissingDependency(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("process", "scrape")))

	err := r.ValidateDependencies()
	require.Error(t, err)
	assert.Equal(t, ErrorTypeDependency, GetErrorType(err))
}

func TestRegistryDetectsCycle(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("a", "b")))
	require.NoError(t, r.Register(newNoopStep("b", "a")))

	_, err := r.GetDependencyOrder()
	assert.Error(t, err)
}

func TestRegistryListIDs(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newNoopStep("scrape")))
	require.NoError(t, r.Register(newNoopStep("process", "scrape")))

	assert.Equal(t, []string{"scrape", "process"}, r.ListIDs())
	assert.Len(t, r.List(), 2)
}
