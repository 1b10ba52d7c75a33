package operations

import (
	"fmt"
	"sync"
)

// Registry manages the set of steps that make up a pipeline run.
// Steps register once at startup and the registry resolves an execution
// order that honors declared dependencies.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string
}

// NewRegistry creates a new step registry
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
	}
}

// Register adds a step to the registry
func (r *Registry) Register(step Step) error {
	if step == nil {
		return NewValidationError("", "cannot register nil step")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := step.ID()
	if id == "" {
		return NewValidationError("", "step ID cannot be empty")
	}
	if _, exists := r.steps[id]; exists {
		return NewValidationError(id, fmt.Sprintf("step %s already registered", id))
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, NewValidationError(id, fmt.Sprintf("step %s not found", id))
	}
	return step, nil
}

// List returns all registered steps in registration order
func (r *Registry) List() []Step {
	r.mu.RLock()
	defer r.mu.RUnlock()

	steps := make([]Step, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// ListIDs returns all registered step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// GetDependencyOrder returns step IDs sorted so that every step appears
// after all of its dependencies. Ties break on registration order.
func (r *Registry) GetDependencyOrder() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inDegree := make(map[string]int, len(r.steps))
	dependents := make(map[string][]string, len(r.steps))

	for _, id := range r.order {
		step := r.steps[id]
		for _, dep := range step.Dependencies() {
			if _, exists := r.steps[dep]; !exists {
				return nil, NewDependencyError(id, dep,
					fmt.Sprintf("step %s depends on unregistered step %s", id, dep))
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	// Kahn's algorithm over registration order keeps runs deterministic.
	var queue []string
	for _, id := range r.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, dependent := range dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(r.steps) {
		return nil, NewValidationError("", "dependency cycle detected between steps")
	}
	return sorted, nil
}

// ValidateDependencies checks that every declared dependency is registered
// and that no cycles exist.
func (r *Registry) ValidateDependencies() error {
	_, err := r.GetDependencyOrder()
	return err
}
