package steps

import (
	"sync"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// Registry is an in-memory step registry. Registration order is
// preserved for listing.
type Registry struct {
	mu    sync.RWMutex
	steps map[string]core.Step
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]core.Step)}
}

// Register adds a step. Duplicate IDs are rejected.
func (r *Registry) Register(step core.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := step.ID()
	if _, exists := r.steps[id]; exists {
		return core.ErrValidation(core.CodeDuplicateStep, "step already registered: "+id)
	}
	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by ID.
func (r *Registry) Get(id string) (core.Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, ok := r.steps[id]
	if !ok {
		return nil, core.ErrNotFound("step", id)
	}
	return step, nil
}

// List returns all registered step IDs in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
