package worker

import (
	"sync"

	"github.com/google/uuid"
)

// Registry maps opaque operation handles to their Cancellable workers so
// an outer layer can cancel by handle. Cancellation always dispatches
// through the Cancellable interface; the registry never needs to know a
// worker's concrete result type.
type Registry struct {
	mu  sync.Mutex
	ops map[string]Cancellable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Cancellable)}
}

// Add registers an operation and returns its handle.
func (r *Registry) Add(op Cancellable) string {
	handle := uuid.NewString()
	r.mu.Lock()
	r.ops[handle] = op
	r.mu.Unlock()
	return handle
}

// Cancel requests cancellation of the operation behind handle. Unknown
// handles, including handles whose operation has already resolved and
// been removed, are a no-op.
func (r *Registry) Cancel(handle string) {
	r.mu.Lock()
	op, ok := r.ops[handle]
	r.mu.Unlock()
	if ok {
		op.Cancel()
	}
}

// Remove drops a handle from the registry. Removing an unknown handle is
// a no-op.
func (r *Registry) Remove(handle string) {
	r.mu.Lock()
	delete(r.ops, handle)
	r.mu.Unlock()
}

// Len returns the number of operations currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}
