package provider

import (
	"fmt"
	"sync"
)

// Registry maps backend names to the factories that build them. The CLI
// registers the compiled-in sidecars and creates the one named in
// configuration.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates a new empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// RegisterFactory registers a named factory. A later registration under the
// same name replaces the earlier one.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a backend using the named factory and config.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("provider factory %q not registered", name)
	}
	return factory(cfg)
}
