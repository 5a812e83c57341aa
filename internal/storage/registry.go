package storage

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned when no factory is registered under a name
var ErrUnknownBackend = errors.New("unknown storage backend")

// Registry maps backend names to the factories that open them.
// Backend packages add themselves from init(), so the set depends on
// which packages the binary links.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]BackendFactory
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]BackendFactory)}
}

// Register makes factory available under name
func (r *Registry) Register(name string, factory BackendFactory) error {
	if name == "" || factory == nil {
		return errors.New("register backend: name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("register backend: %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names returns the registered backend names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open runs the factory registered under name
func (r *Registry) Open(name string, opts Options) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("opening backend %s: %w", name, ErrUnknownBackend)
	}

	backend, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("opening backend %s: %w", name, err)
	}
	return backend, nil
}

// OpenFirst tries candidates in order and returns the first backend that
// opens. skipped joins the errors of the candidates tried before it; err
// is set only when none opened.
func (r *Registry) OpenFirst(candidates []string, opts Options) (backend Backend, skipped error, err error) {
	var failures []error
	for _, name := range candidates {
		b, openErr := r.Open(name, opts)
		if openErr != nil {
			failures = append(failures, openErr)
			continue
		}
		return b, errors.Join(failures...), nil
	}

	if len(failures) == 0 {
		return nil, nil, errors.New("no storage backend candidates")
	}
	return nil, nil, errors.Join(failures...)
}

var defaultRegistry = NewRegistry()

// Register adds a backend to the process-wide registry used by NewManager
func Register(name string, factory BackendFactory) error {
	return defaultRegistry.Register(name, factory)
}

// Backends lists the backends linked into this binary
func Backends() []string {
	return defaultRegistry.Names()
}
