package storage

import (
	"log"
)

// backendPreference is the order tried when no backend is configured
var backendPreference = []string{"sqlite", "memory"}

// Manager holds the backend in use and why a durable one was passed over
type Manager struct {
	backend  Backend
	degraded error
}

// NewManager opens the named backend, or the first of backendPreference
// that opens when backendName is empty. A backend that fails to open is
// replaced by the memory backend and the failure is kept in Degraded().
func NewManager(backendName string, opts Options) (*Manager, error) {
	return newManager(defaultRegistry, backendName, opts)
}

func newManager(r *Registry, backendName string, opts Options) (*Manager, error) {
	candidates := backendPreference
	if backendName != "" {
		candidates = []string{backendName}
	}

	backend, skipped, err := r.OpenFirst(candidates, opts)
	if err != nil {
		if backendName == "memory" {
			return nil, err
		}
		return fallback(err), nil
	}

	m := &Manager{backend: backend}
	if skipped != nil && !backend.Durable() {
		log.Printf("warning: %v; changes will not be saved", skipped)
		m.degraded = skipped
	}
	return m, nil
}

// fallback returns a memory-backed manager that remembers why
func fallback(cause error) *Manager {
	log.Printf("warning: %v; changes will not be saved", cause)
	return &Manager{backend: NewMemoryBackend(), degraded: cause}
}

// Backend returns the current backend
func (m *Manager) Backend() Backend {
	return m.backend
}

// Name returns the name of the current backend
func (m *Manager) Name() string {
	return m.backend.Name()
}

// Degraded returns why the preferred durable backend is not in use, or nil
func (m *Manager) Degraded() error {
	return m.degraded
}

// Close closes the current backend
func (m *Manager) Close() error {
	return m.backend.Close()
}
