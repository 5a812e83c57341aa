package storage

// Options carries the settings a backend factory may need
type Options struct {
	// Path is the database file for durable backends
	Path string
	// MaxBytes caps the total size of stored values; 0 means no limit
	MaxBytes int64
}

// Backend is a string-keyed medium that survives between runs
// (or, for the memory backend, at least for the life of the process)
type Backend interface {
	// Name returns the backend identifier (e.g., "sqlite", "memory")
	Name() string

	// Durable reports whether values outlive the process
	Durable() bool

	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error

	// Keys lists every stored key in sorted order
	Keys() ([]string, error)

	// Close releases any resources held by the backend
	Close() error
}

// BackendFactory is a function that creates a new instance of a Backend
type BackendFactory func(opts Options) (Backend, error)
