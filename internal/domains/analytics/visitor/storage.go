package visitor

import "sync"

// VisitorKey is the fixed namespace key the visitor id lives under in
// whatever durable client storage backs the Provider.
const VisitorKey = "qt_visitor_id"

// Storage is the durable client-side storage capability. Implementations:
// cookie-backed (HTTP), in-memory (tests). Either method may fail (privacy
// mode, disabled cookies) and the Provider degrades instead of erroring.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// MemoryStorage is a map-backed Storage for tests and non-HTTP callers.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
