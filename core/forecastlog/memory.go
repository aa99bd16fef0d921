package forecastlog

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory. It is used in tests and
// when no persistent backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []LogRecord
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Append(_ context.Context, r LogRecord) error {
	m.mu.Lock()
	m.recs = append(m.recs, r)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Query(_ context.Context, q LogQuery) ([]LogRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res []LogRecord
	for _, r := range m.recs {
		if q.Match(r) {
			res = append(res, r)
		}
	}
	return q.limit(res), nil
}

func (m *MemoryStore) Close() error { return nil }
