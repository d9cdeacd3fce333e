package dashboard

import (
	"sync"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// Store exposes the analysis history, newest first.
type Store interface {
	List() []Record
	Prepend(record Record)
	Len() int
	Results() []emotion.Result
}

// MemoryStore keeps history for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Record
}

// NewMemoryStore returns an empty history.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make([]Record, 0, 16)}
}

// List returns a copy of the history, newest first.
func (s *MemoryStore) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.items...)
}

// Prepend inserts record at the front.
func (s *MemoryStore) Prepend(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Record, 0, len(s.items)+1)
	items = append(items, record)
	s.items = append(items, s.items...)
}

// Len reports the number of records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Results returns the classifications in history order.
func (s *MemoryStore) Results() []emotion.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]emotion.Result, 0, len(s.items))
	for _, item := range s.items {
		results = append(results, item.ModelResult)
	}
	return results
}
