package credstore

import "sync"

// MemoryStore keeps the record in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	rec *Record
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = &rec
}

func (s *MemoryStore) Get() (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil || s.rec.Credential == "" {
		return Record{}, false
	}
	return *s.rec, true
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
}
