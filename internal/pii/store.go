package pii

import "sync"

// Store keeps per-run PII mappings between Intake (write) and Finalize
// (read, then delete). Implementations must be safe for concurrent use by
// unrelated runs; no cross-run ordering is required.
type Store interface {
	Put(runID string, mapping Mapping) error
	// Get returns the mapping and whether one exists. Absence at Finalize is
	// a hard stage failure for the caller, not an error here.
	Get(runID string) (Mapping, bool, error)
	Delete(runID string) error
}

// MemoryStore is the default in-process store: a map under one mutex.
type MemoryStore struct {
	mu       sync.Mutex
	mappings map[string]Mapping
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mappings: make(map[string]Mapping)}
}

func (s *MemoryStore) Put(runID string, mapping Mapping) error {
	dup := make(Mapping, len(mapping))
	for k, v := range mapping {
		dup[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[runID] = dup
	return nil
}

func (s *MemoryStore) Get(runID string) (Mapping, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mapping, ok := s.mappings[runID]
	if !ok {
		return nil, false, nil
	}
	dup := make(Mapping, len(mapping))
	for k, v := range mapping {
		dup[k] = v
	}
	return dup, true, nil
}

func (s *MemoryStore) Delete(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, runID)
	return nil
}
