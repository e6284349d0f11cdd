package mapping

import (
	"fmt"
	"sync"
)

// Store holds the mapping tables of live tasks in process memory.
// A task id can be written once; it stays retired after Delete.
type Store struct {
	mu      sync.RWMutex
	tables  map[string]*Table
	retired map[string]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tables:  make(map[string]*Table),
		retired: make(map[string]struct{}),
	}
}

// Put registers a task's table. Returns ErrTaskExists if the task id was used before.
func (s *Store) Put(t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[t.taskID]; ok {
		return fmt.Errorf("%w: %s", ErrTaskExists, t.taskID)
	}
	if _, ok := s.retired[t.taskID]; ok {
		return fmt.Errorf("%w: %s", ErrTaskExists, t.taskID)
	}

	s.tables[t.taskID] = t
	return nil
}

// Get returns the table for taskID.
func (s *Store) Get(taskID string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return t, nil
}

// Delete drops the table for taskID and retires the id.
func (s *Store) Delete(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[taskID]; ok {
		delete(s.tables, taskID)
		s.retired[taskID] = struct{}{}
	}
}

// Len returns the number of live tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}
