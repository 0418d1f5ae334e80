package store

import "sync"

// Store wraps a HashTable with a read/write lock for use by the server.
// The table itself has no locking: it expects a single-owner load phase
// followed by lookups, and Store is where that discipline is enforced for
// concurrent network callers.
type Store struct {
	table *HashTable
	mu    sync.RWMutex
}

func NewStore(opts ...HashTableOption) *Store {
	return &Store{
		table: NewHashTable(opts...),
	}
}

func (s *Store) Set(key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Set(key, value)
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Get(key)
}

func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Keys()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Len()
}

// Snapshot copies every pair out of the table, with keys in bucket order.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, s.table.Len())
	for _, key := range s.table.Keys() {
		value, ok := s.table.Get(key)
		if ok {
			out[key] = value
		}
	}
	return out
}

// Destroy tears down the underlying table. The store must not be used
// afterwards.
func (s *Store) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Destroy()
}
