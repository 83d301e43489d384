package settings

import "sync"

// Store holds the authoritative in-memory settings per shop for the
// lifetime of the process. There is no persistence: a restart starts
// from an empty store.
type Store struct {
	mu       sync.Mutex
	records  map[string]Record
	defaults Defaults
}

// NewStore creates an empty store seeding new records from defaults.
func NewStore(defaults Defaults) *Store {
	return &Store{
		records:  make(map[string]Record),
		defaults: defaults,
	}
}

// GetOrCreate returns the record for shop, creating it from defaults on
// first access. Callers must validate that shop is non-empty.
func (s *Store) GetOrCreate(shop string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(shop)
}

// Apply merges an update into the shop's record and returns the result.
// The read-merge-write runs under one lock, so concurrent updates to
// the same shop cannot lose writes.
func (s *Store) Apply(shop string, update Update) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreateLocked(shop).Merge(update)
	s.records[shop] = record
	return record
}

// Len reports how many shops have a record.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store) getOrCreateLocked(shop string) Record {
	if record, ok := s.records[shop]; ok {
		return record
	}
	record := NewRecord(shop, s.defaults)
	s.records[shop] = record
	return record
}
