package facility

// Store is the immutable-per-load facility collection. It is populated once
// at startup and shared by reference; callers must not mutate the returned
// slices.
type Store struct {
	records []Facility
}

// NewStore wraps a loaded record slice. The store takes ownership.
func NewStore(records []Facility) *Store {
	return &Store{records: records}
}

// Records returns the full collection, in load order.
func (s *Store) Records() []Facility {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Filter applies the query against the full collection.
func (s *Store) Filter(q Query) []Facility {
	return Filter(s.records, q)
}

// Stats summarizes the full collection.
func (s *Store) Stats() Stats {
	return Summarize(s.records)
}
