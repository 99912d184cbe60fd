package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithHistoryLimit caps how many analyses are retained per player. Older
// analyses beyond the cap are dropped. Zero or negative keeps everything.
func WithHistoryLimit(n int) Option {
	return func(s *MemStore) {
		s.historyLimit = n
	}
}

// WithMaxRecords caps the total number of retained analyses; the oldest is
// dropped first. Zero or negative keeps everything.
func WithMaxRecords(n int) Option {
	return func(s *MemStore) {
		s.maxRecords = n
	}
}
