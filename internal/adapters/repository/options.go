package repository

import "time"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithSnapshotInterval sets how often the leaderboard snapshot is published.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets the number of leading records kept in the snapshot.
func WithTopCacheSize(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.topCacheSize = n
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *TreapStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides the record id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *TreapStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
