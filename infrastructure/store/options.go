package store

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithReevaluation controls whether a judge may resubmit for a key that
// already has a current version. It mirrors the owning tournament's
// allowReevaluation setting.
func WithReevaluation(allowed bool) Option {
	return func(s *MemoryStore) {
		s.allowReevaluation = allowed
	}
}

// WithClock injects the time source used to stamp accepted submissions.
// Tests use it to make EvaluatedAt deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator injects the evaluation id generator. The default
// produces UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
