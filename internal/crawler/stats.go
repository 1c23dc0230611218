package crawler

import "sync/atomic"

// stats tracks run counters across concurrent source tasks.
type stats struct {
	// found counts accepted articles.
	found atomic.Int64
	// duplicates counts links skipped by the dedup cache.
	duplicates atomic.Int64
	// rejected counts articles dropped by the date policy or a zero
	// relevance score.
	rejected atomic.Int64
	// failed counts fetch, discovery, validation, and extraction failures.
	failed atomic.Int64
}

func (s *stats) reset() {
	s.found.Store(0)
	s.duplicates.Store(0)
	s.rejected.Store(0)
	s.failed.Store(0)
}
