// Package pipeline assembles the ranked emergency room list: latest bed
// snapshots, session preferences, the cached location fix, and the ranking
// policy, in one pass per request.
package pipeline

import "sync"

// Sequencer hands out monotonically increasing sequence numbers per session
// and accepts only the newest build as the session's current view. A slow
// build finishing after a faster later one is discarded instead of
// overwriting newer results.
type Sequencer struct {
	mu        sync.Mutex
	issued    map[string]uint64
	committed map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		issued:    make(map[string]uint64),
		committed: make(map[string]uint64),
	}
}

// Next issues the sequence number for a new build.
func (s *Sequencer) Next(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[sessionID]++
	return s.issued[sessionID]
}

// Commit accepts the build unless a newer one committed first.
func (s *Sequencer) Commit(sessionID string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.committed[sessionID] {
		return false
	}
	s.committed[sessionID] = seq
	return true
}

// Forget drops a session's counters.
func (s *Sequencer) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.issued, sessionID)
	delete(s.committed, sessionID)
}
