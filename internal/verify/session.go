package verify

import "sync"

// Session owns the append-only results of one verification run and the
// sample-id counter. All writes happen from the orchestrator's sequential
// loop; the mutex only guards concurrent readers such as the dashboard API.
type Session struct {
	mu      sync.RWMutex
	records []Record
	nextID  int
	usedIDs map[int]bool
}

// NewSession starts an empty batch session.
func NewSession() *Session {
	return &Session{nextID: 1, usedIDs: make(map[int]bool)}
}

// AssignSampleID returns the given id if it is set and unused, otherwise the
// next free sequential id.
func (s *Session) AssignSampleID(requested int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requested > 0 && !s.usedIDs[requested] {
		s.usedIDs[requested] = true
		return requested
	}
	for s.usedIDs[s.nextID] {
		s.nextID++
	}
	id := s.nextID
	s.usedIDs[id] = true
	s.nextID++
	return id
}

// Append adds a completed record to the session.
func (s *Session) Append(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Records returns a snapshot of the accumulated records in append order.
func (s *Session) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of accumulated records.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Reset drops all accumulated records and counters.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.nextID = 1
	s.usedIDs = make(map[int]bool)
}
