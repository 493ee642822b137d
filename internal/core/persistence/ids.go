package persistence

import (
	"sync"
	"time"
)

// IDSequence issues time-derived integer ids that strictly increase within
// the process.
type IDSequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDSequence(now func() time.Time) *IDSequence {
	if now == nil {
		now = time.Now
	}
	return &IDSequence{now: now}
}

// Next returns an id greater than floor and every id issued before.
func (s *IDSequence) Next(floor int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	s.last = id
	return id
}
