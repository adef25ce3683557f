package transaction

import (
	"sync/atomic"
	"time"
)

// Sequence hands out transaction ids that are distinct for the life of the process
type Sequence struct {
	next atomic.Int64
}

// NewSequence starts the sequence after start
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

// NewTimeSequence seeds the sequence from the current unix time modulo
// 100000, so ids stay short enough to read off a receipt.
func NewTimeSequence(now time.Time) *Sequence {
	return NewSequence(now.Unix() % 100000)
}

// Next returns the next id
func (s *Sequence) Next() int64 {
	return s.next.Add(1)
}
