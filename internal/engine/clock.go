package engine

import "sync/atomic"

// SeqClock hands out recording sequence numbers.
// Implemented by Clock and by testutil.DeterministicClock.
type SeqClock interface {
	Next() int64
	Current() int64
}

// Clock is the logical clock that stamps every recording with a strictly
// increasing seq. Wall-clock time never orders the audit log.
//
// Safe for concurrent use, although the engine assumes a single writer.
type Clock struct {
	seq atomic.Int64
}

var _ SeqClock = (*Clock)(nil)

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start.
// Resume uses it with the last seq found in the recording log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
