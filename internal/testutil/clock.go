package testutil

import "sync/atomic"

// DeterministicClock hands out trace sequence numbers 1, 2, 3... A fresh
// clock per run keeps identical runs byte-identical. The zero value is
// ready to use and safe for concurrent callers.
type DeterministicClock struct {
	seq atomic.Int64
}

func NewDeterministicClock() *DeterministicClock {
	return new(DeterministicClock)
}

// Next returns the following sequence number.
func (c *DeterministicClock) Next() int64 { return c.seq.Add(1) }

// Current is the last number handed out, 0 before the first Next.
func (c *DeterministicClock) Current() int64 { return c.seq.Load() }
