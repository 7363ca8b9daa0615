package testutil

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler runs callbacks on simulated time. Nothing fires until
// Advance moves the clock past a callback's deadline.
//
// AfterFunc has the shape favourites.Scheduler expects, so a method value
// can be passed directly:
//
//	sched := testutil.NewManualScheduler()
//	store := favourites.New(favourites.WithScheduler(sched.AfterFunc))
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int64
	pending map[int64]*manualTimer
}

type manualTimer struct {
	id  int64
	due time.Duration
	fn  func()
}

// NewManualScheduler returns a scheduler at simulated time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[int64]*manualTimer)}
}

// AfterFunc schedules fn to run once d has elapsed. The returned function
// cancels it and reports whether it was still pending.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.pending[id] = &manualTimer{id: id, due: s.now + d, fn: fn}

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.pending[id]; !ok {
			return false
		}
		delete(s.pending, id)
		return true
	}
}

// Advance moves simulated time forward by d and runs every callback that
// falls due, in deadline order. Callbacks run without the scheduler lock
// held and may schedule further callbacks, which also run if they fall
// within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.earliestLocked(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		delete(s.pending, next.id)
		s.now = next.due
		s.mu.Unlock()

		next.fn()
	}
}

// earliestLocked returns the pending timer with the smallest deadline not
// after target, ties broken by scheduling order.
func (s *ManualScheduler) earliestLocked(target time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range s.pending {
		if t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

// Now returns the simulated time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the deadlines of callbacks not yet run, earliest first.
func (s *ManualScheduler) Pending() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.pending))
	for _, t := range s.pending {
		out = append(out, t.due)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
