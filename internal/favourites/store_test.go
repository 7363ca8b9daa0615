package favourites

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/logging"
	"github.com/roach88/estate/internal/testutil"
)

func newTestStore(t *testing.T) (*Store, *testutil.ManualScheduler) {
	t.Helper()
	sched := testutil.NewManualScheduler()
	s := New(
		WithScheduler(sched.AfterFunc),
		WithLogger(logging.NewTestLogger(t)),
		WithIDGenerator(testutil.NewFixedIDGenerator("session-test")),
	)
	t.Cleanup(s.Close)
	return s, sched
}

func property(id string) catalog.Property {
	for _, p := range testutil.SampleProperties() {
		if p.ID == id {
			return p
		}
	}
	return catalog.Property{ID: id, Type: "flat"}
}

func assertNotification(t *testing.T, s *Store, msg string, kind Kind) {
	t.Helper()
	n := s.Notification()
	require.NotNil(t, n)
	assert.Equal(t, msg, n.Message)
	assert.Equal(t, kind, n.Kind)
}

func TestNew_Empty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, "session-test", s.ID())
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Favourites())
	assert.Nil(t, s.Notification())
}

func TestNew_DefaultSessionIDIsUUIDv7(t *testing.T) {
	s := New()
	defer s.Close()
	assert.Len(t, s.ID(), 36)
	assert.Equal(t, byte('7'), s.ID()[14])
}

func TestAdd(t *testing.T) {
	s, _ := newTestStore(t)

	assert.True(t, s.Add(property("prop-001")))
	assert.True(t, s.Add(property("prop-003")))

	assert.Equal(t, 2, s.Count())
	assert.True(t, s.IsFavourite("prop-001"))
	assert.False(t, s.IsFavourite("prop-002"))
	assert.Equal(t, []string{"prop-001", "prop-003"}, testutil.IDs(s.Favourites()))
	assertNotification(t, s, "Added to favourites!", KindSuccess)
}

func TestAdd_DuplicateWarns(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.Add(property("prop-002")))
	assert.False(t, s.Add(property("prop-002")))

	assert.Equal(t, 1, s.Count())
	assertNotification(t, s, "This property is already in your favourites", KindWarning)
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(property("prop-001"))
	s.Add(property("prop-002"))

	s.Remove("prop-001")
	assert.Equal(t, []string{"prop-002"}, testutil.IDs(s.Favourites()))
	assertNotification(t, s, "Removed from favourites", KindSuccess)
}

func TestRemove_AbsentStillNotifies(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(property("prop-001"))

	s.Remove("prop-999")
	assert.Equal(t, 1, s.Count())
	assertNotification(t, s, "Removed from favourites", KindSuccess)
}

func TestClear(t *testing.T) {
	s, sched := newTestStore(t)
	s.Add(property("prop-001"))
	s.Add(property("prop-004"))
	sched.Advance(NotificationTTL)
	require.Nil(t, s.Notification())

	assert.False(t, s.Clear(false))
	assert.Equal(t, 2, s.Count())
	assert.Nil(t, s.Notification(), "unconfirmed clear raises nothing")
	assert.Empty(t, sched.Pending())

	assert.True(t, s.Clear(true))
	assert.Equal(t, 0, s.Count())
	assertNotification(t, s, "All favourites cleared", KindSuccess)
}

func TestToggle_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	p := property("prop-005")

	assert.True(t, s.Toggle(p))
	assert.True(t, s.IsFavourite(p.ID))
	assertNotification(t, s, "Added to favourites!", KindSuccess)

	assert.False(t, s.Toggle(p))
	assert.False(t, s.IsFavourite(p.ID))
	assert.Equal(t, 0, s.Count())
	assertNotification(t, s, "Removed from favourites", KindSuccess)
}

func TestToggle_NeverWarns(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(property("prop-001"))

	s.Toggle(property("prop-002"))
	assertNotification(t, s, "Added to favourites!", KindSuccess)
	assert.Equal(t, 2, s.Count())
}

func TestFavourites_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(property("prop-001"))

	list := s.Favourites()
	list[0].Price = 1
	assert.Equal(t, float64(695000), s.Favourites()[0].Price)

	n := s.Notification()
	n.Message = "changed"
	assert.Equal(t, MsgAdded, s.Notification().Message)
}

func TestNotification_ExpiresAfterTTL(t *testing.T) {
	s, sched := newTestStore(t)
	s.Add(property("prop-001"))

	sched.Advance(NotificationTTL - time.Millisecond)
	require.NotNil(t, s.Notification())

	sched.Advance(time.Millisecond)
	assert.Nil(t, s.Notification())
	assert.Equal(t, 1, s.Count(), "expiry leaves the list alone")
}

func TestNotification_NewerSupersedesOlderExpiry(t *testing.T) {
	s, sched := newTestStore(t)
	s.Add(property("prop-001"))
	sched.Advance(2 * time.Second)

	s.Add(property("prop-002"))
	assert.Equal(t, []time.Duration{5 * time.Second}, sched.Pending(), "old expiry cancelled")

	sched.Advance(time.Second)
	require.NotNil(t, s.Notification(), "first deadline passed but the newer notification stays")

	sched.Advance(2 * time.Second)
	assert.Nil(t, s.Notification())
}

func TestNotification_StaleTimerIgnored(t *testing.T) {
	// Cancellation that never succeeds, as when a real timer has already
	// fired and is waiting for the lock.
	sched := testutil.NewManualScheduler()
	leaky := func(d time.Duration, fn func()) func() bool {
		sched.AfterFunc(d, fn)
		return func() bool { return false }
	}
	s := New(WithScheduler(leaky), WithLogger(logging.NewTestLogger(t)))
	defer s.Close()

	s.Add(property("prop-001"))
	sched.Advance(time.Second)
	s.Remove("prop-001")

	sched.Advance(2 * time.Second)
	n := s.Notification()
	require.NotNil(t, n, "stale timer must not clear the newer notification")
	assert.Equal(t, MsgRemoved, n.Message)
	assert.Equal(t, uint64(2), n.Generation)

	sched.Advance(time.Second)
	assert.Nil(t, s.Notification())
}

func TestNotification_GenerationIncreases(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(property("prop-001"))
	first := s.Notification().Generation
	s.Add(property("prop-001"))
	second := s.Notification().Generation
	assert.Greater(t, second, first)
}

func TestSubscribe(t *testing.T) {
	s, sched := newTestStore(t)

	var states []State
	unsubscribe := s.Subscribe(func(st State) { states = append(states, st) })

	s.Add(property("prop-001"))
	s.Toggle(property("prop-002"))
	sched.Advance(NotificationTTL)

	require.Len(t, states, 3)
	assert.Equal(t, 1, states[0].Count())
	assert.Equal(t, MsgAdded, states[0].Notification.Message)
	assert.Equal(t, 2, states[1].Count())
	assert.Nil(t, states[2].Notification)
	assert.Equal(t, 2, states[2].Count())

	unsubscribe()
	s.Remove("prop-001")
	assert.Len(t, states, 3)
}

func TestSubscribe_ListenerMayReadStore(t *testing.T) {
	s, _ := newTestStore(t)

	var counts []int
	s.Subscribe(func(State) { counts = append(counts, s.Count()) })
	s.Add(property("prop-003"))

	assert.Equal(t, []int{1}, counts)
}

func TestClose_CancelsExpiry(t *testing.T) {
	s, sched := newTestStore(t)
	s.Add(property("prop-001"))
	s.Close()

	assert.Empty(t, sched.Pending())
	sched.Advance(NotificationTTL)
	assert.NotNil(t, s.Notification())
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := New(WithLogger(logging.NewNoOp()))
	defer s.Close()

	props := testutil.SampleProperties()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := props[i%len(props)]
			s.Add(p)
			s.IsFavourite(p.ID)
			_ = s.Favourites()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(props), s.Count())
}

func TestStore_RealTimerExpires(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real timer")
	}
	s := New()
	defer s.Close()

	done := make(chan struct{})
	s.Subscribe(func(st State) {
		if st.Notification == nil {
			close(done)
		}
	})
	s.Add(property("prop-001"))

	select {
	case <-done:
	case <-time.After(NotificationTTL + 2*time.Second):
		t.Fatal("notification did not expire")
	}
}
