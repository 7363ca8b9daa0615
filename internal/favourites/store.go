package favourites

import (
	"slices"
	"sync"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/logging"
)

// State is a snapshot of the store handed to listeners.
type State struct {
	Favourites   []catalog.Property `json:"favourites"`
	Notification *Notification      `json:"notification"`
}

// Count is the number of favourites in the snapshot.
func (s State) Count() int {
	return len(s.Favourites)
}

// Listener receives a snapshot after every state change.
type Listener func(State)

// Option configures a Store.
type Option func(*Store)

// WithScheduler replaces the wall-clock scheduler used for expiry.
func WithScheduler(sched Scheduler) Option {
	return func(s *Store) {
		if sched != nil {
			s.schedule = sched
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator sets the generator for the session id.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

type subscription struct {
	id int
	fn Listener
}

// Store is the session's favourites list plus its current notification.
// The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	id           string
	favourites   []catalog.Property
	notification *Notification
	generation   uint64
	cancelExpiry func() bool

	listeners []subscription
	nextSub   int

	schedule Scheduler
	ids      IDGenerator
	logger   logging.Logger
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		schedule: RealScheduler,
		ids:      UUIDv7Generator{},
		logger:   logging.NewNoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	s.logger = s.logger.With(logging.Fields{"component": "favourites", "session": s.id})
	return s
}

// ID returns the session id assigned at construction.
func (s *Store) ID() string {
	return s.id
}

// Add appends p unless a favourite with the same id exists. A duplicate
// leaves the list alone, raises a warning and returns false.
func (s *Store) Add(p catalog.Property) bool {
	s.mu.Lock()
	if s.indexLocked(p.ID) >= 0 {
		s.notifyLocked(MsgAlreadyFavourite, KindWarning)
		st := s.snapshotLocked()
		s.mu.Unlock()

		s.logger.Debug("duplicate favourite", logging.Fields{"id": p.ID})
		s.emit(st)
		return false
	}

	s.favourites = append(s.favourites, p)
	s.notifyLocked(MsgAdded, KindSuccess)
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("favourite added", logging.Fields{"id": p.ID, "count": st.Count()})
	s.emit(st)
	return true
}

// Remove drops any favourite with the given id. Removing an absent id is
// not an error; the success notification is raised either way.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	s.removeLocked(id)
	s.notifyLocked(MsgRemoved, KindSuccess)
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("favourite removed", logging.Fields{"id": id, "count": st.Count()})
	s.emit(st)
}

// Clear empties the list when confirmed is true and reports whether it
// did. An unconfirmed call changes nothing and raises no notification.
func (s *Store) Clear(confirmed bool) bool {
	if !confirmed {
		return false
	}

	s.mu.Lock()
	s.favourites = nil
	s.notifyLocked(MsgCleared, KindSuccess)
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("favourites cleared", nil)
	s.emit(st)
	return true
}

// Toggle removes p if it is a favourite and adds it otherwise, returning
// the new membership. Adding through Toggle never raises the duplicate
// warning.
func (s *Store) Toggle(p catalog.Property) bool {
	s.mu.Lock()
	var added bool
	if s.indexLocked(p.ID) >= 0 {
		s.removeLocked(p.ID)
		s.notifyLocked(MsgRemoved, KindSuccess)
	} else {
		s.favourites = append(s.favourites, p)
		s.notifyLocked(MsgAdded, KindSuccess)
		added = true
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("favourite toggled", logging.Fields{"id": p.ID, "favourite": added, "count": st.Count()})
	s.emit(st)
	return added
}

// IsFavourite reports whether a favourite with the given id exists.
func (s *Store) IsFavourite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// Count returns the number of favourites.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favourites)
}

// Favourites returns a copy of the list in insertion order.
func (s *Store) Favourites() []catalog.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Notification returns a copy of the visible notification, or nil.
func (s *Store) Notification() *Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notificationLocked()
}

// State returns a snapshot of the whole store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change,
// including expiry. The returned function unsubscribes.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
	}
}

// Close cancels the pending expiry and drops all listeners. The visible
// notification, if any, stays until the next mutation.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelExpiry != nil {
		s.cancelExpiry()
		s.cancelExpiry = nil
	}
	s.listeners = nil
}

// notifyLocked replaces the notification and schedules its expiry under
// a fresh generation.
func (s *Store) notifyLocked(msg string, kind Kind) {
	s.generation++
	gen := s.generation
	s.notification = &Notification{Message: msg, Kind: kind, Generation: gen}

	if s.cancelExpiry != nil {
		s.cancelExpiry()
	}
	s.cancelExpiry = s.schedule(NotificationTTL, func() { s.expire(gen) })
}

// expire clears the notification if it still belongs to gen.
func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || s.notification == nil {
		s.mu.Unlock()
		s.logger.Debug("stale expiry ignored", logging.Fields{"generation": gen})
		return
	}
	s.notification = nil
	s.cancelExpiry = nil
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("notification expired", logging.Fields{"generation": gen})
	s.emit(st)
}

func (s *Store) emit(st State) {
	s.mu.Lock()
	subs := slices.Clone(s.listeners)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.favourites, func(p catalog.Property) bool { return p.ID == id })
}

func (s *Store) removeLocked(id string) {
	s.favourites = slices.DeleteFunc(s.favourites, func(p catalog.Property) bool { return p.ID == id })
}

func (s *Store) copyLocked() []catalog.Property {
	out := make([]catalog.Property, len(s.favourites))
	copy(out, s.favourites)
	return out
}

func (s *Store) notificationLocked() *Notification {
	if s.notification == nil {
		return nil
	}
	n := *s.notification
	return &n
}

func (s *Store) snapshotLocked() State {
	return State{Favourites: s.copyLocked(), Notification: s.notificationLocked()}
}
