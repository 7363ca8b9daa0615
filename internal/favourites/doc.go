// Package favourites holds the session's favourited properties and the
// transient notification raised by each change.
//
// A Store owns its list and its current notification. Callers read
// derived values (Count, IsFavourite, Favourites) and change state only
// through Add, Remove, Clear and Toggle.
//
// NOTIFICATIONS:
//
// Every notifying mutation replaces the visible notification at once and
// schedules its expiry NotificationTTL later. Each notification carries a
// generation number; an expiry only clears the notification whose
// generation it was scheduled for, so a stale timer never clears a newer
// message.
//
// CONCURRENCY:
//
// Real timers fire on their own goroutine, so the Store serializes
// mutations and expiry with a mutex. Listeners run after the lock is
// released, in subscription order.
//
// SCOPE:
//
// A Store can be bound to a context with NewContext. FromContext fails
// with a *MisuseError when no Store is bound, which signals a caller bug.
package favourites
