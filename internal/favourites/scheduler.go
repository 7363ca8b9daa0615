package favourites

import (
	"time"

	"github.com/google/uuid"
)

// Scheduler runs fn once d has elapsed and returns a function that
// cancels the call, reporting whether it was still pending.
//
// fn must not be run synchronously from within the Scheduler call.
type Scheduler func(d time.Duration, fn func()) (cancel func() bool)

// RealScheduler schedules on wall-clock time.
func RealScheduler(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// IDGenerator produces session ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
