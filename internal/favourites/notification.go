package favourites

import "time"

// NotificationTTL is how long a notification stays visible.
const NotificationTTL = 3000 * time.Millisecond

// Notification messages, shown to the user verbatim.
const (
	MsgAlreadyFavourite = "This property is already in your favourites"
	MsgAdded            = "Added to favourites!"
	MsgRemoved          = "Removed from favourites"
	MsgCleared          = "All favourites cleared"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is the outcome message of the latest mutation.
type Notification struct {
	Message string `json:"message" yaml:"message"`
	Kind    Kind   `json:"kind" yaml:"kind"`

	// Generation increases with every notification the store raises.
	Generation uint64 `json:"generation" yaml:"generation"`
}
