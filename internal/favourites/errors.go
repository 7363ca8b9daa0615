package favourites

import "errors"

// MsgMisuse is raised when a store is needed but none is bound.
const MsgMisuse = "useFavourites must be used within a FavouritesProvider"

// MisuseError reports a store accessed outside the scope that owns it.
// It marks a programming error, not a recoverable condition.
type MisuseError struct {
	Message string
}

func (e *MisuseError) Error() string {
	return e.Message
}

// IsMisuse reports whether err is or wraps a *MisuseError.
func IsMisuse(err error) bool {
	var me *MisuseError
	return errors.As(err, &me)
}
