package favourites

import "context"

type storeKey struct{}

// NewContext returns a copy of ctx bound to s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store bound to ctx, or a *MisuseError when
// there is none.
func FromContext(ctx context.Context) (*Store, error) {
	if ctx != nil {
		if s, ok := ctx.Value(storeKey{}).(*Store); ok && s != nil {
			return s, nil
		}
	}
	return nil, &MisuseError{Message: MsgMisuse}
}

// MustFromContext is FromContext that panics with the *MisuseError.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
