package storage

import "errors"

var (
	ErrConnection     = errors.New("cannot connect to sessions database")
	ErrSchema         = errors.New("cannot prepare sessions table")
	ErrQuery          = errors.New("sessions query failed")
	ErrInvalidSession = errors.New("invalid session")
	ErrClosed         = errors.New("sessions storage is closed")
)

// IsUnavailable reports whether err means the storage can not serve any
// request, as opposed to a single failed query.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrConnection) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrClosed)
}
