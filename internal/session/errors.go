package session

import "errors"

var (
	// ErrNotFound is returned when a session or question id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSession is returned for session parameters that can never be stored.
	ErrInvalidSession = errors.New("invalid session")
)
