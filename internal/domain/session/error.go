package session

import "errors"

// ErrInvalidSession covers unknown and expired tokens alike.
var ErrInvalidSession = errors.New("invalid or expired session")
