package session

import "errors"

// ErrAlreadyNamed is returned by SetNamed when the session has already
// completed login.
var ErrAlreadyNamed = errors.New("session already named")

// ErrClosed is returned by Send once the session has been torn down.
var ErrClosed = errors.New("session closed")
