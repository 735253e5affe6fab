package host

import "errors"

var (
	// ErrAlreadyRunning is returned when Run is called on a running loop.
	ErrAlreadyRunning = errors.New("loop already running")

	// ErrNoSource is returned when a loop is created without a key source.
	ErrNoSource = errors.New("loop has no key source")
)
