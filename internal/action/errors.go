package action

import "errors"

var (
	// ErrActionFailed is wrapped by every error returned from Action.Run.
	ErrActionFailed = errors.New("action failed")

	// ErrInvalidScript is returned by Compile for source that does not parse.
	ErrInvalidScript = errors.New("invalid action script")

	// ErrEngineClosed is returned after Engine.Close.
	ErrEngineClosed = errors.New("engine closed")
)
