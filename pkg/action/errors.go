package action

import "errors"

var (
	// ErrInvalidConfig indicates that an action's configuration is invalid.
	ErrInvalidConfig = errors.New("invalid action configuration")

	// ErrMissingContext indicates that required run context is missing.
	ErrMissingContext = errors.New("missing required run context")
)
