package search

import "errors"

var (
	// ErrInvalidDimensions indicates a grid dimension that is zero or negative.
	ErrInvalidDimensions = errors.New("search: grid dimensions must all be positive")
	// ErrOutOfBounds indicates a position outside the grid.
	ErrOutOfBounds = errors.New("search: position out of bounds")
	// ErrAlreadyStarted is returned by Engine.Start when the engine has left the idle state.
	ErrAlreadyStarted = errors.New("search: engine already started")
	// ErrNotStarted is returned by Engine.Step before Start was called.
	ErrNotStarted = errors.New("search: engine not started")
)
