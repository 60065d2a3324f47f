package dispatch

import "errors"

var (
	// ErrConfig is returned for malformed or inconsistent parameter
	// dictionaries.
	ErrConfig = errors.New("algopdhg/dispatch: invalid configuration")

	// ErrUnknownCommand is returned for an unrecognized command name.
	ErrUnknownCommand = errors.New("algopdhg/dispatch: unknown command")

	// ErrArgCount is returned when a command receives the wrong number of
	// arguments.
	ErrArgCount = errors.New("algopdhg/dispatch: wrong argument count")
)
