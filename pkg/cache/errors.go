package cache

import "errors"

var (
	// ErrUnavailable is returned when a remote backend cannot be reached.
	ErrUnavailable = errors.New("cache unavailable")

	// ErrInvalidDir is returned when a file cache directory cannot be used.
	ErrInvalidDir = errors.New("invalid cache directory")
)
