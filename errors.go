package waypoint

import "errors"

var (
	// ErrClosed is returned when using a closed Pathfinder.
	ErrClosed = errors.New("pathfinder closed")

	// ErrNilGraph is returned by New when no graph is given.
	ErrNilGraph = errors.New("graph must not be nil")
)
