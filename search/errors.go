package search

import "errors"

var (
	// ErrNoStartNode is returned when no traversable node is close to the start point.
	ErrNoStartNode = errors.New("couldn't find a node close to the start point")

	// ErrNoEndNode is returned when no traversable node is close to the end point.
	ErrNoEndNode = errors.New("couldn't find a node close to the end point")

	// ErrUntraversable is returned when a resolved endpoint node cannot be traversed.
	ErrUntraversable = errors.New("the node closest to the endpoint could not be traversed")

	// ErrDifferentPartitions is returned when start and end lie in disconnected areas.
	ErrDifferentPartitions = errors.New("there is no valid path to the target")

	// ErrTargetUnreachable is returned when the search exhausted the reachable
	// area without finding the target.
	ErrTargetUnreachable = errors.New("searched whole area but could not find target")

	// ErrNoReachableNodes is returned when the start node has no traversable neighbours.
	ErrNoReachableNodes = errors.New("no open points, the start node didn't open any nodes")

	// ErrSearchRunaway is returned when a search exceeds its node budget. It
	// indicates a broken graph or heuristic and is returned from ComputeSlice.
	ErrSearchRunaway = errors.New("probable infinite loop: search node limit exceeded")

	// ErrCanceled is returned when a request was canceled before it finished.
	ErrCanceled = errors.New("search canceled")
)
