package search

import "math"

const (
	// DefaultTimeCheckInterval is the number of iterations between deadline checks.
	DefaultTimeCheckInterval = 500
	// DefaultMaxSearchedNodes is the runaway limit of a single search.
	DefaultMaxSearchedNodes = 1_000_000
	// AllTags is the tag mask that allows every tag.
	AllTags = math.MaxUint32
	// AllGraphs is the graph mask that allows every graph.
	AllGraphs = math.MaxUint32
)

type options struct {
	traversableTags   uint32
	tagPenalties      [32]uint32
	graphMask         uint32
	partial           bool
	heuristic         Heuristic
	heuristicScale    float64
	timeCheckInterval int
	maxSearchedNodes  int
	partitionCheck    bool
}

func defaultOptions() options {
	return options{
		traversableTags:   AllTags,
		graphMask:         AllGraphs,
		heuristic:         Euclidean,
		heuristicScale:    1,
		timeCheckInterval: DefaultTimeCheckInterval,
		maxSearchedNodes:  DefaultMaxSearchedNodes,
		partitionCheck:    true,
	}
}

// Option configures a Request.
type Option func(*options)

// WithTraversableTags sets the bitmask of node tags the search may enter.
// Bit i allows tag i.
func WithTraversableTags(mask uint32) Option {
	return func(o *options) {
		o.traversableTags = mask
	}
}

// WithTagPenalties sets the additional cost of entering a node per tag.
func WithTagPenalties(penalties [32]uint32) Option {
	return func(o *options) {
		o.tagPenalties = penalties
	}
}

// WithGraphMask sets the bitmask of graph indices the search may use.
func WithGraphMask(mask uint32) Option {
	return func(o *options) {
		o.graphMask = mask
	}
}

// WithPartial allows a best-effort result when the target cannot be reached.
// The result ends at the reached node with the lowest heuristic.
func WithPartial(partial bool) Option {
	return func(o *options) {
		o.partial = partial
	}
}

// WithHeuristic selects the heuristic. Defaults to Euclidean.
func WithHeuristic(h Heuristic) Option {
	return func(o *options) {
		o.heuristic = h
	}
}

// WithHeuristicScale multiplies the heuristic. Values above 1 make the
// heuristic inadmissible: searches get faster but may return longer paths.
// Non-positive values are ignored.
func WithHeuristicScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.heuristicScale = scale
		}
	}
}

// WithTimeCheckInterval sets how many iterations run between deadline checks.
// Values below 1 are treated as 1.
func WithTimeCheckInterval(n int) Option {
	return func(o *options) {
		o.timeCheckInterval = max(n, 1)
	}
}

// WithMaxSearchedNodes sets the runaway limit. Exceeding it fails the search
// with ErrSearchRunaway.
func WithMaxSearchedNodes(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSearchedNodes = n
		}
	}
}

// WithPartitionCheck toggles the area pre-check in Prepare. When disabled, a
// search between disconnected areas explores the whole start area and fails
// with ErrTargetUnreachable (or returns a partial result).
func WithPartitionCheck(enabled bool) Option {
	return func(o *options) {
		o.partitionCheck = enabled
	}
}
