package search

import (
	"fmt"
	"math"

	"github.com/hupe1980/waypoint/geom"
)

// Heuristic selects the distance estimate used for H.
type Heuristic uint8

const (
	// Euclidean is the straight line distance. Admissible for every graph whose
	// edge costs are at least the distance between the connected nodes.
	Euclidean Heuristic = iota
	// Manhattan is the sum of the axis distances. Only admissible on four
	// connected grids.
	Manhattan
	// DiagonalManhattan is the octile distance. Admissible on eight connected grids.
	DiagonalManhattan
	// None disables the heuristic; the search degrades to Dijkstra.
	None
)

// ParseHeuristic parses a heuristic name.
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "", "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "diagonal", "octile", "diagonal-manhattan":
		return DiagonalManhattan, nil
	case "none", "dijkstra":
		return None, nil
	default:
		return 0, fmt.Errorf("search: unknown heuristic %q", s)
	}
}

func (h Heuristic) String() string {
	switch h {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case DiagonalManhattan:
		return "diagonal-manhattan"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Heuristic(%d)", uint8(h))
	}
}

// Estimate returns the estimated cost between a and b scaled by scale.
// The result is rounded down so an admissible estimate stays admissible.
func (h Heuristic) Estimate(a, b geom.Int3, scale float64) uint32 {
	d := a.Sub(b)
	var dist float64
	switch h {
	case Euclidean:
		dist = d.Magnitude()
	case Manhattan:
		dist = absf(d.X) + absf(d.Y) + absf(d.Z)
	case DiagonalManhattan:
		x, z := absf(d.X), absf(d.Z)
		lo, hi := math.Min(x, z), math.Max(x, z)
		dist = lo*math.Sqrt2 + (hi - lo) + absf(d.Y)
	default:
		return 0
	}
	v := math.Floor(dist * scale)
	if v >= Infinity {
		return Infinity - 1
	}
	return uint32(v)
}

func absf(v int32) float64 {
	return math.Abs(float64(v))
}
