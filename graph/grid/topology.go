package grid

import (
	"fmt"
	"math"
)

// Topology is the neighbour connectivity of a grid.
type Topology uint8

const (
	// Four connects the orthogonal neighbours of a square grid.
	Four Topology = 4
	// Six connects the neighbours of a hexagonal grid in axial coordinates.
	Six Topology = 6
	// Eight connects orthogonal and diagonal neighbours of a square grid.
	Eight Topology = 8
)

// ParseTopology parses "4", "6" or "8".
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "4", "four":
		return Four, nil
	case "6", "six", "hex":
		return Six, nil
	case "8", "eight":
		return Eight, nil
	default:
		return 0, fmt.Errorf("grid: unknown topology %q", s)
	}
}

func (t Topology) String() string {
	switch t {
	case Four:
		return "four"
	case Six:
		return "six"
	case Eight:
		return "eight"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(t))
	}
}

func (t Topology) valid() bool {
	return t == Four || t == Six || t == Eight
}

type offset struct {
	dx, dz   int
	diagonal bool
}

var (
	fourOffsets = []offset{
		{0, -1, false}, {1, 0, false}, {0, 1, false}, {-1, 0, false},
	}
	eightOffsets = []offset{
		{0, -1, false}, {1, 0, false}, {0, 1, false}, {-1, 0, false},
		{1, -1, true}, {1, 1, true}, {-1, 1, true}, {-1, -1, true},
	}
	// Axial hexagon neighbours.
	sixOffsets = []offset{
		{1, 0, false}, {-1, 0, false}, {0, 1, false}, {0, -1, false}, {1, -1, false}, {-1, 1, false},
	}
)

func (t Topology) offsets() []offset {
	switch t {
	case Four:
		return fourOffsets
	case Six:
		return sixOffsets
	default:
		return eightOffsets
	}
}

// hexRowHeight is the Z distance between hexagon rows relative to the node size.
var hexRowHeight = math.Sqrt(3) / 2
