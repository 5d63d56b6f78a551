package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

// Compile time checks.
var (
	_ graph.Graph                     = (*Graph)(nil)
	_ graph.ApproximateTargetResolver = (*Graph)(nil)
)

// ErrInvalidOptions is returned by New for unusable dimensions or topologies.
var ErrInvalidOptions = errors.New("grid: invalid options")

// Options configures a grid graph.
type Options struct {
	// Width is the number of nodes along X.
	Width int
	// Depth is the number of nodes along Z.
	Depth int
	// NodeSize is the world size of one node. Defaults to 1.
	NodeSize float64
	// Topology selects the neighbour connectivity. Defaults to Eight.
	Topology Topology
	// CutCorners allows diagonal moves past a blocked orthogonal neighbour.
	CutCorners bool
	// GraphIndex is the index matched against search graph masks.
	GraphIndex uint32
}

// Graph is a grid graph. Nodes start out walkable with tag 0 and no penalty.
//
// Mutating methods must not be called while a search is running on the graph.
// After edits that change walkability call RecalculateAreas, or let the next
// Area lookup do it.
type Graph struct {
	width, depth int
	nodeSize     float64
	topology     Topology
	cutCorners   bool
	graphIndex   uint32

	walkable  *bitset.BitSet
	tags      []uint8
	penalties []uint32
	positions []geom.Int3

	areas      []uint32
	areaCount  uint32
	areasDirty bool

	straightCost uint32
	// Rounded up so straight line heuristics never overestimate.
	diagonalCost uint32
}

// New creates a grid graph with every node walkable.
func New(opts Options) (*Graph, error) {
	if opts.Width <= 0 || opts.Depth <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidOptions, opts.Width, opts.Depth)
	}
	if opts.NodeSize == 0 {
		opts.NodeSize = 1
	}
	if opts.NodeSize < 0 {
		return nil, fmt.Errorf("%w: node size %v", ErrInvalidOptions, opts.NodeSize)
	}
	if opts.Topology == 0 {
		opts.Topology = Eight
	}
	if !opts.Topology.valid() {
		return nil, fmt.Errorf("%w: topology %d", ErrInvalidOptions, opts.Topology)
	}

	n := opts.Width * opts.Depth
	g := &Graph{
		width:        opts.Width,
		depth:        opts.Depth,
		nodeSize:     opts.NodeSize,
		topology:     opts.Topology,
		cutCorners:   opts.CutCorners,
		graphIndex:   opts.GraphIndex,
		walkable:     bitset.New(uint(n)),
		tags:         make([]uint8, n),
		penalties:    make([]uint32, n),
		positions:    make([]geom.Int3, n),
		areas:        make([]uint32, n),
		areasDirty:   true,
		straightCost: uint32(math.Round(opts.NodeSize * geom.FloatPrecision)),
		diagonalCost: uint32(math.Ceil(opts.NodeSize * geom.FloatPrecision * math.Sqrt2)),
	}

	for z := 0; z < g.depth; z++ {
		for x := 0; x < g.width; x++ {
			i := z*g.width + x
			g.walkable.Set(uint(i))
			g.positions[i] = g.center(x, z).Int3()
		}
	}

	return g, nil
}

// center returns the world position of the node at (x, z).
func (g *Graph) center(x, z int) geom.Vec3 {
	if g.topology == Six {
		return geom.Vec3{
			X: (float64(x) + float64(z)*0.5 + 0.5) * g.nodeSize,
			Z: (float64(z)*hexRowHeight + 0.5) * g.nodeSize,
		}
	}
	return geom.Vec3{
		X: (float64(x) + 0.5) * g.nodeSize,
		Z: (float64(z) + 0.5) * g.nodeSize,
	}
}

// Width returns the number of nodes along X.
func (g *Graph) Width() int { return g.width }

// Depth returns the number of nodes along Z.
func (g *Graph) Depth() int { return g.depth }

// NodeSize returns the world size of a node.
func (g *Graph) NodeSize() float64 { return g.nodeSize }

// Topology returns the neighbour connectivity.
func (g *Graph) Topology() Topology { return g.topology }

// CutCorners reports whether diagonal moves may pass blocked corners.
func (g *Graph) CutCorners() bool { return g.cutCorners }

// InBounds reports whether (x, z) is inside the grid.
func (g *Graph) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.width && z < g.depth
}

// NodeAt returns the node at (x, z), or graph.NoNode when out of bounds.
func (g *Graph) NodeAt(x, z int) graph.NodeID {
	if !g.InBounds(x, z) {
		return graph.NoNode
	}
	return graph.NodeID(z*g.width + x)
}

// Coordinates returns the grid coordinates of node n.
func (g *Graph) Coordinates(n graph.NodeID) (x, z int) {
	i := int(n)
	return i % g.width, i / g.width
}

// SetWalkable changes the walkability of the node at (x, z).
func (g *Graph) SetWalkable(x, z int, walkable bool) {
	n := g.NodeAt(x, z)
	if !n.Valid() {
		return
	}
	g.walkable.SetTo(uint(n), walkable)
	g.areasDirty = true
}

// SetTag sets the tag of the node at (x, z). Tags are in [0, 32).
func (g *Graph) SetTag(x, z int, tag uint8) {
	n := g.NodeAt(x, z)
	if !n.Valid() {
		return
	}
	g.tags[n] = tag & 31
}

// SetPenalty sets the entry penalty of the node at (x, z).
func (g *Graph) SetPenalty(x, z int, penalty uint32) {
	n := g.NodeAt(x, z)
	if !n.Valid() {
		return
	}
	g.penalties[n] = penalty
}

// NodeCount implements graph.Graph.
func (g *Graph) NodeCount() int { return g.width * g.depth }

// GraphIndex implements graph.Graph.
func (g *Graph) GraphIndex() uint32 { return g.graphIndex }

// Position implements graph.Graph.
func (g *Graph) Position(n graph.NodeID) geom.Int3 { return g.positions[n] }

// Walkable implements graph.Graph.
func (g *Graph) Walkable(n graph.NodeID) bool { return g.walkable.Test(uint(n)) }

// Tag implements graph.Graph.
func (g *Graph) Tag(n graph.NodeID) uint32 { return uint32(g.tags[n]) }

// Penalty implements graph.Graph.
func (g *Graph) Penalty(n graph.NodeID) uint32 { return g.penalties[n] }

// Area implements graph.Graph. Unwalkable nodes are in area 0.
func (g *Graph) Area(n graph.NodeID) uint32 {
	if g.areasDirty {
		g.RecalculateAreas()
	}
	return g.areas[n]
}

// Open implements graph.Graph.
func (g *Graph) Open(n graph.NodeID, t graph.Traversal) {
	x, z := g.Coordinates(n)
	for _, o := range g.topology.offsets() {
		m, cost, ok := g.step(x, z, o)
		if !ok || !t.CanTraverse(m) {
			continue
		}
		t.Relax(n, m, cost)
	}
}

// Neighbors returns the walkable neighbours of n that Open would consider,
// before any search specific filtering.
func (g *Graph) Neighbors(n graph.NodeID) []graph.NodeID {
	x, z := g.Coordinates(n)
	out := make([]graph.NodeID, 0, len(g.topology.offsets()))
	for _, o := range g.topology.offsets() {
		if m, _, ok := g.step(x, z, o); ok {
			out = append(out, m)
		}
	}
	return out
}

// step resolves the neighbour of (x, z) in direction o.
func (g *Graph) step(x, z int, o offset) (graph.NodeID, uint32, bool) {
	nx, nz := x+o.dx, z+o.dz
	m := g.NodeAt(nx, nz)
	if !m.Valid() || !g.walkable.Test(uint(m)) {
		return graph.NoNode, 0, false
	}
	if !o.diagonal {
		return m, g.straightCost, true
	}
	if !g.cutCorners {
		a := g.NodeAt(x+o.dx, z)
		b := g.NodeAt(x, z+o.dz)
		if !g.walkable.Test(uint(a)) || !g.walkable.Test(uint(b)) {
			return graph.NoNode, 0, false
		}
	}
	return m, g.diagonalCost, true
}
