package grid

import (
	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

// ResolveApproximateTarget implements graph.ApproximateTargetResolver.
//
// If the node closest to rawEnd (ignoring walkability and constraints) is not the
// walkable end node but is adjacent to it, the target becomes that node and every
// node surrounding it is accepted as reaching the target:
//
//	x x x      x
//	x O x    x O x
//	x x x      x
//
// for eight and four connected grids respectively; six connected grids use the
// hexagon neighbours.
func (g *Graph) ResolveApproximateTarget(walkableEnd graph.NodeID, rawEnd geom.Vec3) (graph.ApproximateTarget, bool) {
	closest := g.Nearest(rawEnd, nil).Node
	if !closest.Valid() || closest == walkableEnd {
		return graph.ApproximateTarget{}, false
	}
	if !g.adjacent(closest, walkableEnd) {
		return graph.ApproximateTarget{}, false
	}

	return graph.ApproximateTarget{
		Node:        closest,
		Position:    g.positions[closest],
		Surrounding: g.surrounding(closest),
	}, true
}

// adjacent reports whether b is a topological neighbour of a, regardless of walkability.
func (g *Graph) adjacent(a, b graph.NodeID) bool {
	ax, az := g.Coordinates(a)
	bx, bz := g.Coordinates(b)
	for _, o := range g.topology.offsets() {
		if ax+o.dx == bx && az+o.dz == bz {
			return true
		}
	}
	return false
}

// surrounding returns all in-bounds topological neighbours of n.
func (g *Graph) surrounding(n graph.NodeID) []graph.NodeID {
	x, z := g.Coordinates(n)
	offs := g.topology.offsets()
	out := make([]graph.NodeID, 0, len(offs))
	for _, o := range offs {
		if m := g.NodeAt(x+o.dx, z+o.dz); m.Valid() {
			out = append(out, m)
		}
	}
	return out
}
