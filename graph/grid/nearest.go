package grid

import (
	"math"

	"github.com/hupe1980/waypoint/geom"
	"github.com/hupe1980/waypoint/graph"
)

// Nearest implements graph.Graph. It scans rings of cells around the cell
// containing p and stops once no farther ring can hold a closer node.
func (g *Graph) Nearest(p geom.Vec3, c graph.Constraint) graph.NearestInfo {
	cx, cz := g.cellOf(p)

	// Lower bound on world distance per ring of index distance.
	ringStep := g.nodeSize
	if g.topology == Six {
		ringStep = g.nodeSize * 0.5
	}
	offCell := p.Sub(g.center(cx, cz))
	offCell.Y = 0
	slack := offCell.Magnitude()

	best := graph.NoNode
	bestDist := math.Inf(1)
	maxRing := max(g.width, g.depth)

	for r := 0; r <= maxRing; r++ {
		if best.Valid() && float64(r)*ringStep-slack > bestDist {
			break
		}
		g.forRing(cx, cz, r, func(n graph.NodeID) {
			if !c.Accepts(n) {
				return
			}
			d := p.Sub(g.positions[n].Vec3()).Magnitude()
			if d < bestDist {
				best, bestDist = n, d
			}
		})
	}

	if !best.Valid() {
		return graph.NearestInfo{Node: graph.NoNode}
	}
	return graph.NearestInfo{Node: best, Position: g.ClosestPointOnNode(best, p)}
}

// forRing calls fn for every in-bounds node whose index distance to (cx, cz) is r.
func (g *Graph) forRing(cx, cz, r int, fn func(graph.NodeID)) {
	if r == 0 {
		if n := g.NodeAt(cx, cz); n.Valid() {
			fn(n)
		}
		return
	}
	for dx := -r; dx <= r; dx++ {
		if n := g.NodeAt(cx+dx, cz-r); n.Valid() {
			fn(n)
		}
		if n := g.NodeAt(cx+dx, cz+r); n.Valid() {
			fn(n)
		}
	}
	for dz := -r + 1; dz <= r-1; dz++ {
		if n := g.NodeAt(cx-r, cz+dz); n.Valid() {
			fn(n)
		}
		if n := g.NodeAt(cx+r, cz+dz); n.Valid() {
			fn(n)
		}
	}
}

// cellOf returns the in-bounds cell closest to containing p.
func (g *Graph) cellOf(p geom.Vec3) (int, int) {
	var x, z int
	if g.topology == Six {
		zf := (p.Z/g.nodeSize - 0.5) / hexRowHeight
		z = int(math.Round(zf))
		x = int(math.Round(p.X/g.nodeSize - 0.5 - float64(z)*0.5))
	} else {
		x = int(math.Floor(p.X / g.nodeSize))
		z = int(math.Floor(p.Z / g.nodeSize))
	}
	return clamp(x, 0, g.width-1), clamp(z, 0, g.depth-1)
}

// ClosestPointOnNode implements graph.ApproximateTargetResolver.
func (g *Graph) ClosestPointOnNode(n graph.NodeID, p geom.Vec3) geom.Vec3 {
	c := g.positions[n].Vec3()
	half := g.nodeSize * 0.5
	if g.topology == Six {
		d := geom.Vec3{X: p.X - c.X, Z: p.Z - c.Z}
		if m := d.Magnitude(); m > half {
			d = d.Scale(half / m)
		}
		return geom.Vec3{X: c.X + d.X, Y: c.Y, Z: c.Z + d.Z}
	}
	return geom.Vec3{
		X: math.Min(math.Max(p.X, c.X-half), c.X+half),
		Y: c.Y,
		Z: math.Min(math.Max(p.Z, c.Z-half), c.Z+half),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
